package api

import (
	"encoding/json"
	"time"

	"github.com/dekarrin/nightrunner/internal/game"
	"github.com/dekarrin/nightrunner/server/dao"
	"github.com/dekarrin/nightrunner/server/nrs"
)

// note that these are *not* the DAO models; those are distinct and closer to
// the DB format they are in. Rather these are the models that are received from
// and sent to the client.

type InfoModel struct {
	Version struct {
		Server      string `json:"server"`
		NightRunner string `json:"nightrunner"`
	} `json:"version"`
}

type WorldModel struct {
	URI         string `json:"uri"`
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Format      string `json:"format"`
	Created     string `json:"created"`
	Modified    string `json:"modified"`
}

type SessionCreateRequest struct {
	WorldID string `json:"world_id"`
}

type SessionModel struct {
	URI       string   `json:"uri"`
	ID        string   `json:"id"`
	WorldID   string   `json:"world_id"`
	Room      string   `json:"room,omitempty"`
	Inventory []string `json:"inventory,omitempty"`
	Completed []string `json:"completed_events,omitempty"`
	Ended     bool     `json:"ended"`
	Created   string   `json:"created"`
	Modified  string   `json:"modified"`
}

type SessionStartResponse struct {
	Session   SessionModel      `json:"session"`
	Token     string            `json:"token"`
	Intro     string            `json:"intro"`
	FirstRoom game.EventMessage `json:"first_room"`
}

type CommandRequest struct {
	Input string `json:"input"`
}

type CommandModel struct {
	URI     string          `json:"uri"`
	ID      string          `json:"id"`
	Input   string          `json:"input"`
	Result  json.RawMessage `json:"result"`
	Created string          `json:"created"`
}

func worldModel(w dao.World) WorldModel {
	return WorldModel{
		URI:         PathPrefix + "/worlds/" + w.ID.String(),
		ID:          w.ID.String(),
		Name:        w.Name,
		Description: w.Description,
		Format:      w.Format,
		Created:     w.Created.Format(time.RFC3339),
		Modified:    w.Modified.Format(time.RFC3339),
	}
}

func sessionModel(s dao.Session) SessionModel {
	return SessionModel{
		URI:      PathPrefix + "/sessions/" + s.ID.String(),
		ID:       s.ID.String(),
		WorldID:  s.WorldID.String(),
		Ended:    s.Ended,
		Created:  s.Created.Format(time.RFC3339),
		Modified: s.Modified.Format(time.RFC3339),
	}
}

func sessionInfoModel(info nrs.SessionInfo) SessionModel {
	m := sessionModel(info.Session)
	m.Room = info.RoomName
	m.Inventory = info.Inventory
	m.Completed = info.Completed
	return m
}

func commandModel(c dao.Command) CommandModel {
	return CommandModel{
		URI:     PathPrefix + "/sessions/" + c.SessionID.String() + "/commands/" + c.ID.String(),
		ID:      c.ID.String(),
		Input:   c.Input,
		Result:  json.RawMessage(c.Result),
		Created: c.Created.Format(time.RFC3339),
	}
}
