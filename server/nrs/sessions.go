package nrs

import (
	"context"
	"errors"

	"github.com/dekarrin/nightrunner/internal/game"
	"github.com/dekarrin/nightrunner/server/dao"
	"github.com/dekarrin/nightrunner/server/serr"
	"github.com/google/uuid"
)

// SessionStart is a newly-started session along with the text to show the
// player before their first command.
type SessionStart struct {
	Session   dao.Session
	Intro     string
	FirstRoom game.EventMessage
}

// SessionInfo is the state of a session put in terms of the names the player
// sees.
type SessionInfo struct {
	Session   dao.Session
	RoomName  string
	Inventory []string
	Completed []string
}

// StartSession begins a new game in the world with the given ID.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If no world with that ID
// exists, it will match serr.ErrNotFound. If the stored world can no longer be
// loaded, it will match serr.ErrBadWorld. If the error occured due to an
// unexpected problem with the DB, it will match serr.ErrDB. Finally, if the ID
// is not valid, it will match serr.ErrBadArgument.
func (svc *Service) StartSession(ctx context.Context, worldID string) (SessionStart, error) {
	uuidID, err := parseID(worldID)
	if err != nil {
		return SessionStart{}, err
	}

	p, err := svc.parser(ctx, uuidID)
	if err != nil {
		return SessionStart{}, err
	}

	eng, err := game.Resume(p, game.NewState(p.Catalog()))
	if err != nil {
		return SessionStart{}, serr.New("", err, serr.ErrBadWorld)
	}

	first, err := eng.FirstRoomText()
	if err != nil {
		return SessionStart{}, serr.New("", err, serr.ErrBadWorld)
	}

	s, err := svc.DB.Sessions().Create(ctx, dao.Session{
		WorldID: uuidID,
		State:   eng.State(),
	})
	if err != nil {
		return SessionStart{}, serr.WrapDB("could not create session", err)
	}

	return SessionStart{
		Session:   s,
		Intro:     eng.Intro(),
		FirstRoom: first,
	}, nil
}

// GetSession returns the session with the given ID.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If no session with that ID
// exists, it will match serr.ErrNotFound. If the error occured due to an
// unexpected problem with the DB, it will match serr.ErrDB. Finally, if the ID
// is not valid, it will match serr.ErrBadArgument.
func (svc *Service) GetSession(ctx context.Context, id string) (dao.Session, error) {
	uuidID, err := parseID(id)
	if err != nil {
		return dao.Session{}, err
	}
	return svc.getSession(ctx, uuidID)
}

func (svc *Service) getSession(ctx context.Context, id uuid.UUID) (dao.Session, error) {
	s, err := svc.DB.Sessions().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Session{}, serr.ErrNotFound
		}
		return dao.Session{}, serr.WrapDB("could not get session", err)
	}
	return s, nil
}

// DescribeSession gives the names of the room, carried items, and completed
// events of s as they are in the world it is played in.
func (svc *Service) DescribeSession(ctx context.Context, s dao.Session) (SessionInfo, error) {
	p, err := svc.parser(ctx, s.WorldID)
	if err != nil {
		return SessionInfo{}, err
	}
	cat := p.Catalog()

	info := SessionInfo{
		Session:   s,
		Inventory: []string{},
		Completed: []string{},
	}

	if r, ok := cat.Room(s.State.Room); ok {
		info.RoomName = r.Name
	}
	for _, id := range s.State.Inventory {
		if it, ok := cat.Item(id); ok {
			info.Inventory = append(info.Inventory, it.Name)
		}
	}
	for _, id := range s.State.CompletedEvents() {
		if ev, ok := cat.Event(id); ok {
			info.Completed = append(info.Completed, ev.Name)
		}
	}

	return info, nil
}

// EndSession deletes the session with the given ID and its command history.
// It returns the deleted session.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If no session with that ID
// exists, it will match serr.ErrNotFound. If the error occured due to an
// unexpected problem with the DB, it will match serr.ErrDB. Finally, if the ID
// is not valid, it will match serr.ErrBadArgument.
func (svc *Service) EndSession(ctx context.Context, id string) (dao.Session, error) {
	uuidID, err := parseID(id)
	if err != nil {
		return dao.Session{}, err
	}

	s, err := svc.getSession(ctx, uuidID)
	if err != nil {
		return dao.Session{}, err
	}

	if err := svc.deleteSession(ctx, uuidID); err != nil {
		return dao.Session{}, err
	}
	return s, nil
}

func (svc *Service) deleteSession(ctx context.Context, id uuid.UUID) error {
	unlock := svc.lockSession(id)
	defer unlock()

	if err := svc.DB.Commands().DeleteAllBySession(ctx, id); err != nil {
		return serr.WrapDB("could not delete command history", err)
	}

	if _, err := svc.DB.Sessions().Delete(ctx, id); err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return serr.ErrNotFound
		}
		return serr.WrapDB("could not delete session", err)
	}

	svc.forgetSessionLock(id)
	return nil
}

// RunCommand runs one line of player input in the session with the given ID
// and records it in the session's history. The returned Command holds the
// document form of the outcome in Result. Input that the game rejects is not
// an error here; it is recorded with an error document and the game state is
// left unchanged. A quit outcome ends the session.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If no session with that ID
// exists, it will match serr.ErrNotFound. If the session has ended, it will
// match serr.ErrSessionOver. If the error occured due to an unexpected problem
// with the DB, it will match serr.ErrDB. Finally, if the ID is not valid, it
// will match serr.ErrBadArgument.
func (svc *Service) RunCommand(ctx context.Context, id string, input string) (dao.Command, error) {
	uuidID, err := parseID(id)
	if err != nil {
		return dao.Command{}, err
	}

	unlock := svc.lockSession(uuidID)
	defer unlock()

	s, err := svc.getSession(ctx, uuidID)
	if err != nil {
		return dao.Command{}, err
	}
	if s.Ended {
		return dao.Command{}, serr.ErrSessionOver
	}

	p, err := svc.parser(ctx, s.WorldID)
	if err != nil {
		return dao.Command{}, err
	}
	eng, err := game.Resume(p, s.State)
	if err != nil {
		return dao.Command{}, serr.New("", err, serr.ErrBadWorld)
	}

	outcome, gameErr := eng.Parse(input)
	doc := game.ResultJSON(outcome, gameErr)

	if gameErr == nil {
		s.State = eng.State()
		s.Ended = outcome.Kind == game.OutcomeQuit
		if _, err := svc.DB.Sessions().Update(ctx, s.ID, s); err != nil {
			return dao.Command{}, serr.WrapDB("could not save session", err)
		}
	}

	cmd, err := svc.DB.Commands().Create(ctx, dao.Command{
		SessionID: s.ID,
		Input:     input,
		Result:    string(doc),
	})
	if err != nil {
		return dao.Command{}, serr.WrapDB("could not record command", err)
	}

	return cmd, nil
}

// GetCommands returns the command history of the session with the given ID in
// the order the commands were run.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If no session with that ID
// exists, it will match serr.ErrNotFound. If the error occured due to an
// unexpected problem with the DB, it will match serr.ErrDB. Finally, if the ID
// is not valid, it will match serr.ErrBadArgument.
func (svc *Service) GetCommands(ctx context.Context, id string) ([]dao.Command, error) {
	uuidID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	if _, err := svc.getSession(ctx, uuidID); err != nil {
		return nil, err
	}

	cmds, err := svc.DB.Commands().GetAllBySession(ctx, uuidID)
	if err != nil {
		return nil, serr.WrapDB("could not get command history", err)
	}
	return cmds, nil
}

// GetCommand returns one command from the history of a session.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If the session has no command
// with that ID, it will match serr.ErrNotFound. If the error occured due to an
// unexpected problem with the DB, it will match serr.ErrDB. Finally, if either
// ID is not valid, it will match serr.ErrBadArgument.
func (svc *Service) GetCommand(ctx context.Context, sessionID, id string) (dao.Command, error) {
	uuidSessID, err := parseID(sessionID)
	if err != nil {
		return dao.Command{}, err
	}
	uuidID, err := parseID(id)
	if err != nil {
		return dao.Command{}, err
	}

	cmd, err := svc.DB.Commands().GetByID(ctx, uuidID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Command{}, serr.ErrNotFound
		}
		return dao.Command{}, serr.WrapDB("could not get command", err)
	}
	if cmd.SessionID != uuidSessID {
		return dao.Command{}, serr.ErrNotFound
	}

	return cmd, nil
}
