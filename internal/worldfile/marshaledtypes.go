package worldfile

import (
	"fmt"

	"github.com/dekarrin/nightrunner/internal/world"
)

// worldDoc is a whole world as written in a single document.
type worldDoc struct {
	// Format is only read from TOML files.
	Format string `json:"-" yaml:"-" toml:"format"`

	AllowedVerbs []verbDoc      `json:"allowed_verbs" yaml:"allowed_verbs" toml:"allowed_verbs"`
	Items        []itemDoc      `json:"items" yaml:"items" toml:"items"`
	Subjects     []subjectDoc   `json:"subjects" yaml:"subjects" toml:"subjects"`
	Narratives   []narrativeDoc `json:"narratives" yaml:"narratives" toml:"narratives"`
	Events       []eventDoc     `json:"events" yaml:"events" toml:"events"`
	Rooms        []roomDoc      `json:"rooms" yaml:"rooms" toml:"rooms"`
	Intro        string         `json:"intro" yaml:"intro" toml:"intro"`
	StartRoom    int            `json:"start_room,omitempty" yaml:"start_room,omitempty" toml:"start_room,omitempty"`
}

type verbDoc struct {
	ID           int      `json:"id" yaml:"id" toml:"id"`
	Names        []string `json:"names" yaml:"names" toml:"names"`
	VerbFunction string   `json:"verb_function" yaml:"verb_function" toml:"verb_function"`
}

type itemDoc struct {
	ID          int    `json:"id" yaml:"id" toml:"id"`
	Name        string `json:"name" yaml:"name" toml:"name"`
	Description string `json:"description" yaml:"description" toml:"description"`
	CanPick     bool   `json:"can_pick" yaml:"can_pick" toml:"can_pick"`
}

type subjectDoc struct {
	ID          int    `json:"id" yaml:"id" toml:"id"`
	Name        string `json:"name" yaml:"name" toml:"name"`
	Description string `json:"description" yaml:"description" toml:"description"`
	DefaultText string `json:"default_text" yaml:"default_text" toml:"default_text"`
}

type narrativeDoc struct {
	ID          int    `json:"id" yaml:"id" toml:"id"`
	Text        string `json:"text" yaml:"text" toml:"text"`
	Description string `json:"description" yaml:"description" toml:"description"`
}

// eventDoc uses pointers for the optional references so that they can be
// given as null.
type eventDoc struct {
	ID                    int    `json:"id" yaml:"id" toml:"id"`
	Name                  string `json:"name" yaml:"name" toml:"name"`
	Description           string `json:"description" yaml:"description" toml:"description"`
	Location              int    `json:"location" yaml:"location" toml:"location"`
	Destination           *int   `json:"destination" yaml:"destination" toml:"destination"`
	Narrative             *int   `json:"narrative" yaml:"narrative" toml:"narrative"`
	RequiredVerb          *int   `json:"required_verb" yaml:"required_verb" toml:"required_verb"`
	RequiredSubject       *int   `json:"required_subject" yaml:"required_subject" toml:"required_subject"`
	RequiredItem          *int   `json:"required_item" yaml:"required_item" toml:"required_item"`
	Completed             bool   `json:"completed" yaml:"completed" toml:"completed"`
	AddItem               *int   `json:"add_item" yaml:"add_item" toml:"add_item"`
	RemoveOldNarrative    bool   `json:"remove_old_narrative" yaml:"remove_old_narrative" toml:"remove_old_narrative"`
	RemoveItem            *int   `json:"remove_item" yaml:"remove_item" toml:"remove_item"`
	RequiredEvents        []int  `json:"required_events" yaml:"required_events" toml:"required_events"`
	AddSubject            *int   `json:"add_subject" yaml:"add_subject" toml:"add_subject"`
	RemoveSubject         bool   `json:"remove_subject" yaml:"remove_subject" toml:"remove_subject"`
	MoveSubjectToLocation *int   `json:"move_subject_to_location" yaml:"move_subject_to_location" toml:"move_subject_to_location"`
}

type exitDoc struct {
	RoomID    int    `json:"room_id" yaml:"room_id" toml:"room_id"`
	Direction string `json:"direction" yaml:"direction" toml:"direction"`
}

// stashDoc is the items placed in a room. Items is accepted for
// compatibility with older world files but is not read; only ItemIDs is.
type stashDoc struct {
	Items   []itemDoc `json:"items" yaml:"items" toml:"items"`
	ItemIDs []int     `json:"item_ids" yaml:"item_ids" toml:"item_ids"`
}

type roomDoc struct {
	ID          int       `json:"id" yaml:"id" toml:"id"`
	Name        string    `json:"name" yaml:"name" toml:"name"`
	Description string    `json:"description" yaml:"description" toml:"description"`
	Exits       []exitDoc `json:"exits" yaml:"exits" toml:"exits"`
	Stash       stashDoc  `json:"stash" yaml:"stash" toml:"stash"`
	RoomEvents  []int     `json:"room_events" yaml:"room_events" toml:"room_events"`
	Narrative   int       `json:"narrative" yaml:"narrative" toml:"narrative"`
	Subjects    []int     `json:"subjects" yaml:"subjects" toml:"subjects"`
}

// ids gives nil for an empty list so that a missing key and an empty list
// load the same.
func ids(list []int) []int {
	if len(list) == 0 {
		return nil
	}
	return list
}

func optional(ref *int) int {
	if ref == nil {
		return 0
	}
	return *ref
}

func (vd verbDoc) toVerb() (world.Verb, error) {
	kind, err := world.ParseVerbKind(vd.VerbFunction)
	if err != nil {
		return world.Verb{}, fmt.Errorf("verb_function: %w", err)
	}
	return world.Verb{
		ID:    vd.ID,
		Names: vd.Names,
		Kind:  kind,
	}, nil
}

func (ed eventDoc) toEvent() world.Event {
	return world.Event{
		ID:                 ed.ID,
		Name:               ed.Name,
		Description:        ed.Description,
		Location:           ed.Location,
		Destination:        optional(ed.Destination),
		Narrative:          optional(ed.Narrative),
		RequiredVerb:       optional(ed.RequiredVerb),
		RequiredSubject:    optional(ed.RequiredSubject),
		RequiredItem:       optional(ed.RequiredItem),
		RequiredEvents:     ids(ed.RequiredEvents),
		Completed:          ed.Completed,
		AddItem:            optional(ed.AddItem),
		RemoveItem:         optional(ed.RemoveItem),
		RemoveOldNarrative: ed.RemoveOldNarrative,
		AddSubject:         optional(ed.AddSubject),
		RemoveSubject:      ed.RemoveSubject,
		MoveSubjectTo:      optional(ed.MoveSubjectToLocation),
	}
}

func (rd roomDoc) toRoom() (world.Room, error) {
	r := world.Room{
		ID:          rd.ID,
		Name:        rd.Name,
		Description: rd.Description,
		Stash:       ids(rd.Stash.ItemIDs),
		Events:      ids(rd.RoomEvents),
		Narrative:   rd.Narrative,
		Subjects:    ids(rd.Subjects),
	}

	for i, ex := range rd.Exits {
		dir, err := world.ParseDirection(ex.Direction)
		if err != nil {
			return world.Room{}, fmt.Errorf("exits[%d]: %w", i, err)
		}
		r.Exits = append(r.Exits, world.Exit{Direction: dir, RoomID: ex.RoomID})
	}

	return r, nil
}

// toDefinition converts the document into the records of a world. Only
// problems with individual fields are caught here; references between records
// are checked when the Definition is made into a Catalog.
func (wd worldDoc) toDefinition() (world.Definition, error) {
	def := world.Definition{
		Intro:     wd.Intro,
		StartRoom: wd.StartRoom,
	}

	for i, vd := range wd.AllowedVerbs {
		v, err := vd.toVerb()
		if err != nil {
			return world.Definition{}, fmt.Errorf("allowed_verbs[%d]: %w", i, err)
		}
		def.Verbs = append(def.Verbs, v)
	}
	for _, it := range wd.Items {
		def.Items = append(def.Items, world.Item{
			ID:          it.ID,
			Name:        it.Name,
			Description: it.Description,
			CanPick:     it.CanPick,
		})
	}
	for _, sd := range wd.Subjects {
		def.Subjects = append(def.Subjects, world.Subject{
			ID:          sd.ID,
			Name:        sd.Name,
			Description: sd.Description,
			DefaultText: sd.DefaultText,
		})
	}
	for _, nd := range wd.Narratives {
		def.Narratives = append(def.Narratives, world.Narrative{
			ID:          nd.ID,
			Text:        nd.Text,
			Description: nd.Description,
		})
	}
	for _, ed := range wd.Events {
		def.Events = append(def.Events, ed.toEvent())
	}
	for i, rd := range wd.Rooms {
		r, err := rd.toRoom()
		if err != nil {
			return world.Definition{}, fmt.Errorf("rooms[%d]: %w", i, err)
		}
		def.Rooms = append(def.Rooms, r)
	}

	return def, nil
}
