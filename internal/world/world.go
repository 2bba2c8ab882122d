// Package world holds the definition of a game world: the verbs, items,
// subjects, narratives, events, and rooms that an author writes and that the
// engine reads. Once built into a Catalog, a world is never modified.
package world

// File world.go includes the record types that make up a world definition.

import (
	"fmt"
	"strings"
)

// VerbKind is the built-in function a verb performs.
type VerbKind int

const (
	// VerbNormal verbs do nothing on their own and only trigger events.
	VerbNormal VerbKind = iota
	VerbQuit
	VerbHelp
	VerbLook
	VerbInventory
	VerbTake
	VerbDrop
	VerbTalk
)

func (vk VerbKind) String() string {
	switch vk {
	case VerbNormal:
		return "normal"
	case VerbQuit:
		return "quit"
	case VerbHelp:
		return "help"
	case VerbLook:
		return "look"
	case VerbInventory:
		return "inventory"
	case VerbTake:
		return "take"
	case VerbDrop:
		return "drop"
	case VerbTalk:
		return "talk"
	default:
		return fmt.Sprintf("VerbKind(%d)", int(vk))
	}
}

// ParseVerbKind parses the name of a verb kind as it appears in world files.
// An empty string is treated as "normal".
func ParseVerbKind(s string) (VerbKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "normal", "":
		return VerbNormal, nil
	case "quit":
		return VerbQuit, nil
	case "help":
		return VerbHelp, nil
	case "look":
		return VerbLook, nil
	case "inventory":
		return VerbInventory, nil
	case "take":
		return VerbTake, nil
	case "drop":
		return VerbDrop, nil
	case "talk":
		return VerbTalk, nil
	default:
		return VerbNormal, fmt.Errorf("unknown verb function %q", s)
	}
}

// Verb is an action word the player can type. All of its Names are synonyms
// for each other; the first one is the name shown in help output.
type Verb struct {
	ID    int
	Names []string
	Kind  VerbKind
}

// Item is an object that can sit in a room's stash or in the player's
// inventory.
type Item struct {
	ID          int
	Name        string
	Description string

	// CanPick is whether the player is allowed to carry the item.
	CanPick bool
}

// Subject is a thing or person in a room that the player can interact with but
// never carry.
type Subject struct {
	ID          int
	Name        string
	Description string

	// DefaultText is shown when the player does something to the subject that
	// no event handles.
	DefaultText string
}

// Narrative is a block of text shown to the player. Text may contain
// placeholders of the form {name} that refer to items and subjects.
type Narrative struct {
	ID          int
	Text        string
	Description string
}

// Event is a one-shot scripted reaction to the player doing something in a
// room. Optional references use 0 to mean "not set".
type Event struct {
	ID          int
	Name        string
	Description string

	// Location is the room the event can happen in.
	Location int

	// Destination is the room the player is moved to when the event fires.
	Destination int

	// Narrative is the narrative shown when the event fires.
	Narrative int

	RequiredVerb    int
	RequiredSubject int
	RequiredItem    int

	// RequiredEvents must all be completed before this event can fire.
	RequiredEvents []int

	// Completed is whether the event starts out already completed.
	Completed bool

	// AddItem is given to the player when the event fires.
	AddItem int

	// RemoveItem is taken out of the room (and out of the player's hands)
	// when the event fires.
	RemoveItem int

	// RemoveOldNarrative makes the event's narrative the room's narrative from
	// then on.
	RemoveOldNarrative bool

	// AddSubject is placed in the event's room when the event fires.
	AddSubject int

	// RemoveSubject takes the required subject out of the room.
	RemoveSubject bool

	// MoveSubjectTo moves the required subject to another room.
	MoveSubjectTo int
}

// Exit is a way out of a room.
type Exit struct {
	Direction Direction
	RoomID    int
}

// Room is a place the player can be in.
type Room struct {
	ID          int
	Name        string
	Description string

	// Exits are in the order they are shown to the player.
	Exits []Exit

	// Stash is the items in the room at the start of the game.
	Stash []int

	// Events are the candidate events of the room in priority order.
	Events []int

	// Narrative is the room's narrative at the start of the game.
	Narrative int

	// Subjects are the subjects in the room at the start of the game.
	Subjects []int
}

// Exit returns the ID of the room that the exit in the given direction leads
// to. If there is no such exit, ok will be false.
func (r Room) Exit(dir Direction) (roomID int, ok bool) {
	for _, ex := range r.Exits {
		if ex.Direction == dir {
			return ex.RoomID, true
		}
	}
	return 0, false
}

// Definition is every record of a world as read by a loader, before it has
// been checked.
type Definition struct {
	Verbs      []Verb
	Items      []Item
	Subjects   []Subject
	Narratives []Narrative
	Events     []Event
	Rooms      []Room

	// Intro is shown before the game starts.
	Intro string

	// StartRoom is the room the player begins in. If 0, the first room in
	// Rooms is used.
	StartRoom int
}
