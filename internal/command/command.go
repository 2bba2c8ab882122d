// Package command turns player input into commands. Input is first resolved
// against the vocabulary of a world into tokens, and the tokens are then
// classified into a single Command.
package command

import (
	"fmt"

	"github.com/dekarrin/nightrunner/internal/world"
)

// Kind is the shape of a Command.
type Kind int

const (
	KindNone Kind = iota
	Movement
	Quit
	Help
	Look
	LookAt
	Inventory
	VerbOnly
	VerbWithSubject
	VerbWithItem
	VerbWithItemAndSubject
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case Movement:
		return "movement"
	case Quit:
		return "quit"
	case Help:
		return "help"
	case Look:
		return "look"
	case LookAt:
		return "look_at"
	case Inventory:
		return "inventory"
	case VerbOnly:
		return "verb_only"
	case VerbWithSubject:
		return "verb_with_subject"
	case VerbWithItem:
		return "verb_with_item"
	case VerbWithItemAndSubject:
		return "verb_with_item_and_subject"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Command is a valid command received from a game input source. Which fields
// are set depends on Kind; unset IDs are 0.
type Command struct {
	Kind Kind

	// Verb is the ID of the verb that was typed. It is set for every Kind
	// except Movement, and for Movement commands given with only a direction.
	Verb int

	// Direction is the way to go for Movement commands.
	Direction world.Direction

	// Item is the item acted on or with, for LookAt and the verb kinds that
	// take an item.
	Item int

	// Subject is the subject acted on, for LookAt and the verb kinds that take
	// a subject.
	Subject int
}

func (c Command) String() string {
	switch c.Kind {
	case Movement:
		return fmt.Sprintf("Command<%s %s>", c.Kind, c.Direction)
	case LookAt:
		if c.Item != 0 {
			return fmt.Sprintf("Command<%s item=%d>", c.Kind, c.Item)
		}
		return fmt.Sprintf("Command<%s subject=%d>", c.Kind, c.Subject)
	case VerbOnly:
		return fmt.Sprintf("Command<%s verb=%d>", c.Kind, c.Verb)
	case VerbWithSubject:
		return fmt.Sprintf("Command<%s verb=%d subject=%d>", c.Kind, c.Verb, c.Subject)
	case VerbWithItem:
		return fmt.Sprintf("Command<%s verb=%d item=%d>", c.Kind, c.Verb, c.Item)
	case VerbWithItemAndSubject:
		return fmt.Sprintf("Command<%s verb=%d item=%d subject=%d>", c.Kind, c.Verb, c.Item, c.Subject)
	default:
		return fmt.Sprintf("Command<%s>", c.Kind)
	}
}
