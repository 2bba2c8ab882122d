package game

import (
	"encoding/json"
	"fmt"

	"github.com/dekarrin/nightrunner/internal/nrerrors"
)

// OutcomeKind is the type of result that running a command had.
type OutcomeKind int

const (
	OutcomeNone OutcomeKind = iota
	OutcomeLook
	OutcomeInventory
	OutcomeDropItem
	OutcomeNewItem
	OutcomeQuit
	OutcomeHelp
	OutcomeSubjectNoEvent
	OutcomeEventSuccess
)

// String gives the name of the kind as used in the JSON form of an Outcome.
func (ok OutcomeKind) String() string {
	switch ok {
	case OutcomeNone:
		return "none"
	case OutcomeLook:
		return "look"
	case OutcomeInventory:
		return "inventory"
	case OutcomeDropItem:
		return "drop_item"
	case OutcomeNewItem:
		return "new_item"
	case OutcomeQuit:
		return "quit"
	case OutcomeHelp:
		return "help"
	case OutcomeSubjectNoEvent:
		return "subject_no_event"
	case OutcomeEventSuccess:
		return "event_success"
	default:
		return fmt.Sprintf("OutcomeKind(%d)", int(ok))
	}
}

// MessageParts is a message split up so that a front end can lay it out
// itself.
type MessageParts struct {
	RoomText  string `json:"room_text"`
	EventText string `json:"event_text"`
	Exits     string `json:"exits"`
}

// EventMessage is the text produced when something happens in a room, along
// with the item and subject names that were filled in to it.
type EventMessage struct {
	Message        string       `json:"message"`
	Parts          MessageParts `json:"message_parts"`
	TemplatedWords []string     `json:"templated_words"`
}

// Outcome is the result of a command. Text is set for every kind except
// OutcomeQuit and OutcomeEventSuccess; Event is only set for
// OutcomeEventSuccess.
type Outcome struct {
	Kind  OutcomeKind
	Text  string
	Event EventMessage
}

// MarshalJSON gives the outcome as an object with a single key naming its
// kind, mapped to its payload. A Quit has no payload and is just its name.
func (o Outcome) MarshalJSON() ([]byte, error) {
	var payload interface{}

	switch o.Kind {
	case OutcomeNone:
		return nil, fmt.Errorf("outcome has no kind")
	case OutcomeQuit:
		return json.Marshal(o.Kind.String())
	case OutcomeEventSuccess:
		ev := o.Event
		if ev.TemplatedWords == nil {
			ev.TemplatedWords = []string{}
		}
		payload = ev
	default:
		payload = o.Text
	}

	return json.Marshal(map[string]interface{}{o.Kind.String(): payload})
}

// jsonResult is the document given by Engine.ParseJSON.
type jsonResult struct {
	OK    *Outcome `json:"ok,omitempty"`
	Error *string  `json:"error,omitempty"`
}

// ResultJSON gives the document form of the result of a Parse: either
// {"ok": outcome} or {"error": "message"}. The message of an error is its game
// message.
func ResultJSON(o Outcome, err error) []byte {
	var res jsonResult
	if err != nil {
		msg := nrerrors.GameMessage(err)
		res.Error = &msg
	} else {
		res.OK = &o
	}

	data, marshalErr := json.Marshal(res)
	if marshalErr != nil {
		msg := marshalErr.Error()
		data, _ = json.Marshal(jsonResult{Error: &msg})
	}
	return data
}
