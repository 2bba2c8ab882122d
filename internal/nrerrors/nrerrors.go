// Package nrerrors holds the errors returned by the interpreter when input
// cannot be carried out. Each one has a technical message for logs and a
// message meant to be shown to the player.
package nrerrors

import (
	"errors"
	"fmt"
)

// Kind is the category of an interpreter error. A Kind is itself an error so
// that it can be used as the target of errors.Is.
type Kind int

const (
	KindNone Kind = iota

	// EmptyInput is input with nothing in it but whitespace.
	EmptyInput

	// UnrecognizedInput is input where no word is known to the game.
	UnrecognizedInput

	// AmbiguousInput is input that names more than one candidate where only
	// one is allowed.
	AmbiguousInput

	// MissingObject is a verb that needs an object given without one.
	MissingObject

	// MissingVerb is input that names things but never says what to do with
	// them.
	MissingVerb

	// InvalidDirection is a move in a direction the current room has no exit
	// in.
	InvalidDirection

	// TemplateReference is a narrative placeholder that does not name
	// anything in scope.
	TemplateReference

	// NotPresent is a reference to a thing that isn't where the player is.
	NotPresent

	// CantPick is an attempt to take an item that cannot be carried.
	CantPick

	// NotCarrying is an attempt to drop an item the player does not have.
	NotCarrying
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case EmptyInput:
		return "empty input"
	case UnrecognizedInput:
		return "unrecognized input"
	case AmbiguousInput:
		return "ambiguous input"
	case MissingObject:
		return "missing object"
	case MissingVerb:
		return "missing verb"
	case InvalidDirection:
		return "invalid direction"
	case TemplateReference:
		return "template reference"
	case NotPresent:
		return "not present"
	case CantPick:
		return "can't pick"
	case NotCarrying:
		return "not carrying"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

func (k Kind) Error() string {
	return k.String()
}

// interpreterError is an error caused by attempting to interpret input. Either
// the input could not be understood or it specifies doing something that is
// impossible or not allowed at the current time.
type interpreterError struct {
	kind  Kind
	msg   string
	human string
	wrap  error
}

func (e *interpreterError) Error() string {
	return e.msg
}

// GameMessage shows the message that should be displayed in-game to describe
// the error.
func (e *interpreterError) GameMessage() string {
	return e.human
}

// Unwrap gives the error that the interpreterError wraps, if it wraps one.
func (e *interpreterError) Unwrap() error {
	return e.wrap
}

// Is returns whether target is the Kind of e.
func (e *interpreterError) Is(target error) bool {
	if k, ok := target.(Kind); ok {
		return k == e.kind
	}
	return false
}

// New returns a new interpreter error of the given Kind with a message to show
// to the player built from gameFormat and its arguments. The technical message
// is generated automatically.
func New(kind Kind, gameFormat string, a ...interface{}) error {
	game := fmt.Sprintf(gameFormat, a...)
	return &interpreterError{
		kind:  kind,
		msg:   fmt.Sprintf("%s: %s", kind, game),
		human: game,
	}
}

// Newt returns a new interpreter error of the given Kind that has both the
// message to show the player and an explicit technical description.
func Newt(kind Kind, game, technical string) error {
	if technical == "" {
		technical = fmt.Sprintf("%s: %s", kind, game)
	}
	return &interpreterError{
		kind:  kind,
		msg:   technical,
		human: game,
	}
}

// Wrap returns a new interpreter error of the given Kind that wraps the given
// error. The game message is built from gameFormat and its arguments.
func Wrap(e error, kind Kind, gameFormat string, a ...interface{}) error {
	game := fmt.Sprintf(gameFormat, a...)
	return &interpreterError{
		kind:  kind,
		msg:   fmt.Sprintf("%s: %s: %v", kind, game, e),
		human: game,
		wrap:  e,
	}
}

// KindOf returns the Kind of the first interpreter error in err's chain. If
// there is none, KindNone is returned.
func KindOf(err error) Kind {
	var intErr *interpreterError
	if errors.As(err, &intErr) {
		return intErr.kind
	}
	return KindNone
}

// GameMessage gets the message to display to the console for the given error.
// If it is an interpreter error, the special game message is returned.
// Otherwise, err.Error() is returned.
func GameMessage(err error) string {
	var intErr *interpreterError
	if errors.As(err, &intErr) {
		return intErr.GameMessage()
	}
	return err.Error()
}
