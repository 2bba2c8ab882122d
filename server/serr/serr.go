// Package serr holds common error objects used across the NightRunner server.
// Notably, it contains the Error type, which can be created with one or more
// 'cause' errors. Calling errors.Is() on an Error with any of its causes as
// the target returns true.
package serr

import "errors"

var (
	ErrBadCredentials = errors.New("the supplied author key is incorrect")
	ErrPermissions    = errors.New("you don't have permission to do that")
	ErrNotFound       = errors.New("the requested entity could not be found")
	ErrAlreadyExists  = errors.New("resource with same identifying information already exists")
	ErrDB             = errors.New("an error occured with the DB")
	ErrBadArgument    = errors.New("one or more of the arguments is invalid")
	ErrBodyUnmarshal  = errors.New("malformed data in request")
	ErrBadWorld       = errors.New("the world could not be loaded")
	ErrSessionOver    = errors.New("the session has ended")
)

// Error is a typed error returned by the service layer of the server. It
// holds a message explaining what happened as well as one or more error values
// it considers to be its causes, so failure conditions can be checked with
// errors.Is without resorting to type assertions.
//
// If Error has at least one cause, Error() gives its message with the message
// of its first cause appended.
//
// Error should not be used directly; call New to create one.
type Error struct {
	msg   string
	cause []error
}

// Error returns the message of the Error followed by that of its first cause.
// Either part is left out if empty.
func (e Error) Error() string {
	if e.msg == "" && e.cause != nil {
		return e.cause[0].Error()
	}

	if e.cause != nil {
		return e.msg + ": " + e.cause[0].Error()
	}

	return e.msg
}

// Unwrap returns the causes of Error, or nil if it has none.
func (e Error) Unwrap() []error {
	if len(e.cause) > 0 {
		return e.cause
	}
	return nil
}

// Is returns whether one of the causes of e is target. Causes are compared
// directly; use errors.Is to also search their own causes.
func (e Error) Is(target error) bool {
	for i := range e.cause {
		if e.cause[i] == target {
			return true
		}
	}
	return false
}

// WrapDB creates a new Error that has err and ErrDB as its causes. msg may be
// left as "".
func WrapDB(msg string, err error) Error {
	return Error{
		msg:   msg,
		cause: []error{err, ErrDB},
	}
}

// New creates a new Error with the given message and causes.
func New(msg string, causes ...error) Error {
	err := Error{msg: msg}
	if len(causes) > 0 {
		err.cause = make([]error, len(causes))
		copy(err.cause, causes)
	}
	return err
}
