package nrerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_KindOf(t *testing.T) {
	testCases := []struct {
		name   string
		err    error
		expect Kind
	}{
		{
			name:   "plain error",
			err:    errors.New("oh no"),
			expect: KindNone,
		},
		{
			name:   "interpreter error",
			err:    New(CantPick, "You can't pick that up."),
			expect: CantPick,
		},
		{
			name:   "wrapped by fmt",
			err:    fmt.Errorf("parse: %w", New(AmbiguousInput, "which one?")),
			expect: AmbiguousInput,
		},
		{
			name:   "wrapping another error",
			err:    Wrap(errors.New("bad ref"), TemplateReference, "%s", "oops"),
			expect: TemplateReference,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual := KindOf(tc.err)

			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_Is(t *testing.T) {
	assert := assert.New(t)

	err := fmt.Errorf("outer: %w", New(NotPresent, "I can't see that here."))

	assert.ErrorIs(err, NotPresent)
	assert.NotErrorIs(err, NotCarrying)
}

func Test_GameMessage(t *testing.T) {
	testCases := []struct {
		name   string
		err    error
		expect string
	}{
		{
			name:   "plain error gives Error()",
			err:    errors.New("oh no"),
			expect: "oh no",
		},
		{
			name:   "formatted game message",
			err:    New(MissingObject, "What do you want to %s?", "take"),
			expect: "What do you want to take?",
		},
		{
			name:   "explicit technical message is not shown",
			err:    Newt(EmptyInput, "No input. Nothing to process.", "input was blank"),
			expect: "No input. Nothing to process.",
		},
		{
			name:   "found through a wrap",
			err:    fmt.Errorf("x: %w", New(InvalidDirection, "You can't go that way.")),
			expect: "You can't go that way.",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual := GameMessage(tc.err)

			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_Wrap_Unwrap(t *testing.T) {
	assert := assert.New(t)

	inner := errors.New("inner")
	err := Wrap(inner, TemplateReference, "no such thing %q", "bob")

	assert.ErrorIs(err, inner)
	assert.ErrorIs(err, TemplateReference)
	assert.Equal(`no such thing "bob"`, GameMessage(err))
}
