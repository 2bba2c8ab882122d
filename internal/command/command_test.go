package command

import (
	"bufio"
	"bytes"
	"io"
	"testing"

	"github.com/dekarrin/nightrunner/internal/nrerrors"
	"github.com/dekarrin/nightrunner/internal/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleParser(t *testing.T) *Parser {
	def := world.Definition{
		Verbs: []world.Verb{
			{ID: 1, Names: []string{"quit", ":q", "q"}, Kind: world.VerbQuit},
			{ID: 2, Names: []string{"help"}, Kind: world.VerbHelp},
			{ID: 3, Names: []string{"look", "stare"}, Kind: world.VerbLook},
			{ID: 4, Names: []string{"inventory", "i"}, Kind: world.VerbInventory},
			{ID: 5, Names: []string{"pick", "take", "grab", "pi", "tk", "gr", "get", "g"}, Kind: world.VerbTake},
			{ID: 6, Names: []string{"drop", "place"}, Kind: world.VerbDrop},
			{ID: 7, Names: []string{"give", "hand"}, Kind: world.VerbNormal},
			{ID: 8, Names: []string{"talk", "chat"}, Kind: world.VerbTalk},
			{ID: 9, Names: []string{"hug"}, Kind: world.VerbNormal},
		},
		Items: []world.Item{
			{ID: 1, Name: "item1"},
			{ID: 2, Name: "item2", CanPick: true},
		},
		Subjects: []world.Subject{
			{ID: 1, Name: "subject1", DefaultText: "default text"},
		},
		Narratives: []world.Narrative{{ID: 1, Text: "text"}},
		Rooms: []world.Room{
			{ID: 1, Name: "room 1", Description: "first room", Narrative: 1},
		},
	}

	cat, err := world.NewCatalog(def)
	require.NoError(t, err)
	return NewParser(cat)
}

func Test_Parser_Resolve(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expect    []Token
		expectErr nrerrors.Kind
	}{
		{
			name:  "verb and subject with noise",
			input: "Hug   THE subject1 now",
			expect: []Token{
				{Kind: TokVerb, ID: 9, Word: "hug"},
				{Kind: TokSubject, ID: 1, Word: "subject1"},
				{Kind: TokUnrecognized, Word: "now"},
			},
		},
		{
			name:  "multi-word noise is dropped whole",
			input: "grab a lot of item2",
			expect: []Token{
				{Kind: TokVerb, ID: 5, Word: "grab"},
				{Kind: TokItem, ID: 2, Word: "item2"},
			},
		},
		{
			name:  "movement and direction",
			input: "walk N",
			expect: []Token{
				{Kind: TokMovement, Word: "walk"},
				{Kind: TokDirection, Direction: world.North, Word: "n"},
			},
		},
		{
			name:  "direction shadows preposition",
			input: "go up",
			expect: []Token{
				{Kind: TokMovement, Word: "go"},
				{Kind: TokDirection, Direction: world.Up, Word: "up"},
			},
		},
		{
			name:  "punctuated verb",
			input: ":q",
			expect: []Token{
				{Kind: TokVerb, ID: 1, Word: ":q"},
			},
		},
		{
			name:  "word inside a longer word is not matched",
			input: "looking at item1",
			expect: []Token{
				{Kind: TokUnrecognized, Word: "looking"},
				{Kind: TokItem, ID: 1, Word: "item1"},
			},
		},
		{
			name:      "nothing known",
			input:     "dance wildly",
			expectErr: nrerrors.UnrecognizedInput,
		},
		{
			name:      "only noise",
			input:     "the of a",
			expectErr: nrerrors.UnrecognizedInput,
		},
		{
			name:      "blank",
			input:     "  \t ",
			expectErr: nrerrors.EmptyInput,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			p := sampleParser(t)

			actual, err := p.Resolve(tc.input)
			if tc.expectErr != nrerrors.KindNone {
				assert.ErrorIs(err, tc.expectErr)
				return
			}
			assert.NoError(err)
			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_Parser_Parse(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expect    Command
		expectErr nrerrors.Kind
	}{
		{name: "look", input: "look", expect: Command{Kind: Look, Verb: 3}},
		{name: "look at item", input: "LOOK at item1", expect: Command{Kind: LookAt, Verb: 3, Item: 1}},
		{name: "stare at subject", input: "stare at subject1", expect: Command{Kind: LookAt, Verb: 3, Subject: 1}},
		{name: "look at two things", input: "look item1 subject1", expectErr: nrerrors.AmbiguousInput},
		{name: "direction only", input: "south", expect: Command{Kind: Movement, Direction: world.South}},
		{name: "abbreviated direction only", input: "s", expect: Command{Kind: Movement, Direction: world.South}},
		{name: "go with direction", input: "go north", expect: Command{Kind: Movement, Direction: world.North}},
		{name: "go without direction", input: "go", expectErr: nrerrors.MissingObject},
		{name: "two directions", input: "walk north south", expectErr: nrerrors.AmbiguousInput},
		{name: "quit", input: "q", expect: Command{Kind: Quit, Verb: 1}},
		{name: "quit ignores objects", input: "quit item1", expect: Command{Kind: Quit, Verb: 1}},
		{name: "help", input: "help", expect: Command{Kind: Help, Verb: 2}},
		{name: "inventory abbreviation", input: "i", expect: Command{Kind: Inventory, Verb: 4}},
		{name: "take item", input: "pick item2", expect: Command{Kind: VerbWithItem, Verb: 5, Item: 2}},
		{name: "take with direction word", input: "pick up item2", expect: Command{Kind: VerbWithItem, Verb: 5, Item: 2}},
		{name: "take nothing", input: "take", expectErr: nrerrors.MissingObject},
		{name: "take subject", input: "take subject1", expectErr: nrerrors.MissingObject},
		{name: "take two items", input: "take item1 item2", expectErr: nrerrors.AmbiguousInput},
		{name: "take item from subject", input: "take item2 from subject1", expectErr: nrerrors.AmbiguousInput},
		{name: "drop item", input: "drop the item2", expect: Command{Kind: VerbWithItem, Verb: 6, Item: 2}},
		{name: "talk to subject", input: "talk to subject1", expect: Command{Kind: VerbWithSubject, Verb: 8, Subject: 1}},
		{name: "talk to nobody", input: "chat", expectErr: nrerrors.MissingObject},
		{name: "talk to item", input: "talk to item1", expectErr: nrerrors.MissingObject},
		{name: "normal verb only", input: "hug", expect: Command{Kind: VerbOnly, Verb: 9}},
		{name: "normal verb with subject", input: "hug subject1", expect: Command{Kind: VerbWithSubject, Verb: 9, Subject: 1}},
		{name: "normal verb with item", input: "hand item2", expect: Command{Kind: VerbWithItem, Verb: 7, Item: 2}},
		{name: "normal verb with item and subject", input: "give item2 to subject1", expect: Command{Kind: VerbWithItemAndSubject, Verb: 7, Item: 2, Subject: 1}},
		{name: "normal verb with two items", input: "give item1 item2", expectErr: nrerrors.AmbiguousInput},
		{name: "repeated item is not ambiguous", input: "give item2 item2", expect: Command{Kind: VerbWithItem, Verb: 7, Item: 2}},
		{name: "first verb wins", input: "hug subject1 then look", expect: Command{Kind: VerbWithSubject, Verb: 9, Subject: 1}},
		{name: "objects without verb", input: "item1", expectErr: nrerrors.MissingVerb},
		{name: "unrecognized", input: "dance wildly", expectErr: nrerrors.UnrecognizedInput},
		{name: "empty", input: "", expectErr: nrerrors.EmptyInput},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			p := sampleParser(t)

			actual, err := p.Parse(tc.input)
			if tc.expectErr != nrerrors.KindNone {
				assert.ErrorIs(err, tc.expectErr)
				return
			}
			assert.NoError(err)
			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_Parser_Parse_messages(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect string
	}{
		{name: "blank", input: "", expect: "No input. Nothing to process."},
		{name: "missing item", input: "take", expect: "What do you want to take?"},
		{name: "ambiguous", input: "give item1 item2", expect: "Did you mean the item1 or the item2?"},
		{name: "missing verb", input: "item1 subject1", expect: "What do you want to do with the item1 and the subject1?"},
		{name: "movement without direction", input: "go", expect: "Where do you want to go?"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			p := sampleParser(t)

			_, err := p.Parse(tc.input)

			assert.Equal(tc.expect, nrerrors.GameMessage(err))
		})
	}
}

type lineReader struct {
	lines []string
}

func (lr *lineReader) ReadCommand() (string, error) {
	if len(lr.lines) == 0 {
		return "", io.EOF
	}
	line := lr.lines[0]
	lr.lines = lr.lines[1:]
	return line, nil
}

func (lr *lineReader) Close() error {
	return nil
}

func Test_Get(t *testing.T) {
	assert := assert.New(t)
	p := sampleParser(t)

	in := &lineReader{lines: []string{"", "dance", "take", "look"}}
	var out bytes.Buffer
	w := bufio.NewWriter(&out)

	cmd, err := Get(in, w, p)

	assert.NoError(err)
	assert.Equal(Command{Kind: Look, Verb: 3}, cmd)
	assert.Equal("I don't understand that.\nTry HELP for valid commands\nWhat do you want to take?\nTry HELP for valid commands\n", out.String())

	_, err = Get(in, w, p)
	assert.ErrorIs(err, io.EOF)
}
