package game

import (
	"strings"
	"testing"

	"github.com/dekarrin/nightrunner/internal/command"
	"github.com/dekarrin/nightrunner/internal/nrerrors"
	"github.com/dekarrin/nightrunner/internal/world"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDef() world.Definition {
	return world.Definition{
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
			{ID: 1, Name: "item1", Description: "item 1 description"},
			{ID: 2, Name: "item2", Description: "item 2 description", CanPick: true},
		},
		Subjects: []world.Subject{
			{ID: 1, Name: "subject1", Description: "a subject description", DefaultText: "default text"},
		},
		Narratives: []world.Narrative{
			{ID: 1, Text: "text", Description: "text"},
			{ID: 2, Text: "this is a templated which exists in the game {item1}.\n\nthis is a templated subject that exists in the game {subject1}.", Description: "text"},
			{ID: 3, Text: "this narrative should replace the old one.", Description: "a narrative that replaces the old one"},
		},
		Events: []world.Event{
			{ID: 1, Name: "text", Location: 1, Narrative: 1, RequiredVerb: 2, RequiredSubject: 1},
			{ID: 2, Name: "event 2", Location: 1, Narrative: 3, RequiredVerb: 9, RequiredSubject: 1, RemoveOldNarrative: true, RequiredEvents: []int{4}},
			{ID: 3, Name: "event 3", Location: 1, Narrative: 2, RequiredVerb: 2, RequiredSubject: 1, RemoveOldNarrative: true, RequiredEvents: []int{2}},
			{ID: 4, Name: "event 4", Location: 1, Narrative: 1, RequiredVerb: 8, RequiredSubject: 1, RemoveOldNarrative: true},
		},
		Rooms: []world.Room{
			{
				ID: 1, Name: "room 1", Description: "first room", Narrative: 1,
				Exits:    []world.Exit{{Direction: world.South, RoomID: 2}},
				Stash:    []int{1, 2},
				Events:   []int{1, 4, 2},
				Subjects: []int{1},
			},
			{
				ID: 2, Name: "room 2", Description: "second room", Narrative: 2,
				Exits: []world.Exit{{Direction: world.North, RoomID: 1}},
			},
		},
		Intro: "text",
	}
}

func sampleEngine(t *testing.T) *Engine {
	cat, err := world.NewCatalog(sampleDef())
	require.NoError(t, err)
	return New(cat)
}

func Test_Engine_sampleScenario(t *testing.T) {
	assert := assert.New(t)
	e := sampleEngine(t)

	out, err := e.Parse("look")
	assert.NoError(err)
	assert.Equal(OutcomeLook, out.Kind)
	assert.Contains(out.Text, "item1")
	assert.Contains(out.Text, "item2")
	assert.Equal("first room\nHere you see: \n\nan item1\nan item2\nsubject1", out.Text)

	before := e.State()
	out, err = e.Parse("help")
	assert.NoError(err)
	assert.Equal(OutcomeHelp, out.Kind)
	assert.True(strings.HasSuffix(out.Text, "Valid verbs: quit, help, look, inventory, pick, drop, give, talk, hug"))
	assert.Equal(before, e.State())

	out, err = e.Parse("south")
	assert.NoError(err)
	assert.Equal(OutcomeEventSuccess, out.Kind)
	assert.Equal("second room", out.Event.Parts.RoomText)
	assert.Equal(2, e.State().Room)

	before = e.State()
	out, err = e.Parse("quit")
	assert.NoError(err)
	assert.Equal(Outcome{Kind: OutcomeQuit}, out)
	assert.Equal(before, e.State())
}

func Test_Engine_goldenTranscript(t *testing.T) {
	e := sampleEngine(t)

	inputs := []string{
		"look",
		"take item1",
		"take item2",
		"hug subject1",
		"talk to subject1",
		"hug subject1",
		"look",
		"inventory",
		"south",
		"drop item2",
		"south",
		"quit",
	}

	var transcript strings.Builder
	for _, in := range inputs {
		transcript.WriteString("> " + in + "\n")
		transcript.Write(e.ParseJSON(in))
		transcript.WriteString("\n")
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "sample_transcript", []byte(transcript.String()))
}

func Test_Engine_Parse_errorsLeaveStateAlone(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expectErr nrerrors.Kind
	}{
		{name: "unrecognized", input: "dance wildly", expectErr: nrerrors.UnrecognizedInput},
		{name: "blank", input: "   ", expectErr: nrerrors.EmptyInput},
		{name: "ambiguous", input: "give item1 item2", expectErr: nrerrors.AmbiguousInput},
		{name: "missing object", input: "take", expectErr: nrerrors.MissingObject},
		{name: "no exit", input: "go north", expectErr: nrerrors.InvalidDirection},
		{name: "can't pick", input: "take item1", expectErr: nrerrors.CantPick},
		{name: "not carrying", input: "drop item2", expectErr: nrerrors.NotCarrying},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			e := sampleEngine(t)
			before := e.State()

			_, err := e.Parse(tc.input)

			assert.ErrorIs(err, tc.expectErr)
			assert.Equal(before, e.State())
		})
	}
}

func Test_Engine_lookIsIdempotent(t *testing.T) {
	assert := assert.New(t)
	e := sampleEngine(t)

	first, err := e.Parse("look")
	assert.NoError(err)
	second, err := e.Parse("look")
	assert.NoError(err)

	assert.Equal(first, second)
	assert.Equal("first room\nHere you see: \n\nan item1\nan item2\nsubject1", first.Text)
}

func Test_Engine_lookAt(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expect    string
		expectErr nrerrors.Kind
	}{
		{name: "item in room", input: "look at item1", expect: "item 1 description"},
		{name: "subject in room", input: "stare at subject1", expect: "a subject description"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			e := sampleEngine(t)

			out, err := e.Parse(tc.input)

			assert.NoError(err)
			assert.Equal(Outcome{Kind: OutcomeLook, Text: tc.expect}, out)
		})
	}

	t.Run("subject not in room", func(t *testing.T) {
		assert := assert.New(t)
		e := sampleEngine(t)
		_, err := e.Parse("south")
		require.NoError(t, err)

		_, err = e.Parse("look at subject1")

		assert.ErrorIs(err, nrerrors.NotPresent)
	})
}

func Test_Engine_takeAndDrop(t *testing.T) {
	assert := assert.New(t)
	e := sampleEngine(t)

	out, err := e.Parse("take item1")
	assert.ErrorIs(err, nrerrors.CantPick)
	assert.Empty(e.State().Inventory)

	out, err = e.Parse("grab item2")
	assert.NoError(err)
	assert.Equal(Outcome{Kind: OutcomeNewItem, Text: "\nYou now have an item2\n"}, out)
	assert.Equal([]int{2}, e.State().Inventory)
	assert.Equal([]int{1}, e.State().Stashes[1])

	_, err = e.Parse("take item2")
	assert.ErrorIs(err, nrerrors.NotPresent)

	out, err = e.Parse("i")
	assert.NoError(err)
	assert.Equal(Outcome{Kind: OutcomeInventory, Text: "You are currently carrying: \n\nan item2"}, out)

	_, err = e.Parse("s")
	assert.NoError(err)

	out, err = e.Parse("drop item2")
	assert.NoError(err)
	assert.Equal(Outcome{Kind: OutcomeDropItem, Text: "\nYou no longer have an item2\n"}, out)
	assert.Empty(e.State().Inventory)
	assert.Equal([]int{2}, e.State().Stashes[2])

	out, err = e.Parse("inventory")
	assert.NoError(err)
	assert.Equal(Outcome{Kind: OutcomeInventory, Text: "You are not carrying anything."}, out)
}

func Test_Engine_events(t *testing.T) {
	assert := assert.New(t)
	e := sampleEngine(t)

	// event 2 needs event 4 first
	out, err := e.Parse("hug subject1")
	assert.NoError(err)
	assert.Equal(Outcome{Kind: OutcomeSubjectNoEvent, Text: "default text"}, out)
	assert.False(e.State().Completed[2])

	out, err = e.Parse("talk to subject1")
	assert.NoError(err)
	assert.Equal(OutcomeEventSuccess, out.Kind)
	assert.True(e.State().Completed[4])

	// an event only happens once
	out, err = e.Parse("talk to subject1")
	assert.NoError(err)
	assert.Equal(Outcome{Kind: OutcomeSubjectNoEvent, Text: "default text"}, out)

	out, err = e.Parse("hug subject1")
	assert.NoError(err)
	assert.Equal(OutcomeEventSuccess, out.Kind)
	assert.Equal("this narrative should replace the old one.", out.Event.Parts.RoomText)
	assert.Equal(3, e.State().Narratives[1])

	out, err = e.Parse("hug")
	assert.NoError(err)
	assert.Equal(Outcome{Kind: OutcomeSubjectNoEvent, Text: "Nothing happens."}, out)
}

func Test_Engine_earlierEventWins(t *testing.T) {
	assert := assert.New(t)

	def := sampleDef()
	def.Narratives = append(def.Narratives, world.Narrative{ID: 4, Text: "second hug"})
	def.Events = append(def.Events,
		world.Event{ID: 5, Location: 1, Narrative: 1, RequiredVerb: 9, RequiredSubject: 1},
		world.Event{ID: 6, Location: 1, Narrative: 4, RequiredVerb: 9, RequiredSubject: 1},
	)
	def.Rooms[0].Events = []int{5, 6}
	cat, err := world.NewCatalog(def)
	require.NoError(t, err)
	e := New(cat)

	out, err := e.Parse("hug subject1")
	assert.NoError(err)
	assert.Equal("text\n\ntext", out.Event.Parts.RoomText)
	assert.True(e.State().Completed[5])
	assert.False(e.State().Completed[6])

	out, err = e.Parse("hug subject1")
	assert.NoError(err)
	assert.Equal("text\n\nsecond hug", out.Event.Parts.RoomText)
}

func Test_Engine_eventEffects(t *testing.T) {
	assert := assert.New(t)

	def := sampleDef()
	def.Subjects = append(def.Subjects, world.Subject{ID: 2, Name: "ghost", DefaultText: "boo"})
	def.Items = append(def.Items, world.Item{ID: 3, Name: "key", CanPick: true})
	def.Narratives = append(def.Narratives, world.Narrative{ID: 4, Text: "{subject1} takes the {item1} and leaves a {key}. A {ghost} appears."})
	def.Events = append(def.Events, world.Event{
		ID: 5, Location: 1, Narrative: 4, RequiredVerb: 7, RequiredSubject: 1,
		RemoveItem: 1, AddItem: 3, AddSubject: 2, MoveSubjectTo: 2, Destination: 2,
	})
	def.Rooms[0].Events = []int{5}
	cat, err := world.NewCatalog(def)
	require.NoError(t, err)
	e := New(cat)

	out, err := e.Parse("give subject1")
	assert.NoError(err)
	assert.Equal(OutcomeEventSuccess, out.Kind)
	assert.Equal("\nYou now have a key\n", out.Event.Parts.EventText)
	assert.Equal("text\n\nsubject1 takes the item1 and leaves a key. A ghost appears.", out.Event.Parts.RoomText)
	assert.Equal([]string{"subject1", "item1", "key", "ghost"}, out.Event.TemplatedWords)
	assert.Equal("Exits:\nto the south you see second room", out.Event.Parts.Exits)

	st := e.State()
	assert.Equal(2, st.Room)
	assert.Equal([]int{3}, st.Inventory)
	assert.Equal([]int{2}, st.Stashes[1])
	assert.Equal([]int{2}, st.Subjects[1])
	assert.Equal([]int{1}, st.Subjects[2])
}

func Test_Engine_destinationEventDescribesOrigin(t *testing.T) {
	assert := assert.New(t)

	def := sampleDef()
	def.Events = append(def.Events, world.Event{ID: 5, Location: 1, Narrative: 1, RequiredVerb: 7, RequiredSubject: 1, Destination: 2})
	def.Rooms[0].Events = []int{5}
	cat, err := world.NewCatalog(def)
	require.NoError(t, err)
	e := New(cat)

	out, err := e.Parse("give subject1")
	assert.NoError(err)
	assert.Equal("text\n\ntext", out.Event.Parts.RoomText)
	assert.Equal("Exits:\nto the south you see second room", out.Event.Parts.Exits)
	assert.Equal("text\n\ntext\n\n\nExits:\nto the south you see second room", out.Event.Message)
	assert.Equal(2, e.State().Room)
}

func Test_Engine_failedEventIsNotApplied(t *testing.T) {
	assert := assert.New(t)

	def := sampleDef()
	def.Narratives = append(def.Narratives, world.Narrative{ID: 4, Text: "the {dragon} wakes"})
	def.Events = append(def.Events, world.Event{ID: 5, Location: 1, Narrative: 4, RequiredVerb: 9, RequiredSubject: 1, RemoveItem: 2})
	def.Rooms[0].Events = []int{5}
	cat, err := world.NewCatalog(def)
	require.NoError(t, err)
	e := New(cat)
	before := e.State()

	_, err = e.Parse("hug subject1")

	assert.ErrorIs(err, nrerrors.TemplateReference)
	assert.Equal(before, e.State())
}

func Test_Engine_FirstRoomText(t *testing.T) {
	assert := assert.New(t)
	e := sampleEngine(t)

	msg, err := e.FirstRoomText()

	assert.NoError(err)
	assert.Equal(EventMessage{
		Message: "text\n\n\nExits:\nto the south you see second room",
		Parts: MessageParts{
			RoomText:  "text",
			EventText: "",
			Exits:     "Exits:\nto the south you see second room",
		},
		TemplatedWords: []string{},
	}, msg)
	assert.Equal("text", e.Intro())
}

func Test_Engine_ParseJSON(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect string
	}{
		{name: "quit", input: "quit", expect: `{"ok":"quit"}`},
		{name: "subject no event", input: "hug subject1", expect: `{"ok":{"subject_no_event":"default text"}}`},
		{name: "error", input: "dance", expect: `{"error":"I don't understand that."}`},
		{name: "blank", input: "", expect: `{"error":"No input. Nothing to process."}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			e := sampleEngine(t)

			actual := e.ParseJSON(tc.input)

			assert.JSONEq(tc.expect, string(actual))
		})
	}
}

func Test_Engine_Resume(t *testing.T) {
	assert := assert.New(t)
	e := sampleEngine(t)
	_, err := e.Parse("take item2")
	require.NoError(t, err)

	resumed, err := Resume(e.Parser(), e.State())
	assert.NoError(err)
	assert.Equal(e.State(), resumed.State())

	bad := e.State()
	bad.Room = 40
	_, err = Resume(e.Parser(), bad)
	assert.Error(err)
}

func Test_Engine_Execute_unknownKind(t *testing.T) {
	e := sampleEngine(t)

	_, err := e.Execute(command.Command{})

	assert.Error(t, err)
}
