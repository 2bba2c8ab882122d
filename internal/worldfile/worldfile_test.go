package worldfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dekarrin/nightrunner/internal/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expectedSample() world.Definition {
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

func Test_LoadDefinition(t *testing.T) {
	testCases := []struct {
		name string
		path string
	}{
		{name: "json file", path: "sample.json"},
		{name: "toml file", path: "sample.toml"},
		{name: "yaml directory", path: "sample_yaml"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := LoadDefinition(filepath.Join("testdata", tc.path))
			if !assert.NoError(err) {
				return
			}

			assert.Equal(expectedSample(), actual)
		})
	}
}

func Test_Load(t *testing.T) {
	assert := assert.New(t)

	cat, err := Load(filepath.Join("testdata", "sample.json"))
	require.NoError(t, err)

	assert.Equal("text", cat.Intro())
	assert.Equal(1, cat.StartRoom())
	assert.Len(cat.Rooms(), 2)

	it, ok := cat.Item(2)
	assert.True(ok)
	assert.True(it.CanPick)
}

func Test_Load_badReferences(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "broken.json")
	data := `{
		"allowed_verbs": [{"id": 1, "names": ["quit"], "verb_function": "quit"}],
		"rooms": [{"id": 1, "name": "r", "description": "d", "narrative": 7}]
	}`
	require.NoError(t, os.WriteFile(p, []byte(data), 0644))

	_, err := Load(p)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "broken.json")
}

func Test_Parse(t *testing.T) {
	testCases := []struct {
		name      string
		data      string
		format    Format
		expectErr string
	}{
		{
			name:   "yaml document",
			format: FormatYAML,
			data: `
allowed_verbs:
  - id: 1
    names: [quit]
    verb_function: quit
narratives:
  - id: 1
    text: hello
rooms:
  - id: 1
    name: hall
    description: a hall
    narrative: 1
intro: welcome
`,
		},
		{
			name:   "json with unknown direction",
			format: FormatJSON,
			data: `{
				"narratives": [{"id": 1, "text": "hello"}],
				"rooms": [{"id": 1, "name": "hall", "narrative": 1, "exits": [{"room_id": 1, "direction": "sideways"}]}]
			}`,
			expectErr: `rooms[0]: exits[0]: unknown direction "sideways"`,
		},
		{
			name:      "json with unknown verb function",
			format:    FormatJSON,
			data:      `{"allowed_verbs": [{"id": 1, "names": ["dance"], "verb_function": "boogie"}]}`,
			expectErr: `allowed_verbs[0]: verb_function: unknown verb function "boogie"`,
		},
		{
			name:      "json with unknown key",
			format:    FormatJSON,
			data:      `{"roomz": []}`,
			expectErr: "decoding JSON",
		},
		{
			name:      "yaml with unknown key",
			format:    FormatYAML,
			data:      "roomz: []\n",
			expectErr: "decoding YAML",
		},
		{
			name:      "toml with bad header",
			format:    FormatTOML,
			data:      `format = "TUNA"`,
			expectErr: "in header",
		},
		{
			name:      "toml with unknown key",
			format:    FormatTOML,
			data:      `roomz = 8`,
			expectErr: `unknown key "roomz"`,
		},
		{
			name:      "no rooms",
			format:    FormatJSON,
			data:      `{}`,
			expectErr: "room",
		},
		{
			name:      "unknown format",
			format:    FormatUnknown,
			data:      `{}`,
			expectErr: ErrUnknownFormat.Error(),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			cat, err := Parse([]byte(tc.data), tc.format)

			if tc.expectErr != "" {
				if assert.Error(err) {
					assert.Contains(err.Error(), tc.expectErr)
				}
				return
			}
			if !assert.NoError(err) {
				return
			}
			assert.Equal("welcome", cat.Intro())
			assert.Equal(1, cat.StartRoom())
		})
	}
}

func Test_DetectFormat(t *testing.T) {
	dir := t.TempDir()
	touch := func(name string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, nil, 0644))
		return p
	}

	testCases := []struct {
		name      string
		path      string
		expect    Format
		expectErr bool
	}{
		{name: "json", path: touch("w.json"), expect: FormatJSON},
		{name: "toml", path: touch("w.toml"), expect: FormatTOML},
		{name: "nrw", path: touch("w.NRW"), expect: FormatTOML},
		{name: "yaml", path: touch("w.yml"), expect: FormatYAML},
		{name: "directory", path: dir, expect: FormatYAML},
		{name: "unknown extension", path: touch("w.txt"), expectErr: true},
		{name: "missing", path: filepath.Join(dir, "nope.json"), expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual, err := DetectFormat(tc.path)
			if tc.expectErr {
				assert.Error(err)
				return
			}
			assert.NoError(err)
			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_ParseFormat(t *testing.T) {
	assert := assert.New(t)

	f, err := ParseFormat("YML")
	assert.NoError(err)
	assert.Equal(FormatYAML, f)

	f, err = ParseFormat("json")
	assert.NoError(err)
	assert.Equal(FormatJSON, f)

	_, err = ParseFormat("xml")
	assert.ErrorIs(err, ErrUnknownFormat)
}

func Test_ReadDocument(t *testing.T) {
	testCases := []struct {
		name         string
		path         string
		expectFormat Format
	}{
		{name: "json file", path: "sample.json", expectFormat: FormatJSON},
		{name: "toml file", path: "sample.toml", expectFormat: FormatTOML},
		{name: "yaml dir", path: "sample_yaml", expectFormat: FormatYAML},
	}

	expect, err := world.NewCatalog(expectedSample())
	require.NoError(t, err)

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			data, format, err := ReadDocument(filepath.Join("testdata", tc.path))
			require.NoError(t, err)
			assert.Equal(tc.expectFormat, format)

			cat, err := Parse(data, format)
			require.NoError(t, err)

			assert.Equal(expect.Verbs(), cat.Verbs())
			assert.Equal(expect.Events(), cat.Events())
			assert.Equal(expect.Rooms(), cat.Rooms())
			assert.Equal(expect.Intro(), cat.Intro())
		})
	}
}
