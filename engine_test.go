package nightrunner

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleWorld = "internal/worldfile/testdata/sample.json"

func Test_Engine_RunUntilQuit(t *testing.T) {
	testCases := []struct {
		name         string
		input        string
		expectOutput []string
		notExpect    []string
	}{
		{
			name:  "quit ends the session",
			input: "look\nquit\nlook\n",
			expectOutput: []string{
				"Welcome to NightRunner\n(direct input mode)\n",
				"\ntext\n",
				"\ntext\n\n\nExits:\nto the south you see second room\n",
				"\nfirst room\nHere you see: \n\nan item1\nan item2\nsubject1\n",
				"Goodbye\n",
			},
		},
		{
			name:  "bad input shows game messages",
			input: "\ndance\ntake item1\ntake item2\nquit\n",
			expectOutput: []string{
				"I don't understand that.\nTry HELP for valid commands\n",
				"\nYou can't pick that up.\n",
				"\n\nYou now have an item2\n",
			},
		},
		{
			name:         "end of input stops without quit",
			input:        "south",
			expectOutput: []string{"\nsecond room\n", "Goodbye\n"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			var out bytes.Buffer

			eng, err := New(strings.NewReader(tc.input), &out, sampleWorld, true, 0)
			require.NoError(t, err)

			err = eng.RunUntilQuit()
			assert.NoError(err)
			assert.NoError(eng.Close())

			for _, expect := range tc.expectOutput {
				assert.Contains(out.String(), expect)
			}
			assert.Equal(1, strings.Count(out.String(), "Goodbye"))
		})
	}
}

func Test_Engine_RunUntilQuit_wrapsLongLines(t *testing.T) {
	var out bytes.Buffer

	eng, err := New(strings.NewReader("help\nquit\n"), &out, sampleWorld, true, 30)
	require.NoError(t, err)
	require.NoError(t, eng.RunUntilQuit())

	for _, line := range strings.Split(out.String(), "\n") {
		assert.LessOrEqual(t, len(line), 30, "line too long: %q", line)
	}
}

func Test_New_badWorld(t *testing.T) {
	_, err := New(strings.NewReader(""), &bytes.Buffer{}, "does/not/exist.json", true, 0)
	assert.Error(t, err)
}

func Test_Engine_VerbTable(t *testing.T) {
	assert := assert.New(t)

	eng, err := New(strings.NewReader(""), &bytes.Buffer{}, sampleWorld, true, 0)
	require.NoError(t, err)

	table := eng.VerbTable()

	assert.Contains(table, "SYNONYMS")
	assert.Contains(table, "pick")
	assert.Contains(table, "grab")
	assert.Contains(table, "talk")
}
