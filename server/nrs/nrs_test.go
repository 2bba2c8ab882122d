package nrs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dekarrin/nightrunner/internal/worldfile"
	"github.com/dekarrin/nightrunner/server/dao/inmem"
	"github.com/dekarrin/nightrunner/server/serr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleWorldPath = filepath.Join("..", "..", "internal", "worldfile", "testdata", "sample.json")

func newTestService(t *testing.T) *Service {
	svc, err := New(inmem.NewDatastore(), "author-key")
	require.NoError(t, err)
	return svc
}

func sampleWorldData(t *testing.T) []byte {
	data, err := os.ReadFile(sampleWorldPath)
	require.NoError(t, err)
	return data
}

func Test_Service_CheckAuthorKey(t *testing.T) {
	testCases := []struct {
		name      string
		configKey string
		givenKey  string
		expectErr error
	}{
		{name: "match", configKey: "secret", givenKey: "secret"},
		{name: "mismatch", configKey: "secret", givenKey: "guess", expectErr: serr.ErrBadCredentials},
		{name: "not configured", configKey: "", givenKey: "", expectErr: serr.ErrPermissions},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc, err := New(inmem.NewDatastore(), tc.configKey)
			require.NoError(t, err)

			err = svc.CheckAuthorKey(tc.givenKey)
			if tc.expectErr != nil {
				assert.ErrorIs(t, err, tc.expectErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func Test_Service_CreateWorld(t *testing.T) {
	testCases := []struct {
		name      string
		worldName string
		format    worldfile.Format
		data      []byte
		expectErr error
	}{
		{name: "blank name", worldName: " ", format: worldfile.FormatJSON, data: []byte(`{}`), expectErr: serr.ErrBadArgument},
		{name: "no format", worldName: "w", format: worldfile.FormatUnknown, data: []byte(`{}`), expectErr: serr.ErrBadArgument},
		{name: "bad document", worldName: "w", format: worldfile.FormatJSON, data: []byte(`{"rooms": 3}`), expectErr: serr.ErrBadWorld},
		{name: "no rooms", worldName: "w", format: worldfile.FormatJSON, data: []byte(`{}`), expectErr: serr.ErrBadWorld},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newTestService(t)
			_, err := svc.CreateWorld(context.Background(), tc.worldName, "", tc.format, tc.data)
			assert.ErrorIs(t, err, tc.expectErr)
		})
	}

	t.Run("valid", func(t *testing.T) {
		assert := assert.New(t)
		ctx := context.Background()
		svc := newTestService(t)

		w, err := svc.CreateWorld(ctx, "sample", "a test world", worldfile.FormatJSON, sampleWorldData(t))
		require.NoError(t, err)
		assert.Equal("json", w.Format)

		got, err := svc.GetWorld(ctx, w.ID.String())
		require.NoError(t, err)
		assert.Equal("sample", got.Name)

		all, err := svc.GetAllWorlds(ctx)
		require.NoError(t, err)
		assert.Len(all, 1)
	})
}

func Test_Service_PreloadWorld(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	svc := newTestService(t)

	w, err := svc.PreloadWorld(ctx, filepath.Join("..", "..", "internal", "worldfile", "testdata", "sample_yaml"))
	require.NoError(t, err)
	assert.Equal("sample_yaml", w.Name)
	assert.Equal("yaml", w.Format)

	// the parser must be buildable again from only the stored document.
	svc.forgetParser(w.ID)
	start, err := svc.StartSession(ctx, w.ID.String())
	require.NoError(t, err)
	assert.Equal("text", start.Intro)
}

func Test_Service_sessionLifecycle(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	svc := newTestService(t)

	w, err := svc.CreateWorld(ctx, "sample", "", worldfile.FormatJSON, sampleWorldData(t))
	require.NoError(t, err)

	start, err := svc.StartSession(ctx, w.ID.String())
	require.NoError(t, err)
	assert.Equal("text", start.Intro)
	assert.Equal("text", start.FirstRoom.Parts.RoomText)
	sessID := start.Session.ID.String()

	cmd, err := svc.RunCommand(ctx, sessID, "take item2")
	require.NoError(t, err)
	assert.Equal(`{"ok":{"new_item":"\nYou now have an item2\n"}}`, cmd.Result)

	cmd, err = svc.RunCommand(ctx, sessID, "take item1")
	require.NoError(t, err)
	assert.Equal(`{"error":"You can't pick that up."}`, cmd.Result)

	sess, err := svc.GetSession(ctx, sessID)
	require.NoError(t, err)
	info, err := svc.DescribeSession(ctx, sess)
	require.NoError(t, err)
	assert.Equal("room 1", info.RoomName)
	assert.Equal([]string{"item2"}, info.Inventory)

	_, err = svc.RunCommand(ctx, sessID, "south")
	require.NoError(t, err)
	sess, err = svc.GetSession(ctx, sessID)
	require.NoError(t, err)
	assert.Equal(2, sess.State.Room)

	cmd, err = svc.RunCommand(ctx, sessID, "quit")
	require.NoError(t, err)
	assert.Equal(`{"ok":"quit"}`, cmd.Result)

	_, err = svc.RunCommand(ctx, sessID, "look")
	assert.ErrorIs(err, serr.ErrSessionOver)

	history, err := svc.GetCommands(ctx, sessID)
	require.NoError(t, err)
	if assert.Len(history, 4) {
		assert.Equal("take item2", history[0].Input)
		assert.Equal("quit", history[3].Input)

		one, err := svc.GetCommand(ctx, sessID, history[1].ID.String())
		require.NoError(t, err)
		assert.Equal("take item1", one.Input)

		_, err = svc.GetCommand(ctx, w.ID.String(), history[1].ID.String())
		assert.ErrorIs(err, serr.ErrNotFound)
	}

	_, err = svc.EndSession(ctx, sessID)
	require.NoError(t, err)

	_, err = svc.GetSession(ctx, sessID)
	assert.ErrorIs(err, serr.ErrNotFound)
	_, err = svc.GetCommands(ctx, sessID)
	assert.ErrorIs(err, serr.ErrNotFound)
}

func Test_Service_DeleteWorld_endsSessions(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	svc := newTestService(t)

	w, err := svc.CreateWorld(ctx, "sample", "", worldfile.FormatJSON, sampleWorldData(t))
	require.NoError(t, err)
	start, err := svc.StartSession(ctx, w.ID.String())
	require.NoError(t, err)

	_, err = svc.DeleteWorld(ctx, w.ID.String())
	require.NoError(t, err)

	_, err = svc.GetSession(ctx, start.Session.ID.String())
	assert.ErrorIs(err, serr.ErrNotFound)
	_, err = svc.StartSession(ctx, w.ID.String())
	assert.ErrorIs(err, serr.ErrNotFound)
	_, err = svc.DeleteWorld(ctx, w.ID.String())
	assert.ErrorIs(err, serr.ErrNotFound)
}

func Test_Service_badIDs(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	checks := map[string]func() error{
		"GetWorld":     func() error { _, err := svc.GetWorld(ctx, "nope"); return err },
		"DeleteWorld":  func() error { _, err := svc.DeleteWorld(ctx, "nope"); return err },
		"StartSession": func() error { _, err := svc.StartSession(ctx, "nope"); return err },
		"GetSession":   func() error { _, err := svc.GetSession(ctx, "nope"); return err },
		"EndSession":   func() error { _, err := svc.EndSession(ctx, "nope"); return err },
		"RunCommand":   func() error { _, err := svc.RunCommand(ctx, "nope", "look"); return err },
		"GetCommands":  func() error { _, err := svc.GetCommands(ctx, "nope"); return err },
	}

	for name, check := range checks {
		t.Run(name, func(t *testing.T) {
			err := check()
			assert.True(t, errors.Is(err, serr.ErrBadArgument), "got %v", err)
		})
	}
}
