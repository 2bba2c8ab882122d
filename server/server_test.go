package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleWorldPath = filepath.Join("..", "internal", "worldfile", "testdata", "sample.json")

const testAuthorKey = "let-me-write-worlds"

func newTestServer(t *testing.T) *NightRunnerServer {
	srv, err := New(Config{
		AuthorKey:         testAuthorKey,
		UnauthDelayMillis: -1,
	})
	require.NoError(t, err)
	t.Cleanup(func() { srv.Close() })
	return srv
}

// do sends a request to the server and decodes a JSON response body into
// respObj if it is not nil.
func do(t *testing.T, srv *NightRunnerServer, method, path, bearer, contentType string, body []byte, respObj interface{}) int {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if respObj != nil && w.Code < 300 && w.Code != http.StatusNoContent {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), respObj), "body: %s", w.Body.String())
	}
	return w.Code
}

func uploadSample(t *testing.T, srv *NightRunnerServer) string {
	data, err := os.ReadFile(sampleWorldPath)
	require.NoError(t, err)

	var world struct {
		ID string `json:"id"`
	}
	status := do(t, srv, "POST", "/api/v1/worlds?name=sample&format=json", testAuthorKey, "", data, &world)
	require.Equal(t, http.StatusCreated, status)
	return world.ID
}

func Test_Server_info(t *testing.T) {
	assert := assert.New(t)
	srv := newTestServer(t)

	var info struct {
		Version struct {
			Server      string `json:"server"`
			NightRunner string `json:"nightrunner"`
		} `json:"version"`
	}
	status := do(t, srv, "GET", "/api/v1/info", "", "", nil, &info)

	assert.Equal(http.StatusOK, status)
	assert.NotEmpty(info.Version.Server)
	assert.NotEmpty(info.Version.NightRunner)

	assert.Equal(http.StatusNotFound, do(t, srv, "GET", "/api/v1/nothing", "", "", nil, nil))
}

func Test_Server_worlds(t *testing.T) {
	data, err := os.ReadFile(sampleWorldPath)
	require.NoError(t, err)

	testCases := []struct {
		name         string
		path         string
		bearer       string
		contentType  string
		body         []byte
		expectStatus int
	}{
		{name: "no key", path: "/api/v1/worlds?name=w&format=json", body: data, expectStatus: http.StatusUnauthorized},
		{name: "wrong key", path: "/api/v1/worlds?name=w&format=json", bearer: "guess", body: data, expectStatus: http.StatusUnauthorized},
		{name: "no name", path: "/api/v1/worlds?format=json", bearer: testAuthorKey, body: data, expectStatus: http.StatusBadRequest},
		{name: "no format", path: "/api/v1/worlds?name=w", bearer: testAuthorKey, body: data, expectStatus: http.StatusBadRequest},
		{name: "bad format", path: "/api/v1/worlds?name=w&format=xml", bearer: testAuthorKey, body: data, expectStatus: http.StatusBadRequest},
		{name: "bad world", path: "/api/v1/worlds?name=w&format=json", bearer: testAuthorKey, body: []byte(`{"rooms": []}`), expectStatus: http.StatusBadRequest},
		{name: "format from query", path: "/api/v1/worlds?name=w&format=json", bearer: testAuthorKey, body: data, expectStatus: http.StatusCreated},
		{name: "format from content type", path: "/api/v1/worlds?name=w", bearer: testAuthorKey, contentType: "application/json; charset=utf-8", body: data, expectStatus: http.StatusCreated},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newTestServer(t)
			status := do(t, srv, "POST", tc.path, tc.bearer, tc.contentType, tc.body, nil)
			assert.Equal(t, tc.expectStatus, status)
		})
	}

	t.Run("get and delete", func(t *testing.T) {
		assert := assert.New(t)
		srv := newTestServer(t)
		id := uploadSample(t, srv)

		var all []map[string]interface{}
		assert.Equal(http.StatusOK, do(t, srv, "GET", "/api/v1/worlds", "", "", nil, &all))
		assert.Len(all, 1)

		var one map[string]interface{}
		assert.Equal(http.StatusOK, do(t, srv, "GET", "/api/v1/worlds/"+id, "", "", nil, &one))
		assert.Equal("sample", one["name"])
		assert.Equal("json", one["format"])

		assert.Equal(http.StatusUnauthorized, do(t, srv, "DELETE", "/api/v1/worlds/"+id, "", "", nil, nil))
		assert.Equal(http.StatusNoContent, do(t, srv, "DELETE", "/api/v1/worlds/"+id, testAuthorKey, "", nil, nil))
		assert.Equal(http.StatusNotFound, do(t, srv, "GET", "/api/v1/worlds/"+id, "", "", nil, nil))
	})
}

func Test_Server_sessionLifecycle(t *testing.T) {
	assert := assert.New(t)
	srv := newTestServer(t)
	worldID := uploadSample(t, srv)

	var start struct {
		Session struct {
			ID  string `json:"id"`
			URI string `json:"uri"`
		} `json:"session"`
		Token     string `json:"token"`
		Intro     string `json:"intro"`
		FirstRoom struct {
			Message string `json:"message"`
		} `json:"first_room"`
	}
	body, _ := json.Marshal(map[string]string{"world_id": worldID})
	status := do(t, srv, "POST", "/api/v1/sessions", "", "application/json", body, &start)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal("text", start.Intro)
	assert.NotEmpty(start.FirstRoom.Message)
	require.NotEmpty(t, start.Token)

	sessPath := "/api/v1/sessions/" + start.Session.ID
	assert.Equal(sessPath, start.Session.URI)

	// no token, or a token for another session, is refused
	assert.Equal(http.StatusUnauthorized, do(t, srv, "GET", sessPath, "", "", nil, nil))
	var other struct {
		Token string `json:"token"`
	}
	require.Equal(t, http.StatusCreated, do(t, srv, "POST", "/api/v1/sessions", "", "application/json", body, &other))
	assert.Equal(http.StatusForbidden, do(t, srv, "GET", sessPath, other.Token, "", nil, nil))

	run := func(input string) (int, string) {
		var cmd struct {
			Result json.RawMessage `json:"result"`
		}
		b, _ := json.Marshal(map[string]string{"input": input})
		status := do(t, srv, "POST", sessPath+"/commands", start.Token, "application/json", b, &cmd)
		return status, string(cmd.Result)
	}

	status, res := run("take item2")
	assert.Equal(http.StatusCreated, status)
	assert.Equal(`{"ok":{"new_item":"\nYou now have an item2\n"}}`, res)

	status, res = run("fly away")
	assert.Equal(http.StatusCreated, status)
	assert.Contains(res, `"error"`)

	var sess struct {
		Room      string   `json:"room"`
		Inventory []string `json:"inventory"`
		Ended     bool     `json:"ended"`
	}
	assert.Equal(http.StatusOK, do(t, srv, "GET", sessPath, start.Token, "", nil, &sess))
	assert.Equal("room 1", sess.Room)
	assert.Equal([]string{"item2"}, sess.Inventory)
	assert.False(sess.Ended)

	status, res = run("quit")
	assert.Equal(http.StatusCreated, status)
	assert.Equal(`{"ok":"quit"}`, res)

	status, _ = run("look")
	assert.Equal(http.StatusGone, status)

	var history []struct {
		ID    string `json:"id"`
		Input string `json:"input"`
	}
	assert.Equal(http.StatusOK, do(t, srv, "GET", sessPath+"/commands", start.Token, "", nil, &history))
	if assert.Len(history, 3) {
		assert.Equal("take item2", history[0].Input)
		assert.Equal("fly away", history[1].Input)
		assert.Equal("quit", history[2].Input)

		var one struct {
			Input string `json:"input"`
		}
		assert.Equal(http.StatusOK, do(t, srv, "GET", sessPath+"/commands/"+history[1].ID, start.Token, "", nil, &one))
		assert.Equal("fly away", one.Input)
	}

	assert.Equal(http.StatusNoContent, do(t, srv, "DELETE", sessPath, start.Token, "", nil, nil))

	// the token of a deleted session no longer works
	assert.Equal(http.StatusUnauthorized, do(t, srv, "GET", sessPath, start.Token, "", nil, nil))
}

func Test_Server_createSession_badRequests(t *testing.T) {
	testCases := []struct {
		name         string
		contentType  string
		body         string
		expectStatus int
	}{
		{name: "not JSON", contentType: "text/plain", body: `{}`, expectStatus: http.StatusBadRequest},
		{name: "malformed", contentType: "application/json", body: `{`, expectStatus: http.StatusBadRequest},
		{name: "no world", contentType: "application/json", body: `{}`, expectStatus: http.StatusBadRequest},
		{name: "bad world ID", contentType: "application/json", body: `{"world_id": "x"}`, expectStatus: http.StatusBadRequest},
		{name: "unknown world", contentType: "application/json", body: `{"world_id": "1c1f3b2e-8a8e-4bb5-9b7a-2b6c4b1d2e3f"}`, expectStatus: http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newTestServer(t)
			status := do(t, srv, "POST", "/api/v1/sessions", "", tc.contentType, []byte(tc.body), nil)
			assert.Equal(t, tc.expectStatus, status)
		})
	}
}

func Test_New_preload(t *testing.T) {
	assert := assert.New(t)

	srv, err := New(Config{PreloadWorlds: []string{sampleWorldPath}, UnauthDelayMillis: -1})
	require.NoError(t, err)
	defer srv.Close()

	var all []map[string]interface{}
	assert.Equal(http.StatusOK, do(t, srv, "GET", "/api/v1/worlds", "", "", nil, &all))
	if assert.Len(all, 1) {
		assert.Equal("sample", all[0]["name"])
	}

	// no author key configured means no uploads at all
	assert.Equal(http.StatusUnauthorized, do(t, srv, "POST", "/api/v1/worlds?name=w&format=json", "", "", []byte(`{}`), nil))
}
