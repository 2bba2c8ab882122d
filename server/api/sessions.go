package api

import (
	"errors"
	"net/http"

	"github.com/dekarrin/nightrunner/server/dao"
	"github.com/dekarrin/nightrunner/server/middle"
	"github.com/dekarrin/nightrunner/server/result"
	"github.com/dekarrin/nightrunner/server/serr"
	"github.com/dekarrin/nightrunner/server/token"
)

// HTTPCreateSession returns a HandlerFunc that starts a new game in a world.
// The response holds the token the client must use for every later request
// about the session.
func (api API) HTTPCreateSession() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epCreateSession)
}

func (api API) epCreateSession(req *http.Request) result.Result {
	var createReq SessionCreateRequest
	err := parseJSON(req, &createReq)
	if err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}
	if createReq.WorldID == "" {
		return result.BadRequest("world_id: property is empty or missing from request", "empty world_id")
	}

	start, err := api.Backend.StartSession(req.Context(), createReq.WorldID)
	if err != nil {
		if errors.Is(err, serr.ErrBadArgument) {
			return result.BadRequest("world_id: "+err.Error(), err.Error())
		} else if errors.Is(err, serr.ErrNotFound) {
			return result.BadRequest("world_id: no world with that ID exists", "world %s not found", createReq.WorldID)
		}
		return result.InternalServerError(err.Error())
	}

	tok, err := token.Generate(api.Secret, start.Session)
	if err != nil {
		return result.InternalServerError("could not generate JWT: " + err.Error())
	}

	resp := SessionStartResponse{
		Session:   sessionModel(start.Session),
		Token:     tok,
		Intro:     start.Intro,
		FirstRoom: start.FirstRoom,
	}
	if resp.FirstRoom.TemplatedWords == nil {
		resp.FirstRoom.TemplatedWords = []string{}
	}

	return result.Created(resp, "session %s started in world %s", start.Session.ID, start.Session.WorldID)
}

// HTTPGetSession returns a HandlerFunc that gets the current state of the
// client's session.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the session that the client's token grants access to.
func (api API) HTTPGetSession() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetSession)
}

func (api API) epGetSession(req *http.Request) result.Result {
	sess := req.Context().Value(middle.AuthSession).(dao.Session)

	info, err := api.Backend.DescribeSession(req.Context(), sess)
	if err != nil {
		return result.InternalServerError(err.Error())
	}

	return result.OK(sessionInfoModel(info), "session %s got itself", sess.ID)
}

// HTTPDeleteSession returns a HandlerFunc that ends the client's session and
// deletes its history. The session's token is no longer valid afterwards.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the session that the client's token grants access to.
func (api API) HTTPDeleteSession() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epDeleteSession)
}

func (api API) epDeleteSession(req *http.Request) result.Result {
	sess := req.Context().Value(middle.AuthSession).(dao.Session)

	_, err := api.Backend.EndSession(req.Context(), sess.ID.String())
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError(err.Error())
	}

	return result.NoContent("session %s ended", sess.ID)
}
