package api

import (
	"errors"
	"net/http"

	"github.com/dekarrin/nightrunner/server/dao"
	"github.com/dekarrin/nightrunner/server/middle"
	"github.com/dekarrin/nightrunner/server/result"
	"github.com/dekarrin/nightrunner/server/serr"
	"github.com/google/uuid"
)

// HTTPCreateCommand returns a HandlerFunc that runs one line of input in the
// client's session. Input the game does not accept still gives an HTTP-201;
// the result document of the created command holds the error.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the session that the client's token grants access to.
func (api API) HTTPCreateCommand() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epCreateCommand)
}

func (api API) epCreateCommand(req *http.Request) result.Result {
	sess := req.Context().Value(middle.AuthSession).(dao.Session)

	var cmdReq CommandRequest
	err := parseJSON(req, &cmdReq)
	if err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	cmd, err := api.Backend.RunCommand(req.Context(), sess.ID.String(), cmdReq.Input)
	if err != nil {
		if errors.Is(err, serr.ErrSessionOver) {
			return result.Gone("The game in this session is over", "session %s: %s", sess.ID, err.Error())
		} else if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError(err.Error())
	}

	return result.Created(commandModel(cmd), "session %s ran %q", sess.ID, cmd.Input)
}

// HTTPGetAllCommands returns a HandlerFunc that gets the command history of the
// client's session in the order the commands were run.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the session that the client's token grants access to.
func (api API) HTTPGetAllCommands() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetAllCommands)
}

func (api API) epGetAllCommands(req *http.Request) result.Result {
	sess := req.Context().Value(middle.AuthSession).(dao.Session)

	cmds, err := api.Backend.GetCommands(req.Context(), sess.ID.String())
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError(err.Error())
	}

	resp := make([]CommandModel, len(cmds))
	for i := range cmds {
		resp[i] = commandModel(cmds[i])
	}

	return result.OK(resp, "session %s got command history", sess.ID)
}

// HTTPGetCommand returns a HandlerFunc that gets a single command from the
// history of the client's session.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the session that the client's token grants access to.
func (api API) HTTPGetCommand() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetCommand)
}

func (api API) epGetCommand(req *http.Request) result.Result {
	sess := req.Context().Value(middle.AuthSession).(dao.Session)
	cmdID, err := getURLParam(req, "cmd", uuid.Parse)
	if err != nil {
		return result.BadRequest("command ID is not valid", err.Error())
	}

	cmd, err := api.Backend.GetCommand(req.Context(), sess.ID.String(), cmdID.String())
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError(err.Error())
	}

	return result.OK(commandModel(cmd), "session %s got command %s", sess.ID, cmd.ID)
}
