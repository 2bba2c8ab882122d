package api

import (
	"net/http"

	"github.com/dekarrin/nightrunner/internal/version"
	"github.com/dekarrin/nightrunner/server/result"
)

// HTTPGetInfo returns a HandlerFunc that retrieves information on the API and
// server.
func (api API) HTTPGetInfo() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetInfo)
}

func (api API) epGetInfo(req *http.Request) result.Result {
	var resp InfoModel
	resp.Version.Server = version.ServerCurrent
	resp.Version.NightRunner = version.Current

	return result.OK(resp, "client got API info")
}
