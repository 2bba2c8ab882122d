package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/dekarrin/nightrunner/internal/worldfile"
	"github.com/dekarrin/nightrunner/server/result"
	"github.com/dekarrin/nightrunner/server/serr"
)

// HTTPCreateWorld returns a HandlerFunc that uploads a new world. The body of
// the request is the world document itself. Its format is given by the
// "format" query parameter, or by the Content-Type of the request if that is
// not set. The "name" query parameter is required and "description" is
// optional.
//
// The handler does not check the author key; that must be done by
// middleware before it is reached.
func (api API) HTTPCreateWorld() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epCreateWorld)
}

func (api API) epCreateWorld(req *http.Request) result.Result {
	query := req.URL.Query()

	var format worldfile.Format
	var err error
	if formatStr := query.Get("format"); formatStr != "" {
		format, err = worldfile.ParseFormat(formatStr)
		if err != nil {
			return result.BadRequest("format: "+err.Error(), "format: %s", err.Error())
		}
	} else {
		format = formatFromContentType(req.Header.Get("Content-Type"))
		if format == worldfile.FormatUnknown {
			return result.BadRequest("format: query parameter is missing and content-type does not name a world format", "no format")
		}
	}

	name := query.Get("name")
	if name == "" {
		return result.BadRequest("name: query parameter is empty or missing from request", "empty name")
	}

	data, err := io.ReadAll(io.LimitReader(req.Body, MaxWorldSize+1))
	if err != nil {
		return result.BadRequest("could not read request body", "read body: %s", err.Error())
	}
	if len(data) > MaxWorldSize {
		return result.BadRequest("world document is too large", "body over %d bytes", MaxWorldSize)
	}

	w, err := api.Backend.CreateWorld(req.Context(), name, query.Get("description"), format, data)
	if err != nil {
		if errors.Is(err, serr.ErrBadWorld) || errors.Is(err, serr.ErrBadArgument) {
			return result.BadRequest(err.Error(), err.Error())
		} else if errors.Is(err, serr.ErrAlreadyExists) {
			return result.Conflict("World already exists", err.Error())
		}
		return result.InternalServerError(err.Error())
	}

	resp := worldModel(w)
	return result.Created(resp, "world %q (%s) created", w.Name, w.ID)
}

func formatFromContentType(contentType string) worldfile.Format {
	switch mediaType(contentType) {
	case "application/json":
		return worldfile.FormatJSON
	case "application/toml":
		return worldfile.FormatTOML
	case "application/yaml", "application/x-yaml", "text/yaml":
		return worldfile.FormatYAML
	default:
		return worldfile.FormatUnknown
	}
}

// HTTPGetAllWorlds returns a HandlerFunc that lists every uploaded world.
func (api API) HTTPGetAllWorlds() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetAllWorlds)
}

func (api API) epGetAllWorlds(req *http.Request) result.Result {
	worlds, err := api.Backend.GetAllWorlds(req.Context())
	if err != nil {
		return result.InternalServerError(err.Error())
	}

	resp := make([]WorldModel, len(worlds))
	for i := range worlds {
		resp[i] = worldModel(worlds[i])
	}

	return result.OK(resp, "client got all worlds")
}

// HTTPGetWorld returns a HandlerFunc that gets the metadata of one world. The
// world document itself is not included.
func (api API) HTTPGetWorld() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetWorld)
}

func (api API) epGetWorld(req *http.Request) result.Result {
	id := requireIDParam(req)

	w, err := api.Backend.GetWorld(req.Context(), id.String())
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError(err.Error())
	}

	return result.OK(worldModel(w), "client got world %s", w.ID)
}

// HTTPDeleteWorld returns a HandlerFunc that deletes a world and every session
// played in it.
//
// The handler does not check the author key; that must be done by
// middleware before it is reached.
func (api API) HTTPDeleteWorld() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epDeleteWorld)
}

func (api API) epDeleteWorld(req *http.Request) result.Result {
	id := requireIDParam(req)

	w, err := api.Backend.DeleteWorld(req.Context(), id.String())
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError(err.Error())
	}

	return result.NoContent("world %q (%s) deleted", w.Name, w.ID)
}
