package server

import (
	"strings"

	"github.com/dekarrin/nightrunner/server/api"
	"github.com/dekarrin/nightrunner/server/middle"
	"github.com/go-chi/chi/v5"
)

var (
	paramTypePats = map[string]string{
		"uuid": "[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}",
	}
)

// p is a quick parameter in a URI, made very small to ease readability in route
// listings.
func p(nameType string) string {
	name, pat, _ := strings.Cut(nameType, ":")

	if translatedPat, ok := paramTypePats[pat]; ok {
		pat = translatedPat
	}

	if pat == "" {
		return "{" + name + "}"
	}
	return "{" + name + ":" + pat + "}"
}

func newRouter(a api.API) chi.Router {
	r := chi.NewRouter()

	r.Mount(api.PathPrefix, newAPIRouter(a))

	return r
}

func newAPIRouter(a api.API) chi.Router {
	r := chi.NewRouter()

	r.Mount("/info", newInfoRouter(a))
	r.HandleFunc("/info/", api.RedirectNoTrailingSlash)
	r.Mount("/worlds", newWorldsRouter(a))
	r.Mount("/sessions", newSessionsRouter(a))

	r.NotFound(a.NotFound)
	r.MethodNotAllowed(a.MethodNotAllowed)

	return r
}

func newInfoRouter(a api.API) chi.Router {
	r := chi.NewRouter()

	r.Get("/", a.HTTPGetInfo())

	return r
}

func newWorldsRouter(a api.API) chi.Router {
	reqAuthor := middle.RequireAuthorKey(a.Backend, a.UnauthDelay)

	r := chi.NewRouter()

	r.Get("/", a.HTTPGetAllWorlds())
	r.With(reqAuthor).Post("/", a.HTTPCreateWorld())

	r.Route("/"+p("id:uuid"), func(r chi.Router) {
		r.Get("/", a.HTTPGetWorld())
		r.With(reqAuthor).Delete("/", a.HTTPDeleteWorld())
	})
	r.HandleFunc("/"+p("id:uuid")+"/", api.RedirectNoTrailingSlash)

	return r
}

func newSessionsRouter(a api.API) chi.Router {
	reqSession := middle.RequireSession(a.Backend.DB.Sessions(), a.Secret, a.UnauthDelay)

	r := chi.NewRouter()

	r.Post("/", a.HTTPCreateSession())

	r.Route("/"+p("id:uuid"), func(r chi.Router) {
		r.Use(reqSession)

		r.Get("/", a.HTTPGetSession())
		r.Delete("/", a.HTTPDeleteSession())

		r.Get("/commands", a.HTTPGetAllCommands())
		r.Post("/commands", a.HTTPCreateCommand())
		r.Get("/commands/"+p("cmd:uuid"), a.HTTPGetCommand())
	})

	return r
}
