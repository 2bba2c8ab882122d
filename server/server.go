// Package server runs the NightRunner HTTP server, which lets clients upload
// worlds and play sessions in them over a REST API.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/dekarrin/nightrunner/server/api"
	"github.com/dekarrin/nightrunner/server/dao"
	"github.com/dekarrin/nightrunner/server/nrs"
)

// API routes:
//
//	GET    /info                          - version info on the server and engine.
//	POST   /worlds                        - upload a world (author key required).
//	GET    /worlds                        - list all worlds.
//	GET    /worlds/{id}                   - get info on a world.
//	DELETE /worlds/{id}                   - delete a world and its sessions (author key required).
//	POST   /sessions                      - start a game in a world; gives the session token.
//	GET    /sessions/{id}                 - get the state of the session (session token required).
//	DELETE /sessions/{id}                 - end the session (session token required).
//	POST   /sessions/{id}/commands        - run a command (session token required).
//	GET    /sessions/{id}/commands        - get command history (session token required).
//	GET    /sessions/{id}/commands/{cmd}  - get one command (session token required).

// NightRunnerServer is an HTTP REST server that serves NightRunner worlds and
// game sessions. The zero-value of a NightRunnerServer should not be used
// directly; call New() to get one ready for use.
type NightRunnerServer struct {
	router http.Handler
	db     dao.Store
	svc    *nrs.Service
}

// New creates a new NightRunnerServer from cfg. Unset values in cfg are given
// their defaults. Every world in cfg.PreloadWorlds is loaded before New
// returns.
func New(cfg Config) (*NightRunnerServer, error) {
	cfg = cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	db, err := cfg.DB.Connect()
	if err != nil {
		return nil, fmt.Errorf("connect DB: %w", err)
	}

	svc, err := nrs.New(db, cfg.AuthorKey)
	if err != nil {
		db.Close()
		return nil, err
	}

	for _, path := range cfg.PreloadWorlds {
		w, err := svc.PreloadWorld(context.Background(), path)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("preload world: %w", err)
		}
		log.Printf("INFO  Loaded world %q as %s", path, w.ID)
	}

	a := api.API{
		Backend:     svc,
		UnauthDelay: cfg.UnauthDelay(),
		Secret:      cfg.TokenSecret,
	}

	return &NightRunnerServer{
		router: newRouter(a),
		db:     db,
		svc:    svc,
	}, nil
}

// Handler returns the root handler of the server, for use with an
// http.Server or in tests.
func (srv *NightRunnerServer) Handler() http.Handler {
	return srv.router
}

// Service returns the backend service of the server.
func (srv *NightRunnerServer) Service() *nrs.Service {
	return srv.svc
}

// ServeForever begins listening on the given address for HTTP REST client
// requests. If address is "", it defaults to "localhost:8080". It only returns
// if the server stops.
func (srv *NightRunnerServer) ServeForever(address string) error {
	if address == "" {
		address = "localhost:8080"
	}

	log.Printf("INFO  Listening on %s", address)
	return http.ListenAndServe(address, srv.router)
}

// Close closes the persistence of the server.
func (srv *NightRunnerServer) Close() error {
	return srv.db.Close()
}
