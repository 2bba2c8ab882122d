// Package nrs has services for interacting with the NightRunner server backend
// decoupled from the API that accesses it.
package nrs

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dekarrin/nightrunner/internal/command"
	"github.com/dekarrin/nightrunner/internal/worldfile"
	"github.com/dekarrin/nightrunner/server/dao"
	"github.com/dekarrin/nightrunner/server/serr"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Service is a service for interacting with and modifying the NightRunner
// server backend. It performs the actions requested and makes calls to server
// persistence to preserve the backend state.
//
// The zero-value of Service is not ready to be used; call New to get one.
type Service struct {
	// DB is the persistence store of the service.
	DB dao.Store

	authorKeyHash []byte

	parsersMtx sync.Mutex
	parsers    map[uuid.UUID]*command.Parser

	sessionsMtx sync.Mutex
	sessionLock map[uuid.UUID]*sync.Mutex
}

// New creates a Service that persists to db. Uploading and deleting worlds
// requires authorKey; if it is empty, those actions are never allowed.
func New(db dao.Store, authorKey string) (*Service, error) {
	svc := &Service{
		DB:          db,
		parsers:     map[uuid.UUID]*command.Parser{},
		sessionLock: map[uuid.UUID]*sync.Mutex{},
	}

	if authorKey != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(authorKey), bcrypt.DefaultCost)
		if err != nil {
			if errors.Is(err, bcrypt.ErrPasswordTooLong) {
				return nil, serr.New("author key is too long", err, serr.ErrBadArgument)
			}
			return nil, serr.New("author key could not be hashed", err)
		}
		svc.authorKeyHash = hash
	}

	return svc, nil
}

// CheckAuthorKey checks key against the author key the Service was created
// with. If the key does not match, the returned error will match
// serr.ErrBadCredentials. If no author key was configured, it will match
// serr.ErrPermissions.
func (svc *Service) CheckAuthorKey(key string) error {
	if svc.authorKeyHash == nil {
		return serr.New("no author key is configured", serr.ErrPermissions)
	}

	err := bcrypt.CompareHashAndPassword(svc.authorKeyHash, []byte(key))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return serr.ErrBadCredentials
		}
		return serr.New("could not check author key", err)
	}

	return nil
}

// parser gets the parser for the world with the given ID, building it from
// the stored world document on first use.
func (svc *Service) parser(ctx context.Context, worldID uuid.UUID) (*command.Parser, error) {
	svc.parsersMtx.Lock()
	defer svc.parsersMtx.Unlock()

	if p, ok := svc.parsers[worldID]; ok {
		return p, nil
	}

	w, err := svc.DB.Worlds().GetByID(ctx, worldID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return nil, serr.New("world no longer exists", serr.ErrNotFound)
		}
		return nil, serr.WrapDB("could not get world", err)
	}

	format, err := worldfile.ParseFormat(w.Format)
	if err != nil {
		return nil, serr.New(fmt.Sprintf("stored world %s", w.ID), err, serr.ErrBadWorld)
	}
	cat, err := worldfile.Parse(w.Data, format)
	if err != nil {
		return nil, serr.New(fmt.Sprintf("stored world %s", w.ID), err, serr.ErrBadWorld)
	}

	p := command.NewParser(cat)
	svc.parsers[worldID] = p
	return p, nil
}

func (svc *Service) forgetParser(worldID uuid.UUID) {
	svc.parsersMtx.Lock()
	defer svc.parsersMtx.Unlock()
	delete(svc.parsers, worldID)
}

// lockSession blocks until the caller holds the lock for the session with the
// given ID and returns the function that releases it. Commands on one session
// are run one at a time.
func (svc *Service) lockSession(id uuid.UUID) (unlock func()) {
	svc.sessionsMtx.Lock()
	mtx, ok := svc.sessionLock[id]
	if !ok {
		mtx = &sync.Mutex{}
		svc.sessionLock[id] = mtx
	}
	svc.sessionsMtx.Unlock()

	mtx.Lock()
	return mtx.Unlock
}

func (svc *Service) forgetSessionLock(id uuid.UUID) {
	svc.sessionsMtx.Lock()
	defer svc.sessionsMtx.Unlock()
	delete(svc.sessionLock, id)
}

func parseID(id string) (uuid.UUID, error) {
	uuidID, err := uuid.Parse(id)
	if err != nil {
		return uuid.UUID{}, serr.New("ID is not valid", serr.ErrBadArgument)
	}
	return uuidID, nil
}
