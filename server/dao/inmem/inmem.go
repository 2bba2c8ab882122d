// Package inmem provides a dao.Store that keeps everything in memory. All data
// is lost when the process exits.
package inmem

import (
	"fmt"

	"github.com/dekarrin/nightrunner/server/dao"
)

type store struct {
	worlds *InMemoryWorldsRepository
	seshes *InMemorySessionsRepository
	coms   *InMemoryCommandsRepository
}

func NewDatastore() dao.Store {
	st := &store{
		worlds: NewWorldsRepository(),
		seshes: NewSessionsRepository(),
	}
	st.coms = NewCommandsRepository(st.seshes)
	return st
}

func (s *store) Worlds() dao.WorldRepository {
	return s.worlds
}

func (s *store) Sessions() dao.SessionRepository {
	return s.seshes
}

func (s *store) Commands() dao.CommandRepository {
	return s.coms
}

func (s *store) Close() error {
	var err error

	closers := []func() error{s.worlds.Close, s.seshes.Close, s.coms.Close}
	for _, c := range closers {
		if nextErr := c(); nextErr != nil {
			if err != nil {
				err = fmt.Errorf("%s\nadditionally, %w", err, nextErr)
			} else {
				err = nextErr
			}
		}
	}

	return err
}
