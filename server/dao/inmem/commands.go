package inmem

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dekarrin/nightrunner/server/dao"
	"github.com/google/uuid"
)

// NewCommandsRepository creates a new Commands repo. If seshRepo is given,
// Create checks that the session of a new command exists.
func NewCommandsRepository(seshRepo dao.SessionRepository) *InMemoryCommandsRepository {
	return &InMemoryCommandsRepository{
		seshRepo:      seshRepo,
		coms:          make(map[uuid.UUID]dao.Command),
		bySeshIDIndex: make(map[uuid.UUID][]uuid.UUID),
	}
}

// InMemoryCommandsRepository stores commands. The index of a session's
// commands is kept in the order they were created.
type InMemoryCommandsRepository struct {
	mtx           sync.RWMutex
	coms          map[uuid.UUID]dao.Command
	seshRepo      dao.SessionRepository
	bySeshIDIndex map[uuid.UUID][]uuid.UUID
}

func (imcr *InMemoryCommandsRepository) Close() error {
	return nil
}

func (imcr *InMemoryCommandsRepository) Create(ctx context.Context, c dao.Command) (dao.Command, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Command{}, fmt.Errorf("could not generate ID: %w", err)
	}

	c.ID = newUUID
	c.Created = time.Now()

	if imcr.seshRepo != nil {
		_, err := imcr.seshRepo.GetByID(ctx, c.SessionID)
		if err != nil {
			if errors.Is(err, dao.ErrNotFound) {
				return dao.Command{}, dao.ErrConstraintViolation
			}
			return dao.Command{}, err
		}
	}

	imcr.mtx.Lock()
	defer imcr.mtx.Unlock()

	imcr.coms[c.ID] = c
	imcr.bySeshIDIndex[c.SessionID] = append(imcr.bySeshIDIndex[c.SessionID], c.ID)

	return c, nil
}

func (imcr *InMemoryCommandsRepository) GetAllBySession(ctx context.Context, id uuid.UUID) ([]dao.Command, error) {
	imcr.mtx.RLock()
	defer imcr.mtx.RUnlock()

	bySesh := imcr.bySeshIDIndex[id]
	all := make([]dao.Command, len(bySesh))
	for i := range bySesh {
		all[i] = imcr.coms[bySesh[i]]
	}

	return all, nil
}

func (imcr *InMemoryCommandsRepository) GetByID(ctx context.Context, id uuid.UUID) (dao.Command, error) {
	imcr.mtx.RLock()
	defer imcr.mtx.RUnlock()

	c, ok := imcr.coms[id]
	if !ok {
		return dao.Command{}, dao.ErrNotFound
	}

	return c, nil
}

func (imcr *InMemoryCommandsRepository) DeleteAllBySession(ctx context.Context, id uuid.UUID) error {
	imcr.mtx.Lock()
	defer imcr.mtx.Unlock()

	for _, comID := range imcr.bySeshIDIndex[id] {
		delete(imcr.coms, comID)
	}
	delete(imcr.bySeshIDIndex, id)

	return nil
}
