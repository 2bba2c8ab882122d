package inmem

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dekarrin/nightrunner/internal/util"
	"github.com/dekarrin/nightrunner/server/dao"
	"github.com/google/uuid"
)

func NewSessionsRepository() *InMemorySessionsRepository {
	return &InMemorySessionsRepository{
		seshes:         make(map[uuid.UUID]dao.Session),
		byWorldIDIndex: make(map[uuid.UUID][]uuid.UUID),
	}
}

// InMemorySessionsRepository stores sessions. Each stored State is a deep copy
// so that callers can never change a stored session without calling Update.
type InMemorySessionsRepository struct {
	mtx            sync.RWMutex
	seshes         map[uuid.UUID]dao.Session
	byWorldIDIndex map[uuid.UUID][]uuid.UUID
}

func (imsr *InMemorySessionsRepository) Close() error {
	return nil
}

func (imsr *InMemorySessionsRepository) Create(ctx context.Context, s dao.Session) (dao.Session, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Session{}, fmt.Errorf("could not generate ID: %w", err)
	}

	now := time.Now()
	s.ID = newUUID
	s.Created = now
	s.Modified = now
	s.State = s.State.Copy()

	imsr.mtx.Lock()
	defer imsr.mtx.Unlock()

	imsr.seshes[s.ID] = s
	imsr.byWorldIDIndex[s.WorldID] = append(imsr.byWorldIDIndex[s.WorldID], s.ID)

	return withStateCopy(s), nil
}

func (imsr *InMemorySessionsRepository) GetAll(ctx context.Context) ([]dao.Session, error) {
	imsr.mtx.RLock()
	defer imsr.mtx.RUnlock()

	all := make([]dao.Session, 0, len(imsr.seshes))
	for k := range imsr.seshes {
		all = append(all, withStateCopy(imsr.seshes[k]))
	}

	all = util.SortBy(all, func(l, r dao.Session) bool {
		return l.ID.String() < r.ID.String()
	})

	return all, nil
}

func (imsr *InMemorySessionsRepository) GetAllByWorld(ctx context.Context, id uuid.UUID) ([]dao.Session, error) {
	imsr.mtx.RLock()
	defer imsr.mtx.RUnlock()

	byWorld := imsr.byWorldIDIndex[id]
	all := make([]dao.Session, len(byWorld))
	for i := range byWorld {
		all[i] = withStateCopy(imsr.seshes[byWorld[i]])
	}

	all = util.SortBy(all, func(l, r dao.Session) bool {
		return l.ID.String() < r.ID.String()
	})

	return all, nil
}

func (imsr *InMemorySessionsRepository) Update(ctx context.Context, id uuid.UUID, s dao.Session) (dao.Session, error) {
	imsr.mtx.Lock()
	defer imsr.mtx.Unlock()

	existing, ok := imsr.seshes[id]
	if !ok {
		return dao.Session{}, dao.ErrNotFound
	}

	if s.ID != id {
		if _, ok := imsr.seshes[s.ID]; ok {
			return dao.Session{}, dao.ErrConstraintViolation
		}
	}

	s.Created = existing.Created
	s.Modified = time.Now()
	s.State = s.State.Copy()

	imsr.seshes[s.ID] = s
	if s.ID != id {
		delete(imsr.seshes, id)

		if existing.WorldID == s.WorldID {
			byWorld := imsr.byWorldIDIndex[existing.WorldID]
			pos := util.SliceIndexOf(id, byWorld)
			if pos < 0 {
				return dao.Session{}, fmt.Errorf("DB ASSERTION FAILURE: missing index entry for world %s to sesh %s", existing.WorldID, existing.ID)
			}
			byWorld[pos] = s.ID
			imsr.byWorldIDIndex[existing.WorldID] = byWorld
		}
	}

	if s.WorldID != existing.WorldID {
		imsr.removeFromWorldIndex(existing.WorldID, id)
		imsr.byWorldIDIndex[s.WorldID] = append(imsr.byWorldIDIndex[s.WorldID], s.ID)
	}

	return withStateCopy(s), nil
}

func (imsr *InMemorySessionsRepository) GetByID(ctx context.Context, id uuid.UUID) (dao.Session, error) {
	imsr.mtx.RLock()
	defer imsr.mtx.RUnlock()

	s, ok := imsr.seshes[id]
	if !ok {
		return dao.Session{}, dao.ErrNotFound
	}

	return withStateCopy(s), nil
}

func (imsr *InMemorySessionsRepository) Delete(ctx context.Context, id uuid.UUID) (dao.Session, error) {
	imsr.mtx.Lock()
	defer imsr.mtx.Unlock()

	s, ok := imsr.seshes[id]
	if !ok {
		return dao.Session{}, dao.ErrNotFound
	}

	imsr.removeFromWorldIndex(s.WorldID, s.ID)
	delete(imsr.seshes, s.ID)

	return s, nil
}

// removeFromWorldIndex must be called with the write lock held.
func (imsr *InMemorySessionsRepository) removeFromWorldIndex(worldID, seshID uuid.UUID) {
	updated := util.SliceRemove(seshID, imsr.byWorldIDIndex[worldID])
	if len(updated) < 1 {
		delete(imsr.byWorldIDIndex, worldID)
	} else {
		imsr.byWorldIDIndex[worldID] = updated
	}
}

func withStateCopy(s dao.Session) dao.Session {
	s.State = s.State.Copy()
	return s
}
