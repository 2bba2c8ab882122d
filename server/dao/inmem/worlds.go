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

func NewWorldsRepository() *InMemoryWorldsRepository {
	return &InMemoryWorldsRepository{
		worlds: make(map[uuid.UUID]dao.World),
	}
}

type InMemoryWorldsRepository struct {
	mtx    sync.RWMutex
	worlds map[uuid.UUID]dao.World
}

func (imwr *InMemoryWorldsRepository) Close() error {
	return nil
}

func (imwr *InMemoryWorldsRepository) Create(ctx context.Context, w dao.World) (dao.World, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.World{}, fmt.Errorf("could not generate ID: %w", err)
	}

	now := time.Now()

	w.ID = newUUID
	w.Created = now
	w.Modified = now
	w.Data = copyBytes(w.Data)

	imwr.mtx.Lock()
	defer imwr.mtx.Unlock()

	imwr.worlds[w.ID] = w

	return w, nil
}

func (imwr *InMemoryWorldsRepository) GetAll(ctx context.Context) ([]dao.World, error) {
	imwr.mtx.RLock()
	defer imwr.mtx.RUnlock()

	all := make([]dao.World, 0, len(imwr.worlds))
	for k := range imwr.worlds {
		all = append(all, imwr.worlds[k])
	}

	all = util.SortBy(all, func(l, r dao.World) bool {
		if l.Created.Equal(r.Created) {
			return l.ID.String() < r.ID.String()
		}
		return l.Created.Before(r.Created)
	})

	return all, nil
}

func (imwr *InMemoryWorldsRepository) Update(ctx context.Context, id uuid.UUID, w dao.World) (dao.World, error) {
	imwr.mtx.Lock()
	defer imwr.mtx.Unlock()

	existing, ok := imwr.worlds[id]
	if !ok {
		return dao.World{}, dao.ErrNotFound
	}

	if w.ID != id {
		if _, ok := imwr.worlds[w.ID]; ok {
			return dao.World{}, dao.ErrConstraintViolation
		}
	}

	w.Created = existing.Created
	w.Modified = time.Now()
	w.Data = copyBytes(w.Data)

	imwr.worlds[w.ID] = w
	if w.ID != id {
		delete(imwr.worlds, id)
	}

	return w, nil
}

func (imwr *InMemoryWorldsRepository) GetByID(ctx context.Context, id uuid.UUID) (dao.World, error) {
	imwr.mtx.RLock()
	defer imwr.mtx.RUnlock()

	w, ok := imwr.worlds[id]
	if !ok {
		return dao.World{}, dao.ErrNotFound
	}

	return w, nil
}

func (imwr *InMemoryWorldsRepository) Delete(ctx context.Context, id uuid.UUID) (dao.World, error) {
	imwr.mtx.Lock()
	defer imwr.mtx.Unlock()

	w, ok := imwr.worlds[id]
	if !ok {
		return dao.World{}, dao.ErrNotFound
	}

	delete(imwr.worlds, w.ID)

	return w, nil
}

func copyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
