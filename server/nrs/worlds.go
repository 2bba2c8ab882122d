package nrs

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/dekarrin/nightrunner/internal/command"
	"github.com/dekarrin/nightrunner/internal/worldfile"
	"github.com/dekarrin/nightrunner/server/dao"
	"github.com/dekarrin/nightrunner/server/serr"
)

// CreateWorld checks the given world document and stores it. The world must
// load without error in the given format. Returns the newly-created world.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If the document does not load,
// it will match serr.ErrBadWorld. If the name is blank, it will match
// serr.ErrBadArgument. If the error occured due to an unexpected problem with
// the DB, it will match serr.ErrDB.
func (svc *Service) CreateWorld(ctx context.Context, name, description string, format worldfile.Format, data []byte) (dao.World, error) {
	if strings.TrimSpace(name) == "" {
		return dao.World{}, serr.New("name cannot be blank", serr.ErrBadArgument)
	}
	if format == worldfile.FormatUnknown {
		return dao.World{}, serr.New("format must be given", serr.ErrBadArgument)
	}

	cat, err := worldfile.Parse(data, format)
	if err != nil {
		return dao.World{}, serr.New("", err, serr.ErrBadWorld)
	}

	w, err := svc.DB.Worlds().Create(ctx, dao.World{
		Name:        name,
		Description: description,
		Format:      format.String(),
		Data:        data,
	})
	if err != nil {
		if errors.Is(err, dao.ErrConstraintViolation) {
			return dao.World{}, serr.ErrAlreadyExists
		}
		return dao.World{}, serr.WrapDB("could not create world", err)
	}

	svc.parsersMtx.Lock()
	svc.parsers[w.ID] = command.NewParser(cat)
	svc.parsersMtx.Unlock()

	return w, nil
}

// PreloadWorld reads the world at path on disk and stores it under the name of
// the file. A directory of YAML files is stored as a single YAML document.
func (svc *Service) PreloadWorld(ctx context.Context, path string) (dao.World, error) {
	data, format, err := worldfile.ReadDocument(path)
	if err != nil {
		return dao.World{}, serr.New("", err, serr.ErrBadWorld)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return svc.CreateWorld(ctx, name, "loaded from "+path, format, data)
}

// GetWorld returns the world with the given ID.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If no world with that ID
// exists, it will match serr.ErrNotFound. If the error occured due to an
// unexpected problem with the DB, it will match serr.ErrDB. Finally, if the ID
// is not valid, it will match serr.ErrBadArgument.
func (svc *Service) GetWorld(ctx context.Context, id string) (dao.World, error) {
	uuidID, err := parseID(id)
	if err != nil {
		return dao.World{}, err
	}

	w, err := svc.DB.Worlds().GetByID(ctx, uuidID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.World{}, serr.ErrNotFound
		}
		return dao.World{}, serr.WrapDB("could not get world", err)
	}

	return w, nil
}

// GetAllWorlds returns all worlds currently in persistence.
func (svc *Service) GetAllWorlds(ctx context.Context) ([]dao.World, error) {
	worlds, err := svc.DB.Worlds().GetAll(ctx)
	if err != nil {
		return nil, serr.WrapDB("", err)
	}
	return worlds, nil
}

// DeleteWorld deletes the world with the given ID along with every session
// played in it. It returns the deleted world.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If no world with that ID
// exists, it will match serr.ErrNotFound. If the error occured due to an
// unexpected problem with the DB, it will match serr.ErrDB. Finally, if the ID
// is not valid, it will match serr.ErrBadArgument.
func (svc *Service) DeleteWorld(ctx context.Context, id string) (dao.World, error) {
	uuidID, err := parseID(id)
	if err != nil {
		return dao.World{}, err
	}

	sessions, err := svc.DB.Sessions().GetAllByWorld(ctx, uuidID)
	if err != nil {
		return dao.World{}, serr.WrapDB("could not get sessions of world", err)
	}
	for _, s := range sessions {
		if err := svc.deleteSession(ctx, s.ID); err != nil && !errors.Is(err, serr.ErrNotFound) {
			return dao.World{}, err
		}
	}

	w, err := svc.DB.Worlds().Delete(ctx, uuidID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.World{}, serr.ErrNotFound
		}
		return dao.World{}, serr.WrapDB("could not delete world", err)
	}

	svc.forgetParser(uuidID)

	return w, nil
}
