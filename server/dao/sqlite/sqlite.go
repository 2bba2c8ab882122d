// Package sqlite provides a dao.Store backed by SQLite database files kept in a
// data directory.
package sqlite

import (
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dekarrin/nightrunner/internal/game"
	"github.com/dekarrin/nightrunner/server/dao"
	"github.com/dekarrin/rezi"
	"github.com/google/uuid"
	"modernc.org/sqlite"
)

type store struct {
	dbFilename       string
	worldsDBFilename string

	db       *sql.DB
	worldsDB *sql.DB

	worlds *WorldsDB
	seshes *SessionsDB
	coms   *CommandsDB
}

// NewDatastore opens (creating if needed) the database files in storageDir.
// World documents are kept in their own file apart from session data.
func NewDatastore(storageDir string) (dao.Store, error) {
	st := &store{
		dbFilename:       "data.db",
		worldsDBFilename: "worlds.db",
	}

	fileName := filepath.Join(storageDir, st.dbFilename)
	worldFileName := filepath.Join(storageDir, st.worldsDBFilename)

	var err error
	st.db, err = sql.Open("sqlite", fileName+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, wrapDBError(err)
	}
	st.worldsDB, err = sql.Open("sqlite", worldFileName)
	if err != nil {
		return nil, wrapDBError(err)
	}

	st.worlds = &WorldsDB{db: st.worldsDB}
	if err := st.worlds.init(); err != nil {
		return nil, fmt.Errorf("%s: %w", st.worldsDBFilename, err)
	}

	st.seshes = &SessionsDB{db: st.db}
	if err := st.seshes.init(); err != nil {
		return nil, fmt.Errorf("%s: %w", st.dbFilename, err)
	}

	st.coms = &CommandsDB{db: st.db}
	if err := st.coms.init(true); err != nil {
		return nil, fmt.Errorf("%s: %w", st.dbFilename, err)
	}

	return st, nil
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
	worldsDBErr := s.worldsDB.Close()
	mainDBErr := s.db.Close()

	var err error
	if worldsDBErr != nil {
		err = fmt.Errorf("%s: %w", s.worldsDBFilename, worldsDBErr)
	}
	if mainDBErr != nil {
		if err != nil {
			err = fmt.Errorf("%s\nadditionally: %s: %w", err.Error(), s.dbFilename, mainDBErr)
		} else {
			err = fmt.Errorf("%s: %w", s.dbFilename, mainDBErr)
		}
	}
	return err
}

func wrapDBError(err error) error {
	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		// extended result codes keep the primary code in the low byte
		if sqliteErr.Code()&0xff == 19 {
			return dao.ErrConstraintViolation
		}
		return fmt.Errorf("%s", sqlite.ErrorCodeString[sqliteErr.Code()])
	} else if errors.Is(err, sql.ErrNoRows) {
		return dao.ErrNotFound
	}
	return err
}

func convertToDB_UUID(u uuid.UUID) string {
	return u.String()
}

func convertFromDB_UUID(s string, target *uuid.UUID) error {
	u, err := uuid.Parse(s)
	if err != nil {
		return err
	}
	*target = u
	return nil
}

func convertToDB_Time(t time.Time) int64 {
	return t.Unix()
}

func convertFromDB_Time(i int64, target *time.Time) error {
	*target = time.Unix(i, 0)
	return nil
}

func convertToDB_Bytes(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

func convertFromDB_Bytes(s string, target *[]byte) error {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return err
	}
	*target = b
	return nil
}

// convertToDB_State encodes the game state with REZI and stores the bytes as
// base64 text.
func convertToDB_State(st game.State) string {
	return convertToDB_Bytes(rezi.EncBinary(st))
}

func convertFromDB_State(s string, target *game.State) error {
	var data []byte
	if err := convertFromDB_Bytes(s, &data); err != nil {
		return err
	}

	var st game.State
	if _, err := rezi.DecBinary(data, &st); err != nil {
		return err
	}
	*target = st
	return nil
}
