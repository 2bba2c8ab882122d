package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dekarrin/nightrunner/server/dao"
	"github.com/google/uuid"
)

func NewSessionsDBConn(file string) (*SessionsDB, error) {
	repo := &SessionsDB{}

	var err error
	repo.db, err = sql.Open("sqlite", file)
	if err != nil {
		return nil, wrapDBError(err)
	}

	return repo, repo.init()
}

// SessionsDB stores sessions. The world_id column has no foreign key because
// worlds are kept in a separate database file.
type SessionsDB struct {
	db *sql.DB
}

func (repo *SessionsDB) init() error {
	_, err := repo.db.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		id TEXT NOT NULL PRIMARY KEY,
		world_id TEXT NOT NULL,
		state TEXT NOT NULL,
		ended INTEGER NOT NULL,
		created INTEGER NOT NULL,
		modified INTEGER NOT NULL
	);`)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (repo *SessionsDB) Create(ctx context.Context, s dao.Session) (dao.Session, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Session{}, fmt.Errorf("could not generate ID: %w", err)
	}

	stmt, err := repo.db.Prepare(`INSERT INTO sessions (id, world_id, state, ended, created, modified) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return dao.Session{}, wrapDBError(err)
	}
	defer stmt.Close()

	now := time.Now()

	_, err = stmt.ExecContext(
		ctx,
		convertToDB_UUID(newUUID),
		convertToDB_UUID(s.WorldID),
		convertToDB_State(s.State),
		s.Ended,
		convertToDB_Time(now),
		convertToDB_Time(now),
	)
	if err != nil {
		return dao.Session{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, newUUID)
}

func (repo *SessionsDB) GetAll(ctx context.Context) ([]dao.Session, error) {
	return repo.query(ctx, `SELECT id, world_id, state, ended, created, modified FROM sessions ORDER BY id;`)
}

func (repo *SessionsDB) GetAllByWorld(ctx context.Context, worldID uuid.UUID) ([]dao.Session, error) {
	return repo.query(ctx, `SELECT id, world_id, state, ended, created, modified FROM sessions WHERE world_id = ? ORDER BY id;`, convertToDB_UUID(worldID))
}

func (repo *SessionsDB) query(ctx context.Context, q string, args ...interface{}) ([]dao.Session, error) {
	rows, err := repo.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	all := []dao.Session{}

	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return all, err
		}
		all = append(all, s)
	}

	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}

	return all, nil
}

func (repo *SessionsDB) GetByID(ctx context.Context, id uuid.UUID) (dao.Session, error) {
	row := repo.db.QueryRowContext(ctx, `SELECT id, world_id, state, ended, created, modified FROM sessions WHERE id = ?;`,
		convertToDB_UUID(id),
	)
	return scanSession(row)
}

func (repo *SessionsDB) Update(ctx context.Context, id uuid.UUID, s dao.Session) (dao.Session, error) {
	res, err := repo.db.ExecContext(ctx, `UPDATE sessions SET id=?, world_id=?, state=?, ended=?, modified=? WHERE id=?;`,
		convertToDB_UUID(s.ID),
		convertToDB_UUID(s.WorldID),
		convertToDB_State(s.State),
		s.Ended,
		convertToDB_Time(time.Now()),
		convertToDB_UUID(id),
	)
	if err != nil {
		return dao.Session{}, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return dao.Session{}, wrapDBError(err)
	}
	if rowsAff < 1 {
		return dao.Session{}, dao.ErrNotFound
	}

	return repo.GetByID(ctx, s.ID)
}

func (repo *SessionsDB) Delete(ctx context.Context, id uuid.UUID) (dao.Session, error) {
	curVal, err := repo.GetByID(ctx, id)
	if err != nil {
		return curVal, err
	}

	res, err := repo.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, convertToDB_UUID(id))
	if err != nil {
		return curVal, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return curVal, wrapDBError(err)
	}
	if rowsAff < 1 {
		return curVal, dao.ErrNotFound
	}

	return curVal, nil
}

func (repo *SessionsDB) Close() error {
	return repo.db.Close()
}

func scanSession(row scanner) (dao.Session, error) {
	var s dao.Session
	var id string
	var worldID string
	var encState string
	var created int64
	var modified int64

	err := row.Scan(
		&id,
		&worldID,
		&encState,
		&s.Ended,
		&created,
		&modified,
	)
	if err != nil {
		return dao.Session{}, wrapDBError(err)
	}

	if err := convertFromDB_UUID(id, &s.ID); err != nil {
		return dao.Session{}, fmt.Errorf("stored ID %q is invalid: %w", id, err)
	}
	if err := convertFromDB_UUID(worldID, &s.WorldID); err != nil {
		return dao.Session{}, fmt.Errorf("stored world ID %q is invalid: %w", worldID, err)
	}
	if err := convertFromDB_State(encState, &s.State); err != nil {
		return dao.Session{}, fmt.Errorf("stored game state for %s is invalid: %w", id, err)
	}
	convertFromDB_Time(created, &s.Created)
	convertFromDB_Time(modified, &s.Modified)

	return s, nil
}
