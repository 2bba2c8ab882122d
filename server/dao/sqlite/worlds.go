package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dekarrin/nightrunner/server/dao"
	"github.com/google/uuid"
)

func NewWorldsDBConn(file string) (*WorldsDB, error) {
	repo := &WorldsDB{}

	var err error
	repo.db, err = sql.Open("sqlite", file)
	if err != nil {
		return nil, wrapDBError(err)
	}

	return repo, repo.init()
}

type WorldsDB struct {
	db *sql.DB
}

func (repo *WorldsDB) init() error {
	_, err := repo.db.Exec(`CREATE TABLE IF NOT EXISTS worlds (
		id TEXT NOT NULL PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL,
		format TEXT NOT NULL,
		data TEXT NOT NULL,
		created INTEGER NOT NULL,
		modified INTEGER NOT NULL
	);`)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (repo *WorldsDB) Create(ctx context.Context, w dao.World) (dao.World, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.World{}, fmt.Errorf("could not generate ID: %w", err)
	}

	stmt, err := repo.db.Prepare(`INSERT INTO worlds (id, name, description, format, data, created, modified) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return dao.World{}, wrapDBError(err)
	}
	defer stmt.Close()

	now := time.Now()

	_, err = stmt.ExecContext(
		ctx,
		convertToDB_UUID(newUUID),
		w.Name,
		w.Description,
		w.Format,
		convertToDB_Bytes(w.Data),
		convertToDB_Time(now),
		convertToDB_Time(now),
	)
	if err != nil {
		return dao.World{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, newUUID)
}

func (repo *WorldsDB) GetAll(ctx context.Context) ([]dao.World, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT id, name, description, format, data, created, modified FROM worlds ORDER BY created, rowid;`)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []dao.World

	for rows.Next() {
		w, err := scanWorld(rows)
		if err != nil {
			return all, err
		}
		all = append(all, w)
	}

	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}

	return all, nil
}

func (repo *WorldsDB) GetByID(ctx context.Context, id uuid.UUID) (dao.World, error) {
	row := repo.db.QueryRowContext(ctx, `SELECT id, name, description, format, data, created, modified FROM worlds WHERE id = ?;`,
		convertToDB_UUID(id),
	)
	return scanWorld(row)
}

func (repo *WorldsDB) Update(ctx context.Context, id uuid.UUID, w dao.World) (dao.World, error) {
	res, err := repo.db.ExecContext(ctx, `UPDATE worlds SET id=?, name=?, description=?, format=?, data=?, modified=? WHERE id=?;`,
		convertToDB_UUID(w.ID),
		w.Name,
		w.Description,
		w.Format,
		convertToDB_Bytes(w.Data),
		convertToDB_Time(time.Now()),
		convertToDB_UUID(id),
	)
	if err != nil {
		return dao.World{}, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return dao.World{}, wrapDBError(err)
	}
	if rowsAff < 1 {
		return dao.World{}, dao.ErrNotFound
	}

	return repo.GetByID(ctx, w.ID)
}

func (repo *WorldsDB) Delete(ctx context.Context, id uuid.UUID) (dao.World, error) {
	curVal, err := repo.GetByID(ctx, id)
	if err != nil {
		return curVal, err
	}

	res, err := repo.db.ExecContext(ctx, `DELETE FROM worlds WHERE id = ?`, convertToDB_UUID(id))
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

func (repo *WorldsDB) Close() error {
	return repo.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanWorld(row scanner) (dao.World, error) {
	var w dao.World
	var id string
	var data string
	var created int64
	var modified int64

	err := row.Scan(
		&id,
		&w.Name,
		&w.Description,
		&w.Format,
		&data,
		&created,
		&modified,
	)
	if err != nil {
		return dao.World{}, wrapDBError(err)
	}

	if err := convertFromDB_UUID(id, &w.ID); err != nil {
		return dao.World{}, fmt.Errorf("stored ID %q is invalid: %w", id, err)
	}
	if err := convertFromDB_Bytes(data, &w.Data); err != nil {
		return dao.World{}, fmt.Errorf("stored data for world %s is invalid: %w", id, err)
	}
	convertFromDB_Time(created, &w.Created)
	convertFromDB_Time(modified, &w.Modified)

	return w, nil
}
