package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dekarrin/nightrunner/server/dao"
	"github.com/google/uuid"
)

func NewCommandsDBConn(file string) (*CommandsDB, error) {
	repo := &CommandsDB{}

	var err error
	repo.db, err = sql.Open("sqlite", file)
	if err != nil {
		return nil, wrapDBError(err)
	}

	return repo, repo.init(false)
}

type CommandsDB struct {
	db *sql.DB
}

// init creates the commands table. If fk is set, session_id references the
// sessions table, which must be in the same database.
func (repo *CommandsDB) init(fk bool) error {
	stmt := `CREATE TABLE IF NOT EXISTS commands (
		id TEXT NOT NULL PRIMARY KEY,
		session_id TEXT NOT NULL`

	if fk {
		stmt += ` REFERENCES sessions(id) ON DELETE CASCADE ON UPDATE CASCADE`
	}

	stmt += `,
		input TEXT NOT NULL,
		result TEXT NOT NULL,
		created INTEGER NOT NULL
	);`
	_, err := repo.db.Exec(stmt)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (repo *CommandsDB) Create(ctx context.Context, c dao.Command) (dao.Command, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Command{}, fmt.Errorf("could not generate ID: %w", err)
	}

	stmt, err := repo.db.Prepare(`INSERT INTO commands (id, session_id, input, result, created) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return dao.Command{}, wrapDBError(err)
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(
		ctx,
		convertToDB_UUID(newUUID),
		convertToDB_UUID(c.SessionID),
		c.Input,
		c.Result,
		convertToDB_Time(time.Now()),
	)
	if err != nil {
		return dao.Command{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, newUUID)
}

func (repo *CommandsDB) GetAllBySession(ctx context.Context, seshID uuid.UUID) ([]dao.Command, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT id, session_id, input, result, created FROM commands WHERE session_id = ? ORDER BY rowid;`,
		convertToDB_UUID(seshID),
	)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	all := []dao.Command{}

	for rows.Next() {
		c, err := scanCommand(rows)
		if err != nil {
			return all, err
		}
		all = append(all, c)
	}

	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}

	return all, nil
}

func (repo *CommandsDB) GetByID(ctx context.Context, id uuid.UUID) (dao.Command, error) {
	row := repo.db.QueryRowContext(ctx, `SELECT id, session_id, input, result, created FROM commands WHERE id = ?;`,
		convertToDB_UUID(id),
	)
	return scanCommand(row)
}

func (repo *CommandsDB) DeleteAllBySession(ctx context.Context, seshID uuid.UUID) error {
	_, err := repo.db.ExecContext(ctx, `DELETE FROM commands WHERE session_id = ?`, convertToDB_UUID(seshID))
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (repo *CommandsDB) Close() error {
	return repo.db.Close()
}

func scanCommand(row scanner) (dao.Command, error) {
	var c dao.Command
	var id string
	var seshID string
	var created int64

	err := row.Scan(
		&id,
		&seshID,
		&c.Input,
		&c.Result,
		&created,
	)
	if err != nil {
		return dao.Command{}, wrapDBError(err)
	}

	if err := convertFromDB_UUID(id, &c.ID); err != nil {
		return dao.Command{}, fmt.Errorf("stored ID %q is invalid: %w", id, err)
	}
	if err := convertFromDB_UUID(seshID, &c.SessionID); err != nil {
		return dao.Command{}, fmt.Errorf("stored session ID %q is invalid: %w", seshID, err)
	}
	convertFromDB_Time(created, &c.Created)

	return c, nil
}
