package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/ielts/core/progress"
)

const (
	getProgressQuery = `SELECT user_id, record FROM reading_progress WHERE user_id = $1`
	allProgressQuery = `SELECT user_id, record FROM reading_progress`
	setProgressQuery = `
INSERT INTO reading_progress (user_id, student_group, record)
VALUES (:user_id, :student_group, :record)
ON CONFLICT (user_id) DO UPDATE
SET student_group = EXCLUDED.student_group, record = EXCLUDED.record, updated_at = now()`
)

type progressRow struct {
	UserID string `db:"user_id"`
	Group  string `db:"student_group"`
	Record string `db:"record"` // JSON text; a []byte is sent as bytea
}

func (row progressRow) decode() (progress.Record, error) {
	var rec progress.Record
	if err := json.Unmarshal([]byte(row.Record), &rec); err != nil {
		return progress.Record{}, errors.Wrapf(err, "decoding progress of %s", row.UserID)
	}
	return rec, nil
}

type progressRepository struct {
	db *sqlx.DB
}

func NewProgressRepository(db *sqlx.DB) progress.Repository {
	return &progressRepository{db: db}
}

func (repo *progressRepository) GetProgress(ctx context.Context, userID string) (progress.Record, error) {
	var row progressRow
	if err := repo.db.GetContext(ctx, &row, getProgressQuery, userID); err != nil {
		if err == sql.ErrNoRows {
			return progress.Record{}, progress.ErrNotFound
		}
		return progress.Record{}, errors.Wrap(err, "selecting progress")
	}
	return row.decode()
}

func (repo *progressRepository) SetProgress(ctx context.Context, userID string, rec progress.Record) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrap(err, "encoding progress")
	}
	row := progressRow{UserID: userID, Group: rec.Group, Record: string(b)}
	if _, err = repo.db.NamedExecContext(ctx, setProgressQuery, row); err != nil {
		return errors.Wrap(err, "upserting progress")
	}
	return nil
}

func (repo *progressRepository) QueryAllProgress(ctx context.Context) (map[string]progress.Record, error) {
	var rows []progressRow
	if err := repo.db.SelectContext(ctx, &rows, allProgressQuery); err != nil {
		return nil, errors.Wrap(err, "selecting progress")
	}
	all := make(map[string]progress.Record, len(rows))
	for _, row := range rows {
		rec, err := row.decode()
		if err != nil {
			return nil, err
		}
		all[row.UserID] = rec
	}
	return all, nil
}
