package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	domain "github.com/dkrysak/chemviz/internal/domain/analysis"
)

type RecordRepository struct {
	db *sql.DB
}

func NewRecordRepository(db *sql.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// Create inserts the result and trims the owner's history to the newest
// MaxRecordsPerUser rows in the same transaction, so a concurrent reader
// never observes more than the cap. Ties on created_at (second granularity)
// are broken by id, the insertion sequence.
func (r *RecordRepository) Create(ctx context.Context, owner int64, data domain.Result) (*domain.Record, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encoding result: %w", err)
	}
	now := time.Now().UTC().Truncate(time.Second)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO records (user_id, created_at, data) VALUES (?, ?, ?);`,
		owner, now, string(payload),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	// The derived table keeps the delete legal on MySQL as well.
	const trim = `
DELETE FROM records
WHERE user_id = ?
  AND id NOT IN (
    SELECT id FROM (
      SELECT id FROM records
      WHERE user_id = ?
      ORDER BY created_at DESC, id DESC
      LIMIT ?
    ) keep
  );`
	if _, err := tx.ExecContext(ctx, trim, owner, owner, domain.MaxRecordsPerUser); err != nil {
		return nil, fmt.Errorf("trimming records: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &domain.Record{
		ID:        domain.RecordID(id),
		Owner:     owner,
		CreatedAt: now,
		Data:      data,
	}, nil
}

// List returns the owner's records newest-first, empty slice when none.
func (r *RecordRepository) List(ctx context.Context, owner int64) ([]*domain.Record, error) {
	const q = `
SELECT id, user_id, created_at, data
FROM records
WHERE user_id = ?
ORDER BY created_at DESC, id DESC;`
	rows, err := r.db.QueryContext(ctx, q, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.Record{}
	for rows.Next() {
		var (
			rec     domain.Record
			payload string
		)
		if err := rows.Scan(&rec.ID, &rec.Owner, &rec.CreatedAt, &payload); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(payload), &rec.Data); err != nil {
			return nil, fmt.Errorf("decoding record %d: %w", rec.ID, err)
		}
		out = append(out, &rec)
	}
	return out, rows.Err()
}
