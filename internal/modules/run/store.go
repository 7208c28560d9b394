// README: Run store backed by PostgreSQL (table simulation_runs).
package run

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ridesim/internal/modules/monitor"
	"ridesim/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, r *Run) error {
	_, err := s.db.Exec(ctx, `
        INSERT INTO simulation_runs (id, name, input_hash, events, report, cached, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		string(r.ID),
		r.Name,
		r.InputHash,
		r.Events,
		map[string]float64(r.Report),
		r.Cached,
		r.CreatedAt,
	)
	return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Run, error) {
	row := s.db.QueryRow(ctx, `
        SELECT id, name, input_hash, events, report, cached, created_at
        FROM simulation_runs
        WHERE id = $1`, string(id),
	)
	r, err := scanRun(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return r, err
}

// List returns the newest runs first.
func (s *Store) List(ctx context.Context, limit int) ([]*Run, error) {
	rows, err := s.db.Query(ctx, `
        SELECT id, name, input_hash, events, report, cached, created_at
        FROM simulation_runs
        ORDER BY created_at DESC, id
        LIMIT $1`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func scanRun(row pgx.Row) (*Run, error) {
	var r Run
	var id string
	var report map[string]float64
	if err := row.Scan(&id, &r.Name, &r.InputHash, &r.Events, &report, &r.Cached, &r.CreatedAt); err != nil {
		return nil, err
	}
	r.ID = types.ID(id)
	r.Report = monitor.Report(report)
	return &r, nil
}
