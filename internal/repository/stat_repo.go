package repository

import (
	"context"
	"errors"
	"fmt"

	"covid_tracker/internal/model"

	"github.com/jackc/pgx/v5"
)

// StatRepository defines operations for covid statistic records
type StatRepository interface {
	Create(ctx context.Context, stat *model.CovidStat) error
	FindByID(ctx context.Context, id int64) (*model.CovidStat, error)
	FindAll(ctx context.Context) ([]model.CovidStat, error)
	Update(ctx context.Context, stat *model.CovidStat) error
	Delete(ctx context.Context, id int64) error
	CreateBatch(ctx context.Context, stats []model.CovidStat) error
}

type statRepository struct {
	db DB
}

// NewStatRepository creates a new StatRepository
func NewStatRepository(db DB) StatRepository {
	return &statRepository{db: db}
}

// Create inserts a new record into the database
func (r *statRepository) Create(ctx context.Context, s *model.CovidStat) error {
	sql := `INSERT INTO covid_stats (country, cases, deaths, recovered, active, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, sql,
		s.Country, s.Cases, s.Deaths, s.Recovered, s.Active, s.CreatedAt, s.UpdatedAt,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create covid stat: %w", err)
	}
	return nil
}

// FindByID retrieves a record by its ID
func (r *statRepository) FindByID(ctx context.Context, id int64) (*model.CovidStat, error) {
	s := &model.CovidStat{}
	sql := `SELECT id, country, cases, deaths, recovered, active, created_at, updated_at
            FROM covid_stats WHERE id = $1`
	err := r.db.QueryRow(ctx, sql, id).Scan(
		&s.ID, &s.Country, &s.Cases, &s.Deaths, &s.Recovered, &s.Active, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to find covid stat by ID: %w", err)
	}
	return s, nil
}

// FindAll retrieves every record in insertion order
func (r *statRepository) FindAll(ctx context.Context) ([]model.CovidStat, error) {
	sql := `SELECT id, country, cases, deaths, recovered, active, created_at, updated_at
            FROM covid_stats ORDER BY id`
	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to query covid stats: %w", err)
	}
	defer rows.Close()

	var stats []model.CovidStat
	for rows.Next() {
		var s model.CovidStat
		if err := rows.Scan(
			&s.ID, &s.Country, &s.Cases, &s.Deaths, &s.Recovered, &s.Active, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan covid stat row: %w", err)
		}
		stats = append(stats, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating covid stat rows: %w", err)
	}
	return stats, nil
}

// Update writes the full row; the service merges partial updates first
func (r *statRepository) Update(ctx context.Context, s *model.CovidStat) error {
	sql := `UPDATE covid_stats
            SET country = $1, cases = $2, deaths = $3, recovered = $4, active = $5, updated_at = NOW()
            WHERE id = $6 RETURNING updated_at`
	err := r.db.QueryRow(ctx, sql, s.Country, s.Cases, s.Deaths, s.Recovered, s.Active, s.ID).Scan(&s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("covid stat not found for update")
		}
		return fmt.Errorf("failed to update covid stat: %w", err)
	}
	return nil
}

// Delete removes a record from the database
func (r *statRepository) Delete(ctx context.Context, id int64) error {
	sql := `DELETE FROM covid_stats WHERE id = $1`
	cmdTag, err := r.db.Exec(ctx, sql, id)
	if err != nil {
		return fmt.Errorf("failed to delete covid stat: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("covid stat not found for deletion")
	}
	return nil
}

// CreateBatch inserts a set of records in a single transaction so a
// mid-batch failure leaves nothing behind.
func (r *statRepository) CreateBatch(ctx context.Context, stats []model.CovidStat) error {
	if len(stats) == 0 {
		return nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin batch insert: %w", err)
	}
	defer tx.Rollback(ctx) // No-op after a successful commit

	sql := `INSERT INTO covid_stats (country, cases, deaths, recovered, active, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for _, s := range stats {
		if _, err := tx.Exec(ctx, sql, s.Country, s.Cases, s.Deaths, s.Recovered, s.Active, s.CreatedAt, s.UpdatedAt); err != nil {
			return fmt.Errorf("failed to insert covid stat for %q: %w", s.Country, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit batch insert: %w", err)
	}
	return nil
}
