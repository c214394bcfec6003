package repository

import (
	"context"
	"database/sql"
	"errors"

	"venue-pulse/backend/internal/location/domain"
)

// PostgresRepository implements Repository on the locations table.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a location repository that uses the given db
// for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByID returns the location for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Location, error) {
	var loc domain.Location
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, capacity, time_zone, created_at
		FROM locations WHERE id = $1`, id,
	).Scan(&loc.ID, &loc.Name, &loc.Capacity, &loc.TimeZone, &loc.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &loc, nil
}

// List returns all locations ordered by name.
func (r *PostgresRepository) List(ctx context.Context) ([]*domain.Location, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, capacity, time_zone, created_at
		FROM locations ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Location
	for rows.Next() {
		var loc domain.Location
		if err := rows.Scan(&loc.ID, &loc.Name, &loc.Capacity, &loc.TimeZone, &loc.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &loc)
	}
	return out, rows.Err()
}

// Create persists the location. The location must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, loc *domain.Location) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO locations (id, name, capacity, time_zone, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING`,
		loc.ID, loc.Name, loc.Capacity, loc.TimeZone, loc.CreatedAt,
	)
	return err
}
