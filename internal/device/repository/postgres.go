package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"venue-pulse/backend/internal/device/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a device repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByID returns the device for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Device, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, location_id, name, last_seen_at, created_at
		FROM devices
		WHERE id = $1`, id)
	d, err := scanDevice(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return d, nil
}

// ListByLocation returns all devices assigned to the given location, ordered by id.
func (r *PostgresRepository) ListByLocation(ctx context.Context, locationID string) ([]*domain.Device, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, location_id, name, last_seen_at, created_at
		FROM devices
		WHERE location_id = $1
		ORDER BY id`, locationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Device
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Save upserts the device by ID.
func (r *PostgresRepository) Save(ctx context.Context, d *domain.Device) error {
	lastSeen := sql.NullTime{}
	if d.LastSeenAt != nil {
		lastSeen = sql.NullTime{Time: *d.LastSeenAt, Valid: true}
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO devices (id, location_id, name, last_seen_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			location_id = EXCLUDED.location_id,
			name = EXCLUDED.name,
			last_seen_at = EXCLUDED.last_seen_at`,
		d.ID, d.LocationID, d.Name, lastSeen, d.CreatedAt)
	return err
}

// Touch upserts the device and moves last_seen_at forward. A timestamp older
// than the stored value is ignored so out-of-order event delivery cannot make
// a device look more stale than it is.
func (r *PostgresRepository) Touch(ctx context.Context, id, locationID string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO devices (id, location_id, name, last_seen_at, created_at)
		VALUES ($1, $2, '', $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			last_seen_at = GREATEST(COALESCE(devices.last_seen_at, EXCLUDED.last_seen_at), EXCLUDED.last_seen_at)`,
		id, locationID, sql.NullTime{Time: at, Valid: true}, at)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDevice(row rowScanner) (*domain.Device, error) {
	var d domain.Device
	var lastSeen sql.NullTime
	if err := row.Scan(&d.ID, &d.LocationID, &d.Name, &lastSeen, &d.CreatedAt); err != nil {
		return nil, err
	}
	if lastSeen.Valid {
		t := lastSeen.Time
		d.LastSeenAt = &t
	}
	return &d, nil
}
