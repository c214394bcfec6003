package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"venue-pulse/backend/internal/entry/domain"
)

// PostgresRepository implements Repository on the entries table.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an entry ledger that uses the given db for
// persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Append inserts the entry. ON CONFLICT DO NOTHING makes it idempotent by ID.
func (r *PostgresRepository) Append(ctx context.Context, e *domain.Entry) error {
	userID := sql.NullString{String: e.UserID, Valid: e.UserID != ""}
	seq := sql.NullInt64{}
	if e.SequenceNumber != nil {
		seq = sql.NullInt64{Int64: *e.SequenceNumber, Valid: true}
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO entries (id, location_id, user_id, ts, kind, delta, device_id, source, sequence_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING`,
		e.ID, e.LocationID, userID, e.Timestamp, string(e.Kind), e.Delta, e.DeviceID, string(e.Source), seq,
	)
	return err
}

// Fetch returns entries in [rng.Start, rng.End) ordered by (ts, id).
// Empty locationID or deviceID skips that filter.
func (r *PostgresRepository) Fetch(ctx context.Context, rng domain.TimeRange, locationID, deviceID string) ([]*domain.Entry, error) {
	query := `
		SELECT id, location_id, user_id, ts, kind, delta, device_id, source, sequence_number
		FROM entries
		WHERE ts >= $1 AND ts < $2`
	args := []any{rng.Start, rng.End}
	if locationID != "" {
		args = append(args, locationID)
		query += ` AND location_id = $3`
	}
	if deviceID != "" {
		args = append(args, deviceID)
		if locationID != "" {
			query += ` AND device_id = $4`
		} else {
			query += ` AND device_id = $3`
		}
	}
	query += ` ORDER BY ts, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// LastSeen returns the newest event timestamp for the filters, or nil when
// the source has never reported.
func (r *PostgresRepository) LastSeen(ctx context.Context, locationID, deviceID string) (*time.Time, error) {
	query := `SELECT ts FROM entries WHERE location_id = $1`
	args := []any{locationID}
	if deviceID != "" {
		args = append(args, deviceID)
		query += ` AND device_id = $2`
	}
	query += ` ORDER BY ts DESC, id DESC LIMIT 1`

	var ts time.Time
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&ts)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &ts, nil
}

func scanEntry(rows *sql.Rows) (*domain.Entry, error) {
	var (
		e      domain.Entry
		userID sql.NullString
		kind   string
		source string
		seq    sql.NullInt64
	)
	if err := rows.Scan(&e.ID, &e.LocationID, &userID, &e.Timestamp, &kind, &e.Delta, &e.DeviceID, &source, &seq); err != nil {
		return nil, err
	}
	if userID.Valid {
		e.UserID = userID.String
	}
	e.Kind = domain.EventKind(kind)
	e.Source = domain.EventSource(source)
	if seq.Valid {
		n := seq.Int64
		e.SequenceNumber = &n
	}
	return &e, nil
}
