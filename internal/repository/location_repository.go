// This file provides read access to locations. A location is a venue
// offering a single sport; locations are maintained by operators and the
// API only reads them.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/matchday-app/matchday-api/internal/model"
)

// ErrLocationNotFound indicates that a location was not located in the DB.
var ErrLocationNotFound = errors.New("location not found")

// LocationRepo manages read access to locations.
type LocationRepo struct {
	db *sql.DB
}

// NewLocationRepo constructs a LocationRepo with the given DB handle.
func NewLocationRepo(db *sql.DB) *LocationRepo {
	return &LocationRepo{db: db}
}

// ListAll returns every location ordered by name. An optional sport
// filter is applied when sportID is non-zero.
func (r *LocationRepo) ListAll(ctx context.Context, sportID int64) ([]model.Location, error) {
	q := `SELECT id, sport_id, name, address FROM locations ORDER BY name ASC`
	args := []any{}
	if sportID != 0 {
		q = `SELECT id, sport_id, name, address FROM locations WHERE sport_id = ? ORDER BY name ASC`
		args = append(args, sportID)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []model.Location
	for rows.Next() {
		var l model.Location
		if err := rows.Scan(&l.ID, &l.SportID, &l.Name, &l.Address); err != nil {
			return nil, err
		}
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID retrieves a location by its ID. It returns ErrLocationNotFound
// if there is no matching row.
func (r *LocationRepo) GetByID(ctx context.Context, id int64) (*model.Location, error) {
	const q = `SELECT id, sport_id, name, address FROM locations WHERE id = ?`
	var l model.Location
	err := r.db.QueryRowContext(ctx, q, id).Scan(&l.ID, &l.SportID, &l.Name, &l.Address)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLocationNotFound
		}
		return nil, err
	}
	return &l, nil
}
