// This file provides read access to fields, the bookable playing surfaces
// within a location.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/matchday-app/matchday-api/internal/model"
)

// ErrFieldNotFound indicates that a field was not located in the DB.
var ErrFieldNotFound = errors.New("field not found")

// FieldRepo manages read access to fields.
type FieldRepo struct {
	db *sql.DB
}

// NewFieldRepo constructs a FieldRepo with the given DB handle.
func NewFieldRepo(db *sql.DB) *FieldRepo {
	return &FieldRepo{db: db}
}

// ListByLocation returns all fields of a location ordered by name. The
// location must exist; ErrLocationNotFound is returned otherwise so that
// browse endpoints can distinguish an unknown venue from an empty one.
func (r *FieldRepo) ListByLocation(ctx context.Context, locationID int64) ([]model.Field, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM locations WHERE id = ? LIMIT 1`, locationID).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLocationNotFound
		}
		return nil, err
	}
	const q = `SELECT id, location_id, name FROM fields WHERE location_id = ? ORDER BY name ASC`
	rows, err := r.db.QueryContext(ctx, q, locationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []model.Field
	for rows.Next() {
		var f model.Field
		if err := rows.Scan(&f.ID, &f.LocationID, &f.Name); err != nil {
			return nil, err
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID retrieves a field by its ID. It returns ErrFieldNotFound if
// there is no matching row.
func (r *FieldRepo) GetByID(ctx context.Context, id int64) (*model.Field, error) {
	const q = `SELECT id, location_id, name FROM fields WHERE id = ?`
	var f model.Field
	err := r.db.QueryRowContext(ctx, q, id).Scan(&f.ID, &f.LocationID, &f.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFieldNotFound
		}
		return nil, err
	}
	return &f, nil
}
