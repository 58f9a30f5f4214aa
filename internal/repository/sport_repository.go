// Package repository contains data access logic for the catalog entities.
// This file provides read access to sports. Sports are reference data
// seeded by operators; the API never mutates them.
package repository

import (
	"context"
	"database/sql"

	"github.com/matchday-app/matchday-api/internal/model"
)

// SportRepo manages read access to sports.
type SportRepo struct {
	db *sql.DB
}

// NewSportRepo constructs a SportRepo with the given DB handle.
func NewSportRepo(db *sql.DB) *SportRepo {
	return &SportRepo{db: db}
}

// ListAll returns every sport ordered by name. When no sports exist it
// returns an empty slice and nil error.
func (r *SportRepo) ListAll(ctx context.Context) ([]model.Sport, error) {
	const q = `SELECT id, name FROM sports ORDER BY name ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []model.Sport
	for rows.Next() {
		var s model.Sport
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
