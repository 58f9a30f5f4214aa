// This file provides read access to schedules, the bookable time slots of
// a field. Availability is always recomputed from the participant ledger
// at read time; the stored is_available column is a cache kept in sync by
// the participation engine and is deliberately NOT trusted here.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/matchday-app/matchday-api/internal/model"
)

// ErrScheduleNotFound indicates that a schedule was not located in the DB.
var ErrScheduleNotFound = errors.New("schedule not found")

// ScheduleRepo manages read access to schedules.
type ScheduleRepo struct {
	db *sql.DB
}

// NewScheduleRepo constructs a ScheduleRepo with the given DB handle.
func NewScheduleRepo(db *sql.DB) *ScheduleRepo {
	return &ScheduleRepo{db: db}
}

// ListByField returns all slots of a field ordered by day and start time.
// maxPlayers is the configured roster capacity; a slot is available while
// the match bound to it (if any) has fewer than maxPlayers ACCEPTED
// participants. Slots with no bound match are always available. The field
// must exist; ErrFieldNotFound is returned otherwise.
func (r *ScheduleRepo) ListByField(ctx context.Context, fieldID int64, maxPlayers int) ([]model.Schedule, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM fields WHERE id = ? LIMIT 1`, fieldID).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFieldNotFound
		}
		return nil, err
	}
	// The correlated subquery recounts ACCEPTED rows per slot so a stale
	// cache column can never hide a free slot or advertise a full one.
	const q = `SELECT s.id, s.field_id, s.day, s.` + "`start`" + `, s.` + "`end`" + `,
                      (SELECT COUNT(*)
                         FROM matches m
                         JOIN match_participants mp ON mp.match_id = m.id
                        WHERE m.schedule_id = s.id AND mp.status = 'ACCEPTED') < ? AS is_available
               FROM schedules s
               WHERE s.field_id = ?
               ORDER BY s.day ASC, s.` + "`start`" + ` ASC`
	rows, err := r.db.QueryContext(ctx, q, maxPlayers, fieldID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []model.Schedule
	for rows.Next() {
		var s model.Schedule
		if err := rows.Scan(&s.ID, &s.FieldID, &s.Day, &s.Start, &s.End, &s.IsAvailable); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID retrieves a slot by its ID with recomputed availability. It
// returns ErrScheduleNotFound if there is no matching row.
func (r *ScheduleRepo) GetByID(ctx context.Context, id int64, maxPlayers int) (*model.Schedule, error) {
	const q = `SELECT s.id, s.field_id, s.day, s.` + "`start`" + `, s.` + "`end`" + `,
                      (SELECT COUNT(*)
                         FROM matches m
                         JOIN match_participants mp ON mp.match_id = m.id
                        WHERE m.schedule_id = s.id AND mp.status = 'ACCEPTED') < ? AS is_available
               FROM schedules s
               WHERE s.id = ?`
	var s model.Schedule
	err := r.db.QueryRowContext(ctx, q, maxPlayers, id).Scan(&s.ID, &s.FieldID, &s.Day, &s.Start, &s.End, &s.IsAvailable)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}
	return &s, nil
}
