// This file contains persistence for matches. A match row carries
// denormalized slot fields (date, time window, venue, sport) so that
// listings never need to join through schedules. Participation state is
// owned by the participation engine and is never written here; the only
// overlap is that deleting a match also clears its ledger rows and frees
// its slot.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/matchday-app/matchday-api/internal/model"
	"github.com/matchday-app/matchday-api/internal/participation"
)

// ErrMatchNotFound indicates that a match was not located in the DB.
var ErrMatchNotFound = errors.New("match not found")

// matchColumns is the canonical select list for match rows; every scan in
// this file follows its order.
const matchColumns = `id, schedule_id, creator_id, sport_id, location_id, match_date,
       start_time, end_time, max_players, level_required, gender, price,
       is_public, private_code_hash, auto_validate, deadline, description,
       status, created_at, updated_at`

func scanMatch(row interface{ Scan(dest ...any) error }, m *model.Match) error {
	return row.Scan(
		&m.ID, &m.ScheduleID, &m.CreatorID, &m.SportID, &m.LocationID, &m.MatchDate,
		&m.StartTime, &m.EndTime, &m.MaxPlayers, &m.LevelRequired, &m.Gender, &m.Price,
		&m.IsPublic, &m.PrivateCodeHash, &m.AutoValidate, &m.Deadline, &m.Description,
		&m.Status, &m.CreatedAt, &m.UpdatedAt,
	)
}

// MatchRepo manages persistence for matches.
type MatchRepo struct {
	db  *sql.DB
	cap participation.Capacity
}

// NewMatchRepo constructs a MatchRepo with the given DB handle and the
// roster capacity policy, needed to derive slot availability on deletion.
func NewMatchRepo(db *sql.DB, cap participation.Capacity) *MatchRepo {
	return &MatchRepo{db: db, cap: cap}
}

// Create inserts a manually organized match and assigns the generated ID
// and DB-default fields back to the struct. Slot-derived matches are not
// created here; they go through the participation engine so the
// schedule_id binding stays idempotent.
func (r *MatchRepo) Create(ctx context.Context, m *model.Match) error {
	const q = `INSERT INTO matches
               (creator_id, sport_id, location_id, match_date, start_time, end_time,
                max_players, level_required, gender, price, is_public,
                private_code_hash, auto_validate, deadline, description, status)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		m.CreatorID, m.SportID, m.LocationID, m.MatchDate, m.StartTime, m.EndTime,
		m.MaxPlayers, m.LevelRequired, m.Gender, m.Price, m.IsPublic,
		m.PrivateCodeHash, m.AutoValidate, m.Deadline, m.Description, m.Status,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = id
	// Fetch the freshly inserted row to populate created_at / updated_at.
	const sel = `SELECT ` + matchColumns + ` FROM matches WHERE id = ?`
	return scanMatch(r.db.QueryRowContext(ctx, sel, m.ID), m)
}

// GetByID retrieves a match by its ID. It returns ErrMatchNotFound if
// there is no matching row.
func (r *MatchRepo) GetByID(ctx context.Context, id int64) (*model.Match, error) {
	const q = `SELECT ` + matchColumns + ` FROM matches WHERE id = ?`
	var m model.Match
	if err := scanMatch(r.db.QueryRowContext(ctx, q, id), &m); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return &m, nil
}

// ListPublic returns publicly listed matches ordered by date and start
// time. Optional sport and location filters apply when non-zero.
func (r *MatchRepo) ListPublic(ctx context.Context, sportID, locationID int64) ([]model.Match, error) {
	q := `SELECT ` + matchColumns + ` FROM matches WHERE is_public = TRUE`
	args := []any{}
	if sportID != 0 {
		q += ` AND sport_id = ?`
		args = append(args, sportID)
	}
	if locationID != 0 {
		q += ` AND location_id = ?`
		args = append(args, locationID)
	}
	q += ` ORDER BY match_date ASC, start_time ASC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []model.Match
	for rows.Next() {
		var m model.Match
		if err := scanMatch(rows, &m); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateByIDAndCreator updates the organizer-editable attributes of a
// match. When the row does not exist it returns ErrMatchNotFound; when it
// belongs to another user it returns ErrForbidden. Capacity and the slot
// binding are intentionally not editable here.
func (r *MatchRepo) UpdateByIDAndCreator(ctx context.Context, m *model.Match, creatorID string) error {
	var dbCreator string
	err := r.db.QueryRowContext(ctx, `SELECT creator_id FROM matches WHERE id = ?`, m.ID).Scan(&dbCreator)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrMatchNotFound
		}
		return err
	}
	if dbCreator != creatorID {
		return ErrForbidden
	}
	const q = `UPDATE matches
               SET level_required = ?, gender = ?, price = ?, is_public = ?,
                   deadline = ?, description = ?, status = ?, updated_at = CURRENT_TIMESTAMP
               WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, q,
		m.LevelRequired, m.Gender, m.Price, m.IsPublic,
		m.Deadline, m.Description, m.Status,
		m.ID,
	); err != nil {
		return err
	}
	const sel = `SELECT ` + matchColumns + ` FROM matches WHERE id = ?`
	return scanMatch(r.db.QueryRowContext(ctx, sel, m.ID), m)
}

// DeleteByIDAndCreator removes a match and its participant ledger rows,
// and frees the bound slot if any. The deletion occurs within a
// transaction so that no partial cleanup occurs. If the match does not
// exist, ErrMatchNotFound is returned. If it is owned by another user,
// ErrForbidden is returned.
func (r *MatchRepo) DeleteByIDAndCreator(ctx context.Context, id int64, creatorID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()
	var dbCreator string
	var scheduleID *int64
	err = tx.QueryRowContext(ctx, `SELECT creator_id, schedule_id FROM matches WHERE id = ? FOR UPDATE`, id).
		Scan(&dbCreator, &scheduleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrMatchNotFound
		}
		return err
	}
	if dbCreator != creatorID {
		return ErrForbidden
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM match_participants WHERE match_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM matches WHERE id = ?`, id); err != nil {
		return err
	}
	// With the match gone its slot has zero accepted players; the flag is
	// derived through the engine's availability rule, never written ad hoc.
	if scheduleID != nil {
		if _, err = tx.ExecContext(ctx, `UPDATE schedules SET is_available = ? WHERE id = ?`,
			r.cap.SlotAvailable(0), *scheduleID); err != nil {
			return err
		}
	}
	return nil
}
