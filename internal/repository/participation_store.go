// This file implements the storage boundary of the participation engine
// against MySQL. Every engine operation runs inside one database
// transaction; MatchForUpdate takes a row lock on the match so that two
// concurrent capacity checks for the same match serialize on the lock and
// can never both observe the pre-mutation count. Idempotent bindings rely
// on the unique indexes on matches.schedule_id and
// match_participants(match_id, user_id) rather than on read-then-insert.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/matchday-app/matchday-api/internal/model"
	"github.com/matchday-app/matchday-api/internal/participation"
)

// participantColumns is the canonical select list for ledger rows.
const participantColumns = `id, match_id, user_id, team, status, confirmed, created_at, updated_at`

func scanParticipant(row interface{ Scan(dest ...any) error }, p *model.MatchParticipant) error {
	return row.Scan(&p.ID, &p.MatchID, &p.UserID, &p.Team, &p.Status, &p.Confirmed, &p.CreatedAt, &p.UpdatedAt)
}

// ParticipationStore is the MySQL-backed participation.Store.
type ParticipationStore struct {
	db *sql.DB
}

// NewParticipationStore constructs a ParticipationStore with the given DB
// handle.
func NewParticipationStore(db *sql.DB) *ParticipationStore {
	return &ParticipationStore{db: db}
}

// WithinTx runs fn inside a database transaction and commits when fn
// returns nil. Any error from fn or from commit leaves the database
// untouched.
func (s *ParticipationStore) WithinTx(ctx context.Context, fn func(tx participation.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(&participationTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// participationTx implements participation.Tx over a *sql.Tx.
type participationTx struct {
	tx *sql.Tx
}

// MatchForUpdate loads a match and locks its row until commit. The lock
// is the serialization point for all capacity accounting on the match.
func (t *participationTx) MatchForUpdate(ctx context.Context, matchID int64) (model.Match, error) {
	const q = `SELECT ` + matchColumns + ` FROM matches WHERE id = ? FOR UPDATE`
	var m model.Match
	if err := scanMatch(t.tx.QueryRowContext(ctx, q, matchID), &m); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Match{}, participation.ErrNotFound
		}
		return model.Match{}, err
	}
	return m, nil
}

func (t *participationTx) CountAccepted(ctx context.Context, matchID int64) (int, error) {
	const q = `SELECT COUNT(*) FROM match_participants WHERE match_id = ? AND status = 'ACCEPTED'`
	var n int
	if err := t.tx.QueryRowContext(ctx, q, matchID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (t *participationTx) CountAcceptedOnTeam(ctx context.Context, matchID int64, team model.Team) (int, error) {
	const q = `SELECT COUNT(*) FROM match_participants WHERE match_id = ? AND status = 'ACCEPTED' AND team = ?`
	var n int
	if err := t.tx.QueryRowContext(ctx, q, matchID, string(team)).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (t *participationTx) Participant(ctx context.Context, matchID int64, userID string) (model.MatchParticipant, error) {
	const q = `SELECT ` + participantColumns + ` FROM match_participants WHERE match_id = ? AND user_id = ?`
	var p model.MatchParticipant
	if err := scanParticipant(t.tx.QueryRowContext(ctx, q, matchID, userID), &p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.MatchParticipant{}, participation.ErrNotFound
		}
		return model.MatchParticipant{}, err
	}
	return p, nil
}

func (t *participationTx) ParticipantByID(ctx context.Context, id int64) (model.MatchParticipant, error) {
	const q = `SELECT ` + participantColumns + ` FROM match_participants WHERE id = ?`
	var p model.MatchParticipant
	if err := scanParticipant(t.tx.QueryRowContext(ctx, q, id), &p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.MatchParticipant{}, participation.ErrNotFound
		}
		return model.MatchParticipant{}, err
	}
	return p, nil
}

// UpsertParticipant creates or updates the unique (match, user) row. A
// re-join only moves team and status; the confirmed flag of an existing
// row is preserved.
func (t *participationTx) UpsertParticipant(ctx context.Context, matchID int64, userID string, team model.Team, status model.ParticipantStatus) (model.MatchParticipant, error) {
	const q = `INSERT INTO match_participants (match_id, user_id, team, status)
               VALUES (?, ?, ?, ?)
               ON DUPLICATE KEY UPDATE team = VALUES(team), status = VALUES(status), updated_at = CURRENT_TIMESTAMP`
	if _, err := t.tx.ExecContext(ctx, q, matchID, userID, string(team), string(status)); err != nil {
		return model.MatchParticipant{}, err
	}
	return t.Participant(ctx, matchID, userID)
}

func (t *participationTx) SetParticipantStatus(ctx context.Context, id int64, status model.ParticipantStatus) (model.MatchParticipant, error) {
	// A no-op status change reports zero affected rows in MySQL, so
	// existence is decided by the read-back, not by RowsAffected.
	const q = `UPDATE match_participants SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	if _, err := t.tx.ExecContext(ctx, q, string(status), id); err != nil {
		return model.MatchParticipant{}, err
	}
	return t.ParticipantByID(ctx, id)
}

func (t *participationTx) SetParticipantConfirmed(ctx context.Context, matchID int64, userID string) (model.MatchParticipant, error) {
	const q = `UPDATE match_participants SET confirmed = TRUE, updated_at = CURRENT_TIMESTAMP
               WHERE match_id = ? AND user_id = ?`
	if _, err := t.tx.ExecContext(ctx, q, matchID, userID); err != nil {
		return model.MatchParticipant{}, err
	}
	return t.Participant(ctx, matchID, userID)
}

func (t *participationTx) DeleteParticipant(ctx context.Context, matchID int64, userID string) error {
	const q = `DELETE FROM match_participants WHERE match_id = ? AND user_id = ?`
	res, err := t.tx.ExecContext(ctx, q, matchID, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return participation.ErrNotFound
	}
	return nil
}

func (t *participationTx) DeleteParticipantByID(ctx context.Context, id int64) error {
	const q = `DELETE FROM match_participants WHERE id = ?`
	res, err := t.tx.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return participation.ErrNotFound
	}
	return nil
}

func (t *participationTx) SetScheduleAvailability(ctx context.Context, scheduleID int64, available bool) error {
	const q = `UPDATE schedules SET is_available = ? WHERE id = ?`
	_, err := t.tx.ExecContext(ctx, q, available, scheduleID)
	return err
}

func (t *participationTx) SchedulePlacement(ctx context.Context, scheduleID int64) (model.SchedulePlacement, error) {
	const q = `SELECT s.id, s.field_id, s.day, s.` + "`start`" + `, s.` + "`end`" + `, s.is_available,
                      f.location_id, l.sport_id
               FROM schedules s
               JOIN fields f ON f.id = s.field_id
               JOIN locations l ON l.id = f.location_id
               WHERE s.id = ?`
	var sp model.SchedulePlacement
	err := t.tx.QueryRowContext(ctx, q, scheduleID).Scan(
		&sp.ID, &sp.FieldID, &sp.Day, &sp.Start, &sp.End, &sp.IsAvailable,
		&sp.LocationID, &sp.SportID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.SchedulePlacement{}, participation.ErrNotFound
		}
		return model.SchedulePlacement{}, err
	}
	return sp, nil
}

// UpsertMatchForSchedule creates the single match bound to a slot, or
// refreshes the denormalized slot fields of the existing one. The unique
// index on matches.schedule_id makes concurrent calls collapse onto one
// row; the LAST_INSERT_ID(id) assignment makes LastInsertId return the
// surviving row's id on the duplicate path as well.
func (t *participationTx) UpsertMatchForSchedule(ctx context.Context, m model.Match) (int64, error) {
	const q = `INSERT INTO matches
               (schedule_id, creator_id, sport_id, location_id, match_date, start_time, end_time,
                max_players, level_required, gender, price, is_public, auto_validate, status)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
               ON DUPLICATE KEY UPDATE
                   match_date = VALUES(match_date),
                   start_time = VALUES(start_time),
                   end_time = VALUES(end_time),
                   location_id = VALUES(location_id),
                   sport_id = VALUES(sport_id),
                   updated_at = CURRENT_TIMESTAMP,
                   id = LAST_INSERT_ID(id)`
	res, err := t.tx.ExecContext(ctx, q,
		m.ScheduleID, m.CreatorID, m.SportID, m.LocationID, m.MatchDate, m.StartTime, m.EndTime,
		m.MaxPlayers, m.LevelRequired, m.Gender, m.Price, m.IsPublic, m.AutoValidate, m.Status,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
