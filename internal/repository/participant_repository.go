// This file provides read access to the participant ledger. All writes to
// match_participants go through the participation engine; handlers only
// ever read rosters here.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/matchday-app/matchday-api/internal/model"
)

// ErrParticipantNotFound indicates that a participant row was not located
// in the DB.
var ErrParticipantNotFound = errors.New("participant not found")

// ParticipantWithUser is a ledger row joined with the display name of the
// user it belongs to, for roster listings.
type ParticipantWithUser struct {
	model.MatchParticipant
	UserName string
}

// ParticipantRepo manages read access to match participants.
type ParticipantRepo struct {
	db *sql.DB
}

// NewParticipantRepo constructs a ParticipantRepo with the given DB handle.
func NewParticipantRepo(db *sql.DB) *ParticipantRepo {
	return &ParticipantRepo{db: db}
}

// ListByMatch returns the full roster of a match joined with user names,
// ordered by team then join time. The match must exist; ErrMatchNotFound
// is returned otherwise.
func (r *ParticipantRepo) ListByMatch(ctx context.Context, matchID int64) ([]ParticipantWithUser, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM matches WHERE id = ? LIMIT 1`, matchID).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	const q = `SELECT mp.id, mp.match_id, mp.user_id, mp.team, mp.status, mp.confirmed,
                      mp.created_at, mp.updated_at, u.name
               FROM match_participants mp
               JOIN users u ON u.id = mp.user_id
               WHERE mp.match_id = ?
               ORDER BY mp.team ASC, mp.created_at ASC, mp.id ASC`
	rows, err := r.db.QueryContext(ctx, q, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []ParticipantWithUser
	for rows.Next() {
		var p ParticipantWithUser
		if err := rows.Scan(
			&p.ID, &p.MatchID, &p.UserID, &p.Team, &p.Status, &p.Confirmed,
			&p.CreatedAt, &p.UpdatedAt, &p.UserName,
		); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// CountAccepted returns the number of ACCEPTED rows for a match. Read
// paths use it to report fullness without going through the engine.
func (r *ParticipantRepo) CountAccepted(ctx context.Context, matchID int64) (int, error) {
	const q = `SELECT COUNT(*) FROM match_participants WHERE match_id = ? AND status = 'ACCEPTED'`
	var n int
	if err := r.db.QueryRowContext(ctx, q, matchID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// GetByID retrieves a ledger row by its primary key. It returns
// ErrParticipantNotFound if there is no matching row.
func (r *ParticipantRepo) GetByID(ctx context.Context, id int64) (*model.MatchParticipant, error) {
	const q = `SELECT id, match_id, user_id, team, status, confirmed, created_at, updated_at
               FROM match_participants WHERE id = ?`
	var p model.MatchParticipant
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&p.ID, &p.MatchID, &p.UserID, &p.Team, &p.Status, &p.Confirmed, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParticipantNotFound
		}
		return nil, err
	}
	return &p, nil
}
