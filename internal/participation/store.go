package participation

import (
	"context"

	"github.com/matchday-app/matchday-api/internal/model"
)

// Store is the storage boundary of the engine.  WithinTx runs fn against a
// transactional view of the store and commits when fn returns nil; any
// error rolls the whole transaction back so that no multi-row mutation is
// ever partially applied.  The production implementation lives in the
// repository package; tests use an in-memory store.
type Store interface {
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the transactional view handed to WithinTx closures.  Lookup
// methods return ErrNotFound for absent rows.  MatchForUpdate must lock
// the match row for the remainder of the transaction: it is the
// serialization point that keeps two concurrent capacity checks for the
// same match from both reading the pre-mutation count.  Operations on
// different matches contend on nothing and proceed in parallel.
type Tx interface {
	// MatchForUpdate loads a match and locks its row until commit.
	MatchForUpdate(ctx context.Context, matchID int64) (model.Match, error)

	// CountAccepted returns the number of ACCEPTED participants of a match.
	CountAccepted(ctx context.Context, matchID int64) (int, error)

	// CountAcceptedOnTeam returns the number of ACCEPTED participants of a
	// match on one team.
	CountAcceptedOnTeam(ctx context.Context, matchID int64, team model.Team) (int, error)

	// Participant loads the row for a (match, user) pair.
	Participant(ctx context.Context, matchID int64, userID string) (model.MatchParticipant, error)

	// ParticipantByID loads a row by primary key.
	ParticipantByID(ctx context.Context, id int64) (model.MatchParticipant, error)

	// UpsertParticipant creates or updates the unique (match, user) row with
	// the given team and status and returns the resulting row.
	UpsertParticipant(ctx context.Context, matchID int64, userID string, team model.Team, status model.ParticipantStatus) (model.MatchParticipant, error)

	// SetParticipantStatus updates the acceptance state of a row by id.
	SetParticipantStatus(ctx context.Context, id int64, status model.ParticipantStatus) (model.MatchParticipant, error)

	// SetParticipantConfirmed sets confirmed=true on the (match, user) row.
	SetParticipantConfirmed(ctx context.Context, matchID int64, userID string) (model.MatchParticipant, error)

	// DeleteParticipant removes the (match, user) row.
	DeleteParticipant(ctx context.Context, matchID int64, userID string) error

	// DeleteParticipantByID removes a row by primary key.
	DeleteParticipantByID(ctx context.Context, id int64) error

	// SetScheduleAvailability persists the cached availability flag of a
	// slot.  Only the availability synchronizer calls this.
	SetScheduleAvailability(ctx context.Context, scheduleID int64, available bool) error

	// SchedulePlacement loads a schedule joined with its field, location and
	// sport linkage.
	SchedulePlacement(ctx context.Context, scheduleID int64) (model.SchedulePlacement, error)

	// UpsertMatchForSchedule creates the match for a slot or, when the
	// unique schedule_id binding already exists, refreshes only the
	// denormalized slot fields (date, time window, location, sport) of the
	// existing row.  Participation-related fields of an existing match are
	// never touched.  Returns the id of the single match bound to the slot.
	UpsertMatchForSchedule(ctx context.Context, m model.Match) (int64, error)
}
