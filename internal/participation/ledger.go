package participation

import (
	"context"
	"errors"

	"github.com/matchday-app/matchday-api/internal/model"
)

// Capacity is the roster policy applied to every match.  The bounds are
// business configuration, not discovered constants: a match holds at most
// MaxPlayers accepted participants in total and at most TeamSize on each
// of the two teams.
type Capacity struct {
	MaxPlayers int // total accepted-participant bound
	TeamSize   int // per-team accepted-participant bound
}

// DefaultCapacity returns the standard ten-player, five-per-team policy.
func DefaultCapacity() Capacity { return Capacity{MaxPlayers: 10, TeamSize: 5} }

// SlotAvailable is the single derivation of slot availability: a slot is
// available while the match bound to it has fewer accepted participants
// than the roster holds.  Every writer of the stored flag derives it here.
func (c Capacity) SlotAvailable(accepted int) bool { return accepted < c.MaxPlayers }

// Service is the participation ledger and match lifecycle manager.  All of
// its mutating operations execute as one storage transaction: the capacity
// check, the participant write and the slot-availability refresh either
// all commit or none do.
type Service struct {
	store Store
	cap   Capacity
}

// NewService builds a Service over the given store.  Zero capacity fields
// fall back to the defaults.
func NewService(store Store, cap Capacity) *Service {
	def := DefaultCapacity()
	if cap.MaxPlayers <= 0 {
		cap.MaxPlayers = def.MaxPlayers
	}
	if cap.TeamSize <= 0 {
		cap.TeamSize = def.TeamSize
	}
	return &Service{store: store, cap: cap}
}

// Capacity returns the roster policy the service enforces.
func (s *Service) Capacity() Capacity { return s.cap }

// JoinResult reports the outcome of a successful Join.
type JoinResult struct {
	Participant   model.MatchParticipant // the upserted ledger row
	Match         model.Match            // the match as read under lock
	AcceptedCount int                    // accepted participants after the join
	Filled        bool                   // whether this join filled the roster
}

// Join adds or updates the caller as an ACCEPTED participant on the
// requested team.  The total and per-team bounds are checked under the
// match row lock; when either bound is already met the transaction rolls
// back with ErrCapacityExceeded and no state changes.  Re-joining is
// idempotent: an existing ACCEPTED row for the caller is excluded from the
// counts before the bound check, so a user cannot conflict with themselves,
// and the upsert never produces a duplicate row.  The slot availability
// flag is refreshed in the same transaction.  The ledger performs no
// notification dispatch; publishing on fill is the caller's concern.
func (s *Service) Join(ctx context.Context, matchID int64, userID string, team model.Team) (JoinResult, error) {
	if !team.Valid() {
		return JoinResult{}, ErrInvalidTeam
	}
	var res JoinResult
	err := s.store.WithinTx(ctx, func(tx Tx) error {
		m, err := tx.MatchForUpdate(ctx, matchID)
		if err != nil {
			return err
		}
		total, err := tx.CountAccepted(ctx, matchID)
		if err != nil {
			return err
		}
		onTeam, err := tx.CountAcceptedOnTeam(ctx, matchID, team)
		if err != nil {
			return err
		}
		existing, err := tx.Participant(ctx, matchID, userID)
		switch {
		case err == nil:
			if existing.Status == model.ParticipantAccepted {
				total--
				if existing.Team == team {
					onTeam--
				}
			}
		case errors.Is(err, ErrNotFound):
			// first join for this user
		default:
			return err
		}
		if total >= s.cap.MaxPlayers || onTeam >= s.cap.TeamSize {
			return ErrCapacityExceeded
		}
		p, err := tx.UpsertParticipant(ctx, matchID, userID, team, model.ParticipantAccepted)
		if err != nil {
			return err
		}
		after, err := tx.CountAccepted(ctx, matchID)
		if err != nil {
			return err
		}
		if err := s.syncAvailability(ctx, tx, m, after); err != nil {
			return err
		}
		res = JoinResult{
			Participant:   p,
			Match:         m,
			AcceptedCount: after,
			Filled:        after >= s.cap.MaxPlayers,
		}
		return nil
	})
	if err != nil {
		return JoinResult{}, err
	}
	return res, nil
}

// Leave removes the caller's participant row unconditionally; leaving only
// ever frees capacity, so no bound check is needed.  ErrNotFound when the
// caller has no row for the match.  Availability is recomputed in the same
// transaction as the delete.
func (s *Service) Leave(ctx context.Context, matchID int64, userID string) error {
	return s.store.WithinTx(ctx, func(tx Tx) error {
		m, err := tx.MatchForUpdate(ctx, matchID)
		if err != nil {
			return err
		}
		if err := tx.DeleteParticipant(ctx, matchID, userID); err != nil {
			return err
		}
		after, err := tx.CountAccepted(ctx, matchID)
		if err != nil {
			return err
		}
		return s.syncAvailability(ctx, tx, m, after)
	})
}

// Confirm sets confirmed=true on the caller's own row.  It is purely a
// readiness signal and has no capacity interaction.  ErrNotFound when the
// caller is not a participant of the match.
func (s *Service) Confirm(ctx context.Context, matchID int64, userID string) (model.MatchParticipant, error) {
	var p model.MatchParticipant
	err := s.store.WithinTx(ctx, func(tx Tx) error {
		var err error
		p, err = tx.SetParticipantConfirmed(ctx, matchID, userID)
		return err
	})
	if err != nil {
		return model.MatchParticipant{}, err
	}
	return p, nil
}

// UpdateStatus is the administrative variant used by non-self-service
// flows: it rewrites the acceptance state of a row addressed by primary
// key.  Moving a row into ACCEPTED is bound-checked exactly like Join:
// when the match or the row's team is already at capacity the transition
// fails with ErrCapacityExceeded, so an administrative re-accept can never
// push the roster past its bounds.  Because the transition can change the
// accepted count, the match is locked and availability recomputed exactly
// as in Join and Leave.
func (s *Service) UpdateStatus(ctx context.Context, participantID int64, status model.ParticipantStatus) (model.MatchParticipant, error) {
	if !status.Valid() {
		return model.MatchParticipant{}, ErrInvalidStatus
	}
	var p model.MatchParticipant
	err := s.store.WithinTx(ctx, func(tx Tx) error {
		cur, err := tx.ParticipantByID(ctx, participantID)
		if err != nil {
			return err
		}
		m, err := tx.MatchForUpdate(ctx, cur.MatchID)
		if err != nil {
			return err
		}
		if status == model.ParticipantAccepted && cur.Status != model.ParticipantAccepted {
			total, err := tx.CountAccepted(ctx, cur.MatchID)
			if err != nil {
				return err
			}
			onTeam, err := tx.CountAcceptedOnTeam(ctx, cur.MatchID, cur.Team)
			if err != nil {
				return err
			}
			if total >= s.cap.MaxPlayers || onTeam >= s.cap.TeamSize {
				return ErrCapacityExceeded
			}
		}
		p, err = tx.SetParticipantStatus(ctx, participantID, status)
		if err != nil {
			return err
		}
		after, err := tx.CountAccepted(ctx, cur.MatchID)
		if err != nil {
			return err
		}
		return s.syncAvailability(ctx, tx, m, after)
	})
	if err != nil {
		return model.MatchParticipant{}, err
	}
	return p, nil
}

// Remove is the administrative removal of a participant row by primary
// key, with the same post-mutation availability recomputation as Leave.
func (s *Service) Remove(ctx context.Context, participantID int64) error {
	return s.store.WithinTx(ctx, func(tx Tx) error {
		cur, err := tx.ParticipantByID(ctx, participantID)
		if err != nil {
			return err
		}
		m, err := tx.MatchForUpdate(ctx, cur.MatchID)
		if err != nil {
			return err
		}
		if err := tx.DeleteParticipantByID(ctx, participantID); err != nil {
			return err
		}
		after, err := tx.CountAccepted(ctx, cur.MatchID)
		if err != nil {
			return err
		}
		return s.syncAvailability(ctx, tx, m, after)
	})
}

// syncAvailability is the availability synchronizer: the tail step of
// every transaction that can change a match's accepted count.  The stored
// flag is a cache of acceptedCount < MaxPlayers; the listing read path
// recomputes the same derivation on the fly and the two must agree.
// Matches without a bound slot have nothing to synchronize.
func (s *Service) syncAvailability(ctx context.Context, tx Tx, m model.Match, accepted int) error {
	if m.ScheduleID == nil {
		return nil
	}
	return tx.SetScheduleAvailability(ctx, *m.ScheduleID, s.cap.SlotAvailable(accepted))
}
