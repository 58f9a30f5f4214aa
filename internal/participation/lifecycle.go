package participation

import (
	"context"
	"time"

	"github.com/matchday-app/matchday-api/internal/model"
)

// MatchRef identifies the match bound to a schedule slot.
type MatchRef struct {
	MatchID    int64 `json:"match_id"`
	ScheduleID int64 `json:"schedule_id"`
}

// dayLayout is the calendar form a schedule's day column must carry for a
// match to be derived from it.
const dayLayout = "2006-01-02"

// EnsureMatchForSchedule turns a schedule slot into a match record
// idempotently.  The first call creates the match with default parameters
// (configured roster capacity, beginner level, mixed gender, public,
// price 0, auto-validated, OPEN) and the acting user as creator; later
// calls refresh only the denormalized slot fields and leave participation
// state untouched.  The upsert is keyed on the unique schedule_id index,
// so N concurrent calls for the same slot yield exactly one match row and
// every caller observes the same id.
//
// A slot whose day value is not a well-formed YYYY-MM-DD date fails with
// ErrInvalidSchedule rather than silently dating the match "now".
func (s *Service) EnsureMatchForSchedule(ctx context.Context, scheduleID int64, actingUserID string) (MatchRef, error) {
	var ref MatchRef
	err := s.store.WithinTx(ctx, func(tx Tx) error {
		sp, err := tx.SchedulePlacement(ctx, scheduleID)
		if err != nil {
			return err
		}
		date, err := time.Parse(dayLayout, sp.Day)
		if err != nil {
			return ErrInvalidSchedule
		}
		sid := scheduleID
		matchID, err := tx.UpsertMatchForSchedule(ctx, model.Match{
			ScheduleID:    &sid,
			CreatorID:     actingUserID,
			SportID:       sp.SportID,
			LocationID:    sp.LocationID,
			MatchDate:     date.UTC(),
			StartTime:     sp.Start,
			EndTime:       sp.End,
			MaxPlayers:    s.cap.MaxPlayers,
			LevelRequired: model.LevelBeginner,
			Gender:        model.GenderMixed,
			Price:         0,
			IsPublic:      true,
			AutoValidate:  true,
			Status:        model.MatchOpen,
		})
		if err != nil {
			return err
		}
		ref = MatchRef{MatchID: matchID, ScheduleID: scheduleID}
		return nil
	})
	if err != nil {
		return MatchRef{}, err
	}
	return ref, nil
}
