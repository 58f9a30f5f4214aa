package participation

import "github.com/matchday-app/matchday-api/internal/model"

// CanStart is the readiness evaluator: a stateless predicate deciding
// whether a match has reached a startable state.  A match can start when
// its roster is complete (exactly the configured number of participants)
// and every participant has confirmed attendance.  Nothing is persisted;
// callers recompute on every read.
func CanStart(participants []model.MatchParticipant, cap Capacity) bool {
	if len(participants) != cap.MaxPlayers {
		return false
	}
	for _, p := range participants {
		if !p.Confirmed {
			return false
		}
	}
	return true
}
