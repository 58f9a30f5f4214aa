package queue

// MatchFilledEvent is published when a join fills the last slot of a
// match.  Downstream consumers notify the roster and the field manager;
// this service only guarantees the event is emitted after the filling
// join has committed.
type MatchFilledEvent struct {
	MatchID       int64  `json:"match_id"`
	ScheduleID    *int64 `json:"schedule_id,omitempty"`
	SportID       int64  `json:"sport_id"`
	LocationID    int64  `json:"location_id"`
	MatchDate     string `json:"match_date"`
	StartTime     string `json:"start_time"`
	AcceptedCount int    `json:"accepted_count"`
	FilledBy      string `json:"filled_by"`
	FilledAt      string `json:"filled_at"` // RFC3339 UTC
}
