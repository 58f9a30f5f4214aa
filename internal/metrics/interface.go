package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the handlers from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncJoins()
	IncCapacityConflicts()
	IncLeaves()
	IncMatchesEnsured()
	IncMatchesFilled()
	IncEventsPublishFailed()
}

// Noop is a Metrics implementation that discards everything; used in tests
// and when metrics are disabled.
type Noop struct{}

func (Noop) IncJoins()               {}
func (Noop) IncCapacityConflicts()   {}
func (Noop) IncLeaves()              {}
func (Noop) IncMatchesEnsured()      {}
func (Noop) IncMatchesFilled()       {}
func (Noop) IncEventsPublishFailed() {}
