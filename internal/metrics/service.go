package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// Service holds all the Prometheus metrics for the application.
// By defining them all in one place, we ensure consistency in naming and labeling.
type Service struct {
	Joins               prometheus.Counter
	CapacityConflicts   prometheus.Counter
	Leaves              prometheus.Counter
	MatchesEnsured      prometheus.Counter
	MatchesFilled       prometheus.Counter
	EventsPublishFailed prometheus.Counter
}

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		Joins: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matchday_joins_total",
			Help: "The total number of successful join operations.",
		}),
		CapacityConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matchday_capacity_conflicts_total",
			Help: "The total number of accept operations rejected because a match or team was full.",
		}),
		Leaves: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matchday_leaves_total",
			Help: "The total number of successful leave operations.",
		}),
		MatchesEnsured: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matchday_matches_ensured_total",
			Help: "The total number of ensure-match-for-slot calls that returned a match.",
		}),
		MatchesFilled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matchday_matches_filled_total",
			Help: "The total number of joins that filled the last slot of a match.",
		}),
		EventsPublishFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matchday_events_publish_failed_total",
			Help: "The total number of match.filled events that failed to publish.",
		}),
	}

	reg.MustRegister(
		s.Joins,
		s.CapacityConflicts,
		s.Leaves,
		s.MatchesEnsured,
		s.MatchesFilled,
		s.EventsPublishFailed,
	)

	return s
}

func (s *Service) IncJoins() {
	s.Joins.Inc()
}

func (s *Service) IncCapacityConflicts() {
	s.CapacityConflicts.Inc()
}

func (s *Service) IncLeaves() {
	s.Leaves.Inc()
}

func (s *Service) IncMatchesEnsured() {
	s.MatchesEnsured.Inc()
}

func (s *Service) IncMatchesFilled() {
	s.MatchesFilled.Inc()
}

func (s *Service) IncEventsPublishFailed() {
	s.EventsPublishFailed.Inc()
}
