// Package metrics exposes the service's prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "rally"

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	gamesCreated     *prometheus.CounterVec
	gamesCompleted   *prometheus.CounterVec
	ratingsApplied   prometheus.Counter
	matchRequests    *prometheus.CounterVec
	matchesAccepted  prometheus.Counter
	acceptConflicts  prometheus.Counter
	waitlistOffers   *prometheus.CounterVec
	waitlistOutcomes *prometheus.CounterVec
	sweepExpired     *prometheus.CounterVec
}

// New registers all collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		gamesCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "game", Name: "created_total",
			Help: "Games created, by format.",
		}, []string{"format"}),
		gamesCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "game", Name: "finished_total",
			Help: "Games reaching a terminal status, by status.",
		}, []string{"status"}),
		ratingsApplied: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "rating", Name: "applied_total",
			Help: "Games whose rating deltas were applied.",
		}),
		matchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "pairing", Name: "requests_total",
			Help: "Match requests by outcome.",
		}, []string{"outcome"}),
		matchesAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "pairing", Name: "accepted_total",
			Help: "Match acceptances that created a game.",
		}),
		acceptConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "pairing", Name: "accept_conflicts_total",
			Help: "Match acceptances lost to a concurrent caller.",
		}),
		waitlistOffers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "waitlist", Name: "offers_total",
			Help: "Waitlist spots offered, by event type.",
		}, []string{"event_type"}),
		waitlistOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "waitlist", Name: "outcomes_total",
			Help: "Waitlist offers resolved, by status.",
		}, []string{"status"}),
		sweepExpired: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "sweeper", Name: "expired_total",
			Help: "Records expired by the periodic sweep.",
		}, []string{"kind"}),
	}
	reg.MustRegister(
		m.gamesCreated, m.gamesCompleted, m.ratingsApplied,
		m.matchRequests, m.matchesAccepted, m.acceptConflicts,
		m.waitlistOffers, m.waitlistOutcomes, m.sweepExpired,
	)
	return m
}

func (m *Metrics) GameCreated(format string) {
	if m != nil {
		m.gamesCreated.WithLabelValues(format).Inc()
	}
}

func (m *Metrics) GameFinished(status string) {
	if m != nil {
		m.gamesCompleted.WithLabelValues(status).Inc()
	}
}

func (m *Metrics) RatingsApplied() {
	if m != nil {
		m.ratingsApplied.Inc()
	}
}

func (m *Metrics) MatchRequest(outcome string) {
	if m != nil {
		m.matchRequests.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) MatchAccepted() {
	if m != nil {
		m.matchesAccepted.Inc()
	}
}

func (m *Metrics) AcceptConflict() {
	if m != nil {
		m.acceptConflicts.Inc()
	}
}

func (m *Metrics) WaitlistOffer(eventType string) {
	if m != nil {
		m.waitlistOffers.WithLabelValues(eventType).Inc()
	}
}

func (m *Metrics) WaitlistOutcome(status string) {
	if m != nil {
		m.waitlistOutcomes.WithLabelValues(status).Inc()
	}
}

func (m *Metrics) SweepExpired(kind string, n int64) {
	if m != nil && n > 0 {
		m.sweepExpired.WithLabelValues(kind).Add(float64(n))
	}
}
