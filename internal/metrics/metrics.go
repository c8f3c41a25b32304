// Package metrics exports engine counters to Prometheus.
package metrics

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "wellness_profile"

// Recorder captures engine telemetry. A nil *Recorder is a no-op.
type Recorder struct {
	events      *prometheus.CounterVec
	transitions *prometheus.CounterVec
	assessments prometheus.Counter
	regimes     *prometheus.CounterVec
	profileMix  *prometheus.HistogramVec
	storeErrors *prometheus.CounterVec
}

// New registers the engine metrics on reg. A nil reg uses the default
// registerer. Registering twice on the same registry reuses the existing
// collectors.
func New(reg prometheus.Registerer) (*Recorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	r := &Recorder{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_applied_total",
			Help:      "Interaction events applied to profiles.",
		}, []string{"kind"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "interest_transitions_total",
			Help:      "Topics promoted into primary interests or demoted into avoid topics.",
		}, []string{"direction"}),
		assessments: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assessments_total",
			Help:      "Profiles built from assessment answers.",
		}),
		regimes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mixing_regime_total",
			Help:      "Recommendation plans by mixing regime.",
		}, []string{"regime"}),
		profileMix: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "mixing_share",
			Help:      "Share of the feed given to each source.",
			Buckets:   prometheus.LinearBuckets(0.1, 0.1, 9),
		}, []string{"source"}),
		storeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_errors_total",
			Help:      "Failed store operations.",
		}, []string{"operation"}),
	}

	var err error
	r.events, err = register(reg, r.events)
	if err != nil {
		return nil, err
	}
	r.transitions, err = register(reg, r.transitions)
	if err != nil {
		return nil, err
	}
	r.assessments, err = register(reg, r.assessments)
	if err != nil {
		return nil, err
	}
	r.regimes, err = register(reg, r.regimes)
	if err != nil {
		return nil, err
	}
	r.profileMix, err = register(reg, r.profileMix)
	if err != nil {
		return nil, err
	}
	r.storeErrors, err = register(reg, r.storeErrors)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, fmt.Errorf("register metric: %w", err)
	}
	return c, nil
}

func (r *Recorder) Event(kind string) {
	if r == nil {
		return
	}
	r.events.WithLabelValues(kind).Inc()
}

// Transitions records promoted and demoted topic counts.
func (r *Recorder) Transitions(promoted, demoted int) {
	if r == nil {
		return
	}
	if promoted > 0 {
		r.transitions.WithLabelValues("promoted").Add(float64(promoted))
	}
	if demoted > 0 {
		r.transitions.WithLabelValues("demoted").Add(float64(demoted))
	}
}

func (r *Recorder) Assessment() {
	if r == nil {
		return
	}
	r.assessments.Inc()
}

// Mix records the regime and source shares of one recommendation plan.
func (r *Recorder) Mix(regime string, profile, behavior, exploration float64) {
	if r == nil {
		return
	}
	r.regimes.WithLabelValues(regime).Inc()
	r.profileMix.WithLabelValues("profile").Observe(profile)
	r.profileMix.WithLabelValues("behavior").Observe(behavior)
	r.profileMix.WithLabelValues("exploration").Observe(exploration)
}

func (r *Recorder) StoreError(op string) {
	if r == nil {
		return
	}
	r.storeErrors.WithLabelValues(op).Inc()
}
