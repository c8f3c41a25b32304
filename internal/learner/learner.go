// Package learner folds interaction events into a profile. Every Apply
// method is a total function: it clones its input, treats missing fields as
// defaults and never fails.
package learner

import (
	"strings"
	"time"

	"github.com/rcliao/wellness-profile/internal/classify"
	"github.com/rcliao/wellness-profile/internal/model"
)

// Tuning holds the learner's thresholds and rates.
type Tuning struct {
	BoostDecay         float64 `mapstructure:"boost_decay" yaml:"boost_decay"`
	UniformDecay       float64 `mapstructure:"uniform_decay" yaml:"uniform_decay"`
	ScoreFloor         float64 `mapstructure:"score_floor" yaml:"score_floor"`
	MaxTopics          int     `mapstructure:"max_topics" yaml:"max_topics"`
	HighEngagement     float64 `mapstructure:"high_engagement" yaml:"high_engagement"`
	LowEngagement      float64 `mapstructure:"low_engagement" yaml:"low_engagement"`
	PromotionTrigger   int     `mapstructure:"promotion_trigger" yaml:"promotion_trigger"`
	PromotionCount     int     `mapstructure:"promotion_count" yaml:"promotion_count"`
	PositiveCap        int     `mapstructure:"positive_cap" yaml:"positive_cap"`
	PositiveEngagement float64 `mapstructure:"positive_engagement" yaml:"positive_engagement"`
	StreakUp           float64 `mapstructure:"streak_up" yaml:"streak_up"`
	StreakReset        float64 `mapstructure:"streak_reset" yaml:"streak_reset"`
	NudgeCap           float64 `mapstructure:"nudge_cap" yaml:"nudge_cap"`
	NudgeFactor        float64 `mapstructure:"nudge_factor" yaml:"nudge_factor"`
	MaxPrimary         int     `mapstructure:"max_primary" yaml:"max_primary"`
	MaxAvoid           int     `mapstructure:"max_avoid" yaml:"max_avoid"`
}

// DefaultTuning returns the stock thresholds.
func DefaultTuning() Tuning {
	return Tuning{
		BoostDecay:         0.95,
		UniformDecay:       0.99,
		ScoreFloor:         0.1,
		MaxTopics:          20,
		HighEngagement:     8,
		LowEngagement:      3,
		PromotionTrigger:   3,
		PromotionCount:     2,
		PositiveCap:        100,
		PositiveEngagement: 7,
		StreakUp:           8,
		StreakReset:        3,
		NudgeCap:           0.1,
		NudgeFactor:        0.05,
		MaxPrimary:         8,
		MaxAvoid:           5,
	}
}

// withDefaults returns the stock thresholds for a zero Tuning. Otherwise it
// keeps configured values, including explicit zeros, and only replaces
// counts that must be positive and rates that must not be negative.
func (t Tuning) withDefaults() Tuning {
	d := DefaultTuning()
	if t == (Tuning{}) {
		return d
	}
	f := func(v *float64, def float64) {
		if *v < 0 {
			*v = def
		}
	}
	i := func(v *int, def int) {
		if *v <= 0 {
			*v = def
		}
	}
	f(&t.BoostDecay, d.BoostDecay)
	f(&t.UniformDecay, d.UniformDecay)
	f(&t.ScoreFloor, d.ScoreFloor)
	i(&t.MaxTopics, d.MaxTopics)
	f(&t.HighEngagement, d.HighEngagement)
	f(&t.LowEngagement, d.LowEngagement)
	i(&t.PromotionTrigger, d.PromotionTrigger)
	i(&t.PromotionCount, d.PromotionCount)
	i(&t.PositiveCap, d.PositiveCap)
	f(&t.PositiveEngagement, d.PositiveEngagement)
	f(&t.StreakUp, d.StreakUp)
	f(&t.StreakReset, d.StreakReset)
	f(&t.NudgeCap, d.NudgeCap)
	f(&t.NudgeFactor, d.NudgeFactor)
	i(&t.MaxPrimary, d.MaxPrimary)
	i(&t.MaxAvoid, d.MaxAvoid)
	if t.PromotionCount > t.PromotionTrigger {
		t.PromotionCount = t.PromotionTrigger
	}
	return t
}

// Learner applies interaction events to profiles.
type Learner struct {
	tuning     Tuning
	classifier classify.Classifier
}

// New returns a Learner. A nil classifier selects the default keyword tables.
func New(t Tuning, c classify.Classifier) *Learner {
	if c == nil {
		c = classify.Default()
	}
	return &Learner{tuning: t.withDefaults(), classifier: c}
}

// Tuning returns the effective thresholds.
func (l *Learner) Tuning() Tuning { return l.tuning }

// begin returns a normalized private copy of p ready for mutation.
func begin(p *model.Profile) *model.Profile {
	return p.Clone().Normalize()
}

// finish stamps bookkeeping fields shared by every Apply method.
func finish(p *model.Profile, kind string, at time.Time) *model.Profile {
	p.UpdateCount++
	if !at.IsZero() {
		p.LastUpdated = at
	}
	p.Computed.LastEngagementType = kind
	return p
}

// normalizeTopics lower-cases, trims and dedupes, preserving order.
func normalizeTopics(topics []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, t := range topics {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func engagementLevel(v float64) model.Level {
	switch {
	case v >= 7:
		return model.LevelHigh
	case v >= 4:
		return model.LevelMedium
	}
	return model.LevelLow
}
