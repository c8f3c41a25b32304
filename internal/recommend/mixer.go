// Package recommend decides how much of a recommendation feed comes from the
// stated profile, observed behavior and exploration, and turns that into
// search queries.
package recommend

import (
	"math"

	"github.com/rcliao/wellness-profile/internal/model"
)

// Regime names which mixing formula produced a Ratio.
type Regime string

const (
	RegimeColdStart Regime = "cold_start"
	RegimeWarming   Regime = "warming"
	RegimeMature    Regime = "mature"
)

// Tuning holds the mixer's thresholds.
type Tuning struct {
	ColdStartBelow     int     `mapstructure:"cold_start_below" yaml:"cold_start_below"`
	MatureAt           int     `mapstructure:"mature_at" yaml:"mature_at"`
	RecentCap          int     `mapstructure:"recent_cap" yaml:"recent_cap"`
	SurpriseEngagement float64 `mapstructure:"surprise_engagement" yaml:"surprise_engagement"`
	LowEngagement      float64 `mapstructure:"low_engagement" yaml:"low_engagement"`
	ExplorationStep    float64 `mapstructure:"exploration_step" yaml:"exploration_step"`
	ExplorationCap     float64 `mapstructure:"exploration_cap" yaml:"exploration_cap"`
	ExplorationDecay   float64 `mapstructure:"exploration_decay" yaml:"exploration_decay"`
	ExplorationFloor   float64 `mapstructure:"exploration_floor" yaml:"exploration_floor"`
	AccuracyAfter      int     `mapstructure:"accuracy_after" yaml:"accuracy_after"`
	AccuracyEngagement float64 `mapstructure:"accuracy_engagement" yaml:"accuracy_engagement"`
	AccuracyFloor      float64 `mapstructure:"accuracy_floor" yaml:"accuracy_floor"`
	MaxQueries         int     `mapstructure:"max_queries" yaml:"max_queries"`
}

// DefaultTuning returns the stock thresholds.
func DefaultTuning() Tuning {
	return Tuning{
		ColdStartBelow:     10,
		MatureAt:           50,
		RecentCap:          20,
		SurpriseEngagement: 8,
		LowEngagement:      3,
		ExplorationStep:    0.05,
		ExplorationCap:     0.5,
		ExplorationDecay:   0.02,
		ExplorationFloor:   0.05,
		AccuracyAfter:      5,
		AccuracyEngagement: 6,
		AccuracyFloor:      0.3,
		MaxQueries:         10,
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
	if t.ColdStartBelow < 0 {
		t.ColdStartBelow = d.ColdStartBelow
	}
	if t.MatureAt <= t.ColdStartBelow {
		t.MatureAt = max(d.MatureAt, t.ColdStartBelow+1)
	}
	if t.RecentCap <= 0 {
		t.RecentCap = d.RecentCap
	}
	f(&t.SurpriseEngagement, d.SurpriseEngagement)
	f(&t.LowEngagement, d.LowEngagement)
	f(&t.ExplorationStep, d.ExplorationStep)
	f(&t.ExplorationCap, d.ExplorationCap)
	f(&t.ExplorationDecay, d.ExplorationDecay)
	f(&t.ExplorationFloor, d.ExplorationFloor)
	if t.AccuracyAfter < 0 {
		t.AccuracyAfter = d.AccuracyAfter
	}
	f(&t.AccuracyEngagement, d.AccuracyEngagement)
	f(&t.AccuracyFloor, d.AccuracyFloor)
	if t.MaxQueries <= 0 {
		t.MaxQueries = d.MaxQueries
	}
	return t
}

// Ratio is the three-way feed weighting. The weights are intended to sum to
// roughly 1; use Normalized when an exact split is needed.
type Ratio struct {
	Profile     float64 `json:"profile"`
	Behavior    float64 `json:"behavior"`
	Exploration float64 `json:"exploration"`
	Regime      Regime  `json:"regime"`
}

var coldStart = Ratio{Profile: 0.7, Behavior: 0.2, Exploration: 0.1, Regime: RegimeColdStart}

// Mixer computes mixing ratios, tracks behavior and generates queries.
type Mixer struct {
	tuning Tuning
}

// New returns a Mixer. A zero Tuning selects DefaultTuning.
func New(t Tuning) *Mixer {
	return &Mixer{tuning: t.withDefaults()}
}

// Tuning returns the effective thresholds.
func (m *Mixer) Tuning() Tuning { return m.tuning }

// MixingRatio computes the ratio with the default thresholds.
func MixingRatio(totalInteractions int, profileAccuracy, explorationRate float64) Ratio {
	return New(DefaultTuning()).Ratio(totalInteractions, profileAccuracy, explorationRate)
}

// Ratio picks the regime by interaction count. Below ColdStartBelow the
// stated profile dominates; between the two thresholds trust shifts toward
// behavior linearly; from MatureAt on, profile accuracy decides the split.
func (m *Mixer) Ratio(totalInteractions int, profileAccuracy, explorationRate float64) Ratio {
	acc := model.ClampFloat(profileAccuracy, 0, 1)
	exp := model.ClampFloat(explorationRate, 0, 1)

	switch {
	case totalInteractions < m.tuning.ColdStartBelow:
		return coldStart
	case totalInteractions < m.tuning.MatureAt:
		c := float64(totalInteractions) / float64(m.tuning.MatureAt)
		return Ratio{
			Profile:     0.6*(1-c) + 0.3*c,
			Behavior:    0.3*c + 0.1*(1-c),
			Exploration: 0.1 + exp*0.2,
			Regime:      RegimeWarming,
		}
	default:
		return Ratio{
			Profile:     0.2 + acc*0.3,
			Behavior:    0.5 + (1-acc)*0.2,
			Exploration: exp * 0.3,
			Regime:      RegimeMature,
		}
	}
}

// Normalized scales the weights to sum to exactly 1.
func (r Ratio) Normalized() Ratio {
	sum := r.Profile + r.Behavior + r.Exploration
	if sum <= 0 || math.IsNaN(sum) || math.IsInf(sum, 0) {
		out := coldStart
		out.Regime = r.Regime
		return out
	}
	return Ratio{
		Profile:     r.Profile / sum,
		Behavior:    r.Behavior / sum,
		Exploration: r.Exploration / sum,
		Regime:      r.Regime,
	}
}

// Allocation is a per-source item count.
type Allocation struct {
	Profile     int `json:"profile"`
	Behavior    int `json:"behavior"`
	Exploration int `json:"exploration"`
}

// Allocate splits n slots across the sources by largest remainder. Ties go
// to profile, then behavior, then exploration.
func (r Ratio) Allocate(n int) Allocation {
	if n <= 0 {
		return Allocation{}
	}
	norm := r.Normalized()
	weights := []float64{norm.Profile, norm.Behavior, norm.Exploration}
	counts := make([]int, 3)
	rems := make([]float64, 3)
	used := 0
	for i, w := range weights {
		exact := w * float64(n)
		counts[i] = int(math.Floor(exact))
		rems[i] = exact - float64(counts[i])
		used += counts[i]
	}
	for ; used < n; used++ {
		best := 0
		for i := 1; i < 3; i++ {
			if rems[i] > rems[best] {
				best = i
			}
		}
		counts[best]++
		rems[best] = -1
	}
	return Allocation{Profile: counts[0], Behavior: counts[1], Exploration: counts[2]}
}
