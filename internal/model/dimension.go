package model

import (
	"math"
	"sort"
)

// Dimension is one of the five wellness axes used throughout scoring.
type Dimension string

const (
	PositiveEmotion Dimension = "positiveEmotion"
	Engagement      Dimension = "engagement"
	Relationships   Dimension = "relationships"
	Meaning         Dimension = "meaning"
	Accomplishment  Dimension = "accomplishment"
)

// AllDimensions lists the dimensions in canonical order. Tie-breaks use it.
var AllDimensions = []Dimension{PositiveEmotion, Engagement, Relationships, Meaning, Accomplishment}

// ValidDimensions are the allowed dimension names.
var ValidDimensions = map[Dimension]bool{
	PositiveEmotion: true,
	Engagement:      true,
	Relationships:   true,
	Meaning:         true,
	Accomplishment:  true,
}

// ScoreVector is the integer assessment result. Each field is in [1,10].
type ScoreVector struct {
	PositiveEmotion int `json:"positiveEmotion"`
	Engagement      int `json:"engagement"`
	Relationships   int `json:"relationships"`
	Meaning         int `json:"meaning"`
	Accomplishment  int `json:"accomplishment"`
}

// Get returns the value for d, or 0 for an unknown dimension.
func (v ScoreVector) Get(d Dimension) int {
	switch d {
	case PositiveEmotion:
		return v.PositiveEmotion
	case Engagement:
		return v.Engagement
	case Relationships:
		return v.Relationships
	case Meaning:
		return v.Meaning
	case Accomplishment:
		return v.Accomplishment
	}
	return 0
}

// Scores converts the vector to the mutable float form.
func (v ScoreVector) Scores() Scores {
	return Scores{
		PositiveEmotion: float64(v.PositiveEmotion),
		Engagement:      float64(v.Engagement),
		Relationships:   float64(v.Relationships),
		Meaning:         float64(v.Meaning),
		Accomplishment:  float64(v.Accomplishment),
	}
}

// Scores holds the current (continuously nudged) dimension scores.
type Scores struct {
	PositiveEmotion float64 `json:"positiveEmotion"`
	Engagement      float64 `json:"engagement"`
	Relationships   float64 `json:"relationships"`
	Meaning         float64 `json:"meaning"`
	Accomplishment  float64 `json:"accomplishment"`
}

// Get returns the score for d.
func (s Scores) Get(d Dimension) float64 {
	switch d {
	case PositiveEmotion:
		return s.PositiveEmotion
	case Engagement:
		return s.Engagement
	case Relationships:
		return s.Relationships
	case Meaning:
		return s.Meaning
	case Accomplishment:
		return s.Accomplishment
	}
	return 0
}

// Set assigns v to dimension d. Unknown dimensions are ignored.
func (s *Scores) Set(d Dimension, v float64) {
	switch d {
	case PositiveEmotion:
		s.PositiveEmotion = v
	case Engagement:
		s.Engagement = v
	case Relationships:
		s.Relationships = v
	case Meaning:
		s.Meaning = v
	case Accomplishment:
		s.Accomplishment = v
	}
}

// Clamp forces every dimension into [lo,hi]. NaN becomes lo.
func (s *Scores) Clamp(lo, hi float64) {
	for _, d := range AllDimensions {
		s.Set(d, ClampFloat(s.Get(d), lo, hi))
	}
}

// IsZero reports whether no dimension has been set.
func (s Scores) IsZero() bool {
	return s == Scores{}
}

// Mean is the unweighted mean of the five dimensions.
func (s Scores) Mean() float64 {
	var sum float64
	for _, d := range AllDimensions {
		sum += s.Get(d)
	}
	return sum / float64(len(AllDimensions))
}

// Lowest returns the n lowest-scoring dimensions.
func (s Scores) Lowest(n int) []Dimension {
	return s.ranked(n, func(a, b float64) bool { return a < b })
}

// Highest returns the n highest-scoring dimensions.
func (s Scores) Highest(n int) []Dimension {
	return s.ranked(n, func(a, b float64) bool { return a > b })
}

func (s Scores) ranked(n int, less func(a, b float64) bool) []Dimension {
	dims := make([]Dimension, len(AllDimensions))
	copy(dims, AllDimensions)
	sort.SliceStable(dims, func(i, j int) bool {
		return less(s.Get(dims[i]), s.Get(dims[j]))
	})
	if n > len(dims) {
		n = len(dims)
	}
	return dims[:n]
}

// FocusAndStrengths returns the 2 lowest and 2 highest dimensions. The two
// sets are always disjoint because they are cut from one total ordering.
func (s Scores) FocusAndStrengths() (focus, strengths []Dimension) {
	order := s.Lowest(len(AllDimensions))
	focus = []Dimension{order[0], order[1]}
	strengths = []Dimension{order[len(order)-1], order[len(order)-2]}
	return focus, strengths
}

// ClampFloat bounds v to [lo,hi].
func ClampFloat(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampInt bounds v to [lo,hi].
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
