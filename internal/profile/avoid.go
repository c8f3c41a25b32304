package profile

import (
	"strings"

	"github.com/rcliao/wellness-profile/internal/model"
	"github.com/rcliao/wellness-profile/internal/scoring"
)

const (
	maxAvoid          = 5
	lowDimensionScore = 2
	highStress        = 8
	// Unselected categories count only when the user left at least this
	// many options unpicked.
	selectiveMargin = 6
)

var lowDimensionAvoid = map[model.Dimension][]string{
	model.PositiveEmotion: {"toxic positivity", "forced cheerfulness"},
	model.Engagement:      {"high-intensity challenges"},
	model.Relationships:   {"dating pressure", "social comparison"},
	model.Meaning:         {"existential debates"},
	model.Accomplishment:  {"hustle culture", "productivity pressure"},
}

var highStressAvoid = []string{"breaking news", "intense debates", "high-pressure productivity"}

var letterAvoid = []struct {
	letter string
	topics []string
}{
	{"I", []string{"loud social events"}},
	{"S", []string{"abstract theory"}},
	{"F", []string{"harsh criticism"}},
	{"P", []string{"rigid routines"}},
}

// DeriveAvoidTopics infers up to 5 topics to keep out of recommendations.
// A topic that is already a primary interest is never avoided.
func DeriveAvoidTopics(answers model.Answers, scores model.ScoreVector, code model.TypeCode, interests []string) []string {
	var candidates []string

	for _, d := range model.AllDimensions {
		if scores.Get(d) <= lowDimensionScore {
			candidates = append(candidates, lowDimensionAvoid[d]...)
		}
	}
	if answers.Number(scoring.QStressLevel, 0) >= highStress {
		candidates = append(candidates, highStressAvoid...)
	}
	for _, la := range letterAvoid {
		if code.Has(la.letter) {
			candidates = append(candidates, la.topics...)
		}
	}

	selected := scoring.SelectedCategories(answers)
	total := len(scoring.ContentCategories)
	if len(selected) > 0 && len(selected) <= total-selectiveMargin {
		picked := map[string]bool{}
		for _, c := range selected {
			picked[c.Label] = true
		}
		for _, c := range scoring.ContentCategories {
			if !picked[c.Label] {
				candidates = append(candidates, scoring.CategoryTopics(c.Label)[0])
			}
		}
	}

	var out []string
	for _, c := range candidates {
		c = strings.ToLower(c)
		if containsFold(out, c) || containsFold(interests, c) {
			continue
		}
		out = append(out, c)
		if len(out) == maxAvoid {
			break
		}
	}
	if out == nil {
		out = []string{}
	}
	return out
}
