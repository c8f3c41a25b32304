package learner

import "github.com/rcliao/wellness-profile/internal/model"

// Delta lists interest-tier changes between two versions of a profile.
type Delta struct {
	Promoted []string `json:"promoted,omitempty"`
	Demoted  []string `json:"demoted,omitempty"`
}

// Empty reports whether nothing moved.
func (d Delta) Empty() bool { return len(d.Promoted) == 0 && len(d.Demoted) == 0 }

// Diff reports topics that entered primary interests or avoid topics.
func Diff(before, after *model.Profile) Delta {
	var d Delta
	if after == nil {
		return d
	}
	var prevPrimary, prevAvoid []string
	if before != nil {
		prevPrimary = before.ContentPreferences.PrimaryInterests
		prevAvoid = before.ContentPreferences.AvoidTopics
	}
	for _, t := range after.ContentPreferences.PrimaryInterests {
		if indexFold(prevPrimary, t) < 0 {
			d.Promoted = append(d.Promoted, t)
		}
	}
	for _, t := range after.ContentPreferences.AvoidTopics {
		if indexFold(prevAvoid, t) < 0 {
			d.Demoted = append(d.Demoted, t)
		}
	}
	return d
}
