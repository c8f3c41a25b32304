package recommend

import (
	"strings"

	"github.com/rcliao/wellness-profile/internal/model"
)

// Observe folds one interaction into the behavior state: it counts the
// interaction, keeps a bounded recent history, adjusts the exploration rate
// and, once enough evidence exists, re-estimates profile accuracy.
func (m *Mixer) Observe(b model.Behavior, rec model.EngagementRecord, primaryInterests []string) model.Behavior {
	t := m.tuning
	out := b
	out.TotalInteractions++

	recent := make([]model.EngagementRecord, 0, len(b.RecentEngagements)+1)
	recent = append(recent, b.RecentEngagements...)
	recent = append(recent, rec)
	if len(recent) > t.RecentCap {
		recent = recent[len(recent)-t.RecentCap:]
	}
	out.RecentEngagements = recent

	if out.ExplorationRate == 0 {
		out.ExplorationRate = model.DefaultExplorationRate
	}
	switch {
	case rec.Score >= t.SurpriseEngagement && len(rec.Topics) > 0 && !anyMatch(primaryInterests, rec.Topics):
		out.ExplorationRate = min(t.ExplorationCap, out.ExplorationRate+t.ExplorationStep)
	case rec.Score <= t.LowEngagement:
		out.ExplorationRate = max(t.ExplorationFloor, out.ExplorationRate-t.ExplorationDecay)
	}

	if out.ProfileAccuracy == 0 {
		out.ProfileAccuracy = model.DefaultProfileAccuracy
	}
	if out.TotalInteractions > t.AccuracyAfter && len(primaryInterests) > 0 {
		out.ProfileAccuracy = m.accuracy(primaryInterests, recent)
	}
	return out
}

// accuracy is the fraction of primary interests that show up among the
// topics of recent strong interactions, floored at AccuracyFloor.
func (m *Mixer) accuracy(interests []string, recent []model.EngagementRecord) float64 {
	var topics []string
	for _, r := range recent {
		if r.Score > m.tuning.AccuracyEngagement {
			topics = append(topics, r.Topics...)
		}
	}
	hits := 0
	for _, i := range interests {
		if anyMatch([]string{i}, topics) {
			hits++
		}
	}
	return max(m.tuning.AccuracyFloor, float64(hits)/float64(len(interests)))
}

// anyMatch reports whether any interest and topic contain one another,
// ignoring case. Plain substring containment, so "art" matches "party".
func anyMatch(interests, topics []string) bool {
	for _, i := range interests {
		i = strings.ToLower(strings.TrimSpace(i))
		if i == "" {
			continue
		}
		for _, t := range topics {
			t = strings.ToLower(strings.TrimSpace(t))
			if t == "" {
				continue
			}
			if strings.Contains(t, i) || strings.Contains(i, t) {
				return true
			}
		}
	}
	return false
}
