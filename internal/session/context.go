// Package session assembles the text context handed to the chat assistant at
// the start of a session.
package session

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rcliao/wellness-profile/internal/model"
)

// MaxSummaries is how many prior sessions are considered.
const MaxSummaries = 3

const (
	lowMood  = 4
	highMood = 8
)

var dimensionLabels = map[model.Dimension]string{
	model.PositiveEmotion: "positive emotion",
	model.Engagement:      "engagement",
	model.Relationships:   "relationships",
	model.Meaning:         "meaning",
	model.Accomplishment:  "accomplishment",
}

// Context is the assembled continuity text.
type Context struct {
	ContinuityContext  string `json:"continuity_context"`
	RecentInteractions string `json:"recent_interactions"`
}

// BuildContext folds up to MaxSummaries prior sessions and the profile into
// period-joined context strings. summaries are ordered most recent first.
// Nothing is truncated.
func BuildContext(summaries []model.SessionSummary, p *model.Profile) Context {
	if len(summaries) > MaxSummaries {
		summaries = summaries[:MaxSummaries]
	}
	var parts []string

	if len(summaries) > 0 {
		last := summaries[0]
		if s := strings.TrimSpace(last.Summary); s != "" {
			parts = append(parts, "Last session: "+trimPeriod(s))
		}
		if len(last.KeyTopics) > 0 {
			parts = append(parts, "Topics discussed: "+strings.Join(last.KeyTopics, ", "))
		}
		if len(last.UserNeeds) > 0 {
			parts = append(parts, "User needs: "+strings.Join(last.UserNeeds, ", "))
		}
		if s := strings.TrimSpace(last.ImportantContext); s != "" {
			parts = append(parts, "Important context: "+trimPeriod(s))
		}
	}

	if p != nil {
		p = p.Clone().Normalize()
		if focus := p.WellnessProfile.FocusAreas; len(focus) > 0 {
			parts = append(parts, "Focus areas: "+joinDimensions(focus))
		}
		if top := topPreferred(p, 2); len(top) > 0 {
			parts = append(parts, "Favorite topics: "+strings.Join(top, ", "))
		}
		switch h := p.Computed.OverallHappiness; {
		case h <= lowMood:
			parts = append(parts, "Mood has been low lately, lead with warmth and check in gently")
		case h >= highMood:
			parts = append(parts, "Mood has been high lately, build on the momentum")
		}
	}

	if recurring := RecurringTopics(summaries); len(recurring) > 0 {
		parts = append(parts, "Recurring topics: "+strings.Join(recurring, ", "))
	}

	return Context{
		ContinuityContext:  joinParts(parts),
		RecentInteractions: recentInteractions(summaries),
	}
}

// RecurringTopics returns topics that appear in more than one of the given
// summaries, compared case-insensitively, in order of first appearance.
func RecurringTopics(summaries []model.SessionSummary) []string {
	count := map[string]int{}
	var order []string
	for _, s := range summaries {
		seen := map[string]bool{}
		for _, t := range s.KeyTopics {
			key := strings.ToLower(strings.TrimSpace(t))
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			if count[key] == 0 {
				order = append(order, key)
			}
			count[key]++
		}
	}
	var out []string
	for _, k := range order {
		if count[k] > 1 {
			out = append(out, k)
		}
	}
	return out
}

func recentInteractions(summaries []model.SessionSummary) string {
	var parts []string
	for i, s := range summaries {
		line := fmt.Sprintf("Session %d", i+1)
		if !s.CreatedAt.IsZero() {
			line += " (" + s.CreatedAt.Format("2006-01-02") + ")"
		}
		if st := strings.TrimSpace(s.EmotionalState); st != "" {
			line += ", feeling " + st
		}
		if len(s.KeyTopics) > 0 {
			line += ": " + strings.Join(s.KeyTopics, ", ")
		}
		parts = append(parts, line)
	}
	return joinParts(parts)
}

// topPreferred returns the n highest scoring preferred topics, taken from
// chat metrics and falling back to the assessment persona.
func topPreferred(p *model.Profile, n int) []string {
	list := p.ActivityTracking.ChatMetrics.PreferredTopics
	if len(list) == 0 {
		list = p.ChatPersona.PreferredTopics
	}
	sorted := append([]model.TopicScore(nil), list...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Score > sorted[j].Score })
	var out []string
	for _, ts := range sorted {
		if len(out) == n {
			break
		}
		out = append(out, ts.Topic)
	}
	return out
}

func joinDimensions(dims []model.Dimension) string {
	names := make([]string, len(dims))
	for i, d := range dims {
		names[i] = dimensionLabels[d]
		if names[i] == "" {
			names[i] = string(d)
		}
	}
	return strings.Join(names, ", ")
}

func trimPeriod(s string) string {
	return strings.TrimRight(strings.TrimSpace(s), ".")
}

func joinParts(parts []string) string {
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, ". ") + "."
}
