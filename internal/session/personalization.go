package session

import (
	"fmt"
	"strings"

	"github.com/rcliao/wellness-profile/internal/model"
)

// PersonalizationContext renders the salient profile fields as plain text
// for the chat assistant's system prompt. A nil profile renders defaults.
func PersonalizationContext(p *model.Profile) string {
	p = p.Clone().Normalize()
	var b strings.Builder

	cp := p.ChatPersona
	fmt.Fprintf(&b, "Personality type: %s\n", orUnknown(string(cp.TypeCode)))
	fmt.Fprintf(&b, "Communication style: %s\n", cp.CommunicationStyle)
	fmt.Fprintf(&b, "Emotional support: %s\n", cp.EmotionalSupport)

	wp := p.WellnessProfile
	b.WriteString("Wellbeing (1-10): ")
	for i, d := range model.AllDimensions {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s %.1f", dimensionLabels[d], wp.CurrentScores.Get(d))
	}
	fmt.Fprintf(&b, "; overall %.1f\n", p.Computed.OverallHappiness)
	fmt.Fprintf(&b, "Focus areas: %s\n", joinDimensions(wp.FocusAreas))
	fmt.Fprintf(&b, "Strengths: %s\n", joinDimensions(wp.Strengths))
	fmt.Fprintf(&b, "Challenge level: %s\n", wp.ChallengeLevel)
	fmt.Fprintf(&b, "Social preference: %s\n", wp.SocialPreference)

	prefs := p.ContentPreferences
	writeList(&b, "Interests", prefs.PrimaryInterests)
	writeList(&b, "Emerging interests", prefs.EmergingInterests)
	writeList(&b, "Avoid", prefs.AvoidTopics)
	writeList(&b, "Avoid patterns", p.ServicePersonalization.AvoidancePatterns)

	fmt.Fprintf(&b, "Engagement: %s", p.Computed.EngagementLevel)
	if streak := p.ActivityTracking.ChatMetrics.EngagementStreak; streak > 0 {
		fmt.Fprintf(&b, " (streak %d)", streak)
	}
	b.WriteString("\n")
	return b.String()
}

func writeList(b *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "%s: %s\n", label, strings.Join(items, ", "))
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
