package scoring

import (
	"strings"

	"github.com/rcliao/wellness-profile/internal/model"
)

// Assessment question ids.
const (
	QCurrentMood              = "current_mood"
	QPastWeekHappiness        = "past_week_happiness"
	QJoySources               = "joy_sources"
	QFlowFrequency            = "flow_frequency"
	QFlowActivities           = "flow_activities"
	QHappinessDriver          = "happiness_driver"
	QRelationshipSatisfaction = "relationship_satisfaction"
	QSocialSupport            = "social_support"
	QImportantPeople          = "important_people"
	QLifePurpose              = "life_purpose"
	QValues                   = "values"
	QMeaningfulActivities     = "meaningful_activities"
	QGoalProgress             = "goal_progress"
	QRecentAchievement        = "recent_achievement"
	QContentPreferences       = "content_preferences"
	QStressLevel              = "stress_level"
	QHobbies                  = "hobbies"

	QSocialEnergy     = "social_energy"
	QInformationFocus = "information_focus"
	QDecisionStyle    = "decision_style"
	QLifeApproach     = "life_approach"
	QPersonalityType  = "personality_type"

	QSupportPreference       = "support_preference"
	QCommunicationPreference = "communication_preference"
	QChallengePreference     = "challenge_preference"
	QSocialPreference        = "social_preference"
	QDeliveryPreference      = "delivery_preference"
	QSessionLength           = "session_length"
)

// FreeTextQuestions are scanned for vocabulary topics.
var FreeTextQuestions = []string{
	QJoySources,
	QFlowActivities,
	QImportantPeople,
	QValues,
	QMeaningfulActivities,
	QRecentAchievement,
	QHobbies,
}

// Category is one option of the content_preferences multi-select, labelled
// with the dimension it feeds.
type Category struct {
	Label     string
	Dimension model.Dimension
}

// ContentCategories are the content_preferences options in display order.
var ContentCategories = []Category{
	{"Comedy / Humor", model.PositiveEmotion},
	{"Music / Arts", model.PositiveEmotion},
	{"Travel / Adventure", model.PositiveEmotion},
	{"Learning / Education", model.Engagement},
	{"Hobbies / Skills", model.Engagement},
	{"Sports / Fitness", model.Engagement},
	{"Relationships / Family", model.Relationships},
	{"Community / Social", model.Relationships},
	{"Spirituality / Mindfulness", model.Meaning},
	{"Nature / Environment", model.Meaning},
	{"Career / Productivity", model.Accomplishment},
	{"Personal Growth / Goals", model.Accomplishment},
}

// CategoryFor finds the category whose label matches (case-insensitive).
func CategoryFor(label string) (Category, bool) {
	label = strings.TrimSpace(label)
	for _, c := range ContentCategories {
		if strings.EqualFold(c.Label, label) {
			return c, true
		}
	}
	return Category{}, false
}

// CategoryTopics splits a category label into its lower-cased topic parts:
// "Comedy / Humor" becomes ["comedy", "humor"].
func CategoryTopics(label string) []string {
	var out []string
	for _, part := range strings.Split(label, "/") {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ContainsAny reports whether text contains any keyword (case-insensitive).
func ContainsAny(text string, keywords ...string) bool {
	text = strings.ToLower(text)
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
