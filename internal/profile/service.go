package profile

import (
	"github.com/rcliao/wellness-profile/internal/model"
	"github.com/rcliao/wellness-profile/internal/scoring"
)

var focusServiceTypes = map[model.Dimension]string{
	model.PositiveEmotion: "mood_boosting",
	model.Engagement:      "skill_building",
	model.Relationships:   "connection_building",
	model.Meaning:         "purpose_exploration",
	model.Accomplishment:  "goal_coaching",
}

// ServiceInputs are the already-derived signals service personalization reads.
type ServiceInputs struct {
	Scores    model.ScoreVector
	Focus     []model.Dimension
	Code      model.TypeCode
	Support   model.Level
	Challenge model.Level
}

// DeriveServicePersonalization computes recommendation metadata once, at
// assessment time.
func DeriveServicePersonalization(answers model.Answers, in ServiceInputs) model.ServicePersonalization {
	stress := answers.Number(scoring.QStressLevel, 5)

	types := []string{}
	for _, d := range in.Focus {
		types = append(types, focusServiceTypes[d])
	}
	if stress >= 7 {
		types = append(types, "stress_relief")
	}

	delivery := "video"
	switch pref := answers.Text(scoring.QDeliveryPreference); {
	case scoring.ContainsAny(pref, "audio", "podcast", "listen"):
		delivery = "audio"
	case scoring.ContainsAny(pref, "text", "read", "article"):
		delivery = "text"
	}

	length := "medium"
	switch pref := answers.Text(scoring.QSessionLength); {
	case scoring.ContainsAny(pref, "short", "quick", "5 min"):
		length = "short"
	case scoring.ContainsAny(pref, "long", "30 min", "hour"):
		length = "long"
	case pref == "" && stress >= highStress:
		length = "short"
	}

	frequency := "weekly"
	switch {
	case in.Scores.Engagement >= 7:
		frequency = "daily"
	case in.Scores.Engagement >= 4:
		frequency = "few_times_week"
	}

	avoid := []string{}
	if stress >= highStress {
		avoid = append(avoid, "high_pressure_language")
	}
	if in.Support == model.LevelHigh {
		avoid = append(avoid, "blunt_feedback")
	}
	if in.Code.Has("I") {
		avoid = append(avoid, "group_activity_prompts")
	}
	if in.Challenge == model.LevelLow {
		avoid = append(avoid, "intense_challenges")
	}

	return model.ServicePersonalization{
		ServiceTypes:       types,
		DeliveryPreference: delivery,
		SessionLength:      length,
		Frequency:          frequency,
		AvoidancePatterns:  avoid,
	}
}
