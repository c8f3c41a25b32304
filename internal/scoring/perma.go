package scoring

import (
	"math"

	"github.com/rcliao/wellness-profile/internal/model"
)

const (
	neutralLikert    = 5.0
	categoryBonus    = 0.5
	breadthBonus     = 0.5
	maxBreadthBonus  = 2.0
	driverBonus      = 2.0
	freeTextBonus    = 1.0
	achievementBonus = 2.0
)

// driverKeywords gives a dimension +2 when the happiness driver mentions it.
var driverKeywords = map[model.Dimension][]string{
	model.PositiveEmotion: {"fun", "laugh", "joy", "enjoy"},
	model.Engagement:      {"learn", "grow", "skill", "curious", "creat"},
	model.Relationships:   {"people", "connect", "family", "friend", "love"},
	model.Meaning:         {"purpose", "help", "meaning", "differen", "contribut"},
	model.Accomplishment:  {"achiev", "goal", "progress", "success"},
}

// DeriveScoreVector scores each dimension independently from its Likert
// answers, free-text bonuses, labelled category selections and the
// happiness driver. Totals are clamped to [0,10], rounded, then held to the
// stored [1,10] range.
func DeriveScoreVector(answers model.Answers) model.ScoreVector {
	selected := SelectedCategories(answers)
	perDim := map[model.Dimension]int{}
	for _, c := range selected {
		perDim[c.Dimension]++
	}
	driver := answers.Text(QHappinessDriver)

	raw := map[model.Dimension]float64{
		model.PositiveEmotion: mean(answers, QCurrentMood, QPastWeekHappiness) +
			textBonus(answers, QJoySources, freeTextBonus),
		model.Engagement: mean(answers, QFlowFrequency) +
			textBonus(answers, QFlowActivities, freeTextBonus) +
			math.Min(maxBreadthBonus, breadthBonus*float64(len(answers.Choices(QContentPreferences)))),
		model.Relationships: mean(answers, QRelationshipSatisfaction, QSocialSupport) +
			textBonus(answers, QImportantPeople, freeTextBonus),
		model.Meaning: mean(answers, QLifePurpose) +
			textBonus(answers, QValues, freeTextBonus) +
			textBonus(answers, QMeaningfulActivities, freeTextBonus),
		model.Accomplishment: mean(answers, QGoalProgress) +
			textBonus(answers, QRecentAchievement, achievementBonus),
	}

	var v model.ScoreVector
	for _, d := range model.AllDimensions {
		total := raw[d] + categoryBonus*float64(perDim[d])
		if ContainsAny(driver, driverKeywords[d]...) {
			total += driverBonus
		}
		total = model.ClampFloat(total, 0, 10)
		setDim(&v, d, model.ClampInt(int(math.Round(total)), 1, 10))
	}
	return v
}

// SelectedCategories returns the known content categories the user picked.
func SelectedCategories(answers model.Answers) []Category {
	var out []Category
	for _, label := range answers.Choices(QContentPreferences) {
		if c, ok := CategoryFor(label); ok {
			out = append(out, c)
		}
	}
	return out
}

// mean averages the given Likert answers, each defaulting to neutral and
// clamped to [0,10].
func mean(answers model.Answers, ids ...string) float64 {
	var sum float64
	for _, id := range ids {
		sum += model.ClampFloat(answers.Number(id, neutralLikert), 0, 10)
	}
	return sum / float64(len(ids))
}

func textBonus(answers model.Answers, id string, bonus float64) float64 {
	if answers.Has(id) {
		return bonus
	}
	return 0
}

func setDim(v *model.ScoreVector, d model.Dimension, val int) {
	switch d {
	case model.PositiveEmotion:
		v.PositiveEmotion = val
	case model.Engagement:
		v.Engagement = val
	case model.Relationships:
		v.Relationships = val
	case model.Meaning:
		v.Meaning = val
	case model.Accomplishment:
		v.Accomplishment = val
	}
}
