package profile

import (
	"github.com/rcliao/wellness-profile/internal/model"
	"github.com/rcliao/wellness-profile/internal/scoring"
)

// bucket maps an integer tally onto three levels. A score equal to a cut
// stays in the middle bucket.
func bucket(score, lowCut, highCut int) model.Level {
	switch {
	case score > highCut:
		return model.LevelHigh
	case score < lowCut:
		return model.LevelLow
	default:
		return model.LevelMedium
	}
}

// DeriveChallengeLevel decides how hard to push the user.
func DeriveChallengeLevel(answers model.Answers, code model.TypeCode, scores model.ScoreVector) model.Level {
	score := 0
	pref := answers.Text(scoring.QChallengePreference)
	switch {
	case scoring.ContainsAny(pref, "gentle", "easy", "low", "slow"):
		score -= 2
	case scoring.ContainsAny(pref, "push", "challeng", "high", "hard"):
		score += 2
	}
	if code.Has("J") {
		score++
	}
	if scores.Accomplishment >= 7 {
		score++
	} else if scores.Accomplishment <= 3 {
		score--
	}
	if scores.Engagement >= 7 {
		score++
	}
	stress := answers.Number(scoring.QStressLevel, 5)
	if stress >= highStress {
		score -= 2
	} else if stress <= 3 {
		score++
	}
	return bucket(score, -1, 1)
}

// DeriveCommunicationStyle tallies points per style; ties resolve in the
// order supportive, direct, analytical, playful.
func DeriveCommunicationStyle(answers model.Answers, code model.TypeCode, scores model.ScoreVector) model.CommunicationStyle {
	order := []model.CommunicationStyle{model.StyleSupportive, model.StyleDirect, model.StyleAnalytical, model.StylePlayful}
	points := map[model.CommunicationStyle]int{}

	pref := answers.Text(scoring.QCommunicationPreference)
	if scoring.ContainsAny(pref, "gentle", "support", "warm", "kind") {
		points[model.StyleSupportive] += 3
	}
	if scoring.ContainsAny(pref, "direct", "straight", "honest", "blunt") {
		points[model.StyleDirect] += 3
	}
	if scoring.ContainsAny(pref, "detail", "explain", "data", "logic") {
		points[model.StyleAnalytical] += 3
	}
	if scoring.ContainsAny(pref, "fun", "humor", "light", "casual") {
		points[model.StylePlayful] += 3
	}

	if code.Has("T") {
		points[model.StyleAnalytical]++
		points[model.StyleDirect]++
	}
	if code.Has("F") {
		points[model.StyleSupportive] += 2
	}
	if code.Has("E") {
		points[model.StylePlayful]++
	}
	if code.Has("J") {
		points[model.StyleDirect]++
	}
	if scores.PositiveEmotion >= 7 {
		points[model.StylePlayful]++
	} else if scores.PositiveEmotion <= 4 {
		points[model.StyleSupportive]++
	}
	if answers.Number(scoring.QStressLevel, 5) >= 7 {
		points[model.StyleSupportive]++
	}

	best := order[0]
	for _, s := range order[1:] {
		if points[s] > points[best] {
			best = s
		}
	}
	return best
}

// DeriveEmotionalSupport decides how much emotional support to offer.
func DeriveEmotionalSupport(answers model.Answers, code model.TypeCode, scores model.ScoreVector) model.Level {
	score := 0
	stress := answers.Number(scoring.QStressLevel, 5)
	if stress >= highStress {
		score += 2
	} else if stress >= 6 {
		score++
	}
	if scores.PositiveEmotion <= 4 {
		score++
	}
	if scores.Relationships <= 4 {
		score++
	}
	if code.Has("F") {
		score++
	}
	pref := answers.Text(scoring.QSupportPreference)
	switch {
	case scoring.ContainsAny(pref, "minimal", "little", "space", "low"):
		score -= 2
	case scoring.ContainsAny(pref, "lot", "high", "more", "extra"):
		score += 2
	}
	return bucket(score, 0, 2)
}

// DeriveSocialPreference decides whether the user recharges alone or with others.
func DeriveSocialPreference(answers model.Answers, code model.TypeCode, scores model.ScoreVector) model.SocialPreference {
	pref := answers.Text(scoring.QSocialPreference)
	switch {
	case scoring.ContainsAny(pref, "both", "mix", "depends"):
		return model.SocialMixed
	case scoring.ContainsAny(pref, "alone", "solo", "myself"):
		return model.SocialSolo
	case scoring.ContainsAny(pref, "group", "others", "social", "friends"):
		return model.SocialSocial
	}

	score := 0
	if code.Has("E") {
		score++
	} else if code.Has("I") {
		score--
	}
	if scores.Relationships >= 7 {
		score++
	} else if scores.Relationships <= 3 {
		score--
	}
	switch bucket(score, -1, 1) {
	case model.LevelHigh:
		return model.SocialSocial
	case model.LevelLow:
		return model.SocialSolo
	}
	return model.SocialMixed
}

// engagementLevel buckets a 0–10 engagement value.
func engagementLevel(v float64) model.Level {
	switch {
	case v >= 7:
		return model.LevelHigh
	case v >= 4:
		return model.LevelMedium
	}
	return model.LevelLow
}
