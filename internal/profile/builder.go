// Package profile builds the initial personalization profile from an
// assessment. Everything here is deterministic and free of I/O.
package profile

import (
	"sort"

	"github.com/rcliao/wellness-profile/internal/classify"
	"github.com/rcliao/wellness-profile/internal/model"
)

// maxTopicList bounds the seeded topic lists.
const maxTopicList = 20

// Builder converts assessment results into a Profile.
type Builder struct {
	classifier classify.Classifier
}

// NewBuilder returns a Builder using c, or the default keyword classifier
// when c is nil.
func NewBuilder(c classify.Classifier) *Builder {
	if c == nil {
		c = classify.Default()
	}
	return &Builder{classifier: c}
}

// Build derives the full profile. The caller stamps UserID and LastUpdated.
func (b *Builder) Build(answers model.Answers, code model.TypeCode, scores model.ScoreVector) *model.Profile {
	ext := b.ExtractTopics(answers)
	dimMap := b.MapTopicsToDimensions(ext.Topics, ext.Scores)
	interests := RankPrimaryInterests(ext, dimMap)
	avoid := DeriveAvoidTopics(answers, scores, code, interests)

	current := scores.Scores()
	focus, strengths := current.FocusAndStrengths()
	challenge := DeriveChallengeLevel(answers, code, scores)
	support := DeriveEmotionalSupport(answers, code, scores)

	p := &model.Profile{
		ChatPersona: model.ChatPersona{
			TypeCode:           code,
			CommunicationStyle: DeriveCommunicationStyle(answers, code, scores),
			PreferredTopics:    b.rankedTopics(ext),
			EmotionalSupport:   support,
		},
		ContentPreferences: model.ContentPreferences{
			DimensionTopicMap:  dimMap,
			PrimaryInterests:   interests,
			AvoidTopics:        avoid,
			EmergingInterests:  []string{},
			DecliningInterests: []string{},
			TopicScores:        topicScoreMap(ext),
		},
		WellnessProfile: model.WellnessProfile{
			CurrentScores:    current,
			FocusAreas:       focus,
			Strengths:        strengths,
			ChallengeLevel:   challenge,
			SocialPreference: DeriveSocialPreference(answers, code, scores),
		},
		ServicePersonalization: DeriveServicePersonalization(answers, ServiceInputs{
			Scores:    scores,
			Focus:     focus,
			Code:      code,
			Support:   support,
			Challenge: challenge,
		}),
		Computed: model.Computed{
			OverallHappiness:   current.Mean(),
			EngagementLevel:    engagementLevel(current.Engagement),
			LastEngagementType: "assessment",
		},
		Behavior: model.Behavior{
			ProfileAccuracy: model.DefaultProfileAccuracy,
			ExplorationRate: model.DefaultExplorationRate,
		},
	}
	return p.Normalize()
}

// rankedTopics turns extraction weights into the persona's ranked topic list.
func (b *Builder) rankedTopics(ext Extraction) []model.TopicScore {
	out := make([]model.TopicScore, 0, len(ext.Topics))
	for _, t := range ext.Topics {
		ts := model.TopicScore{Topic: t, Score: model.ClampFloat(ext.Scores[t], 0, 10)}
		if dims := b.classifier.Dimensions(t); len(dims) > 0 {
			ts.Dimension = dims[0]
		}
		out = append(out, ts)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Topic < out[j].Topic
	})
	if len(out) > maxTopicList {
		out = out[:maxTopicList]
	}
	return out
}

func topicScoreMap(ext Extraction) map[string]float64 {
	keep := map[string]bool{}
	for _, t := range topN(ext.Scores, maxTopicList) {
		keep[t] = true
	}
	out := make(map[string]float64, len(keep))
	for t := range keep {
		out[t] = model.ClampFloat(ext.Scores[t], 0, 10)
	}
	return out
}
