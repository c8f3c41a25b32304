package learner

import (
	"math"

	"github.com/rcliao/wellness-profile/internal/model"
)

// ApplyChatTurn folds one analyzed chat message into the profile.
func (l *Learner) ApplyChatTurn(p *model.Profile, turn model.ChatTurn) *model.Profile {
	t := l.tuning
	out := begin(p)
	e := model.ClampFloat(turn.Engagement, 0, 10)

	cm := &out.ActivityTracking.ChatMetrics
	cm.TotalMessages++
	if turn.Sentiment == model.SentimentPositive && e >= t.PositiveEngagement {
		cm.PositiveInteractions = min(t.PositiveCap, cm.PositiveInteractions+1)
	}
	switch {
	case e >= t.StreakUp:
		cm.EngagementStreak++
	case e <= t.StreakReset:
		cm.EngagementStreak = 0
	}
	cm.PreferredTopics = DecayThenBoost(cm.PreferredTopics, turn.Topics, e, t, l.firstDimension)
	if !turn.Timestamp.IsZero() {
		cm.LastActiveTime = turn.Timestamp
	}

	scores := &out.WellnessProfile.CurrentScores
	for _, d := range model.AllDimensions {
		signal, ok := turn.DimensionSignals[d]
		if !ok || math.IsNaN(signal) {
			continue
		}
		delta := min(t.NudgeCap, signal*t.NudgeFactor)
		scores.Set(d, model.ClampFloat(scores.Get(d)+delta, 1, 10))
	}
	out.RefreshDerived()
	out.Computed.EngagementLevel = engagementLevel(e)

	return finish(out, model.KindChat, turn.Timestamp)
}

// firstDimension labels a topic with the first dimension it maps to.
func (l *Learner) firstDimension(topic string) model.Dimension {
	if dims := l.classifier.Dimensions(topic); len(dims) > 0 {
		return dims[0]
	}
	return ""
}

// ChatRecord summarizes a chat turn for the behavior history.
func ChatRecord(turn model.ChatTurn) model.EngagementRecord {
	return model.EngagementRecord{
		Kind:   model.KindChat,
		Topics: normalizeTopics(turn.Topics),
		Score:  model.ClampFloat(turn.Engagement, 0, 10),
		At:     turn.Timestamp,
	}
}
