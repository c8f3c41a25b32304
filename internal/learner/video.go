package learner

import (
	"math"

	"github.com/rcliao/wellness-profile/internal/model"
)

// viewFallback scores a plain view whose duration is unknown.
const viewFallback = 5

var actionScores = map[model.VideoAction]float64{
	model.VideoLike:     9,
	model.VideoDislike:  2,
	model.VideoSkip:     1,
	model.VideoComplete: 10,
}

// VideoScore maps a video action to a 0–10 engagement score.
func VideoScore(v model.VideoInteraction) float64 {
	if s, ok := actionScores[v.Type]; ok {
		return s
	}
	if v.Type != model.VideoView {
		return 0
	}
	if v.TotalSeconds <= 0 || math.IsNaN(v.WatchSeconds) {
		return viewFallback
	}
	return model.ClampFloat(math.Round(10*v.WatchSeconds/v.TotalSeconds), 0, 10)
}

// VideoTopics returns the topics the classifier sees in a video's metadata.
func (l *Learner) VideoTopics(v model.VideoInteraction) []string {
	return normalizeTopics(l.classifier.VideoTopics(v.Title, v.Channel))
}

// ApplyVideoInteraction folds a user action on a video into the profile.
func (l *Learner) ApplyVideoInteraction(p *model.Profile, v model.VideoInteraction) *model.Profile {
	t := l.tuning
	out := begin(p)
	score := VideoScore(v)
	topics := l.VideoTopics(v)

	cm := &out.ActivityTracking.ChatMetrics
	cm.PreferredTopics = DecayThenBoost(cm.PreferredTopics, topics, score, t, l.firstDimension)
	cp := &out.ContentPreferences
	cp.TopicScores = DecayThenBoostMap(cp.TopicScores, topics, score, t)
	if score >= t.HighEngagement {
		for _, topic := range topics {
			l.markEmerging(out, topic)
		}
	}
	out.Computed.EngagementLevel = engagementLevel(score)

	return finish(out, model.KindVideo, v.Timestamp)
}

// VideoRecord summarizes a video interaction for the behavior history.
func (l *Learner) VideoRecord(v model.VideoInteraction) model.EngagementRecord {
	return model.EngagementRecord{
		Kind:    model.KindVideo,
		Topics:  l.VideoTopics(v),
		Channel: v.Channel,
		Score:   VideoScore(v),
		At:      v.Timestamp,
	}
}
