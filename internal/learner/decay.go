package learner

import (
	"sort"

	"github.com/rcliao/wellness-profile/internal/model"
)

// increment converts a 0–10 engagement into the boost added per mention.
func increment(engagement float64) float64 {
	return model.ClampFloat(engagement, 0, 10) / 10
}

// boost returns the post-mention score of a topic before the uniform decay.
func (t Tuning) boost(old float64, present bool, inc float64) float64 {
	if !present {
		return inc * 5
	}
	return min(10, old*t.BoostDecay+inc)
}

func (t Tuning) decay(s float64) float64 {
	return max(t.ScoreFloor, s*t.UniformDecay)
}

// DecayThenBoost updates a ranked topic list for one event. Mentioned topics
// are boosted first, then every entry decays uniformly, and the list is
// re-sorted and cut to MaxTopics. dimension labels newly added topics and
// may be nil. The input slice is not modified.
func DecayThenBoost(list []model.TopicScore, mentioned []string, engagement float64, t Tuning, dimension func(string) model.Dimension) []model.TopicScore {
	t = t.withDefaults()
	out := make([]model.TopicScore, 0, len(list)+len(mentioned))
	index := map[string]int{}
	for _, ts := range list {
		if _, dup := index[ts.Topic]; dup || ts.Topic == "" {
			continue
		}
		index[ts.Topic] = len(out)
		out = append(out, ts)
	}

	inc := increment(engagement)
	for _, topic := range normalizeTopics(mentioned) {
		if i, ok := index[topic]; ok {
			out[i].Score = t.boost(out[i].Score, true, inc)
			continue
		}
		ts := model.TopicScore{Topic: topic, Score: t.boost(0, false, inc)}
		if dimension != nil {
			ts.Dimension = dimension(topic)
		}
		index[topic] = len(out)
		out = append(out, ts)
	}

	for i := range out {
		out[i].Score = model.ClampFloat(t.decay(out[i].Score), 0, 10)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Topic < out[j].Topic
	})
	if len(out) > t.MaxTopics {
		out = out[:t.MaxTopics]
	}
	return out
}

// DecayThenBoostMap applies the same rule to a topic→score map and returns
// a new map holding at most MaxTopics entries.
func DecayThenBoostMap(scores map[string]float64, mentioned []string, engagement float64, t Tuning) map[string]float64 {
	list := make([]model.TopicScore, 0, len(scores))
	for topic, s := range scores {
		list = append(list, model.TopicScore{Topic: topic, Score: s})
	}
	// Map iteration order is random; fix it so ties truncate deterministically.
	sort.Slice(list, func(i, j int) bool { return list[i].Topic < list[j].Topic })

	ranked := DecayThenBoost(list, mentioned, engagement, t, nil)
	out := make(map[string]float64, len(ranked))
	for _, ts := range ranked {
		out[ts.Topic] = ts.Score
	}
	return out
}
