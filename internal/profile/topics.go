package profile

import (
	"sort"
	"strings"

	"github.com/rcliao/wellness-profile/internal/model"
	"github.com/rcliao/wellness-profile/internal/scoring"
)

// Extraction weights.
const (
	weightExplicit = 3.0
	weightDriver   = 3.0
	weightFreeText = 2.0
)

// Ranking weights for primary interests.
const (
	rankExplicit      = 10.0
	rankDriver        = 15.0
	rankFlow          = 12.0
	rankRepeatFactor  = 3.0
	rankDimensionTop  = 8.0
	rankDimensionBase = 6.0
	maxPrimary        = 8
)

// Extraction is the topic evidence gathered from one set of answers.
type Extraction struct {
	// Topics in first-seen order, lower-cased and unique.
	Topics []string
	// Scores is the summed source weight per topic.
	Scores map[string]float64
	// Mentions counts free-text answers that mention the topic.
	Mentions map[string]int
	Explicit map[string]bool
	Flow     map[string]bool
	Driver   string
}

func (e *Extraction) add(topic string, weight float64) {
	topic = strings.ToLower(strings.TrimSpace(topic))
	if topic == "" {
		return
	}
	if _, ok := e.Scores[topic]; !ok {
		e.Topics = append(e.Topics, topic)
	}
	e.Scores[topic] += weight
}

// ExtractTopics collects topic candidates from explicit content selections,
// the happiness driver, and vocabulary matches in free-text answers.
func (b *Builder) ExtractTopics(answers model.Answers) Extraction {
	ext := Extraction{
		Scores:   map[string]float64{},
		Mentions: map[string]int{},
		Explicit: map[string]bool{},
		Flow:     map[string]bool{},
	}

	for _, label := range answers.Choices(scoring.QContentPreferences) {
		for _, topic := range scoring.CategoryTopics(label) {
			ext.add(topic, weightExplicit)
			ext.Explicit[topic] = true
		}
	}

	if driver := strings.ToLower(answers.Text(scoring.QHappinessDriver)); driver != "" {
		ext.add(driver, weightDriver)
		ext.Driver = driver
	}

	for _, q := range scoring.FreeTextQuestions {
		for _, topic := range b.classifier.ExtractTopics(answers.Text(q)) {
			ext.add(topic, weightFreeText)
			ext.Mentions[topic]++
			if q == scoring.QFlowActivities {
				ext.Flow[topic] = true
			}
		}
	}
	return ext
}

// MapTopicsToDimensions assigns every topic to each dimension it matches.
// Each dimension's list is sorted by topic weight, highest first.
func (b *Builder) MapTopicsToDimensions(topics []string, scores map[string]float64) map[model.Dimension][]string {
	out := map[model.Dimension][]string{}
	for _, topic := range topics {
		for _, d := range b.classifier.Dimensions(topic) {
			out[d] = append(out[d], topic)
		}
	}
	for d := range out {
		list := out[d]
		sort.SliceStable(list, func(i, j int) bool {
			if scores[list[i]] != scores[list[j]] {
				return scores[list[i]] > scores[list[j]]
			}
			return list[i] < list[j]
		})
	}
	return out
}

// RankPrimaryInterests sums source-specific weights per topic and returns
// the top 8. Explicit, repeated and strongly stated preferences dominate
// topics that only matched a dimension.
func RankPrimaryInterests(ext Extraction, dimMap map[model.Dimension][]string) []string {
	pool := map[string]float64{}
	add := func(topic string, w float64) {
		pool[strings.ToLower(topic)] += w
	}

	for topic := range ext.Explicit {
		add(topic, rankExplicit)
	}
	if ext.Driver != "" {
		add(ext.Driver, rankDriver)
	}
	for topic := range ext.Flow {
		add(topic, rankFlow)
	}
	for topic, n := range ext.Mentions {
		if n >= 2 {
			add(topic, ext.Scores[topic]*rankRepeatFactor)
		}
	}
	for _, d := range model.AllDimensions {
		for i, topic := range dimMap[d] {
			w := rankDimensionTop - float64(i)
			if w < rankDimensionBase {
				w = rankDimensionBase
			}
			add(topic, w)
		}
	}

	return topN(pool, maxPrimary)
}

// topN sorts a weight map descending (ties alphabetical) and keeps n keys.
func topN(pool map[string]float64, n int) []string {
	keys := make([]string, 0, len(pool))
	for k := range pool {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if pool[keys[i]] != pool[keys[j]] {
			return pool[keys[i]] > pool[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}

// containsFold reports whether list holds s, ignoring case.
func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
