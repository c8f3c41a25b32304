// Package classify maps free text and topics onto wellness dimensions.
//
// The profile builder and the interaction learner only see the Classifier
// interface, so the default keyword tables can be replaced by a model-based
// implementation without touching either.
package classify

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rcliao/wellness-profile/internal/model"
)

// Classifier classifies topics and extracts candidate topics from text.
type Classifier interface {
	// Dimensions returns every dimension the topic belongs to, in canonical order.
	Dimensions(topic string) []model.Dimension
	// ExtractTopics returns vocabulary topics mentioned in free text, in
	// vocabulary order, without duplicates.
	ExtractTopics(text string) []string
	// VideoTopics returns candidate topics for a video's title and channel.
	VideoTopics(title, channel string) []string
}

// KeywordClassifier is the default table-driven Classifier. Dimension
// membership is case-insensitive substring containment of a keyword in the
// topic; vocabulary extraction matches at word starts.
type KeywordClassifier struct {
	keywords map[model.Dimension][]string
	vocab    []string
	vocabRe  []*regexp.Regexp
	video    []compiledPattern
}

type compiledPattern struct {
	re    *regexp.Regexp
	topic string
}

// NewKeywordClassifier compiles the given tables.
func NewKeywordClassifier(t Tables) (*KeywordClassifier, error) {
	c := &KeywordClassifier{keywords: make(map[model.Dimension][]string, len(t.DimensionKeywords))}
	for d, words := range t.DimensionKeywords {
		lowered := make([]string, 0, len(words))
		for _, w := range words {
			if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
				lowered = append(lowered, w)
			}
		}
		c.keywords[d] = lowered
	}
	for _, v := range t.Vocabulary {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		c.vocab = append(c.vocab, v)
		c.vocabRe = append(c.vocabRe, regexp.MustCompile(`\b`+regexp.QuoteMeta(v)))
	}
	for _, p := range t.VideoPatterns {
		re, err := regexp.Compile(`(?i)` + p.Pattern)
		if err != nil {
			return nil, fmt.Errorf("video pattern %q: %w", p.Pattern, err)
		}
		c.video = append(c.video, compiledPattern{re: re, topic: strings.ToLower(p.Topic)})
	}
	return c, nil
}

// Default returns a KeywordClassifier over DefaultTables.
func Default() *KeywordClassifier {
	c, err := NewKeywordClassifier(DefaultTables())
	if err != nil {
		panic(err)
	}
	return c
}

func (c *KeywordClassifier) Dimensions(topic string) []model.Dimension {
	topic = strings.ToLower(strings.TrimSpace(topic))
	if topic == "" {
		return nil
	}
	var out []model.Dimension
	for _, d := range model.AllDimensions {
		for _, kw := range c.keywords[d] {
			if strings.Contains(topic, kw) {
				out = append(out, d)
				break
			}
		}
	}
	return out
}

func (c *KeywordClassifier) ExtractTopics(text string) []string {
	text = strings.ToLower(text)
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var out []string
	for i, re := range c.vocabRe {
		if re.MatchString(text) {
			out = append(out, c.vocab[i])
		}
	}
	return out
}

func (c *KeywordClassifier) VideoTopics(title, channel string) []string {
	text := strings.TrimSpace(title + " " + channel)
	if text == "" {
		return nil
	}
	seen := map[string]bool{}
	var out []string
	add := func(t string) {
		if t != "" && !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	for _, p := range c.video {
		if p.re.MatchString(text) {
			add(p.topic)
		}
	}
	for _, t := range c.ExtractTopics(text) {
		add(t)
	}
	return out
}
