package classify

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rcliao/wellness-profile/internal/model"
)

// VideoPattern maps a regular expression over video title/channel text to a topic.
type VideoPattern struct {
	Pattern string `yaml:"pattern"`
	Topic   string `yaml:"topic"`
}

// Tables are the keyword data behind KeywordClassifier.
type Tables struct {
	DimensionKeywords map[model.Dimension][]string `yaml:"dimension_keywords"`
	Vocabulary        []string                     `yaml:"vocabulary"`
	VideoPatterns     []VideoPattern               `yaml:"video_patterns"`
}

// DefaultTables returns the built-in English tables.
func DefaultTables() Tables {
	return Tables{
		DimensionKeywords: map[model.Dimension][]string{
			model.PositiveEmotion: {
				"comedy", "humor", "funny", "music", "joy", "laugh", "fun", "entertainment",
				"movie", "film", "dance", "art", "travel", "adventure", "food", "cooking",
				"game", "gaming", "relaxation",
			},
			model.Engagement: {
				"learn", "education", "science", "technology", "skill", "hobby", "hobbies",
				"creative", "writing", "reading", "book", "puzzle", "sport", "fitness",
				"photography", "coding", "craft", "instrument", "language",
			},
			model.Relationships: {
				"family", "friend", "social", "community", "relationship", "love",
				"parenting", "dating", "people", "connection", "volunteer",
			},
			model.Meaning: {
				"purpose", "spiritual", "mindful", "meditat", "philosophy", "value", "faith",
				"nature", "environment", "service", "meaning", "gratitude", "history",
				"journaling",
			},
			model.Accomplishment: {
				"goal", "career", "productivity", "achievement", "success", "business",
				"finance", "habit", "growth", "progress", "running", "marathon", "fitness",
				"motivation",
			},
		},
		Vocabulary: []string{
			"music", "reading", "books", "art", "painting", "drawing", "cooking", "baking",
			"fitness", "yoga", "meditation", "mindfulness", "nature", "hiking", "travel",
			"gaming", "photography", "writing", "learning", "science", "technology",
			"coding", "history", "family", "friends", "volunteering", "career", "gardening",
			"dancing", "movies", "running", "sports", "pets", "spirituality", "comedy",
			"podcasts", "languages", "fashion", "finance", "parenting", "crafts",
			"journaling",
		},
		VideoPatterns: []VideoPattern{
			{Pattern: `\b(meditat\w*|mindful\w*)\b`, Topic: "meditation"},
			{Pattern: `\b(workouts?|exercises?|hiit|fitness)\b`, Topic: "fitness"},
			{Pattern: `\byoga\b`, Topic: "yoga"},
			{Pattern: `\b(recipes?|cooking|kitchen|bake|baking)\b`, Topic: "cooking"},
			{Pattern: `\b(comedy|funny|stand[- ]?up|sketch)\b`, Topic: "comedy"},
			{Pattern: `\b(music|songs?|playlist|lo-?fi)\b`, Topic: "music"},
			{Pattern: `\b(tutorial|how to|learn\w*|course|lessons?)\b`, Topic: "learning"},
			{Pattern: `\b(productivity|habits?|goal setting|time management)\b`, Topic: "productivity"},
			{Pattern: `\b(relationships?|friendships?|family|parenting)\b`, Topic: "relationships"},
			{Pattern: `\b(travel\w*|vlog|adventures?)\b`, Topic: "travel"},
			{Pattern: `\b(nature|hiking|outdoors|wildlife)\b`, Topic: "nature"},
			{Pattern: `\b(motivation\w*|inspir\w*)\b`, Topic: "motivation"},
			{Pattern: `\b(sleep|relax\w*|calm)\b`, Topic: "relaxation"},
			{Pattern: `\b(art|drawing|painting)\b`, Topic: "art"},
			{Pattern: `\b(science|physics|space|astronomy)\b`, Topic: "science"},
		},
	}
}

// LoadTables reads a YAML tables file and merges it over the defaults.
// Each top-level section present in the file replaces the default section;
// dimension keyword lists are replaced per dimension.
func LoadTables(path string) (Tables, error) {
	t := DefaultTables()
	if path == "" {
		return t, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("read tables: %w", err)
	}
	var override Tables
	if err := yaml.Unmarshal(b, &override); err != nil {
		return t, fmt.Errorf("parse tables %s: %w", path, err)
	}
	for d, words := range override.DimensionKeywords {
		if !model.ValidDimensions[d] {
			return t, fmt.Errorf("parse tables %s: unknown dimension %q", path, d)
		}
		t.DimensionKeywords[d] = words
	}
	if len(override.Vocabulary) > 0 {
		t.Vocabulary = override.Vocabulary
	}
	if len(override.VideoPatterns) > 0 {
		t.VideoPatterns = override.VideoPatterns
	}
	return t, nil
}
