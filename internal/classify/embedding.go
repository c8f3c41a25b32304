package classify

import (
	"context"
	"fmt"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/rcliao/wellness-profile/internal/model"
)

const (
	defaultEmbedThreshold = 0.45
	defaultEmbedTimeout   = 5 * time.Second
	defaultEmbedCacheSize = 512
)

// EmbeddingOptions configures an EmbeddingClassifier. Zero values fall back
// to defaults.
type EmbeddingOptions struct {
	Threshold float64
	Timeout   time.Duration
	CacheSize int
}

// EmbeddingClassifier assigns topics to dimensions by cosine similarity
// between the topic embedding and one anchor embedding per dimension.
// Topic extraction and any embedder failure fall through to the keyword
// classifier.
type EmbeddingClassifier struct {
	embedder  Embedder
	fallback  *KeywordClassifier
	anchors   map[model.Dimension]Vector
	threshold float64
	timeout   time.Duration
	cache     *lru.Cache[string, []model.Dimension]
}

// NewEmbeddingClassifier embeds the dimension anchors up front. Anchor text
// is the dimension name followed by its keyword table.
func NewEmbeddingClassifier(ctx context.Context, e Embedder, fallback *KeywordClassifier, t Tables, opts EmbeddingOptions) (*EmbeddingClassifier, error) {
	if e == nil {
		return nil, fmt.Errorf("embedding classifier: nil embedder")
	}
	if fallback == nil {
		fallback = Default()
	}
	if opts.Threshold <= 0 {
		opts.Threshold = defaultEmbedThreshold
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultEmbedTimeout
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = defaultEmbedCacheSize
	}
	cache, err := lru.New[string, []model.Dimension](opts.CacheSize)
	if err != nil {
		return nil, err
	}

	anchors := make(map[model.Dimension]Vector, len(model.AllDimensions))
	for _, d := range model.AllDimensions {
		text := string(d) + ": " + strings.Join(t.DimensionKeywords[d], ", ")
		v, err := e.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embed anchor %s: %w", d, err)
		}
		anchors[d] = v
	}

	return &EmbeddingClassifier{
		embedder:  e,
		fallback:  fallback,
		anchors:   anchors,
		threshold: opts.Threshold,
		timeout:   opts.Timeout,
		cache:     cache,
	}, nil
}

func (c *EmbeddingClassifier) Dimensions(topic string) []model.Dimension {
	key := strings.ToLower(strings.TrimSpace(topic))
	if key == "" {
		return nil
	}
	if dims, ok := c.cache.Get(key); ok {
		return append([]model.Dimension(nil), dims...)
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()
	v, err := c.embedder.Embed(ctx, key)
	if err != nil {
		return c.fallback.Dimensions(key)
	}

	var dims []model.Dimension
	for _, d := range model.AllDimensions {
		if CosineSimilarity(v, c.anchors[d]) >= c.threshold {
			dims = append(dims, d)
		}
	}
	if len(dims) == 0 {
		dims = c.fallback.Dimensions(key)
	}
	c.cache.Add(key, dims)
	return append([]model.Dimension(nil), dims...)
}

func (c *EmbeddingClassifier) ExtractTopics(text string) []string {
	return c.fallback.ExtractTopics(text)
}

func (c *EmbeddingClassifier) VideoTopics(title, channel string) []string {
	return c.fallback.VideoTopics(title, channel)
}
