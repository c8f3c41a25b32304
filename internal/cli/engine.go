package cli

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/rcliao/wellness-profile/internal/classify"
	"github.com/rcliao/wellness-profile/internal/config"
	"github.com/rcliao/wellness-profile/internal/logger"
	"github.com/rcliao/wellness-profile/internal/metrics"
	"github.com/rcliao/wellness-profile/internal/service"
	"github.com/rcliao/wellness-profile/internal/store"
)

// runtime bundles what a command needs to talk to the engine.
type runtime struct {
	cfg    *config.Config
	log    *logger.Logger
	store  *store.SQLiteStore
	engine *service.Engine
}

func (r *runtime) Close() {
	r.store.Close()
	r.log.Sync()
}

// openEngine wires config, logging, metrics, classifier and store into an
// engine. Metrics go to the default registry, which serve exposes.
func openEngine(ctx context.Context) *runtime {
	cfg := getConfig()
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		exitErr("init logger", err)
	}

	s, err := store.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		exitErr("open store", err)
	}
	rec, err := metrics.New(prometheus.DefaultRegisterer)
	if err != nil {
		exitErr("init metrics", err)
	}
	cache, err := service.NewProfileCache(cfg.CacheSize)
	if err != nil {
		exitErr("init cache", err)
	}

	opts := service.Options{
		Store:      s,
		Classifier: buildClassifier(ctx, cfg.Classifier, log),
		Learner:    cfg.Learner,
		Mixer:      cfg.Mixer,
		Cache:      cache,
		Logger:     log,
		Metrics:    rec,
		Feed: service.FeedOptions{
			Size:        cfg.Feed.Size,
			Concurrency: cfg.Feed.Concurrency,
		},
	}
	if cfg.Feed.SearchURL != "" {
		opts.Searcher = service.NewHTTPSearcher(cfg.Feed.SearchURL, cfg.Feed.SearchTimeout)
	}
	engine, err := service.New(opts)
	if err != nil {
		exitErr("init engine", err)
	}
	return &runtime{cfg: cfg, log: log, store: s, engine: engine}
}

// buildClassifier loads keyword tables and, when an embedding provider is
// configured, layers the embedding classifier over them. Any failure falls
// back to keywords.
func buildClassifier(ctx context.Context, cfg config.ClassifierConfig, log *logger.Logger) classify.Classifier {
	tables, err := classify.LoadTables(cfg.TablesPath)
	if err != nil {
		log.Warn("classifier tables unreadable, using defaults", "path", cfg.TablesPath, "error", err)
		tables = classify.DefaultTables()
	}
	kw, err := classify.NewKeywordClassifier(tables)
	if err != nil {
		log.Warn("classifier tables invalid, using defaults", "error", err)
		kw = classify.Default()
		tables = classify.DefaultTables()
	}

	embedder := classify.NewEmbedder(classify.EmbedderConfig{
		Provider: cfg.EmbedProvider,
		Model:    cfg.EmbedModel,
		URL:      cfg.EmbedURL,
	})
	if embedder == nil {
		return kw
	}
	ec, err := classify.NewEmbeddingClassifier(ctx, embedder, kw, tables, classify.EmbeddingOptions{
		Threshold: cfg.EmbedThreshold,
	})
	if err != nil {
		log.Warn("embedding classifier unavailable, using keywords", "provider", cfg.EmbedProvider, "error", err)
		return kw
	}
	log.Debug("embedding classifier ready", "provider", cfg.EmbedProvider, "model", cfg.EmbedModel)
	return ec
}
