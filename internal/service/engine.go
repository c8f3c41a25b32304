// Package service composes the pure profile packages with persistence,
// caching, logging and metrics. An Engine serializes updates per user: one
// event is loaded, applied and stored before the next one for the same user
// is read.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rcliao/wellness-profile/internal/classify"
	"github.com/rcliao/wellness-profile/internal/learner"
	"github.com/rcliao/wellness-profile/internal/logger"
	"github.com/rcliao/wellness-profile/internal/metrics"
	"github.com/rcliao/wellness-profile/internal/model"
	"github.com/rcliao/wellness-profile/internal/profile"
	"github.com/rcliao/wellness-profile/internal/recommend"
	"github.com/rcliao/wellness-profile/internal/scoring"
	"github.com/rcliao/wellness-profile/internal/session"
	"github.com/rcliao/wellness-profile/internal/store"
)

var (
	// ErrInvalidInput marks requests rejected before any state is touched.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNoSearcher is returned by Feed when no video searcher is configured.
	ErrNoSearcher = errors.New("no video searcher configured")
	// ErrNoAssistant is returned by Converse when no chat assistant is configured.
	ErrNoAssistant = errors.New("no chat assistant configured")
)

// Options configures an Engine. Only Store is required.
type Options struct {
	Store      store.Store
	Classifier classify.Classifier
	Learner    learner.Tuning
	Mixer      recommend.Tuning
	Cache      *ProfileCache
	Logger     *logger.Logger
	Metrics    *metrics.Recorder
	Searcher   VideoSearcher
	Assistant  ChatAssistant
	Feed       FeedOptions
	Now        func() time.Time
}

type Engine struct {
	store     store.Store
	cache     *ProfileCache
	builder   *profile.Builder
	learner   *learner.Learner
	mixer     *recommend.Mixer
	log       *logger.Logger
	metrics   *metrics.Recorder
	searcher  VideoSearcher
	assistant ChatAssistant
	feed      FeedOptions
	locks     *userLocks
	now       func() time.Time
}

func New(opts Options) (*Engine, error) {
	if opts.Store == nil {
		return nil, errors.New("service: store is required")
	}
	c := opts.Classifier
	if c == nil {
		c = classify.Default()
	}
	cache := opts.Cache
	if cache == nil {
		var err error
		if cache, err = NewProfileCache(0); err != nil {
			return nil, err
		}
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Engine{
		store:     opts.Store,
		cache:     cache,
		builder:   profile.NewBuilder(c),
		learner:   learner.New(opts.Learner, c),
		mixer:     recommend.New(opts.Mixer),
		log:       log,
		metrics:   opts.Metrics,
		searcher:  opts.Searcher,
		assistant: opts.Assistant,
		feed:      opts.Feed.withDefaults(),
		locks:     newUserLocks(),
		now:       now,
	}, nil
}

// Update is the result of applying one event.
type Update struct {
	Record *store.ProfileRecord `json:"record"`
	Delta  learner.Delta        `json:"delta"`
}

// Assess builds a profile from assessment answers and stores it as a new
// version. typeCode overrides the code derived from the answers when set.
// Interaction history from an earlier profile carries over.
func (e *Engine) Assess(ctx context.Context, userID string, answers model.Answers, typeCode string) (*store.ProfileRecord, error) {
	userID, err := requireUser(userID)
	if err != nil {
		return nil, err
	}
	code := scoring.DeriveTypeCode(answers)
	if strings.TrimSpace(typeCode) != "" {
		parsed, ok := scoring.ParseTypeCode(typeCode)
		if !ok {
			return nil, fmt.Errorf("%w: type code %q", ErrInvalidInput, typeCode)
		}
		code = parsed
	}

	unlock := e.locks.lock(userID)
	defer unlock()

	prev, err := e.load(ctx, userID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	scores := scoring.DeriveScoreVector(answers)
	p := e.builder.Build(answers, code, scores)
	p.UserID = userID
	p.LastUpdated = e.now().UTC()
	if prev != nil {
		p.Behavior = prev.Behavior
		p.ActivityTracking = prev.ActivityTracking
		p.UpdateCount = prev.UpdateCount + 1
	}

	rec, err := e.save(ctx, userID, p)
	if err != nil {
		return nil, err
	}
	e.metrics.Assessment()
	e.log.Info("profile assessed",
		"user_id", userID, "version", rec.Version, "type_code", string(code),
		"interests", len(p.ContentPreferences.PrimaryInterests))
	return rec, nil
}

// Profile returns the latest profile for userID.
func (e *Engine) Profile(ctx context.Context, userID string) (*model.Profile, error) {
	userID, err := requireUser(userID)
	if err != nil {
		return nil, err
	}
	return e.load(ctx, userID)
}

// Forget removes a user's profile versions and evicts the cached copy.
func (e *Engine) Forget(ctx context.Context, p store.RmProfileParams) error {
	userID, err := requireUser(p.UserID)
	if err != nil {
		return err
	}
	p.UserID = userID
	unlock := e.locks.lock(userID)
	defer unlock()
	e.cache.Remove(userID)
	return e.store.RmProfile(ctx, p)
}

// Recommend computes the mixing ratio and query set for userID.
func (e *Engine) Recommend(ctx context.Context, userID string) (*recommend.Plan, error) {
	p, err := e.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	plan := e.mixer.Plan(p)
	e.metrics.Mix(string(plan.Ratio.Regime), plan.Ratio.Profile, plan.Ratio.Behavior, plan.Ratio.Exploration)
	e.log.Debug("recommendation plan",
		"user_id", userID, "regime", plan.Ratio.Regime,
		"profile_queries", len(plan.Queries.Profile),
		"behavior_queries", len(plan.Queries.Behavior))
	return &plan, nil
}

// ChatContext is what the chat assistant receives at session start.
type ChatContext struct {
	session.Context
	Personalization string `json:"personalization"`
}

// SessionContext assembles continuity from the last sessions plus the
// profile. A user without a profile still gets session continuity.
func (e *Engine) SessionContext(ctx context.Context, userID string) (*ChatContext, error) {
	userID, err := requireUser(userID)
	if err != nil {
		return nil, err
	}
	sums, err := e.store.RecentSessions(ctx, userID, session.MaxSummaries)
	if err != nil {
		return nil, fmt.Errorf("recent sessions: %w", err)
	}
	p, err := e.load(ctx, userID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	out := &ChatContext{Context: session.BuildContext(sums, p)}
	if p != nil {
		out.Personalization = session.PersonalizationContext(p)
	}
	return out, nil
}

// AddSession stores a closed session's summary.
func (e *Engine) AddSession(ctx context.Context, sum model.SessionSummary) (*model.SessionSummary, error) {
	userID, err := requireUser(sum.UserID)
	if err != nil {
		return nil, err
	}
	sum.UserID = userID
	if sum.CreatedAt.IsZero() {
		sum.CreatedAt = e.now().UTC()
	}
	saved, err := e.store.PutSession(ctx, sum)
	if err != nil {
		e.metrics.StoreError("put_session")
		return nil, fmt.Errorf("put session: %w", err)
	}
	e.log.Info("session stored", "user_id", userID, "session_id", saved.ID, "topics", len(saved.KeyTopics))
	return saved, nil
}

func (e *Engine) load(ctx context.Context, userID string) (*model.Profile, error) {
	if p, ok := e.cache.Get(userID); ok {
		return p, nil
	}
	recs, err := e.store.GetProfile(ctx, store.GetProfileParams{UserID: userID})
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			e.metrics.StoreError("get_profile")
		}
		return nil, err
	}
	p := recs[0].Profile
	e.cache.Add(userID, p)
	return p, nil
}

func (e *Engine) save(ctx context.Context, userID string, p *model.Profile) (*store.ProfileRecord, error) {
	rec, err := e.store.PutProfile(ctx, userID, p)
	if err != nil {
		e.metrics.StoreError("put_profile")
		e.cache.Remove(userID)
		return nil, fmt.Errorf("put profile: %w", err)
	}
	e.cache.Add(userID, rec.Profile)
	return rec, nil
}

func requireUser(userID string) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	return userID, nil
}
