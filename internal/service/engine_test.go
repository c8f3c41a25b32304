package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/wellness-profile/internal/metrics"
	"github.com/rcliao/wellness-profile/internal/model"
	"github.com/rcliao/wellness-profile/internal/recommend"
	"github.com/rcliao/wellness-profile/internal/scoring"
	"github.com/rcliao/wellness-profile/internal/store"
)

var testNow = time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

type fixture struct {
	engine *Engine
	store  *store.SQLiteStore
	reg    *prometheus.Registry
}

func newFixture(t *testing.T, mutate ...func(*Options)) *fixture {
	t.Helper()
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "engine.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	reg := prometheus.NewRegistry()
	rec, err := metrics.New(reg)
	require.NoError(t, err)

	opts := Options{
		Store:   s,
		Metrics: rec,
		Now:     func() time.Time { return testNow },
	}
	for _, m := range mutate {
		m(&opts)
	}
	e, err := New(opts)
	require.NoError(t, err)
	return &fixture{engine: e, store: s, reg: reg}
}

func sampleAnswers() model.Answers {
	return model.Answers{
		scoring.QCurrentMood:        {Text: "6"},
		scoring.QPastWeekHappiness:  {Text: "5"},
		scoring.QContentPreferences: {Choices: []string{"Comedy / Humor", "Music / Arts"}},
		scoring.QHappinessDriver:    {Text: "Learning something new"},
		scoring.QJoySources:         {Text: "music and comedy"},
		scoring.QFlowActivities:     {Text: "painting and music"},
	}
}

// metricValue sums a counter family, optionally filtered by one label value.
func metricValue(t *testing.T, reg *prometheus.Registry, name, label string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	total := 0.0
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			match := label == ""
			for _, lp := range m.GetLabel() {
				if lp.GetValue() == label {
					match = true
				}
			}
			if match && m.GetCounter() != nil {
				total += m.GetCounter().GetValue()
			}
		}
	}
	return total
}

func TestNewRequiresStore(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestAssessStoresProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rec, err := f.engine.Assess(ctx, "u1", sampleAnswers(), "")
	require.NoError(t, err)
	assert.Equal(t, 1, rec.Version)
	assert.Equal(t, "u1", rec.Profile.UserID)
	assert.Equal(t, testNow, rec.Profile.LastUpdated)
	assert.Equal(t, "music", rec.Profile.ContentPreferences.PrimaryInterests[0])

	stored, err := f.store.GetProfile(ctx, store.GetProfileParams{UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, rec.Profile.ContentPreferences.PrimaryInterests, stored[0].Profile.ContentPreferences.PrimaryInterests)
	assert.Equal(t, 1.0, metricValue(t, f.reg, "wellness_profile_assessments_total", ""))
}

func TestAssessTypeCodeOverride(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rec, err := f.engine.Assess(ctx, "u1", sampleAnswers(), "infp")
	require.NoError(t, err)
	assert.Equal(t, model.TypeCode("INFP"), rec.Profile.ChatPersona.TypeCode)

	_, err = f.engine.Assess(ctx, "u1", sampleAnswers(), "XYZW")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = f.engine.Assess(ctx, " ", sampleAnswers(), "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestReassessKeepsBehavior(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.Assess(ctx, "u1", sampleAnswers(), "")
	require.NoError(t, err)
	_, err = f.engine.ApplyChatTurn(ctx, "u1", model.ChatTurn{Topics: []string{"music"}, Engagement: 9})
	require.NoError(t, err)

	rec, err := f.engine.Assess(ctx, "u1", sampleAnswers(), "")
	require.NoError(t, err)
	assert.Equal(t, 3, rec.Version)
	assert.Equal(t, 1, rec.Profile.Behavior.TotalInteractions)
	assert.Equal(t, 1, rec.Profile.ActivityTracking.ChatMetrics.TotalMessages)
	assert.Equal(t, "assessment", rec.Profile.Computed.LastEngagementType)
}

func TestApplyChatTurnLogsInteraction(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.engine.Assess(ctx, "u1", sampleAnswers(), "")
	require.NoError(t, err)

	up, err := f.engine.ApplyChatTurn(ctx, "u1", model.ChatTurn{
		Topics:     []string{"Music"},
		Sentiment:  model.SentimentPositive,
		Engagement: 9,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, up.Record.Version)
	p := up.Record.Profile
	assert.Equal(t, 1, p.ActivityTracking.ChatMetrics.TotalMessages)
	assert.Equal(t, 1, p.Behavior.TotalInteractions)
	require.Len(t, p.Behavior.RecentEngagements, 1)
	assert.Equal(t, testNow, p.Behavior.RecentEngagements[0].At)
	assert.Equal(t, model.KindChat, p.Computed.LastEngagementType)

	logged, err := f.store.ListInteractions(ctx, store.ListInteractionsParams{UserID: "u1"})
	require.NoError(t, err)
	require.Len(t, logged, 1)
	assert.Equal(t, model.KindChat, logged[0].Kind)
	assert.Equal(t, 9.0, logged[0].Score)
	assert.Equal(t, []string{"music"}, logged[0].Topics)
	assert.Contains(t, string(logged[0].Payload), `"engagement":9`)
	assert.Equal(t, 1.0, metricValue(t, f.reg, "wellness_profile_events_applied_total", model.KindChat))
}

func TestApplyWithoutProfileStartsEmpty(t *testing.T) {
	f := newFixture(t)
	up, err := f.engine.ApplyTopicEngagement(context.Background(), "fresh", model.TopicEngagement{
		Topics:          []string{"gardening"},
		EngagementScore: 9,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, up.Record.Version)
	assert.Equal(t, "fresh", up.Record.Profile.UserID)
	assert.Equal(t, []string{"gardening"}, up.Record.Profile.ContentPreferences.EmergingInterests)
}

func TestTopicEngagementPromotion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.engine.Assess(ctx, "u1", sampleAnswers(), "")
	require.NoError(t, err)

	var last *Update
	for _, topic := range []string{"yoga", "chess", "baking"} {
		last, err = f.engine.ApplyTopicEngagement(ctx, "u1", model.TopicEngagement{Topics: []string{topic}, EngagementScore: 9})
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"yoga", "chess"}, last.Delta.Promoted)
	cp := last.Record.Profile.ContentPreferences
	assert.Equal(t, []string{"yoga", "chess"}, cp.PrimaryInterests[:2])
	assert.LessOrEqual(t, len(cp.PrimaryInterests), 8)
	assert.Equal(t, []string{"baking"}, cp.EmergingInterests)
	assert.Equal(t, 2.0, metricValue(t, f.reg, "wellness_profile_interest_transitions_total", "promoted"))
}

func TestEventValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.ApplyTopicEngagement(ctx, "u1", model.TopicEngagement{EngagementScore: 9})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = f.engine.ApplyVideoInteraction(ctx, "u1", model.VideoInteraction{Title: "x", Type: "rewind"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = f.engine.ApplyChatTurn(ctx, "", model.ChatTurn{Engagement: 5})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestApplyVideoInteraction(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.engine.Assess(ctx, "u1", sampleAnswers(), "")
	require.NoError(t, err)

	up, err := f.engine.ApplyVideoInteraction(ctx, "u1", model.VideoInteraction{
		VideoID: "v1", Title: "Morning yoga flow", Channel: "Studio Lina", Type: model.VideoLike,
	})
	require.NoError(t, err)
	p := up.Record.Profile
	assert.Equal(t, model.KindVideo, p.Computed.LastEngagementType)
	require.Len(t, p.Behavior.RecentEngagements, 1)
	assert.Equal(t, "Studio Lina", p.Behavior.RecentEngagements[0].Channel)
	assert.Equal(t, 9.0, p.Behavior.RecentEngagements[0].Score)
}

func TestConcurrentEventsSerialized(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.engine.Assess(ctx, "u1", sampleAnswers(), "")
	require.NoError(t, err)

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.engine.ApplyChatTurn(ctx, "u1", model.ChatTurn{
				Topics:     []string{fmt.Sprintf("topic%d", i%4)},
				Engagement: 6,
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	p, err := f.engine.Profile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, n, p.Behavior.TotalInteractions)
	assert.Equal(t, n, p.ActivityTracking.ChatMetrics.TotalMessages)

	hist, err := f.store.GetProfile(ctx, store.GetProfileParams{UserID: "u1", History: true})
	require.NoError(t, err)
	assert.Len(t, hist, n+1)
	assert.Equal(t, 0, f.engine.locks.size())
}

func TestRecommend(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.Recommend(ctx, "nobody")
	assert.True(t, errors.Is(err, store.ErrNotFound))

	_, err = f.engine.Assess(ctx, "u1", sampleAnswers(), "")
	require.NoError(t, err)
	plan, err := f.engine.Recommend(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, recommend.RegimeColdStart, plan.Ratio.Regime)
	assert.Contains(t, plan.Queries.Profile, "music tutorial guide")
	assert.Empty(t, plan.Queries.Behavior)
	assert.NotEmpty(t, plan.Queries.Exploration)
	assert.Equal(t, 1.0, metricValue(t, f.reg, "wellness_profile_mixing_regime_total", "cold_start"))
}

func TestSessionContext(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Sessions alone still produce continuity.
	_, err := f.engine.AddSession(ctx, model.SessionSummary{
		UserID: "u1", Summary: "Talked about work stress", KeyTopics: []string{"work", "sleep"},
		CreatedAt: testNow.Add(-2 * time.Hour),
	})
	require.NoError(t, err)
	_, err = f.engine.AddSession(ctx, model.SessionSummary{
		UserID: "u1", Summary: "Planned a weekend hike", KeyTopics: []string{"hiking", "Sleep"},
		CreatedAt: testNow.Add(-time.Hour),
	})
	require.NoError(t, err)

	cc, err := f.engine.SessionContext(ctx, "u1")
	require.NoError(t, err)
	assert.Contains(t, cc.ContinuityContext, "Last session: Planned a weekend hike")
	assert.Contains(t, cc.ContinuityContext, "Recurring topics: sleep")
	assert.Empty(t, cc.Personalization)

	_, err = f.engine.Assess(ctx, "u1", sampleAnswers(), "")
	require.NoError(t, err)
	cc, err = f.engine.SessionContext(ctx, "u1")
	require.NoError(t, err)
	assert.Contains(t, cc.ContinuityContext, "Focus areas: ")
	assert.Contains(t, cc.Personalization, "Interests: music")
	assert.NotEmpty(t, cc.RecentInteractions)

	_, err = f.engine.AddSession(ctx, model.SessionSummary{Summary: "orphan"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestForgetEvictsCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.engine.Assess(ctx, "u1", sampleAnswers(), "")
	require.NoError(t, err)
	_, err = f.engine.Profile(ctx, "u1")
	require.NoError(t, err)

	require.NoError(t, f.engine.Forget(ctx, store.RmProfileParams{UserID: "u1", AllVersions: true}))
	_, err = f.engine.Profile(ctx, "u1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
