package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/wellness-profile/internal/metrics"
	"github.com/rcliao/wellness-profile/internal/service"
	"github.com/rcliao/wellness-profile/internal/store"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	reg := prometheus.NewRegistry()
	rec, err := metrics.New(reg)
	require.NoError(t, err)

	engine, err := service.New(service.Options{Store: s, Metrics: rec})
	require.NoError(t, err)
	return NewServer(engine, nil, Config{Debug: true, Gatherer: reg}).Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		r.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

const assessmentBody = `{
	"answers": {
		"current_mood": "6",
		"past_week_happiness": 5,
		"content_preferences": ["Comedy / Humor", "Music / Arts"],
		"happiness_driver": "Learning something new",
		"joy_sources": "music and comedy",
		"flow_activities": "painting and music"
	}
}`

func TestHealthz(t *testing.T) {
	h := newTestServer(t)
	w := do(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestAssessAndGetProfile(t *testing.T) {
	h := newTestServer(t)

	w := do(t, h, http.MethodPost, "/v1/users/u1/assessment", assessmentBody)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var rec store.ProfileRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	assert.Equal(t, 1, rec.Version)
	assert.Equal(t, "music", rec.Profile.ContentPreferences.PrimaryInterests[0])

	w = do(t, h, http.MethodGet, "/v1/users/u1/profile", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":"u1"`)
}

func TestErrorMapping(t *testing.T) {
	h := newTestServer(t)

	w := do(t, h, http.MethodGet, "/v1/users/ghost/profile", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	var env ErrorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, "not_found", env.Error.Code)

	w = do(t, h, http.MethodPost, "/v1/users/u1/assessment", `{"answers": `)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPost, "/v1/users/u1/assessment", `{"answers": {}, "type_code": "QQQQ"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPost, "/v1/users/u1/events/video", `{"title": "x", "type": "rewind"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodGet, "/v1/users/u1/feed", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestEventsAndRecommendations(t *testing.T) {
	h := newTestServer(t)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/v1/users/u1/assessment", assessmentBody).Code)

	w := do(t, h, http.MethodPost, "/v1/users/u1/events/chat", `{"topics": ["music"], "sentiment": "positive", "engagement": 9}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	for _, topic := range []string{"yoga", "chess", "baking"} {
		w = do(t, h, http.MethodPost, "/v1/users/u1/events/topic", `{"topics": ["`+topic+`"], "engagement_score": 9}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}
	var up service.Update
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &up))
	assert.Equal(t, []string{"yoga", "chess"}, up.Delta.Promoted)

	w = do(t, h, http.MethodPost, "/v1/users/u1/events/video", `{"video_id": "v1", "title": "Chess openings", "type": "view", "watch_seconds": 30, "total_seconds": 60}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, h, http.MethodGet, "/v1/users/u1/recommendations", "")
	require.Equal(t, http.StatusOK, w.Code)
	var plan struct {
		Ratio struct {
			Regime string `json:"regime"`
		} `json:"ratio"`
		Queries struct {
			Profile []string `json:"profile"`
		} `json:"queries"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &plan))
	assert.Equal(t, "cold_start", plan.Ratio.Regime)
	assert.Contains(t, plan.Queries.Profile, "yoga tutorial guide")

	w = do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `wellness_profile_events_applied_total{kind="topic"} 3`)
	assert.Contains(t, w.Body.String(), `wellness_profile_interest_transitions_total{direction="promoted"} 2`)
}

func TestSessionsAndContext(t *testing.T) {
	h := newTestServer(t)

	w := do(t, h, http.MethodPost, "/v1/users/u1/sessions", `{"summary": "Talked about exams", "key_topics": ["study", "sleep"], "user_needs": ["reassurance"]}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, h, http.MethodGet, "/v1/users/u1/context", "")
	require.Equal(t, http.StatusOK, w.Code)
	var cc service.ChatContext
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cc))
	assert.True(t, strings.HasPrefix(cc.ContinuityContext, "Last session: Talked about exams"))
	assert.Contains(t, cc.ContinuityContext, "User needs: reassurance")
}

func TestDeleteProfile(t *testing.T) {
	h := newTestServer(t)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/v1/users/u1/assessment", assessmentBody).Code)

	w := do(t, h, http.MethodDelete, "/v1/users/u1/profile?all=true&hard=true", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/v1/users/u1/profile", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodDelete, "/v1/users/u1/profile", "").Code)
}

func TestDeleteProfileRejectsBadFlags(t *testing.T) {
	h := newTestServer(t)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/v1/users/u1/assessment", assessmentBody).Code)

	for _, q := range []string{"all=yes", "hard=maybe"} {
		w := do(t, h, http.MethodDelete, "/v1/users/u1/profile?"+q, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
		var env ErrorEnvelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.Equal(t, "invalid_request", env.Error.Code)
	}
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/v1/users/u1/profile", "").Code, "nothing removed")
}
