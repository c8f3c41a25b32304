package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rcliao/wellness-profile/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dir := t.TempDir()
	s, err := NewSQLiteStore(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testProfile(interests ...string) *model.Profile {
	p := &model.Profile{}
	p.ContentPreferences.PrimaryInterests = interests
	p.WellnessProfile.CurrentScores = model.Scores{PositiveEmotion: 7, Engagement: 6, Relationships: 4, Meaning: 3, Accomplishment: 8}
	return p
}

func TestPutAndGetProfile(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	rec, err := s.PutProfile(ctx, "u1", testProfile("music"))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if rec.Version != 1 {
		t.Errorf("expected version 1, got %d", rec.Version)
	}
	if rec.ID == "" {
		t.Error("expected non-empty ID")
	}

	got, err := s.GetProfile(ctx, GetProfileParams{UserID: "u1"})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 result, got %d", len(got))
	}
	p := got[0].Profile
	if p.UserID != "u1" {
		t.Errorf("expected user id u1, got %q", p.UserID)
	}
	if len(p.ContentPreferences.PrimaryInterests) != 1 || p.ContentPreferences.PrimaryInterests[0] != "music" {
		t.Errorf("unexpected interests %v", p.ContentPreferences.PrimaryInterests)
	}
	// Normalized on the way out.
	if p.Version != model.SchemaVersion {
		t.Errorf("expected schema version %d, got %d", model.SchemaVersion, p.Version)
	}
	if len(p.WellnessProfile.FocusAreas) != 2 {
		t.Errorf("expected 2 focus areas, got %v", p.WellnessProfile.FocusAreas)
	}
	if p.ContentPreferences.TopicScores == nil {
		t.Error("expected non-nil topic scores")
	}
}

func TestGetProfileNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetProfile(context.Background(), GetProfileParams{UserID: "nobody"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPutProfileRequiresUser(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.PutProfile(context.Background(), " ", testProfile()); err == nil {
		t.Fatal("expected error for empty user id")
	}
}

func TestProfileVersioning(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.PutProfile(ctx, "u1", testProfile("v1"))
	r2, _ := s.PutProfile(ctx, "u1", testProfile("v2"))

	if r2.Version != 2 {
		t.Errorf("expected version 2, got %d", r2.Version)
	}
	if r2.Supersedes == "" {
		t.Error("expected supersedes to be set")
	}

	got, _ := s.GetProfile(ctx, GetProfileParams{UserID: "u1"})
	if got[0].Profile.ContentPreferences.PrimaryInterests[0] != "v2" {
		t.Errorf("expected latest v2, got %v", got[0].Profile.ContentPreferences.PrimaryInterests)
	}

	hist, _ := s.GetProfile(ctx, GetProfileParams{UserID: "u1", History: true})
	if len(hist) != 2 {
		t.Fatalf("expected 2 versions, got %d", len(hist))
	}
	if hist[0].Version != 2 || hist[1].Version != 1 {
		t.Errorf("expected newest first, got %d, %d", hist[0].Version, hist[1].Version)
	}

	v1, err := s.GetProfile(ctx, GetProfileParams{UserID: "u1", Version: 1})
	if err != nil {
		t.Fatalf("get v1: %v", err)
	}
	if v1[0].Profile.ContentPreferences.PrimaryInterests[0] != "v1" {
		t.Errorf("expected v1, got %v", v1[0].Profile.ContentPreferences.PrimaryInterests)
	}
}

func TestListProfilesLatestOnly(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.PutProfile(ctx, "u1", testProfile("a"))
	s.PutProfile(ctx, "u1", testProfile("b"))
	s.PutProfile(ctx, "u2", testProfile("c"))

	recs, err := s.ListProfiles(ctx, ListProfilesParams{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 users, got %d", len(recs))
	}
	for _, r := range recs {
		if r.UserID == "u1" && r.Version != 2 {
			t.Errorf("expected latest u1 version 2, got %d", r.Version)
		}
	}
}

func TestRmProfile(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.PutProfile(ctx, "u1", testProfile("v1"))
	s.PutProfile(ctx, "u1", testProfile("v2"))

	// Soft-delete latest falls back to previous version.
	if err := s.RmProfile(ctx, RmProfileParams{UserID: "u1"}); err != nil {
		t.Fatalf("rm: %v", err)
	}
	got, err := s.GetProfile(ctx, GetProfileParams{UserID: "u1"})
	if err != nil {
		t.Fatalf("get after rm: %v", err)
	}
	if got[0].Version != 1 {
		t.Errorf("expected version 1 after rm, got %d", got[0].Version)
	}

	if err := s.RmProfile(ctx, RmProfileParams{UserID: "u1", AllVersions: true, Hard: true}); err != nil {
		t.Fatalf("hard rm: %v", err)
	}
	if _, err := s.GetProfile(ctx, GetProfileParams{UserID: "u1"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after hard rm, got %v", err)
	}
	if err := s.RmProfile(ctx, RmProfileParams{UserID: "u1"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound removing missing profile, got %v", err)
	}
}

func TestPartialDocumentNormalized(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	// Simulate an older, partial record written outside the engine.
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO profiles (id, user_id, version, doc, created_at) VALUES (?, ?, 1, ?, ?)`,
		"legacy", "u9", `{"content_preferences":{"primary_interests":["yoga"]}}`, "2025-01-01T00:00:00.000000000Z")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := s.GetProfile(ctx, GetProfileParams{UserID: "u9"})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	p := got[0].Profile
	if p.WellnessProfile.CurrentScores.Meaning != 5 {
		t.Errorf("expected neutral score 5, got %v", p.WellnessProfile.CurrentScores.Meaning)
	}
	if p.Behavior.ProfileAccuracy != model.DefaultProfileAccuracy {
		t.Errorf("expected default accuracy, got %v", p.Behavior.ProfileAccuracy)
	}
	if p.ContentPreferences.EmergingInterests == nil {
		t.Error("expected non-nil emerging interests")
	}
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "stats.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	s.PutProfile(ctx, "u1", testProfile())
	s.PutProfile(ctx, "u1", testProfile())
	s.PutProfile(ctx, "u2", testProfile())
	s.PutSession(ctx, model.SessionSummary{UserID: "u1", Summary: "hello"})
	s.LogInteraction(ctx, Interaction{UserID: "u1", Kind: model.KindChat, Score: 5})
	s.LogInteraction(ctx, Interaction{UserID: "u1", Kind: model.KindVideo, Score: 9})
	s.LogInteraction(ctx, Interaction{UserID: "u2", Kind: model.KindVideo, Score: 2})

	st, err := s.Stats(ctx, dbPath)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.TotalProfiles != 3 || st.ActiveUsers != 2 {
		t.Errorf("expected 3 profiles / 2 users, got %d / %d", st.TotalProfiles, st.ActiveUsers)
	}
	if st.TotalSessions != 1 || st.TotalEvents != 3 {
		t.Errorf("expected 1 session / 3 interactions, got %d / %d", st.TotalSessions, st.TotalEvents)
	}
	if len(st.InteractionKind) != 2 || st.InteractionKind[0].Kind != model.KindVideo {
		t.Errorf("unexpected kind stats %+v", st.InteractionKind)
	}
	if len(st.Users) != 2 || st.Users[0].UserID != "u1" || st.Users[0].Sessions != 1 {
		t.Errorf("unexpected user stats %+v", st.Users)
	}
	if _, err := os.Stat(dbPath); err != nil || st.DBSizeBytes == 0 {
		t.Errorf("expected db size, got %d (%v)", st.DBSizeBytes, err)
	}
}
