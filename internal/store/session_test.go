package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rcliao/wellness-profile/internal/model"
)

func TestPutAndRecentSessions(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	for i, summary := range []string{"first", "second", "third", "fourth"} {
		_, err := s.PutSession(ctx, model.SessionSummary{
			UserID:    "u1",
			Summary:   summary,
			KeyTopics: []string{"topic-" + summary},
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("put session: %v", err)
		}
	}
	s.PutSession(ctx, model.SessionSummary{UserID: "u2", Summary: "other user"})

	got, err := s.RecentSessions(ctx, "u1", 3)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(got))
	}
	want := []string{"fourth", "third", "second"}
	for i, w := range want {
		if got[i].Summary != w {
			t.Errorf("session %d: expected %q, got %q", i, w, got[i].Summary)
		}
	}
	if len(got[0].KeyTopics) != 1 || got[0].KeyTopics[0] != "topic-fourth" {
		t.Errorf("unexpected key topics %v", got[0].KeyTopics)
	}
	if !got[0].CreatedAt.Equal(base.Add(3 * time.Hour)) {
		t.Errorf("unexpected created_at %v", got[0].CreatedAt)
	}
}

func TestSessionRoundTripFields(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	in := model.SessionSummary{
		UserID:           "u1",
		Summary:          "Talked about sleep",
		KeyTopics:        []string{"sleep", "stress"},
		EmotionalState:   "tired",
		UserNeeds:        []string{"rest"},
		ImportantContext: "new baby at home",
		PermaInsights:    map[model.Dimension]string{model.Relationships: "leaning on partner"},
	}
	saved, err := s.PutSession(ctx, in)
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if saved.ID == "" || saved.CreatedAt.IsZero() {
		t.Errorf("expected id and created_at to be assigned, got %q %v", saved.ID, saved.CreatedAt)
	}

	got, _ := s.RecentSessions(ctx, "u1", 1)
	if len(got) != 1 {
		t.Fatalf("expected 1 session, got %d", len(got))
	}
	g := got[0]
	if g.EmotionalState != "tired" || g.ImportantContext != "new baby at home" {
		t.Errorf("unexpected fields %+v", g)
	}
	if g.PermaInsights[model.Relationships] != "leaning on partner" {
		t.Errorf("unexpected insights %v", g.PermaInsights)
	}
	if len(g.UserNeeds) != 1 || g.UserNeeds[0] != "rest" {
		t.Errorf("unexpected needs %v", g.UserNeeds)
	}
}

func TestSearchSessions(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.PutSession(ctx, model.SessionSummary{UserID: "u1", Summary: "Discussed Running goals", KeyTopics: []string{"running"}})
	s.PutSession(ctx, model.SessionSummary{UserID: "u1", Summary: "Family dinner", KeyTopics: []string{"family"}})
	s.PutSession(ctx, model.SessionSummary{UserID: "u2", Summary: "Morning run", ImportantContext: "training for a marathon"})

	// Case-insensitive match on summary or topics.
	results, err := s.SearchSessions(ctx, SearchParams{Query: "run"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	// Filter by user
	results, err = s.SearchSessions(ctx, SearchParams{UserID: "u1", Query: "RUNNING"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Summary != "Discussed Running goals" {
		t.Fatalf("unexpected results %+v", results)
	}

	// Important context is searched too.
	results, _ = s.SearchSessions(ctx, SearchParams{Query: "marathon"})
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}

	results, _ = s.SearchSessions(ctx, SearchParams{Query: "nonexistent"})
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestSearchSessionsWildcardsAreLiteral(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.PutSession(ctx, model.SessionSummary{UserID: "u1", Summary: "Hit 100% of weekly steps"})
	s.PutSession(ctx, model.SessionSummary{UserID: "u1", Summary: "Talked about sleep_debt"})
	s.PutSession(ctx, model.SessionSummary{UserID: "u1", Summary: "Family dinner"})

	for _, q := range []string{"%", "_"} {
		results, err := s.SearchSessions(ctx, SearchParams{Query: q})
		if err != nil {
			t.Fatalf("search %q: %v", q, err)
		}
		if len(results) != 1 {
			t.Errorf("search %q: expected 1 literal match, got %d", q, len(results))
		}
	}

	results, _ := s.SearchSessions(ctx, SearchParams{Query: "sleep_d"})
	if len(results) != 1 || results[0].Summary != "Talked about sleep_debt" {
		t.Errorf("unexpected results %+v", results)
	}
}

func TestLogAndListInteractions(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	payload, _ := json.Marshal(model.ChatTurn{Engagement: 9})
	s.LogInteraction(ctx, Interaction{UserID: "u1", Kind: model.KindChat, Score: 9, Topics: []string{"music"}, Payload: payload, CreatedAt: base})
	s.LogInteraction(ctx, Interaction{UserID: "u1", Kind: model.KindVideo, Score: 2, CreatedAt: base.Add(time.Minute)})
	s.LogInteraction(ctx, Interaction{UserID: "u2", Kind: model.KindChat, Score: 4, CreatedAt: base.Add(2 * time.Minute)})

	all, err := s.ListInteractions(ctx, ListInteractionsParams{UserID: "u1"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 interactions, got %d", len(all))
	}
	if all[0].Kind != model.KindVideo {
		t.Errorf("expected newest first, got %s", all[0].Kind)
	}

	chats, _ := s.ListInteractions(ctx, ListInteractionsParams{UserID: "u1", Kind: model.KindChat})
	if len(chats) != 1 {
		t.Fatalf("expected 1 chat, got %d", len(chats))
	}
	if chats[0].Topics[0] != "music" || chats[0].Score != 9 {
		t.Errorf("unexpected interaction %+v", chats[0])
	}
	var turn model.ChatTurn
	if err := json.Unmarshal(chats[0].Payload, &turn); err != nil || turn.Engagement != 9 {
		t.Errorf("payload round trip failed: %v %+v", err, turn)
	}
}

func TestExportImport(t *testing.T) {
	ctx := context.Background()
	src := newTestStore(t)

	src.PutProfile(ctx, "u1", testProfile("v1"))
	src.PutProfile(ctx, "u1", testProfile("v2"))
	src.PutProfile(ctx, "u2", testProfile("other"))
	src.PutSession(ctx, model.SessionSummary{UserID: "u1", Summary: "hello"})
	src.LogInteraction(ctx, Interaction{UserID: "u1", Kind: model.KindTopic, Score: 8})

	exp, err := src.ExportAll(ctx, "u1")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(exp.Profiles) != 2 || len(exp.Sessions) != 1 || len(exp.Interactions) != 1 {
		t.Fatalf("unexpected export sizes %d/%d/%d", len(exp.Profiles), len(exp.Sessions), len(exp.Interactions))
	}

	// Round trip through JSON like the CLI does.
	b, _ := json.Marshal(exp)
	var decoded Export
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}

	dst := newTestStore(t)
	res, err := dst.Import(ctx, &decoded)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Profiles != 2 || res.Sessions != 1 || res.Interactions != 1 {
		t.Errorf("unexpected import result %+v", res)
	}

	got, _ := dst.GetProfile(ctx, GetProfileParams{UserID: "u1"})
	if got[0].Version != 2 || got[0].Profile.ContentPreferences.PrimaryInterests[0] != "v2" {
		t.Errorf("expected latest v2 after import, got v%d %v", got[0].Version, got[0].Profile.ContentPreferences.PrimaryInterests)
	}

	// Importing again skips existing sessions and interactions.
	res, err = dst.Import(ctx, &decoded)
	if err != nil {
		t.Fatalf("reimport: %v", err)
	}
	if res.Sessions != 0 || res.Interactions != 0 {
		t.Errorf("expected duplicates skipped, got %+v", res)
	}
}
