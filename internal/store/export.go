package store

import (
	"context"
	"fmt"
	"sort"

	"github.com/rcliao/wellness-profile/internal/model"
)

// Export is a full dump of live records.
type Export struct {
	Profiles     []ProfileRecord        `json:"profiles"`
	Sessions     []model.SessionSummary `json:"sessions"`
	Interactions []Interaction          `json:"interactions"`
}

// ImportResult counts what an import wrote.
type ImportResult struct {
	Profiles     int `json:"profiles"`
	Sessions     int `json:"sessions"`
	Interactions int `json:"interactions"`
}

// ExportAll returns all non-deleted profile versions plus every session and
// interaction, optionally filtered by user.
func (s *SQLiteStore) ExportAll(ctx context.Context, userID string) (*Export, error) {
	filter := ""
	var args []any
	if userID != "" {
		filter = " AND user_id = ?"
		args = append(args, userID)
	}

	profiles, err := s.queryProfiles(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE deleted_at IS NULL`+filter+` ORDER BY user_id, version`, args...)
	if err != nil {
		return nil, fmt.Errorf("export profiles: %w", err)
	}
	sessions, err := s.querySessions(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE 1=1`+filter+` ORDER BY user_id, created_at, rowid`, args...)
	if err != nil {
		return nil, fmt.Errorf("export sessions: %w", err)
	}
	interactions, err := s.queryInteractions(ctx,
		`SELECT `+interactionColumns+` FROM interactions WHERE 1=1`+filter+` ORDER BY user_id, created_at, rowid`, args...)
	if err != nil {
		return nil, fmt.Errorf("export interactions: %w", err)
	}

	return &Export{Profiles: profiles, Sessions: sessions, Interactions: interactions}, nil
}

// Import stores records from an export. Profile versions are replayed in
// order as new versions; sessions and interactions with an existing id are
// skipped.
func (s *SQLiteStore) Import(ctx context.Context, e *Export) (*ImportResult, error) {
	res := &ImportResult{}
	if e == nil {
		return res, nil
	}

	profiles := append([]ProfileRecord(nil), e.Profiles...)
	sort.SliceStable(profiles, func(i, j int) bool {
		if profiles[i].UserID != profiles[j].UserID {
			return profiles[i].UserID < profiles[j].UserID
		}
		return profiles[i].Version < profiles[j].Version
	})
	for _, r := range profiles {
		userID := r.UserID
		if userID == "" && r.Profile != nil {
			userID = r.Profile.UserID
		}
		if _, err := s.PutProfile(ctx, userID, r.Profile); err != nil {
			return res, fmt.Errorf("import profile %s v%d: %w", userID, r.Version, err)
		}
		res.Profiles++
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return res, err
	}
	defer tx.Rollback()

	for _, sum := range e.Sessions {
		if sum.ID == "" {
			sum.ID = s.newID()
		}
		n, err := s.insertSession(ctx, tx, sum, true)
		if err != nil {
			return res, err
		}
		res.Sessions += int(n)
	}
	for _, in := range e.Interactions {
		if in.ID == "" {
			in.ID = s.newID()
		}
		n, err := s.insertInteraction(ctx, tx, in, true)
		if err != nil {
			return res, err
		}
		res.Interactions += int(n)
	}
	if err := tx.Commit(); err != nil {
		return res, err
	}
	return res, nil
}
