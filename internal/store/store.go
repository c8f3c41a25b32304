// Package store provides the profile, session and interaction storage
// interface and its SQLite implementation.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rcliao/wellness-profile/internal/model"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ProfileRecord is one stored version of a user's profile.
type ProfileRecord struct {
	ID         string         `json:"id"`
	UserID     string         `json:"user_id"`
	Version    int            `json:"version"`
	Supersedes string         `json:"supersedes,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	DeletedAt  *time.Time     `json:"deleted_at,omitempty"`
	Profile    *model.Profile `json:"profile"`
}

// GetProfileParams holds parameters for retrieving a profile.
type GetProfileParams struct {
	UserID  string
	History bool
	Version int // 0 means latest
}

// ListProfilesParams holds parameters for listing profiles.
type ListProfilesParams struct {
	Limit int
}

// RmProfileParams holds parameters for deleting a profile.
type RmProfileParams struct {
	UserID      string
	AllVersions bool
	Hard        bool
}

// SearchParams holds parameters for searching session summaries.
type SearchParams struct {
	UserID string
	Query  string
	Limit  int
}

// Interaction is one logged event as received by the engine.
type Interaction struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Kind      string          `json:"kind"`
	Score     float64         `json:"score"`
	Topics    []string        `json:"topics,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// ListInteractionsParams holds parameters for listing logged interactions.
type ListInteractionsParams struct {
	UserID string
	Kind   string
	Limit  int
}

// Store defines the persistence interface used by the engine.
type Store interface {
	// PutProfile stores a new version of the user's profile.
	PutProfile(ctx context.Context, userID string, p *model.Profile) (*ProfileRecord, error)

	// GetProfile returns the latest version, a specific version, or the full
	// history (newest first). Profiles are normalized on the way out.
	GetProfile(ctx context.Context, p GetProfileParams) ([]ProfileRecord, error)

	// ListProfiles returns the latest version of each user's profile.
	ListProfiles(ctx context.Context, p ListProfilesParams) ([]ProfileRecord, error)

	// RmProfile soft-deletes (or hard-deletes) a profile.
	RmProfile(ctx context.Context, p RmProfileParams) error

	// PutSession stores a session summary, assigning ID and CreatedAt if unset.
	PutSession(ctx context.Context, s model.SessionSummary) (*model.SessionSummary, error)

	// RecentSessions returns up to n summaries for the user, newest first.
	RecentSessions(ctx context.Context, userID string, n int) ([]model.SessionSummary, error)

	// SearchSessions finds summaries whose text or topics match the query.
	SearchSessions(ctx context.Context, p SearchParams) ([]model.SessionSummary, error)

	// LogInteraction appends an event to the interaction log.
	LogInteraction(ctx context.Context, in Interaction) (*Interaction, error)

	// ListInteractions returns logged events, newest first.
	ListInteractions(ctx context.Context, p ListInteractionsParams) ([]Interaction, error)

	// Stats reports database statistics.
	Stats(ctx context.Context, dbPath string) (*Stats, error)

	// ExportAll dumps every live record, optionally for one user.
	ExportAll(ctx context.Context, userID string) (*Export, error)

	// Import loads an export, skipping sessions and interactions that exist.
	Import(ctx context.Context, e *Export) (*ImportResult, error)

	// Close closes the store.
	Close() error
}
