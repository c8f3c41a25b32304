package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/rcliao/wellness-profile/internal/model"
)

// timeFormat is fixed-width so stored timestamps sort lexically.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB

	mu      sync.Mutex
	entropy *rand.Rand
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) newID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS profiles (
		id          TEXT PRIMARY KEY,
		user_id     TEXT NOT NULL,
		version     INTEGER NOT NULL DEFAULT 1,
		supersedes  TEXT,
		doc         TEXT NOT NULL,
		created_at  TEXT NOT NULL,
		deleted_at  TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_profiles_user_version ON profiles(user_id, version DESC);
	CREATE INDEX IF NOT EXISTS idx_profiles_deleted ON profiles(deleted_at);

	CREATE TABLE IF NOT EXISTS sessions (
		id                TEXT PRIMARY KEY,
		user_id           TEXT NOT NULL,
		summary           TEXT NOT NULL DEFAULT '',
		key_topics        TEXT,
		emotional_state   TEXT,
		user_needs        TEXT,
		important_context TEXT,
		perma_insights    TEXT,
		created_at        TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_user_created ON sessions(user_id, created_at DESC);

	CREATE TABLE IF NOT EXISTS interactions (
		id          TEXT PRIMARY KEY,
		user_id     TEXT NOT NULL,
		kind        TEXT NOT NULL,
		score       REAL NOT NULL DEFAULT 0,
		topics      TEXT,
		payload     TEXT,
		created_at  TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_interactions_user_created ON interactions(user_id, created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_interactions_kind ON interactions(user_id, kind);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) PutProfile(ctx context.Context, userID string, p *model.Profile) (*ProfileRecord, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, errors.New("user id is required")
	}
	now := time.Now().UTC()
	id := s.newID()

	doc := p.Clone().Normalize()
	doc.UserID = userID
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode profile: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Check for existing latest version
	var prevID string
	var prevVersion int
	err = tx.QueryRowContext(ctx,
		`SELECT id, version FROM profiles
		 WHERE user_id = ? AND deleted_at IS NULL
		 ORDER BY version DESC LIMIT 1`, userID).Scan(&prevID, &prevVersion)

	version := 1
	var supersedes *string
	switch {
	case err == nil:
		version = prevVersion + 1
		supersedes = &prevID
	case !errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("find latest profile: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO profiles (id, user_id, version, supersedes, doc, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, userID, version, supersedes, string(b), now.Format(timeFormat))
	if err != nil {
		return nil, fmt.Errorf("insert profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	rec := &ProfileRecord{
		ID:        id,
		UserID:    userID,
		Version:   version,
		CreatedAt: now,
		Profile:   doc,
	}
	if supersedes != nil {
		rec.Supersedes = *supersedes
	}
	return rec, nil
}

const profileColumns = `id, user_id, version, supersedes, doc, created_at, deleted_at`

func (s *SQLiteStore) GetProfile(ctx context.Context, p GetProfileParams) ([]ProfileRecord, error) {
	var query string
	var args []any

	switch {
	case p.History:
		query = `SELECT ` + profileColumns + ` FROM profiles
				 WHERE user_id = ? AND deleted_at IS NULL
				 ORDER BY version DESC`
		args = []any{p.UserID}
	case p.Version > 0:
		query = `SELECT ` + profileColumns + ` FROM profiles
				 WHERE user_id = ? AND version = ? AND deleted_at IS NULL
				 LIMIT 1`
		args = []any{p.UserID, p.Version}
	default:
		query = `SELECT ` + profileColumns + ` FROM profiles
				 WHERE user_id = ? AND deleted_at IS NULL
				 ORDER BY version DESC LIMIT 1`
		args = []any{p.UserID}
	}

	recs, err := s.queryProfiles(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("profile %s: %w", p.UserID, ErrNotFound)
	}
	return recs, nil
}

func (s *SQLiteStore) ListProfiles(ctx context.Context, p ListProfilesParams) ([]ProfileRecord, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	// Only the latest version of each user.
	query := `
		SELECT p.id, p.user_id, p.version, p.supersedes, p.doc, p.created_at, p.deleted_at
		FROM profiles p
		INNER JOIN (
			SELECT user_id, MAX(version) AS max_ver
			FROM profiles WHERE deleted_at IS NULL
			GROUP BY user_id
		) latest ON p.user_id = latest.user_id AND p.version = latest.max_ver
		WHERE p.deleted_at IS NULL
		ORDER BY p.created_at DESC
		LIMIT ?`
	return s.queryProfiles(ctx, query, limit)
}

func (s *SQLiteStore) RmProfile(ctx context.Context, p RmProfileParams) error {
	if p.Hard {
		if p.AllVersions {
			res, err := s.db.ExecContext(ctx, `DELETE FROM profiles WHERE user_id = ?`, p.UserID)
			if err != nil {
				return err
			}
			return requireAffected(res, p.UserID)
		}
		id, err := s.latestProfileID(ctx, p.UserID)
		if err != nil {
			return err
		}
		_, err = s.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = ?`, id)
		return err
	}

	now := time.Now().UTC().Format(timeFormat)
	if p.AllVersions {
		res, err := s.db.ExecContext(ctx,
			`UPDATE profiles SET deleted_at = ? WHERE user_id = ? AND deleted_at IS NULL`,
			now, p.UserID)
		if err != nil {
			return err
		}
		return requireAffected(res, p.UserID)
	}

	// Soft-delete latest version only
	id, err := s.latestProfileID(ctx, p.UserID)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `UPDATE profiles SET deleted_at = ? WHERE id = ?`, now, id)
	return err
}

func (s *SQLiteStore) latestProfileID(ctx context.Context, userID string) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM profiles WHERE user_id = ? AND deleted_at IS NULL ORDER BY version DESC LIMIT 1`,
		userID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("profile %s: %w", userID, ErrNotFound)
	}
	return id, err
}

func requireAffected(res sql.Result, userID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("profile %s: %w", userID, ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) queryProfiles(ctx context.Context, query string, args ...any) ([]ProfileRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []ProfileRecord
	for rows.Next() {
		r, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, r)
	}
	return recs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProfile(row scanner) (ProfileRecord, error) {
	var r ProfileRecord
	var supersedes, deletedAt sql.NullString
	var doc, createdAt string

	if err := row.Scan(&r.ID, &r.UserID, &r.Version, &supersedes, &doc, &createdAt, &deletedAt); err != nil {
		return r, err
	}

	r.CreatedAt = parseTime(createdAt)
	if supersedes.Valid {
		r.Supersedes = supersedes.String
	}
	if deletedAt.Valid {
		t := parseTime(deletedAt.String)
		r.DeletedAt = &t
	}

	var p model.Profile
	if err := json.Unmarshal([]byte(doc), &p); err != nil {
		return r, fmt.Errorf("decode profile %s: %w", r.ID, err)
	}
	p.UserID = r.UserID
	r.Profile = p.Normalize()
	return r, nil
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeFormat, s)
	if err != nil {
		t, _ = time.Parse(time.RFC3339Nano, s)
	}
	return t
}

func encodeJSON(v any) (*string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if string(b) == "null" {
		return nil, nil
	}
	str := string(b)
	return &str, nil
}

func decodeJSON(ns sql.NullString, dst any) {
	if ns.Valid && ns.String != "" {
		json.Unmarshal([]byte(ns.String), dst)
	}
}
