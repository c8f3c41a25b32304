package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rcliao/wellness-profile/internal/model"
)

const sessionColumns = `id, user_id, summary, key_topics, emotional_state, user_needs, important_context, perma_insights, created_at`

func (s *SQLiteStore) PutSession(ctx context.Context, sum model.SessionSummary) (*model.SessionSummary, error) {
	if strings.TrimSpace(sum.UserID) == "" {
		return nil, errors.New("user id is required")
	}
	if sum.ID == "" {
		sum.ID = s.newID()
	}
	if sum.CreatedAt.IsZero() {
		sum.CreatedAt = time.Now()
	}
	sum.CreatedAt = sum.CreatedAt.UTC()

	if _, err := s.insertSession(ctx, s.db, sum, false); err != nil {
		return nil, err
	}
	return &sum, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *SQLiteStore) insertSession(ctx context.Context, db execer, sum model.SessionSummary, ignoreDup bool) (int64, error) {
	topics, err := encodeJSON(sum.KeyTopics)
	if err != nil {
		return 0, fmt.Errorf("encode key topics: %w", err)
	}
	needs, err := encodeJSON(sum.UserNeeds)
	if err != nil {
		return 0, fmt.Errorf("encode user needs: %w", err)
	}
	var insights *string
	if len(sum.PermaInsights) > 0 {
		if insights, err = encodeJSON(sum.PermaInsights); err != nil {
			return 0, fmt.Errorf("encode insights: %w", err)
		}
	}

	verb := "INSERT"
	if ignoreDup {
		verb = "INSERT OR IGNORE"
	}
	res, err := db.ExecContext(ctx,
		verb+` INTO sessions (`+sessionColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sum.ID, sum.UserID, sum.Summary, topics, nullIfEmpty(sum.EmotionalState), needs,
		nullIfEmpty(sum.ImportantContext), insights, sum.CreatedAt.UTC().Format(timeFormat))
	if err != nil {
		return 0, fmt.Errorf("insert session: %w", err)
	}
	return res.RowsAffected()
}

func (s *SQLiteStore) RecentSessions(ctx context.Context, userID string, n int) ([]model.SessionSummary, error) {
	if n <= 0 {
		n = 3
	}
	return s.querySessions(ctx,
		`SELECT `+sessionColumns+` FROM sessions
		 WHERE user_id = ?
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`, userID, n)
}

func (s *SQLiteStore) querySessions(ctx context.Context, query string, args ...any) ([]model.SessionSummary, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.SessionSummary
	for rows.Next() {
		sum, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

func scanSession(row scanner) (model.SessionSummary, error) {
	var sum model.SessionSummary
	var topics, state, needs, important, insights sql.NullString
	var createdAt string

	err := row.Scan(&sum.ID, &sum.UserID, &sum.Summary, &topics, &state, &needs, &important, &insights, &createdAt)
	if err != nil {
		return sum, err
	}
	sum.CreatedAt = parseTime(createdAt)
	sum.EmotionalState = state.String
	sum.ImportantContext = important.String
	decodeJSON(topics, &sum.KeyTopics)
	decodeJSON(needs, &sum.UserNeeds)
	decodeJSON(insights, &sum.PermaInsights)
	return sum, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
