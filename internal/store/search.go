package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/rcliao/wellness-profile/internal/model"
)

// SearchSessions finds session summaries whose text, topics, needs or
// context contain the query substring (case-insensitive), newest first.
func (s *SQLiteStore) SearchSessions(ctx context.Context, p SearchParams) ([]model.SessionSummary, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	query := "%" + escapeLike(strings.ToLower(p.Query)) + "%"

	var where []string
	var args []any
	if p.UserID != "" {
		where = append(where, "user_id = ?")
		args = append(args, p.UserID)
	}
	where = append(where, `(LOWER(summary) LIKE ? ESCAPE '\' OR LOWER(COALESCE(key_topics, '')) LIKE ? ESCAPE '\'
		OR LOWER(COALESCE(user_needs, '')) LIKE ? ESCAPE '\' OR LOWER(COALESCE(important_context, '')) LIKE ? ESCAPE '\')`)
	args = append(args, query, query, query, query, limit)

	sql := fmt.Sprintf(`
		SELECT %s FROM sessions
		WHERE %s
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`, sessionColumns, strings.Join(where, " AND "))

	return s.querySessions(ctx, sql, args...)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
