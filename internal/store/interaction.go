package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const interactionColumns = `id, user_id, kind, score, topics, payload, created_at`

func (s *SQLiteStore) LogInteraction(ctx context.Context, in Interaction) (*Interaction, error) {
	if strings.TrimSpace(in.UserID) == "" {
		return nil, errors.New("user id is required")
	}
	if in.ID == "" {
		in.ID = s.newID()
	}
	if in.CreatedAt.IsZero() {
		in.CreatedAt = time.Now()
	}
	in.CreatedAt = in.CreatedAt.UTC()
	if _, err := s.insertInteraction(ctx, s.db, in, false); err != nil {
		return nil, err
	}
	return &in, nil
}

func (s *SQLiteStore) insertInteraction(ctx context.Context, db execer, in Interaction, ignoreDup bool) (int64, error) {
	topics, err := encodeJSON(in.Topics)
	if err != nil {
		return 0, fmt.Errorf("encode topics: %w", err)
	}
	var payload *string
	if len(in.Payload) > 0 {
		p := string(in.Payload)
		payload = &p
	}

	verb := "INSERT"
	if ignoreDup {
		verb = "INSERT OR IGNORE"
	}
	res, err := db.ExecContext(ctx,
		verb+` INTO interactions (`+interactionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.UserID, in.Kind, in.Score, topics, payload, in.CreatedAt.UTC().Format(timeFormat))
	if err != nil {
		return 0, fmt.Errorf("insert interaction: %w", err)
	}
	return res.RowsAffected()
}

func (s *SQLiteStore) ListInteractions(ctx context.Context, p ListInteractionsParams) ([]Interaction, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 50
	}

	var where []string
	var args []any
	if p.UserID != "" {
		where = append(where, "user_id = ?")
		args = append(args, p.UserID)
	}
	if p.Kind != "" {
		where = append(where, "kind = ?")
		args = append(args, p.Kind)
	}
	query := `SELECT ` + interactionColumns + ` FROM interactions`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, rowid DESC LIMIT ?`
	args = append(args, limit)

	return s.queryInteractions(ctx, query, args...)
}

func (s *SQLiteStore) queryInteractions(ctx context.Context, query string, args ...any) ([]Interaction, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Interaction
	for rows.Next() {
		in, err := scanInteraction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, rows.Err()
}

func scanInteraction(row scanner) (Interaction, error) {
	var in Interaction
	var topics, payload sql.NullString
	var createdAt string
	if err := row.Scan(&in.ID, &in.UserID, &in.Kind, &in.Score, &topics, &payload, &createdAt); err != nil {
		return in, err
	}
	in.CreatedAt = parseTime(createdAt)
	decodeJSON(topics, &in.Topics)
	if payload.Valid && payload.String != "" {
		in.Payload = []byte(payload.String)
	}
	return in, nil
}
