package store

import (
	"context"
	"os"
)

// Stats holds database statistics.
type Stats struct {
	DBPath          string      `json:"db_path"`
	DBSizeBytes     int64       `json:"db_size_bytes"`
	TotalProfiles   int         `json:"total_profiles"`
	ActiveUsers     int         `json:"active_users"`
	TotalSessions   int         `json:"total_sessions"`
	TotalEvents     int         `json:"total_interactions"`
	InteractionKind []KindStats `json:"interaction_kinds"`
	Users           []UserStats `json:"users"`
}

// KindStats holds per-kind interaction counts.
type KindStats struct {
	Kind  string `json:"kind"`
	Count int    `json:"count"`
}

// UserStats holds per-user counts.
type UserStats struct {
	UserID   string `json:"user_id"`
	Versions int    `json:"versions"`
	Sessions int    `json:"sessions"`
}

// Stats returns database statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath}

	// DB file size
	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	counts := []struct {
		query string
		dst   *int
	}{
		{`SELECT COUNT(*) FROM profiles`, &st.TotalProfiles},
		{`SELECT COUNT(DISTINCT user_id) FROM profiles WHERE deleted_at IS NULL`, &st.ActiveUsers},
		{`SELECT COUNT(*) FROM sessions`, &st.TotalSessions},
		{`SELECT COUNT(*) FROM interactions`, &st.TotalEvents},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query).Scan(c.dst); err != nil {
			return st, err
		}
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, COUNT(*) AS cnt FROM interactions
		GROUP BY kind ORDER BY cnt DESC, kind`)
	if err != nil {
		return st, err
	}
	for rows.Next() {
		var k KindStats
		if err := rows.Scan(&k.Kind, &k.Count); err != nil {
			rows.Close()
			return st, err
		}
		st.InteractionKind = append(st.InteractionKind, k)
	}
	rows.Close()

	rows, err = s.db.QueryContext(ctx, `
		SELECT p.user_id, COUNT(*) AS versions,
		       (SELECT COUNT(*) FROM sessions s WHERE s.user_id = p.user_id) AS sessions
		FROM profiles p WHERE p.deleted_at IS NULL
		GROUP BY p.user_id ORDER BY versions DESC, p.user_id`)
	if err != nil {
		return st, err
	}
	defer rows.Close()

	for rows.Next() {
		var u UserStats
		if err := rows.Scan(&u.UserID, &u.Versions, &u.Sessions); err != nil {
			return st, err
		}
		st.Users = append(st.Users, u)
	}

	return st, rows.Err()
}
