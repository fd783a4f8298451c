package messaging

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/croquete1/Fitness-Pro-sub001/domains/insights"
	_ "github.com/mattn/go-sqlite3"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	repo := &SQLiteRepository{db: db}
	if err := repo.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, nil
}

func (r *SQLiteRepository) migrate() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS messages (
			id TEXT PRIMARY KEY,
			body TEXT DEFAULT '',
			sent_at DATETIME,
			from_id TEXT DEFAULT '',
			to_id TEXT DEFAULT '',
			from_name TEXT DEFAULT '',
			to_name TEXT DEFAULT '',
			channel TEXT DEFAULT '',
			read_at DATETIME,
			reply_to_id TEXT DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS profiles (
			id TEXT PRIMARY KEY,
			display_name TEXT NOT NULL,
			role TEXT DEFAULT 'client',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_from ON messages(from_id, sent_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_to ON messages(to_id, sent_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_sent_at ON messages(sent_at DESC)`,
	}

	for _, query := range queries {
		if _, err := r.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute migration: %w", err)
		}
	}

	return nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Ping verifies the database connection
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// ListEventsForViewer returns events where the viewer is sender or recipient,
// bounded by the lookback window and capped at limit, newest first. Rows
// without a timestamp are still returned: they cannot be range-bounded but the
// engine can still classify them.
func (r *SQLiteRepository) ListEventsForViewer(ctx context.Context, viewerID string, since time.Time, limit int) ([]insights.MessageEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, body, sent_at, from_id, to_id, from_name, to_name, channel, read_at, reply_to_id
		FROM messages
		WHERE (from_id = ? OR to_id = ?)
		  AND (sent_at IS NULL OR sent_at >= ?)
		ORDER BY sent_at DESC
		LIMIT ?
	`, viewerID, viewerID, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var events []insights.MessageEvent
	for rows.Next() {
		var (
			event  insights.MessageEvent
			body   sql.NullString
			sentAt sql.NullTime
			readAt sql.NullTime
			from   sql.NullString
			to     sql.NullString
			fromN  sql.NullString
			toN    sql.NullString
			chn    sql.NullString
			reply  sql.NullString
		)
		if err := rows.Scan(&event.ID, &body, &sentAt, &from, &to, &fromN, &toN, &chn, &readAt, &reply); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		event.Body = body.String
		event.FromID = from.String
		event.ToID = to.String
		event.FromName = fromN.String
		event.ToName = toN.String
		event.Channel = chn.String
		event.ReplyToID = reply.String
		if sentAt.Valid {
			t := sentAt.Time
			event.SentAt = &t
		}
		if readAt.Valid {
			t := readAt.Time
			event.ReadAt = &t
		}
		events = append(events, event)
	}

	return events, rows.Err()
}

// SaveEvent inserts one message, ignoring duplicates by id
func (r *SQLiteRepository) SaveEvent(ctx context.Context, event insights.MessageEvent) error {
	var sentAt, readAt any
	if event.SentAt != nil {
		sentAt = *event.SentAt
	}
	if event.ReadAt != nil {
		readAt = *event.ReadAt
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO messages (id, body, sent_at, from_id, to_id, from_name, to_name, channel, read_at, reply_to_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, event.ID, event.Body, sentAt, event.FromID, event.ToID, event.FromName, event.ToName, event.Channel, readAt, event.ReplyToID)
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

// SaveProfile upserts one participant profile
func (r *SQLiteRepository) SaveProfile(ctx context.Context, id, displayName, role string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (id, display_name, role) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET display_name = excluded.display_name, role = excluded.role
	`, id, displayName, role)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

// ResolveNames maps participant ids to display names. Ids without a
// profile are simply absent from the result.
func (r *SQLiteRepository) ResolveNames(ctx context.Context, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, display_name FROM profiles WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		names[id] = name
	}

	return names, rows.Err()
}

// CountMessages returns the total number of stored messages
func (r *SQLiteRepository) CountMessages(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}
	return count, nil
}

// CountProfiles returns the total number of stored profiles
func (r *SQLiteRepository) CountProfiles(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count profiles: %w", err)
	}
	return count, nil
}
