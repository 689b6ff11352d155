package repo

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// sqliteTimeLayout is fixed-width so created_at sorts lexically.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

var sqliteSchema = []string{
	`PRAGMA busy_timeout = 5000`,
	`CREATE TABLE IF NOT EXISTS chat_messages (
		id TEXT PRIMARY KEY,
		session TEXT NOT NULL,
		direction TEXT NOT NULL,
		intent TEXT NOT NULL DEFAULT '',
		content TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS chat_messages_session_idx ON chat_messages (session, created_at)`,
}

// SQLiteStore keeps transcripts in a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (creating if needed) the SQLite database at path.
func NewSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	for _, stmt := range sqliteSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) InsertMessage(ctx context.Context, msg MessageRecord) error {
	msg, err := prepare(msg)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO chat_messages (id, session, direction, intent, content, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		msg.ID, msg.Session, msg.Direction, msg.Intent, msg.Content, msg.CreatedAt.Format(sqliteTimeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListMessages(ctx context.Context, session string, limit int) ([]MessageRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session, direction, intent, content, created_at FROM chat_messages WHERE session = ? ORDER BY created_at ASC, rowid ASC LIMIT ?`,
		session, clampLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var msgs []MessageRecord
	for rows.Next() {
		var (
			m       MessageRecord
			created string
		)
		if err := rows.Scan(&m.ID, &m.Session, &m.Direction, &m.Intent, &m.Content, &created); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		if m.CreatedAt, err = time.Parse(sqliteTimeLayout, created); err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", created, err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}
	return msgs, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
