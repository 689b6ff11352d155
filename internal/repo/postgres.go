package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS chat_messages (
		id TEXT PRIMARY KEY,
		session TEXT NOT NULL,
		direction TEXT NOT NULL,
		intent TEXT NOT NULL DEFAULT '',
		content TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS chat_messages_session_idx ON chat_messages (session, created_at)`,
}

// PostgresStore keeps transcripts in Postgres through a pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres connects to Postgres and ensures the transcript schema exists.
func NewPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	for _, stmt := range postgresSchema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) InsertMessage(ctx context.Context, msg MessageRecord) error {
	msg, err := prepare(msg)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO chat_messages (id, session, direction, intent, content, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		msg.ID, msg.Session, msg.Direction, msg.Intent, msg.Content, msg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListMessages(ctx context.Context, session string, limit int) ([]MessageRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, session, direction, intent, content, created_at FROM chat_messages WHERE session = $1 ORDER BY created_at ASC, id ASC LIMIT $2`,
		session, clampLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	msgs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (MessageRecord, error) {
		var m MessageRecord
		err := row.Scan(&m.ID, &m.Session, &m.Direction, &m.Intent, &m.Content, &m.CreatedAt)
		return m, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan messages: %w", err)
	}
	return msgs, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
