package repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DirectionIncoming = "incoming"
	DirectionOutgoing = "outgoing"
)

// MessageRecord is one side of a webhook exchange.
type MessageRecord struct {
	ID        string    `json:"id"`
	Session   string    `json:"session"`
	Direction string    `json:"direction"`
	Intent    string    `json:"intent,omitempty"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store persists chat transcripts.
type Store interface {
	InsertMessage(ctx context.Context, msg MessageRecord) error
	ListMessages(ctx context.Context, session string, limit int) ([]MessageRecord, error)
	Close() error
}

// Open picks a store implementation from the database URL: postgres:// and
// postgresql:// use Postgres, anything else is treated as a SQLite path with
// an optional "sqlite:" prefix.
func Open(ctx context.Context, databaseURL string) (Store, error) {
	databaseURL = strings.TrimSpace(databaseURL)
	switch {
	case databaseURL == "":
		return nil, fmt.Errorf("database url is empty")
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return NewPostgres(ctx, databaseURL)
	default:
		path := strings.TrimPrefix(strings.TrimPrefix(databaseURL, "sqlite://"), "sqlite:")
		return NewSQLite(ctx, path)
	}
}

// prepare fills defaults and validates a record before insert.
func prepare(msg MessageRecord) (MessageRecord, error) {
	if strings.TrimSpace(msg.Session) == "" {
		return msg, fmt.Errorf("message session is required")
	}
	switch msg.Direction {
	case DirectionIncoming, DirectionOutgoing:
	default:
		return msg, fmt.Errorf("invalid message direction %q", msg.Direction)
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	msg.CreatedAt = msg.CreatedAt.UTC()
	return msg, nil
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 500 {
		return 100
	}
	return limit
}
