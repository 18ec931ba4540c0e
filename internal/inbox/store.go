package inbox

import (
	"context"
	"fmt"
	"time"

	"github.com/xurxxo/termfolio/internal/database"
)

// Message is a stored contact submission.
type Message struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Body      string    `json:"message"`
	Country   string    `json:"country,omitempty"`
	City      string    `json:"city,omitempty"`
	UserAgent string    `json:"userAgent,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type Store struct {
	db database.DBTX
}

func NewStore(db database.DBTX) *Store {
	return &Store{db: db}
}

func (s *Store) Save(ctx context.Context, m Message) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO contact_messages (id, email, message, country, city, user_agent, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.ID, m.Email, m.Body, m.Country, m.City, m.UserAgent, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert contact message: %w", err)
	}
	return nil
}

// Recent returns up to limit messages, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Message, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, email, message, country, city, user_agent, created_at
		 FROM contact_messages ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query contact messages: %w", err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.Email, &m.Body, &m.Country, &m.City, &m.UserAgent, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan contact message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contact messages: %w", err)
	}
	return messages, nil
}
