package store

import (
	"context"
	"fmt"
	"time"

	"github.com/mr-saberi/siite/internal/models"
)

func (s *Store) CreateContactMessage(ctx context.Context, m *models.ContactMessage) (*models.ContactMessage, error) {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	query := `
		INSERT INTO contact_messages (name, email, phone, subject, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	created := *m
	err := s.DB.QueryRowContext(ctx, query, m.Name, m.Email, m.Phone, m.Subject, m.Message, m.CreatedAt.Unix()).Scan(&created.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	created.CreatedAt = time.Unix(m.CreatedAt.Unix(), 0).UTC()
	return &created, nil
}

// ListContactMessages returns the newest messages first.
func (s *Store) ListContactMessages(ctx context.Context) ([]models.ContactMessage, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, name, email, phone, subject, message, created_at
		FROM contact_messages
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	messages := []models.ContactMessage{}
	for rows.Next() {
		var m models.ContactMessage
		var createdAt int64
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Subject, &m.Message, &createdAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		m.CreatedAt = time.Unix(createdAt, 0).UTC()
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (s *Store) DeleteContactMessage(ctx context.Context, id int64) (bool, error) {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM contact_messages WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return affected(res)
}
