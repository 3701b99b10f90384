package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mr-saberi/siite/internal/models"
)

// SessionStore keeps login sessions in the sessions table so they survive
// restarts and can be shared by several instances.
type SessionStore struct {
	db *sql.DB
}

func (s *Store) Sessions() *SessionStore {
	return &SessionStore{db: s.DB}
}

func (ss *SessionStore) Save(ctx context.Context, sess *models.Session) error {
	_, err := ss.db.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, created_at, expires_at) VALUES ($1, $2, $3, $4)`,
		sess.SessionID, sess.UserID, sess.CreatedAt.UnixNano(), sess.ExpiresAt.UnixNano())
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (ss *SessionStore) Get(ctx context.Context, id string) (*models.Session, error) {
	var sess models.Session
	var createdAt, expiresAt int64
	err := ss.db.QueryRowContext(ctx,
		`SELECT id, user_id, created_at, expires_at FROM sessions WHERE id = $1`, id).
		Scan(&sess.SessionID, &sess.UserID, &createdAt, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	sess.CreatedAt = time.Unix(0, createdAt)
	sess.ExpiresAt = time.Unix(0, expiresAt)
	return &sess, nil
}

func (ss *SessionStore) Delete(ctx context.Context, id string) error {
	if _, err := ss.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (ss *SessionStore) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	res, err := ss.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, now.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return int(n), nil
}
