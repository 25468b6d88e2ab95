// Package store holds the local persistence layer. The only thing the
// front end keeps on disk is its sessions; every footprint, goal, and
// preference lives behind the backend API.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Session binds a session ID (carried in the signed cookie) to the
// backend bearer token it forwards.
type Session struct {
	ID          string
	UserID      string
	BearerToken string
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// Expired reports whether the session is past its expiry.
func (s *Session) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}

type SessionStore struct {
	db *sql.DB
}

func NewSessionStore(db *sql.DB) *SessionStore {
	return &SessionStore{db: db}
}

// Create inserts a new session with a generated ID.
func (s *SessionStore) Create(ctx context.Context, userID, bearerToken string, ttl time.Duration) (*Session, error) {
	id := uuid.NewString()
	expires := time.Now().Add(ttl).UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id, bearer_token, expires_at) VALUES (?, ?, ?, ?)
	`, id, userID, bearerToken, expires)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return s.Get(ctx, id)
}

// Get returns the session with the given ID, or nil if it does not
// exist or has expired. Expired rows are removed on read.
func (s *SessionStore) Get(ctx context.Context, id string) (*Session, error) {
	sess := &Session{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, bearer_token, created_at, expires_at FROM sessions WHERE id = ?
	`, id).Scan(&sess.ID, &sess.UserID, &sess.BearerToken, &sess.CreatedAt, &sess.ExpiresAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if sess.Expired() {
		if err := s.Delete(ctx, id); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return sess, nil
}

// Delete removes a session. Deleting a missing session is not an
// error; sign-out must be idempotent.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpired removes every expired session and returns how many
// rows went away.
func (s *SessionStore) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < ?`, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}
