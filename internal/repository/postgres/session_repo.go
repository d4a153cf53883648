// internal/repository/postgres/session_repo.go
package postgres

import (
	"context"
	"fmt"

	"accounts-service/internal/domain/session"

	"github.com/jackc/pgx/v5/pgxpool"
)

type SessionRepository struct {
	db *pgxpool.Pool
}

func NewSessionRepository(db *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{db: db}
}

// Ensure inserts the session row unless one already exists for the
// (user_id, ip_address) pair. The unique constraint plus DO NOTHING makes
// concurrent first logins from the same IP idempotent instead of racy, and
// keeps the first-seen device descriptor.
func (r *SessionRepository) Ensure(ctx context.Context, s *session.Session) error {
	query := `
		INSERT INTO sessions (id, user_id, ip_address, browser, browser_version,
		                      os, os_version, device, mobile, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT ON CONSTRAINT sessions_user_ip_key DO NOTHING
	`

	_, err := r.db.Exec(ctx, query,
		s.ID, s.UserID, s.IPAddress,
		s.Device.Browser, s.Device.BrowserVersion,
		s.Device.OS, s.Device.OSVersion,
		s.Device.Device, s.Device.Mobile, s.Device.Raw,
	)
	if err != nil {
		return fmt.Errorf("failed to ensure session: %w", err)
	}

	return nil
}

// ListByUser returns every session row recorded for userID.
func (r *SessionRepository) ListByUser(ctx context.Context, userID int64) ([]*session.Session, error) {
	query := `
		SELECT id, user_id, ip_address, browser, browser_version,
		       os, os_version, device, mobile, user_agent, created_at
		FROM sessions
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*session.Session
	for rows.Next() {
		var s session.Session
		if err := rows.Scan(
			&s.ID, &s.UserID, &s.IPAddress,
			&s.Device.Browser, &s.Device.BrowserVersion,
			&s.Device.OS, &s.Device.OSVersion,
			&s.Device.Device, &s.Device.Mobile, &s.Device.Raw,
			&s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, &s)
	}

	return sessions, rows.Err()
}
