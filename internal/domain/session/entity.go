// internal/domain/session/entity.go
package session

import (
	"context"
	"time"

	"accounts-service/internal/pkg/device"

	"github.com/google/uuid"
)

// Session records that a user authenticated from a given IP. At most one row
// exists per (user, ip) pair; the device descriptor is captured on first
// login from that IP and never updated. Rows are never expired by this
// service.
type Session struct {
	ID        uuid.UUID         `json:"id"`
	UserID    int64             `json:"user_id"`
	IPAddress string            `json:"ip_address"`
	Device    device.Descriptor `json:"device"`
	CreatedAt time.Time         `json:"created_at"`
}

// Repository is the persistence contract for session rows.
type Repository interface {
	// Ensure inserts the session if no row exists for (UserID, IPAddress).
	// It is idempotent: a conflicting concurrent insert is not an error.
	Ensure(ctx context.Context, s *Session) error
	ListByUser(ctx context.Context, userID int64) ([]*Session, error)
}
