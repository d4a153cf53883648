// internal/domain/user/entity.go
package user

import (
	"context"
	"time"
)

// Role values. Role is mutable only through privileged paths (super-admin
// bootstrap); registration is restricted to user/admin.
const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

// Status values for the pending -> active verification state machine.
const (
	StatusPending = "pending"
	StatusActive  = "active"
)

// User is the credential-store record for one account.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ValidRole reports whether r is a role registration may assign.
func ValidRole(r string) bool {
	return r == RoleUser || r == RoleAdmin
}

// Repository is the persistence contract for user records.
type Repository interface {
	Create(ctx context.Context, u *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id int64) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
}
