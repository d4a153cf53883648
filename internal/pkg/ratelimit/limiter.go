// internal/pkg/ratelimit/limiter.go
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	maxLoginAttempts = 5
	loginWindow      = 15 * time.Minute

	maxOTPSends   = 3
	otpSendWindow = 10 * time.Minute
)

// Limiter enforces fixed-window counters in Redis for the auth endpoints.
type Limiter struct {
	client *redis.Client
}

func NewLimiter(client *redis.Client) *Limiter {
	return &Limiter{client: client}
}

// AllowLogin checks whether another login attempt is allowed for the
// (ip, email) pair and returns the remaining attempts in the window.
func (l *Limiter) AllowLogin(ctx context.Context, ip, email string) (bool, int64, error) {
	key := fmt.Sprintf("ratelimit:login:%s:%s", ip, email)

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to increment login attempt: %w", err)
	}

	// Set expiration on first attempt
	if count == 1 {
		l.client.Expire(ctx, key, loginWindow)
	}

	remaining := maxLoginAttempts - count
	if remaining < 0 {
		remaining = 0
	}

	return count <= maxLoginAttempts, remaining, nil
}

// ResetLogin clears the login attempt counter after a successful login.
func (l *Limiter) ResetLogin(ctx context.Context, ip, email string) error {
	key := fmt.Sprintf("ratelimit:login:%s:%s", ip, email)
	return l.client.Del(ctx, key).Err()
}

// AllowOTPSend checks whether another OTP email may be dispatched for email.
func (l *Limiter) AllowOTPSend(ctx context.Context, email string) (bool, error) {
	key := fmt.Sprintf("ratelimit:otp_send:%s", email)

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment otp send counter: %w", err)
	}

	if count == 1 {
		l.client.Expire(ctx, key, otpSendWindow)
	}

	return count <= maxOTPSends, nil
}
