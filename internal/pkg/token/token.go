// internal/pkg/token/token.go
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
)

// Config carries the signing material and lifetimes for both token classes.
// Access and refresh tokens are signed with distinct secrets so a leaked key
// for one class cannot forge tokens of the other.
type Config struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
}

// Claims represents the JWT claims carried by issued tokens. Role is only
// populated on access tokens.
type Claims struct {
	UserID int64  `json:"id"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Issuer mints and verifies signed, self-contained access and refresh tokens.
type Issuer struct {
	cfg Config
}

func NewIssuer(cfg Config) (*Issuer, error) {
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, fmt.Errorf("token signing secrets must be configured")
	}
	if cfg.AccessTTL == 0 {
		cfg.AccessTTL = 15 * time.Minute
	}
	if cfg.RefreshTTL == 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}
	return &Issuer{cfg: cfg}, nil
}

// AccessTTL exposes the configured access token lifetime.
func (i *Issuer) AccessTTL() time.Duration {
	return i.cfg.AccessTTL
}

// IssueAccess mints a short-lived token carrying identity and role claims.
func (i *Issuer) IssueAccess(userID int64, role string) (string, error) {
	return i.sign(userID, role, i.cfg.AccessTTL, i.cfg.AccessSecret)
}

// IssueRefresh mints a long-lived token carrying identity only.
func (i *Issuer) IssueRefresh(userID int64) (string, error) {
	return i.sign(userID, "", i.cfg.RefreshTTL, i.cfg.RefreshSecret)
}

func (i *Issuer) sign(userID int64, role string, ttl time.Duration, secret string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.cfg.Issuer,
			Subject:   fmt.Sprintf("%d", userID),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        ulid.Make().String(),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// VerifyAccess validates an access token's signature and expiry.
func (i *Issuer) VerifyAccess(tokenString string) (*Claims, error) {
	return i.verify(tokenString, i.cfg.AccessSecret)
}

// VerifyRefresh validates a refresh token's signature and expiry.
func (i *Issuer) VerifyRefresh(tokenString string) (*Claims, error) {
	return i.verify(tokenString, i.cfg.RefreshSecret)
}

func (i *Issuer) verify(tokenString, secret string) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	if i.cfg.Issuer != "" && claims.Issuer != i.cfg.Issuer {
		return nil, fmt.Errorf("invalid issuer: expected %s, got %s", i.cfg.Issuer, claims.Issuer)
	}

	return claims, nil
}
