// internal/service/auth/auth.go
package auth

import (
	"context"
	"strings"
	"time"

	"accounts-service/internal/domain/session"
	"accounts-service/internal/domain/user"
	"accounts-service/internal/pkg/device"
	xerrors "accounts-service/internal/pkg/errors"
	"accounts-service/internal/pkg/otp"
	"accounts-service/internal/pkg/password"
	"accounts-service/internal/pkg/token"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OTPMailer dispatches verification codes by email.
type OTPMailer interface {
	SendOTP(to, name, code string) error
}

// Limiter throttles login attempts and OTP dispatches.
type Limiter interface {
	AllowLogin(ctx context.Context, ip, email string) (bool, int64, error)
	ResetLogin(ctx context.Context, ip, email string) error
	AllowOTPSend(ctx context.Context, email string) (bool, error)
}

// AuthService orchestrates registration, OTP verification, login, and the
// profile/session reads behind the authenticated routes.
type AuthService struct {
	users    user.Repository
	sessions session.Repository
	otp      *otp.Engine
	hasher   *password.Hasher
	tokens   *token.Issuer
	limiter  Limiter
	mailer   OTPMailer
	logger   *zap.Logger
}

func NewAuthService(
	users user.Repository,
	sessions session.Repository,
	otpEngine *otp.Engine,
	hasher *password.Hasher,
	tokens *token.Issuer,
	limiter Limiter,
	mailer OTPMailer,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		otp:      otpEngine,
		hasher:   hasher,
		tokens:   tokens,
		limiter:  limiter,
		mailer:   mailer,
		logger:   logger,
	}
}

// ========== Registration ==========

// Register creates a new user with status pending and dispatches the first
// verification code. Email dispatch is fire-and-forget: a send failure is
// logged and never fails the registration.
func (s *AuthService) Register(ctx context.Context, req *user.RegisterRequest) (*user.Summary, error) {
	role := req.Role
	if role == "" {
		role = user.RoleUser
	}
	if !user.ValidRole(role) {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "unknown role")
	}

	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, xerrors.Wrap(err, "failed to check email")
	}
	if exists {
		return nil, xerrors.ErrConflict
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, xerrors.Wrap(err, "failed to hash password")
	}

	u := &user.User{
		Email:        strings.TrimSpace(req.Email),
		FullName:     req.FullName,
		PasswordHash: hash,
		Role:         role,
		Status:       user.StatusPending,
	}

	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	s.dispatchOTP(u.Email, u.FullName)

	summary := user.Summarize(u)
	return &summary, nil
}

// SendOTP re-issues a verification code for an existing user.
func (s *AuthService) SendOTP(ctx context.Context, email string) error {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	allowed, err := s.limiter.AllowOTPSend(ctx, u.Email)
	if err != nil {
		return xerrors.Wrap(err, "rate limiter error")
	}
	if !allowed {
		return xerrors.ErrRateLimited
	}

	s.dispatchOTP(u.Email, u.FullName)
	return nil
}

// dispatchOTP generates the current code and emails it in the background.
// The code itself never leaves the mail path; it must not appear in any
// response payload.
func (s *AuthService) dispatchOTP(email, name string) {
	code := s.otp.Generate(email, time.Now())

	go func() {
		if err := s.mailer.SendOTP(email, name, code); err != nil {
			s.logger.Error("failed to send otp email",
				zap.String("email", email),
				zap.Error(err),
			)
		}
	}()
}

// ========== Verification ==========

// Verify checks the submitted code and flips the user to active. The
// transition is idempotent, so replaying a still-valid code is harmless.
func (s *AuthService) Verify(ctx context.Context, req *user.VerifyRequest) error {
	u, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return err
	}

	if !s.otp.Verify(u.Email, req.OTP, time.Now()) {
		return xerrors.ErrInvalidOTP
	}

	if u.Status == user.StatusActive {
		return nil
	}

	return s.users.UpdateStatus(ctx, u.ID, user.StatusActive)
}

// ========== Login ==========

// Login authenticates a user, records the (user, ip) session, and mints the
// access/refresh token pair.
func (s *AuthService) Login(ctx context.Context, req *user.LoginRequest) (*user.LoginResponse, error) {
	allowed, _, err := s.limiter.AllowLogin(ctx, req.IPAddress, req.Email)
	if err != nil {
		return nil, xerrors.Wrap(err, "rate limiter error")
	}
	if !allowed {
		return nil, xerrors.ErrRateLimited
	}

	u, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}

	if u.Status != user.StatusActive {
		return nil, xerrors.ErrNotVerified
	}

	if !s.hasher.Compare(req.Password, u.PasswordHash) {
		return nil, xerrors.ErrBadCredential
	}

	if err := s.limiter.ResetLogin(ctx, req.IPAddress, req.Email); err != nil {
		s.logger.Warn("failed to reset login attempts", zap.Error(err))
	}

	if err := s.sessions.Ensure(ctx, &session.Session{
		ID:        uuid.New(),
		UserID:    u.ID,
		IPAddress: req.IPAddress,
		Device:    device.Describe(req.UserAgent),
	}); err != nil {
		return nil, xerrors.Wrap(err, "failed to record session")
	}

	accessToken, err := s.tokens.IssueAccess(u.ID, u.Role)
	if err != nil {
		return nil, xerrors.Wrap(err, "failed to issue access token")
	}

	refreshToken, err := s.tokens.IssueRefresh(u.ID)
	if err != nil {
		return nil, xerrors.Wrap(err, "failed to issue refresh token")
	}

	return &user.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.tokens.AccessTTL().Seconds()),
		User:         user.Summarize(u),
	}, nil
}

// ========== Authenticated reads ==========

// Profile returns the current record for userID. Unlike the authentication
// gate, this is a freshness lookup: a user deleted after token issuance gets
// a not-found here even though the token still verifies.
func (s *AuthService) Profile(ctx context.Context, userID int64) (*user.Summary, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := user.Summarize(u)
	return &summary, nil
}

// Sessions lists every session row recorded for userID.
func (s *AuthService) Sessions(ctx context.Context, userID int64) ([]*session.Session, error) {
	return s.sessions.ListByUser(ctx, userID)
}

// ========== Bootstrap ==========

// EnsureSuperAdmin creates an active super_admin account at startup if none
// exists for the configured email.
func (s *AuthService) EnsureSuperAdmin(ctx context.Context, email, pass, name string) error {
	if email == "" || pass == "" {
		return nil
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return xerrors.Wrap(err, "failed to check super admin")
	}
	if exists {
		return nil
	}

	hash, err := s.hasher.Hash(pass)
	if err != nil {
		return xerrors.Wrap(err, "failed to hash super admin password")
	}

	u := &user.User{
		Email:        email,
		FullName:     name,
		PasswordHash: hash,
		Role:         user.RoleSuperAdmin,
		Status:       user.StatusActive,
	}

	if err := s.users.Create(ctx, u); err != nil {
		return xerrors.Wrap(err, "failed to create super admin")
	}

	s.logger.Info("super admin created", zap.String("email", email))
	return nil
}
