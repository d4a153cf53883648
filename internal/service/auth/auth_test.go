package auth_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"accounts-service/internal/domain/session"
	"accounts-service/internal/domain/user"
	xerrors "accounts-service/internal/pkg/errors"
	"accounts-service/internal/pkg/otp"
	"accounts-service/internal/pkg/password"
	"accounts-service/internal/pkg/token"
	"accounts-service/internal/service/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ---------- fakes ----------

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[string]*user.User // keyed by lowercased email
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*user.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, u *user.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := strings.ToLower(u.Email)
	if _, ok := f.users[key]; ok {
		return xerrors.ErrConflict
	}
	f.nextID++
	u.ID = f.nextID
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	copied := *u
	f.users[key] = &copied
	return nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[strings.ToLower(email)]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id int64) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

func (f *fakeUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.users[strings.ToLower(email)]
	return ok, nil
}

func (f *fakeUserRepo) UpdateStatus(_ context.Context, id int64, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			u.Status = status
			return nil
		}
	}
	return xerrors.ErrNotFound
}

type fakeSessionRepo struct {
	mu   sync.Mutex
	rows map[string]*session.Session // keyed by userID|ip
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{rows: make(map[string]*session.Session)}
}

func (f *fakeSessionRepo) Ensure(_ context.Context, s *session.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := fmt.Sprintf("%d|%s", s.UserID, s.IPAddress)
	if _, ok := f.rows[key]; ok {
		return nil // conflict ignored, first descriptor retained
	}
	s.CreatedAt = time.Now()
	copied := *s
	f.rows[key] = &copied
	return nil
}

func (f *fakeSessionRepo) ListByUser(_ context.Context, userID int64) ([]*session.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*session.Session
	for _, s := range f.rows {
		if s.UserID == userID {
			copied := *s
			out = append(out, &copied)
		}
	}
	return out, nil
}

type fakeLimiter struct {
	loginAllowed bool
	otpAllowed   bool
}

func (f *fakeLimiter) AllowLogin(context.Context, string, string) (bool, int64, error) {
	return f.loginAllowed, 0, nil
}

func (f *fakeLimiter) ResetLogin(context.Context, string, string) error { return nil }

func (f *fakeLimiter) AllowOTPSend(context.Context, string) (bool, error) {
	return f.otpAllowed, nil
}

type fakeMailer struct {
	mu    sync.Mutex
	sent  []string // recipient emails
	codes []string
	done  chan struct{}
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{done: make(chan struct{}, 16)}
}

func (f *fakeMailer) SendOTP(to, _, code string) error {
	f.mu.Lock()
	f.sent = append(f.sent, to)
	f.codes = append(f.codes, code)
	f.mu.Unlock()
	f.done <- struct{}{}
	return nil
}

func (f *fakeMailer) waitForSend(t *testing.T) {
	t.Helper()
	select {
	case <-f.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for otp email dispatch")
	}
}

// ---------- harness ----------

type harness struct {
	svc      *auth.AuthService
	users    *fakeUserRepo
	sessions *fakeSessionRepo
	limiter  *fakeLimiter
	mailer   *fakeMailer
	otp      *otp.Engine
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	engine := otp.NewEngine(otp.Config{
		Secret: "test-secret",
		Period: 5 * time.Minute,
		Digits: 6,
		Skew:   1,
	})

	issuer, err := token.NewIssuer(token.Config{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
		Issuer:        "accounts-service",
	})
	require.NoError(t, err)

	h := &harness{
		users:    newFakeUserRepo(),
		sessions: newFakeSessionRepo(),
		limiter:  &fakeLimiter{loginAllowed: true, otpAllowed: true},
		mailer:   newFakeMailer(),
		otp:      engine,
	}
	h.svc = auth.NewAuthService(
		h.users,
		h.sessions,
		engine,
		password.NewHasher(bcrypt.MinCost),
		issuer,
		h.limiter,
		h.mailer,
		zap.NewNop(),
	)
	return h
}

func (h *harness) register(t *testing.T, email string) *user.Summary {
	t.Helper()
	summary, err := h.svc.Register(context.Background(), &user.RegisterRequest{
		FullName: "Test User",
		Email:    email,
		Password: "secret1",
	})
	require.NoError(t, err)
	h.mailer.waitForSend(t)
	return summary
}

func (h *harness) verify(t *testing.T, email string) {
	t.Helper()
	code := h.otp.Generate(email, time.Now())
	require.NoError(t, h.svc.Verify(context.Background(), &user.VerifyRequest{
		Email: email,
		OTP:   code,
	}))
}

// ---------- registration ----------

func TestRegister_CreatesPendingUser(t *testing.T) {
	h := newHarness(t)

	summary := h.register(t, "a@example.com")

	assert.Equal(t, "a@example.com", summary.Email)
	assert.Equal(t, user.RoleUser, summary.Role)
	assert.Equal(t, user.StatusPending, summary.Status)

	stored, err := h.users.FindByEmail(context.Background(), "a@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.PasswordHash)
	assert.Equal(t, []string{"a@example.com"}, h.mailer.sent)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	h := newHarness(t)
	h.register(t, "a@example.com")

	_, err := h.svc.Register(context.Background(), &user.RegisterRequest{
		FullName: "Other",
		Email:    "a@example.com",
		Password: "secret2",
	})

	assert.ErrorIs(t, err, xerrors.ErrConflict)
}

func TestRegister_RejectsSuperAdminRole(t *testing.T) {
	h := newHarness(t)

	_, err := h.svc.Register(context.Background(), &user.RegisterRequest{
		FullName: "Sneaky",
		Email:    "s@example.com",
		Password: "secret1",
		Role:     user.RoleSuperAdmin,
	})

	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
}

// ---------- send otp ----------

func TestSendOTP_UnknownUser(t *testing.T) {
	h := newHarness(t)

	err := h.svc.SendOTP(context.Background(), "nobody@example.com")

	assert.ErrorIs(t, err, xerrors.ErrNotFound)
}

func TestSendOTP_RateLimited(t *testing.T) {
	h := newHarness(t)
	h.register(t, "a@example.com")
	h.limiter.otpAllowed = false

	err := h.svc.SendOTP(context.Background(), "a@example.com")

	assert.ErrorIs(t, err, xerrors.ErrRateLimited)
}

func TestSendOTP_Resends(t *testing.T) {
	h := newHarness(t)
	h.register(t, "a@example.com")

	require.NoError(t, h.svc.SendOTP(context.Background(), "a@example.com"))
	h.mailer.waitForSend(t)

	assert.Len(t, h.mailer.sent, 2)
}

// ---------- verification state machine ----------

func TestVerify_ActivatesUser(t *testing.T) {
	h := newHarness(t)
	h.register(t, "a@example.com")

	h.verify(t, "a@example.com")

	stored, err := h.users.FindByEmail(context.Background(), "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.StatusActive, stored.Status)
}

func TestVerify_BadCode(t *testing.T) {
	h := newHarness(t)
	h.register(t, "a@example.com")

	err := h.svc.Verify(context.Background(), &user.VerifyRequest{
		Email: "a@example.com",
		OTP:   "000000",
	})

	assert.ErrorIs(t, err, xerrors.ErrInvalidOTP)
}

func TestVerify_UnknownUser(t *testing.T) {
	h := newHarness(t)

	err := h.svc.Verify(context.Background(), &user.VerifyRequest{
		Email: "nobody@example.com",
		OTP:   "123456",
	})

	assert.ErrorIs(t, err, xerrors.ErrNotFound)
}

func TestVerify_Idempotent(t *testing.T) {
	h := newHarness(t)
	h.register(t, "a@example.com")

	h.verify(t, "a@example.com")
	h.verify(t, "a@example.com") // replay within the window is harmless

	stored, err := h.users.FindByEmail(context.Background(), "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.StatusActive, stored.Status)
}

// ---------- login ----------

func login(h *harness, email, pass, ip string) (*user.LoginResponse, error) {
	return h.svc.Login(context.Background(), &user.LoginRequest{
		Email:     email,
		Password:  pass,
		IPAddress: ip,
		UserAgent: "Mozilla/5.0 (X11; Linux x86_64) Firefox/121.0",
	})
}

func TestLogin_BeforeVerification(t *testing.T) {
	h := newHarness(t)
	h.register(t, "a@example.com")

	_, err := login(h, "a@example.com", "secret1", "10.0.0.1")

	assert.ErrorIs(t, err, xerrors.ErrNotVerified)
}

func TestLogin_UnknownUser(t *testing.T) {
	h := newHarness(t)

	_, err := login(h, "nobody@example.com", "secret1", "10.0.0.1")

	assert.ErrorIs(t, err, xerrors.ErrNotFound)
}

func TestLogin_WrongPassword(t *testing.T) {
	h := newHarness(t)
	h.register(t, "a@example.com")
	h.verify(t, "a@example.com")

	_, err := login(h, "a@example.com", "wrong", "10.0.0.1")

	assert.ErrorIs(t, err, xerrors.ErrBadCredential)
}

func TestLogin_RateLimited(t *testing.T) {
	h := newHarness(t)
	h.register(t, "a@example.com")
	h.verify(t, "a@example.com")
	h.limiter.loginAllowed = false

	_, err := login(h, "a@example.com", "secret1", "10.0.0.1")

	assert.ErrorIs(t, err, xerrors.ErrRateLimited)
}

func TestLogin_IssuesDistinctTokens(t *testing.T) {
	h := newHarness(t)
	h.register(t, "a@example.com")
	h.verify(t, "a@example.com")

	resp, err := login(h, "a@example.com", "secret1", "10.0.0.1")
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.NotEqual(t, resp.AccessToken, resp.RefreshToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, int((15 * time.Minute).Seconds()), resp.ExpiresIn)
	assert.Equal(t, "a@example.com", resp.User.Email)
}

func TestLogin_SessionPerIPIsUnique(t *testing.T) {
	h := newHarness(t)
	h.register(t, "a@example.com")
	h.verify(t, "a@example.com")

	for i := 0; i < 3; i++ {
		_, err := login(h, "a@example.com", "secret1", "10.0.0.1")
		require.NoError(t, err)
	}

	sessions, err := h.svc.Sessions(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}

func TestLogin_NewIPAddsSession(t *testing.T) {
	h := newHarness(t)
	h.register(t, "a@example.com")
	h.verify(t, "a@example.com")

	_, err := login(h, "a@example.com", "secret1", "10.0.0.1")
	require.NoError(t, err)
	_, err = login(h, "a@example.com", "secret1", "10.0.0.2")
	require.NoError(t, err)

	sessions, err := h.svc.Sessions(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, sessions, 2)
}

// ---------- profile ----------

func TestProfile_ReturnsSummary(t *testing.T) {
	h := newHarness(t)
	summary := h.register(t, "a@example.com")

	got, err := h.svc.Profile(context.Background(), summary.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", got.Email)
}

func TestProfile_UserGone(t *testing.T) {
	h := newHarness(t)

	_, err := h.svc.Profile(context.Background(), 999)

	assert.ErrorIs(t, err, xerrors.ErrNotFound)
}

// ---------- bootstrap ----------

func TestEnsureSuperAdmin_CreatesOnce(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.NoError(t, h.svc.EnsureSuperAdmin(ctx, "root@example.com", "rootpass1", "Root"))
	require.NoError(t, h.svc.EnsureSuperAdmin(ctx, "root@example.com", "rootpass1", "Root"))

	u, err := h.users.FindByEmail(ctx, "root@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.RoleSuperAdmin, u.Role)
	assert.Equal(t, user.StatusActive, u.Status)
}

func TestEnsureSuperAdmin_SkipsWhenUnconfigured(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.svc.EnsureSuperAdmin(context.Background(), "", "", ""))

	exists, err := h.users.ExistsByEmail(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, exists)
}
