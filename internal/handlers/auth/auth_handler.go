// internal/handlers/auth/auth_handler.go
package auth

import (
	"net/http"

	"accounts-service/internal/domain/user"
	"accounts-service/internal/middleware"
	xerrors "accounts-service/internal/pkg/errors"
	"accounts-service/internal/pkg/response"
	authUsecase "accounts-service/internal/service/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *authUsecase.AuthService
	logger      *zap.Logger
}

func NewAuthHandler(authService *authUsecase.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// statusFor maps service errors to HTTP statuses. Duplicate email maps to
// 400, matching the observed contract rather than 409.
func statusFor(err error) int {
	switch {
	case xerrors.Is(err, xerrors.ErrNotFound):
		return http.StatusNotFound
	case xerrors.Is(err, xerrors.ErrRateLimited):
		return http.StatusTooManyRequests
	case xerrors.Is(err, xerrors.ErrConflict),
		xerrors.Is(err, xerrors.ErrInvalidInput),
		xerrors.Is(err, xerrors.ErrInvalidOTP),
		xerrors.Is(err, xerrors.ErrNotVerified),
		xerrors.Is(err, xerrors.ErrBadCredential):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// SendOTP re-issues a verification code (public endpoint). The code goes out
// by email only; it is never echoed in the response.
func (h *AuthHandler) SendOTP(c *gin.Context) {
	var req user.SendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	if err := h.authService.SendOTP(c.Request.Context(), req.Email); err != nil {
		response.Error(c, statusFor(err), "failed to send otp", err)
		return
	}

	response.Success(c, http.StatusOK, "otp sent", nil)
}

// Register handles user registration (public endpoint).
func (h *AuthHandler) Register(c *gin.Context) {
	var req user.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	summary, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		h.logger.Error("registration failed",
			zap.String("email", req.Email),
			zap.Error(err),
		)
		response.Error(c, statusFor(err), "registration failed", err)
		return
	}

	response.Success(c, http.StatusCreated, "registration successful", summary)
}

// Verify flips a pending user to active given a valid code.
func (h *AuthHandler) Verify(c *gin.Context) {
	var req user.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	if err := h.authService.Verify(c.Request.Context(), &req); err != nil {
		response.Error(c, statusFor(err), "verification failed", err)
		return
	}

	response.Success(c, http.StatusOK, "account verified", nil)
}

// Login handles user login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	// Set IP and User-Agent from the request, not the payload
	req.IPAddress = c.ClientIP()
	req.UserAgent = c.GetHeader("User-Agent")

	loginResp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		h.logger.Warn("login failed",
			zap.String("email", req.Email),
			zap.String("ip", req.IPAddress),
			zap.Error(err),
		)
		response.Error(c, statusFor(err), "login failed", err)
		return
	}

	h.logger.Info("user logged in",
		zap.Int64("user_id", loginResp.User.ID),
		zap.String("email", loginResp.User.Email),
	)

	response.Success(c, http.StatusOK, "login successful", loginResp)
}

// Me returns the current user profile (requires auth). This is the freshness
// lookup: a valid token for a deleted user yields 404 here.
func (h *AuthHandler) Me(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	summary, err := h.authService.Profile(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, statusFor(err), "failed to get profile", err)
		return
	}

	response.Success(c, http.StatusOK, "profile retrieved", summary)
}

// MySessions lists the caller's recorded sessions (requires auth).
func (h *AuthHandler) MySessions(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	sessions, err := h.authService.Sessions(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to get sessions", err)
		return
	}

	response.Success(c, http.StatusOK, "sessions retrieved", sessions)
}
