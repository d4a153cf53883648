// internal/domain/user/dto.go
package user

// RegisterRequest is the registration payload. Role defaults to "user" when
// omitted and may not be super_admin.
type RegisterRequest struct {
	FullName string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role"`
}

// SendOTPRequest asks for a fresh verification code by email.
type SendOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// VerifyRequest submits the emailed code.
type VerifyRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required"`
}

// LoginRequest is the credential payload. IP and user agent are filled from
// the request by the handler, not by the client.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`

	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

// LoginResponse carries the freshly minted token pair.
type LoginResponse struct {
	AccessToken  string  `json:"accessToken"`
	RefreshToken string  `json:"refreshToken"`
	TokenType    string  `json:"tokenType"`
	ExpiresIn    int     `json:"expiresIn"`
	User         Summary `json:"user"`
}

// Summary is the public projection of a user record.
type Summary struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"name"`
	Role     string `json:"role"`
	Status   string `json:"status"`
}

// Summarize builds the public projection of u.
func Summarize(u *User) Summary {
	return Summary{
		ID:       u.ID,
		Email:    u.Email,
		FullName: u.FullName,
		Role:     u.Role,
		Status:   u.Status,
	}
}
