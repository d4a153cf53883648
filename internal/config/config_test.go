package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8000", cfg.HTTPAddr)
	assert.Equal(t, 15*time.Minute, cfg.Token.AccessTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.Token.RefreshTTL)
	assert.Equal(t, 5*time.Minute, cfg.OTP.Period)
	assert.Equal(t, 6, cfg.OTP.Digits)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("ACCESS_TOKEN_SECRET", "s1")
	t.Setenv("REFRESH_TOKEN_SECRET", "s2")
	t.Setenv("ACCESS_TOKEN_TTL", "30m")
	t.Setenv("OTP_DIGITS", "8")

	cfg := Load()

	assert.Equal(t, ":9999", cfg.HTTPAddr)
	assert.Equal(t, "s1", cfg.Token.AccessSecret)
	assert.Equal(t, "s2", cfg.Token.RefreshSecret)
	assert.Equal(t, 30*time.Minute, cfg.Token.AccessTTL)
	assert.Equal(t, 8, cfg.OTP.Digits)
}

func TestLoad_IgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("OTP_DIGITS", "not-a-number")
	t.Setenv("ACCESS_TOKEN_TTL", "soon")

	cfg := Load()

	assert.Equal(t, 6, cfg.OTP.Digits)
	assert.Equal(t, 15*time.Minute, cfg.Token.AccessTTL)
}
