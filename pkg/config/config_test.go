package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	cfg := LoadConfig()

	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, int64(100), cfg.MinTransactionAmount)
	assert.Equal(t, int64(50), cfg.BillFee)
	assert.Equal(t, int64(1000), cfg.SignupBonus)
	assert.Equal(t, int64(100), cfg.ReferralBonus)
	assert.Equal(t, 3, cfg.ReferralThreshold)
	assert.Equal(t, 10, cfg.ReferralCodeMaxRetries)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("BILL_FEE", "75")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test")

	cfg := LoadConfig()

	assert.Equal(t, int64(75), cfg.BillFee)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
}

func TestLoadConfigRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	assert.PanicsWithValue(t, "JWT_SECRET is required", func() { LoadConfig() })
}
