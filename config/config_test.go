package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setValid() {
	APP_ENV = EnvDevelopment
	BILLING_SIMULATION = false
	STRIPE_SECRET_KEY = "sk_test_123"
	STRIPE_PRICE_ID = "price_123"
	RATE_LIMIT_REQUESTS = 10
	RATE_LIMIT_WINDOW = time.Minute
}

func TestValidate(t *testing.T) {
	t.Run("provider mode with keys", func(t *testing.T) {
		setValid()
		require.NoError(t, Validate())
	})

	t.Run("simulation refused in production", func(t *testing.T) {
		setValid()
		APP_ENV = EnvProduction
		BILLING_SIMULATION = true
		assert.Error(t, Validate())
	})

	t.Run("simulation allowed in development without stripe keys", func(t *testing.T) {
		setValid()
		BILLING_SIMULATION = true
		STRIPE_SECRET_KEY = ""
		STRIPE_PRICE_ID = ""
		assert.NoError(t, Validate())
	})

	t.Run("provider mode needs secret key", func(t *testing.T) {
		setValid()
		STRIPE_SECRET_KEY = ""
		assert.Error(t, Validate())
	})

	t.Run("provider mode needs price", func(t *testing.T) {
		setValid()
		STRIPE_PRICE_ID = ""
		assert.Error(t, Validate())
	})

	t.Run("rate limit must be positive", func(t *testing.T) {
		setValid()
		RATE_LIMIT_REQUESTS = 0
		assert.Error(t, Validate())
	})
}

func TestGetters(t *testing.T) {
	t.Setenv("CFG_BOOL", "true")
	t.Setenv("CFG_BAD_BOOL", "nope")
	t.Setenv("CFG_INT", "42")
	t.Setenv("CFG_DURATION", "90s")

	assert.True(t, getBool("CFG_BOOL", false))
	assert.False(t, getBool("CFG_BAD_BOOL", false))
	assert.True(t, getBool("CFG_MISSING", true))
	assert.Equal(t, 42, getInt("CFG_INT", 1))
	assert.Equal(t, 7, getInt("CFG_MISSING", 7))
	assert.Equal(t, 90*time.Second, getDuration("CFG_DURATION", time.Second))
	assert.Equal(t, "fallback", getEnv("CFG_MISSING", "fallback"))
}
