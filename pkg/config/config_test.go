package config

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef-test"

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "rentals", cfg.MongoDatabaseName)
	assert.Equal(t, 24*time.Hour, cfg.JWTDuration)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.False(t, cfg.BookingIgnoreCancelled)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowOrigins)
	assert.NoError(t, cfg.Validate())
}

func TestFromEnv_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	require.NoError(t, os.Unsetenv("JWT_SECRET"))

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("BOOKING_IGNORE_CANCELLED", "true")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://rentals.example.com,http://localhost:3000")
	t.Setenv("BOOKING_LOCK_TTL", "5s")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.True(t, cfg.BookingIgnoreCancelled)
	assert.Equal(t, 5*time.Second, cfg.BookingLockTTL)
	assert.Len(t, cfg.CORSAllowOrigins, 2)
}

func TestValidate_CollectsEveryViolation(t *testing.T) {
	t.Setenv("JWT_SECRET", "short")

	cfg, err := FromEnv()
	require.NoError(t, err)

	cfg.Port = "99999"
	cfg.MongoURI = "postgres://localhost"
	cfg.BcryptCost = 2
	cfg.CORSAllowOrigins = []string{"localhost"}

	err = cfg.Validate()
	require.Error(t, err)

	msg := err.Error()
	for _, want := range []string{"Port", "MongoURI", "JWTSecret", "BcryptCost", "CORSAllowOrigins"} {
		assert.True(t, strings.Contains(msg, want), "expected %q in %q", want, msg)
	}
}

func TestRedactMongoURI(t *testing.T) {
	got := redactMongoURI("mongodb://admin:secret@db:27017/rentals")
	assert.Equal(t, "mongodb://***:***@db:27017/rentals", got)
}
