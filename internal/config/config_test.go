package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoadSchemeDefaults(t *testing.T) {
	clearEnv(t, "ADDR", "PORT", "TOKEN_TTL", "RUN_MIGRATIONS", "CORS_ALLOWED_ORIGINS", "WRITE_TIMEOUT", "ADMIN_USERNAME", "RECEIPT_TIMEZONE")
	t.Setenv("DATABASE_URL", "postgres://localhost/scheme_db")
	t.Setenv("ADMIN_PASSWORD_HASH", "$2b$10$hash")

	cfg, err := LoadScheme(nil)
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.Addr)
	assert.Equal(t, "admin", cfg.AdminUsername)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.True(t, cfg.RunMigrations)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, 30*time.Second, cfg.WriteTimeout)
}

func TestLoadSchemeEnvAndFlags(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env/db")
	t.Setenv("ADMIN_PASSWORD_HASH", "$2b$10$hash")
	clearEnv(t, "ADDR")
	t.Setenv("PORT", "9000")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("RECEIPT_TIMEZONE", "Asia/Kolkata")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("NOTIFY_EMAILS", "ops@example.com")

	cfg, err := LoadScheme([]string{"--database-url", "postgres://flag/db", "--token-ttl", "2h", "--migrate=false"})
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, "postgres://flag/db", cfg.DatabaseURL)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.False(t, cfg.RunMigrations)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, []string{"ops@example.com"}, cfg.NotifyTo)
	assert.Equal(t, "Asia/Kolkata", cfg.Location().String())
}

func TestLoadSchemeValidation(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("ADMIN_PASSWORD_HASH", "")
	t.Setenv("RECEIPT_TIMEZONE", "Mars/Olympus")

	_, err := LoadScheme(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL is required")
	assert.Contains(t, err.Error(), "ADMIN_PASSWORD_HASH is required")
	assert.Contains(t, err.Error(), "RECEIPT_TIMEZONE")
}

func TestLoadSchemeHelpFlag(t *testing.T) {
	_, err := LoadScheme([]string{"--help"})
	assert.ErrorIs(t, err, pflag.ErrHelp)
}

func TestLoadFeedback(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("ADMIN_PASSWORD", "admin123")
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("ADDR", "127.0.0.1:8081")
	clearEnv(t, "SESSION_LIFETIME", "SECURE_COOKIES")

	cfg, err := LoadFeedback([]string{"--db-name", "fb", "--secure-cookies"})
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8081", cfg.Addr)
	assert.Equal(t, "fb", cfg.DBName)
	assert.True(t, cfg.SecureCookies)
	assert.Equal(t, 24*time.Hour, cfg.SessionLifetime)
}

func TestLoadFeedbackValidation(t *testing.T) {
	t.Setenv("MONGODB_URI", "")
	t.Setenv("ADMIN_PASSWORD", "")
	t.Setenv("SESSION_SECRET", "")

	_, err := LoadFeedback(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MONGODB_URI is required")
	assert.Contains(t, err.Error(), "ADMIN_PASSWORD is required")
	assert.Contains(t, err.Error(), "SESSION_SECRET is required")
}

func TestInvalidEnvValuesAreReported(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/scheme_db")
	t.Setenv("ADMIN_PASSWORD_HASH", "$2b$10$hash")
	t.Setenv("TOKEN_TTL", "garbage")
	t.Setenv("RUN_MIGRATIONS", "maybe")

	_, err := LoadScheme(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `TOKEN_TTL: invalid duration "garbage"`)
	assert.Contains(t, err.Error(), `RUN_MIGRATIONS: invalid boolean "maybe"`)

	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("ADMIN_PASSWORD", "admin123")
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("SESSION_LIFETIME", "1 day")

	_, err = LoadFeedback(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_LIFETIME")
}

func TestEnvParserFallsBackWhenUnset(t *testing.T) {
	clearEnv(t, "UNSET_DURATION", "UNSET_BOOL")
	env := &envParser{}

	assert.Equal(t, time.Minute, env.duration("UNSET_DURATION", time.Minute))
	assert.True(t, env.bool("UNSET_BOOL", true))
	assert.Empty(t, env.errs)
	assert.Nil(t, getList("UNSET_LIST_KEY", nil))
}
