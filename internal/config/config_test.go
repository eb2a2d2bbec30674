package config

import (
	"testing"

	"florist-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultUsers(t *testing.T) {
	users := DefaultUsers()
	require.Len(t, users, 2)

	assert.Equal(t, models.RoleDirector, users["direktor"].Role)
	assert.Equal(t, models.RoleFlorist, users["florist"].Role)
	assert.Equal(t, "8d969eef6ecad3c29a3a629280e686cf0c3f5d5a86aff3ca12020c923adc6c92", users["florist"].PasswordHash)
}

func TestParseUsers(t *testing.T) {
	users, err := ParseUsers(" boss:director:abc , anna:florist:$2a$10$xyz ")
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, models.User{Login: "boss", Role: models.RoleDirector, PasswordHash: "abc"}, users["boss"])
	assert.Equal(t, "$2a$10$xyz", users["anna"].PasswordHash)
}

func TestParseUsersRejectsBadEntries(t *testing.T) {
	for _, raw := range []string{"boss", "boss:admin:abc", ":director:abc", "boss:director:", " , "} {
		_, err := ParseUsers(raw)
		assert.Error(t, err, raw)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("REPORT_DIR", "/tmp/out")

	cfg := Load()
	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, "0123456789abcdef0123456789abcdef", cfg.JWTSecret)
	assert.Equal(t, "2h0m0s", cfg.TokenTTL.String())
	assert.Equal(t, "/tmp/out", cfg.ReportDir)
	assert.Len(t, cfg.Users, 2)
}

func TestLoadGeneratesSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	cfg := Load()
	assert.GreaterOrEqual(t, len(cfg.JWTSecret), 32)
}
