package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, public, private string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "public.yaml"), []byte(public), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "private.yaml"), []byte(private), 0o600))
	return dir
}

const validPrivate = `
jwt_key: 'k'
pg:
  host: localhost
  port: 5432
  user: clientspot
  password: from-file
  dbname: clientspot
`

func TestMustLoad(t *testing.T) {
	t.Run("defaults applied", func(t *testing.T) {
		dir := writeConfig(t, "jwt_ttl: 24h\ncode_gc_interval: 10m\n", validPrivate)

		cfg := MustLoad(dir)

		assert.Equal(t, 24*time.Hour, cfg.JwtTTL())
		assert.Equal(t, 10*time.Minute, cfg.Public.CodeGCInterval)
		assert.Equal(t, 8080, cfg.Public.HttpPort)
		assert.Equal(t, 8, cfg.Public.ConfirmationCodeLen)
		assert.Equal(t, 6, cfg.Public.OtpLen)
		assert.Equal(t, OtpStorePg, cfg.Public.OtpStore)
		assert.False(t, cfg.Public.UniformResetResponse)
		assert.Equal(t, "k", cfg.JwtKey())
		assert.Equal(t, "from-file", cfg.Pg().Password)
	})

	t.Run("env overrides secrets", func(t *testing.T) {
		t.Setenv(EnvJwtKey, "env-key")
		t.Setenv(EnvPgPassword, "env-pass")
		dir := writeConfig(t, "jwt_ttl: 1h\n", validPrivate)

		cfg := MustLoad(dir)

		assert.Equal(t, "env-key", cfg.JwtKey())
		assert.Equal(t, "env-pass", cfg.Pg().Password)
	})

	t.Run("dotenv file is read", func(t *testing.T) {
		dir := writeConfig(t, "jwt_ttl: 1h\n", validPrivate)
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(EnvSMTPPassword+"=dotenv-secret\n"), 0o600))
		t.Cleanup(func() { os.Unsetenv(EnvSMTPPassword) })

		cfg := MustLoad(dir)

		assert.Equal(t, "dotenv-secret", cfg.Email().Password)
	})
}

func TestMustLoad_RequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		public  string
		private string
	}{
		{"missing jwt_ttl", "http_port: 8080\n", validPrivate},
		{"missing jwt_key", "jwt_ttl: 1h\n", "pg:\n  host: localhost\n  dbname: db\n"},
		{"missing pg host", "jwt_ttl: 1h\n", "jwt_key: k\npg:\n  dbname: db\n"},
		{"unknown otp store", "jwt_ttl: 1h\notp_store: memcached\n", validPrivate},
		{"redis without addr", "jwt_ttl: 1h\notp_store: redis\n", validPrivate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeConfig(t, tt.public, tt.private)
			assert.Panics(t, func() { _ = MustLoad(dir) })
		})
	}
}

func TestMustLoad_MissingFile(t *testing.T) {
	assert.Panics(t, func() { _ = MustLoad(t.TempDir()) })
}
