package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_DefaultsAndFile(t *testing.T) {
	path := writeConfig(t, `
auth:
  jwt_secret: "unit-test-secret-0123456789"
db:
  name: hr_test
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "hr_test", cfg.Database.Name)
	assert.Equal(t, "Password123#", cfg.Auth.DefaultPassword)
	assert.Equal(t, 30*time.Minute, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, 168*time.Hour, cfg.Auth.RefreshTokenTTL)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
auth:
  jwt_secret: "unit-test-secret-0123456789"
`)
	t.Setenv("HRADMIN_SERVER_PORT", "9100")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Server.Port)
}

func TestLoad_ShortSecretRejected(t *testing.T) {
	path := writeConfig(t, `
auth:
  jwt_secret: "short"
`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := Config{
		Server: ServerConfig{Port: 8080},
		Auth: AuthConfig{
			JWTSecret:       "unit-test-secret-0123456789",
			AccessTokenTTL:  time.Minute,
			RefreshTokenTTL: time.Hour,
			DefaultPassword: "Password123#",
		},
	}
	require.NoError(t, base.Validate())

	badPort := base
	badPort.Server.Port = 70000
	assert.Error(t, badPort.Validate())

	noPwd := base
	noPwd.Auth.DefaultPassword = ""
	assert.Error(t, noPwd.Validate())

	noTTL := base
	noTTL.Auth.AccessTokenTTL = 0
	assert.Error(t, noTTL.Validate())
}

func TestDSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "n", SSLMode: "disable", Timezone: "UTC"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=n sslmode=disable TimeZone=UTC", c.DSN())
}
