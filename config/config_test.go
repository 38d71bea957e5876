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
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte(body), 0o644))
	return dir
}

func TestLoadConfigBindsMultiWordKeys(t *testing.T) {
	dir := writeConfig(t, `
server:
  port: 9999
  read_timeout: 99s
  write_timeout: 45s
jwt:
  secret: file-secret
  expiry_hours: 3
er:
  enabled_outcomes:
    - discharged
    - admitted
    - transferred
    - left_ama
    - deceased
  match_threshold: 0.9
  stats_ttl: 5s
  bed_lock_ttl: 7s
cors:
  allowed_origins:
    - https://board.example.org
`)

	cfg, err := LoadConfigFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, 99*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 45*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 3, cfg.JWT.ExpiryHours)
	assert.Equal(t,
		[]string{"discharged", "admitted", "transferred", "left_ama", "deceased"},
		cfg.ER.EnabledOutcomes)
	assert.Equal(t, 0.9, cfg.ER.MatchThreshold)
	assert.Equal(t, 5*time.Second, cfg.ER.StatsTTL)
	assert.Equal(t, 7*time.Second, cfg.ER.BedLockTTL)
	assert.Equal(t, []string{"https://board.example.org"}, cfg.CORS.AllowedOrigins)
}

func TestLoadConfigDefaults(t *testing.T) {
	dir := writeConfig(t, `
jwt:
  secret: file-secret
`)

	cfg, err := LoadConfigFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 12, cfg.JWT.ExpiryHours)
	assert.Equal(t, []string{"discharged", "admitted", "deceased"}, cfg.ER.EnabledOutcomes)
	assert.Equal(t, 30*time.Second, cfg.ER.StatsTTL)
	assert.Equal(t, 0.75, cfg.ER.MatchThreshold)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfigFrom(t.TempDir())
	require.Error(t, err)
}
