package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("SCORING_POLICY", "")
	cfg := Load()
	assert.Equal(t, 8083, cfg.Port)
	assert.Equal(t, "strict", cfg.ScoringPolicy)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "127.0.0.1:8083", cfg.Addr())
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("HOST", "0.0.0.0")
	t.Setenv("PORT", "9000")
	t.Setenv("ALLOW_ORIGINS", "http://a,http://b")
	t.Setenv("SESSION_TTL", "15m")
	t.Setenv("EXTRACT_RPS", "0.5")
	t.Setenv("PARALLEL_THRESHOLD", "not-a-number")

	cfg := Load()
	assert.Equal(t, "0.0.0.0:9000", cfg.Addr())
	assert.Equal(t, []string{"http://a", "http://b"}, cfg.AllowOrigins)
	assert.Equal(t, 15*time.Minute, cfg.SessionTTL)
	assert.InDelta(t, 0.5, cfg.ExtractRPS, 1e-9)
	assert.Equal(t, 2000, cfg.ParallelThreshold)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("QS_DOTENV_A=hello\nQS_DOTENV_B=from-file\n"), 0o644))
	t.Setenv("QS_DOTENV_B", "keep")
	t.Cleanup(func() { _ = os.Unsetenv("QS_DOTENV_A") })

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "hello", os.Getenv("QS_DOTENV_A"))
	assert.Equal(t, "keep", os.Getenv("QS_DOTENV_B"))

	assert.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))
	assert.NoError(t, LoadDotEnv(""))
}
