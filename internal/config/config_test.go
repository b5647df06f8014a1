package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/damascout/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "damascout.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, domain.PolicyForward, cfg.ErrorPolicy())
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
sink: redis
policy: console
color: never
redis:
  addr: "redis:6379"
  db: "2"
  max_len: 50
http:
  port: 9090
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, SinkRedis, cfg.Sink)
	assert.Equal(t, domain.PolicyConsole, cfg.ErrorPolicy())
	assert.Equal(t, ColorNever, cfg.Color)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, int64(50), cfg.Redis.MaxLen)
	assert.Equal(t, "damasc:output:", cfg.Redis.Prefix, "unset keys keep defaults")
	assert.Equal(t, "9090", cfg.HTTP.Port)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "sink: redis\nredis:\n  addr: file:6379\n")
	t.Setenv("DAMASCOUT_REDIS_ADDR", "env:6379")
	t.Setenv("DAMASCOUT_POLICY", "console")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, SinkRedis, cfg.Sink)
	assert.Equal(t, "env:6379", cfg.Redis.Addr)
	assert.Equal(t, "console", cfg.Policy)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing explicit file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := Load(writeConfig(t, "sinc: redis\n"))
		assert.Error(t, err)
	})

	t.Run("bad yaml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "sink: [\n"))
		assert.Error(t, err)
	})

	t.Run("unknown sink", func(t *testing.T) {
		_, err := Load(writeConfig(t, "sink: kafka\n"))
		assert.ErrorIs(t, err, domain.ErrUnknownSink)
	})

	t.Run("unknown policy", func(t *testing.T) {
		_, err := Load(writeConfig(t, "policy: both\n"))
		assert.ErrorIs(t, err, domain.ErrUnknownPolicy)
	})

	t.Run("js without script", func(t *testing.T) {
		_, err := Load(writeConfig(t, "sink: js\n"))
		assert.Error(t, err)
	})
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestRead_SkipsValidation(t *testing.T) {
	cfg, err := Read(writeConfig(t, "sink: js\n"))
	require.NoError(t, err)
	assert.Equal(t, SinkJS, cfg.Sink)
	assert.Error(t, cfg.Validate())

	cfg.Script = "host.js"
	assert.NoError(t, cfg.Validate())
}
