package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/damascout/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Precedence(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sink: redis\npolicy: console\ncolor: always\n"), 0644))
	t.Setenv("DAMASCOUT_COLOR", "never")

	require.NoError(t, pipeCmd.ParseFlags([]string{"--config", path, "--sink", "memory"}))

	cfg, err := loadConfig(pipeCmd)
	require.NoError(t, err)
	assert.Equal(t, config.SinkMemory, cfg.Sink)
	assert.Equal(t, "console", cfg.Policy)
	assert.Equal(t, config.ColorNever, cfg.Color)
}

func TestPipeCommand(t *testing.T) {
	t.Chdir(t.TempDir())

	var out, errOut bytes.Buffer
	rootCmd.SetIn(strings.NewReader("result\trun\t42\nerror\tbad\toops\n"))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs([]string{"pipe", "--config", "", "--sink", "none", "--color", "never"})
	defer rootCmd.SetArgs(nil)

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, ">>run\n42\n", out.String())
	assert.Equal(t, ">>bad\noops\n", errOut.String())
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	defer rootCmd.SetArgs(nil)

	require.NoError(t, rootCmd.Execute())
	assert.True(t, strings.HasPrefix(out.String(), "damascout version "))
}
