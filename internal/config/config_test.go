package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultChatbot, cfg.Chatbot)
	assert.Equal(t, DefaultHost, cfg.Host)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultVerbosity, cfg.Verbosity)
	assert.True(t, cfg.UseBrowserProfile)
	assert.False(t, cfg.Stream)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"chatbot: mistral\nport: 8080\nstream: true\nverbosity: 3\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "mistral", cfg.Chatbot)
	assert.Equal(t, 8080, cfg.Port)
	assert.True(t, cfg.Stream)
	assert.Equal(t, 3, cfg.Verbosity)
	// Untouched fields keep their defaults.
	assert.Equal(t, DefaultHost, cfg.Host)
	assert.Equal(t, DefaultBrowserUserAgent, cfg.BrowserUserAgent)
}

func TestLoad_TOMLByExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(
		"chatbot = \"gemini\"\nport = 9000\n\"use-browser-profile\" = false\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.Chatbot)
	assert.Equal(t, 9000, cfg.Port)
	assert.False(t, cfg.UseBrowserProfile)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chatbot: [unterminated"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestAddr(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "127.0.0.1:5001", cfg.Addr())
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("verbosity: 1\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *Config, 1)
	Watch(ctx, path, func(cfg *Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})

	// Give the watcher a moment to register before the write.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("verbosity: 3\n"), 0o644))

	select {
	case cfg := <-reloaded:
		assert.Equal(t, 3, cfg.Verbosity)
	case <-time.After(5 * time.Second):
		t.Fatal("config reload was not observed")
	}
}
