// Package config provides configuration management for the browser proxy
// server. Settings come from three layers, highest priority first: CLI flags,
// a config file (YAML by default, TOML when the path ends in .toml), and hard
// defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath         = "config.yaml"
	DefaultChatbot            = "grok"
	DefaultHost               = "127.0.0.1"
	DefaultPort               = 5001
	DefaultUseBrowserProfile  = true
	DefaultBrowserProfilePath = "browser_profile"
	DefaultVerbosity          = 1
	DefaultBrowserUserAgent   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"
)

// Config represents the application's configuration.
type Config struct {
	// Chatbot selects which site driver to run against (e.g. "grok",
	// "mistral", "gemini", "duckduckgo").
	Chatbot string `yaml:"chatbot" toml:"chatbot" json:"chatbot"`

	// Host and Port form the local bind address of the proxy.
	Host string `yaml:"host" toml:"host" json:"host"`
	Port int    `yaml:"port" toml:"port" json:"port"`

	// Stream switches /chat/completions responses to a server-sent-event
	// stream carrying a single delta chunk.
	Stream bool `yaml:"stream" toml:"stream" json:"stream"`

	// UseBrowserProfile keeps a persistent browser profile directory so
	// logins on the target site survive restarts.
	UseBrowserProfile  bool   `yaml:"use-browser-profile" toml:"use-browser-profile" json:"use-browser-profile"`
	BrowserProfilePath string `yaml:"browser-profile-path" toml:"browser-profile-path" json:"browser-profile-path"`

	// BrowserUserAgent is the identity string presented by the driven tab.
	BrowserUserAgent string `yaml:"browser-user-agent" toml:"browser-user-agent" json:"browser-user-agent"`

	// Verbosity maps to log levels: 0 error, 1 warn, 2 info, 3+ debug.
	Verbosity int `yaml:"verbosity" toml:"verbosity" json:"verbosity"`

	// LogToFile mirrors logs into a rotated file under LogDir.
	LogToFile bool   `yaml:"log-to-file" toml:"log-to-file" json:"log-to-file"`
	LogDir    string `yaml:"log-dir" toml:"log-dir" json:"log-dir"`
}

// Default returns a Config populated with the hard defaults.
func Default() *Config {
	return &Config{
		Chatbot:            DefaultChatbot,
		Host:               DefaultHost,
		Port:               DefaultPort,
		UseBrowserProfile:  DefaultUseBrowserProfile,
		BrowserProfilePath: DefaultBrowserProfilePath,
		BrowserUserAgent:   DefaultBrowserUserAgent,
		Verbosity:          DefaultVerbosity,
		LogDir:             "logs",
	}
}

// Load reads the config file at path on top of the defaults. A missing file
// is not an error: the defaults are returned so the proxy can run without any
// configuration at all.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Debugf("config file %s not found, using defaults", path)
			return cfg, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if err = unmarshal(path, data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return cfg, nil
}

func unmarshal(path string, data []byte, cfg *Config) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return toml.Unmarshal(data, cfg)
	}
	return yaml.Unmarshal(data, cfg)
}

// Addr returns the host:port bind address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
