// Package config loads client configuration from a YAML file with
// environment-variable overrides.
//
// PRECEDENCE (lowest to highest): built-in defaults → config file →
// environment. The file is optional; a missing file just means defaults,
// so a freshly installed client works against a local backend with zero
// setup — the same posture the web client had with its NEXT_PUBLIC_API_URL
// fallback to localhost:3001.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is everything the client reads from its environment.
type Config struct {
	// APIURL is the backend base URL, including the /api prefix.
	APIURL string `yaml:"api_url"`

	// FrontendURL is the base URL the backend redirects browsers back to
	// after OAuth and checkout. For the native client this is the loopback
	// callback server, so it must agree with CallbackPort.
	FrontendURL string `yaml:"frontend_url"`

	// DataDir holds the SQLite session database.
	DataDir string `yaml:"data_dir"`

	// CallbackPort is where the loopback callback server listens.
	CallbackPort int `yaml:"callback_port"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the zero-setup configuration.
func Default() Config {
	dataDir := "data"
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".gitify")
	}
	return Config{
		APIURL:       "http://localhost:3001/api",
		FrontendURL:  "http://localhost:53682",
		DataDir:      dataDir,
		CallbackPort: 53682,
		LogLevel:     "info",
	}
}

// DefaultPath is where Load looks when no explicit path is given.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "gitify.yaml"
	}
	return filepath.Join(home, ".gitify", "config.yaml")
}

// Load reads the file at path (if it exists), then applies environment
// overrides. A missing file is not an error; an unreadable or invalid one
// is — silently ignoring a broken config the user wrote would be worse.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// fall through to defaults + env
	default:
		return cfg, fmt.Errorf("config: reading %s: %w", path, err)
	}

	cfg.applyEnv()

	if cfg.CallbackPort <= 0 || cfg.CallbackPort > 65535 {
		return cfg, fmt.Errorf("config: invalid callback_port %d", cfg.CallbackPort)
	}

	return cfg, nil
}

// applyEnv layers GITIFY_* environment variables on top of the file.
// Env vars win so deployments/scripts can override without editing files —
// same idea as the PORT/DB_PATH overrides on the backend.
func (c *Config) applyEnv() {
	if v := os.Getenv("GITIFY_API_URL"); v != "" {
		c.APIURL = v
	}
	if v := os.Getenv("GITIFY_FRONTEND_URL"); v != "" {
		c.FrontendURL = v
	}
	if v := os.Getenv("GITIFY_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("GITIFY_CALLBACK_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.CallbackPort = port
		}
	}
	if v := os.Getenv("GITIFY_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

// DBPath is the session database location inside DataDir.
func (c Config) DBPath() string {
	return filepath.Join(c.DataDir, "gitify.db")
}
