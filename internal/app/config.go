// Package app carries process-level wiring: configuration, logging and
// filesystem paths for the client.
package app

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
)

const appID = "jellydesk"

// Config is the top-level jellydesk configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Cache    CacheConfig    `toml:"cache"`
	Log      LogConfig      `toml:"log"`
	Playback PlaybackConfig `toml:"playback"`
}

// ServerConfig holds the session against one media server. Token and
// UserID are filled in by login.
type ServerConfig struct {
	Host     string `toml:"host"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	Token    string `toml:"token"`
	UserID   string `toml:"user_id"`
	DeviceID string `toml:"device_id"`
}

// CacheConfig overrides the cache root directory.
type CacheConfig struct {
	Dir string `toml:"dir"`
}

// LogConfig describes logging options.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// PlaybackConfig configures the GStreamer playback collaborator.
type PlaybackConfig struct {
	Pipeline string `toml:"pipeline"`
	Device   string `toml:"device"`
}

// LoadConfig loads a config file from path. A missing file yields a
// zero config so first-run login can bootstrap it.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return Config{}, errors.New("config path required")
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, err
	}
	if info.IsDir() {
		return Config{}, errors.New("config path is a directory")
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SaveConfig writes the config back to path, creating parent
// directories as needed. Used by login to persist the session.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer file.Close()
	return toml.NewEncoder(file).Encode(cfg)
}

// DefaultConfigPath returns the default config location.
func DefaultConfigPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appID, "jellydesk.toml"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appID, "jellydesk.toml"), nil
}

// EnsureDeviceID returns the stable per-install device id, generating
// and recording one on first use.
func (c *Config) EnsureDeviceID() string {
	if c.Server.DeviceID == "" {
		c.Server.DeviceID = uuid.NewString()
	}
	return c.Server.DeviceID
}

// CacheRoot resolves the cache root directory: an explicit override,
// else XDG cache dir, else $HOME/.cache, else /tmp.
func (c Config) CacheRoot() string {
	if c.Cache.Dir != "" {
		return c.Cache.Dir
	}
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appID)
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return filepath.Join(home, ".cache", appID)
	}
	return filepath.Join(os.TempDir(), appID)
}

// ArtCacheRoot is where raw album-art bytes live, one file per item id.
func (c Config) ArtCacheRoot() string {
	return filepath.Join(c.CacheRoot(), "album-art")
}
