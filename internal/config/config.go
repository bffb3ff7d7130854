// Package config loads the optional TOML configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/robfig/cron/v3"
)

// EnvPath overrides the config file location.
const EnvPath = "PIXELIA_CONFIG"

type Config struct {
	DataDir       string  `toml:"data_dir"`
	HistoryLimit  int     `toml:"history_limit"`
	Autosave      string  `toml:"autosave"`
	Snapping      bool    `toml:"snapping"`
	SnapTolerance float64 `toml:"snap_tolerance"`
	Inbox         bool    `toml:"inbox"`
	ShareBaseURL  string  `toml:"share_base_url"`
}

func Default() Config {
	return Config{
		DataDir:       "~/.local/share/pixelia",
		HistoryLimit:  100,
		Autosave:      "@every 2s",
		Snapping:      true,
		SnapTolerance: 6,
		Inbox:         true,
		ShareBaseURL:  "pixelia://project/",
	}
}

// DefaultPath is ~/.config/pixelia/config.toml unless PIXELIA_CONFIG is set.
func DefaultPath() string {
	if p := os.Getenv(EnvPath); p != "" {
		return expandHome(p)
	}
	return expandHome("~/.config/pixelia/config.toml")
}

// DBPath is where the SQLite database lives.
func (c Config) DBPath() string { return filepath.Join(c.DataDir, "pixelia.db") }

// InboxDir is the folder watched for dropped images.
func (c Config) InboxDir() string { return filepath.Join(c.DataDir, "inbox") }

// Load reads path over the defaults. A missing file is not an error; a
// malformed one is logged and ignored.
func Load(path string) Config {
	cfg, err := load(path)
	if err != nil {
		log.Printf("[config] using defaults: %v", err)
		cfg = Default()
		cfg.DataDir = expandHome(cfg.DataDir)
	}
	return cfg
}

func load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		cfg.DataDir = expandHome(cfg.DataDir)
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	for _, k := range md.Undecoded() {
		log.Printf("[config] unknown key %s in %s", k, path)
	}
	cfg.DataDir = expandHome(cfg.DataDir)
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("history_limit must be positive, got %d", c.HistoryLimit)
	}
	if c.SnapTolerance < 0 {
		return fmt.Errorf("snap_tolerance must not be negative, got %v", c.SnapTolerance)
	}
	if _, err := cron.ParseStandard(c.Autosave); err != nil {
		return fmt.Errorf("autosave %q: %w", c.Autosave, err)
	}
	return nil
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
