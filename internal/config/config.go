package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	AppName               = "prazo"
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "prazo.db"
	DefaultRefresh        = "1m"
	EnvConfigPath         = "PRAZO_CONFIG"
)

type Keymap struct {
	Quit      string `toml:"quit"`
	NextField string `toml:"next_field"`
	PrevField string `toml:"prev_field"`
	Up        string `toml:"up"`
	Down      string `toml:"down"`
	Delete    string `toml:"delete"`
	Confirm   string `toml:"confirm"`
	Cancel    string `toml:"cancel"`
	Refresh   string `toml:"refresh"`
}

type Config struct {
	DBPath          string `toml:"db_path"`
	RefreshInterval string `toml:"refresh_interval"`
	LogFile         string `toml:"log_file"`
	Keys            Keymap `toml:"keys"`
}

// Refresh parses RefreshInterval.
func (c Config) Refresh() (time.Duration, error) {
	d, err := time.ParseDuration(c.RefreshInterval)
	if err != nil {
		return 0, fmt.Errorf("refresh_interval %q: %w", c.RefreshInterval, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("refresh_interval %q: must be positive", c.RefreshInterval)
	}
	return d, nil
}

// ResolveConfigPath picks the config file: $PRAZO_CONFIG, then
// <user config dir>/prazo/config.toml, then ./config.toml.
func ResolveConfigPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, AppName, DefaultConfigFileName)
}

// LoadOrCreate reads the config at path, writing the defaults there first if
// the file does not exist. A relative db_path is resolved against the
// config's directory.
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return resolve(path, cfg)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg = fillDefaults(cfg)
	return resolve(path, cfg)
}

func resolve(path string, cfg Config) (Config, error) {
	if _, err := cfg.Refresh(); err != nil {
		return cfg, err
	}
	if !filepath.IsAbs(cfg.DBPath) && filepath.VolumeName(cfg.DBPath) == "" && !isDSN(cfg.DBPath) {
		cfg.DBPath = filepath.Join(filepath.Dir(path), cfg.DBPath)
	}
	return cfg, nil
}

func isDSN(p string) bool {
	return strings.HasPrefix(p, "file:")
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func fillDefaults(cfg Config) Config {
	def := defaultConfig()
	if cfg.DBPath == "" {
		cfg.DBPath = def.DBPath
	}
	if cfg.RefreshInterval == "" {
		cfg.RefreshInterval = def.RefreshInterval
	}
	k, d := &cfg.Keys, def.Keys
	for _, pair := range []struct {
		dst *string
		def string
	}{
		{&k.Quit, d.Quit},
		{&k.NextField, d.NextField},
		{&k.PrevField, d.PrevField},
		{&k.Up, d.Up},
		{&k.Down, d.Down},
		{&k.Delete, d.Delete},
		{&k.Confirm, d.Confirm},
		{&k.Cancel, d.Cancel},
		{&k.Refresh, d.Refresh},
	} {
		if *pair.dst == "" {
			*pair.dst = pair.def
		}
	}
	return cfg
}

func Default() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		DBPath:          DefaultDBName,
		RefreshInterval: DefaultRefresh,
		Keys: Keymap{
			Quit:      "q",
			NextField: "tab",
			PrevField: "shift+tab",
			Up:        "k",
			Down:      "j",
			Delete:    "d",
			Confirm:   "enter",
			Cancel:    "esc",
			Refresh:   "r",
		},
	}
}
