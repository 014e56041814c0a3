// Package daemon manages the QuestForge daemon lifecycle and configuration.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds all daemon configuration.
type Config struct {
	API           APIConfig           `toml:"api"`
	Engine        EngineConfig        `toml:"engine"`
	Notifications NotificationsConfig `toml:"notifications"`
	Logging       LoggingConfig       `toml:"logging"`
	Metrics       MetricsConfig       `toml:"metrics"`
}

// APIConfig controls the HTTP API server.
type APIConfig struct {
	Host           string   `toml:"host"`
	Port           int      `toml:"port"`
	CORSOrigins    []string `toml:"cors_origins"`
	RateLimitRPS   float64  `toml:"rate_limit_rps"`
	RateLimitBurst int      `toml:"rate_limit_burst"`
}

// Addr returns host:port.
func (c APIConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// EngineConfig tunes the game service and its sweeper.
type EngineConfig struct {
	// Timezone is an IANA name; "Local" uses the system zone.
	Timezone            string   `toml:"timezone"`
	SweepInterval       Duration `toml:"sweep_interval"`
	UndoWindow          Duration `toml:"undo_window"`
	UndoMax             int      `toml:"undo_max"`
	SkillPointsPerLevel int      `toml:"skill_points_per_level"`
	ApplyBonuses        bool     `toml:"apply_bonuses"`
	PlayerName          string   `toml:"player_name"`
}

// Location resolves Timezone.
func (c EngineConfig) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("engine.timezone: %w", err)
	}
	return loc, nil
}

// NotificationsConfig is the delivery policy.
type NotificationsConfig struct {
	MaxPerDay  int    `toml:"max_per_day"`
	QuietStart string `toml:"quiet_start"`
	QuietEnd   string `toml:"quiet_end"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level string `toml:"level"`
	// File is empty for stderr.
	File string `toml:"file"`
}

// MetricsConfig toggles the /metrics endpoint.
type MetricsConfig struct {
	Enabled bool `toml:"enabled"`
}

// Duration is a time.Duration written as "30s" in TOML.
type Duration struct {
	time.Duration
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			Host:           "127.0.0.1",
			Port:           7414,
			CORSOrigins:    []string{"*"},
			RateLimitRPS:   20,
			RateLimitBurst: 40,
		},
		Engine: EngineConfig{
			Timezone:            "Local",
			SweepInterval:       Duration{time.Minute},
			UndoWindow:          Duration{30 * time.Second},
			UndoMax:             10,
			SkillPointsPerLevel: 1,
			ApplyBonuses:        true,
			PlayerName:          "Adventurer",
		},
		Notifications: NotificationsConfig{
			MaxPerDay:  3,
			QuietStart: "22:00",
			QuietEnd:   "08:00",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// LoadConfig reads $QUESTFORGE_HOME/config.toml, falling back to defaults,
// then applies environment overrides.
func LoadConfig() (Config, error) {
	loadDotEnv()
	cfg := DefaultConfig()
	path := ConfigPath()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return cfg, fmt.Errorf("stat config: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// SaveConfig writes the config to $QUESTFORGE_HOME/config.toml.
func SaveConfig(cfg Config) error {
	path := ConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(cfg)
}

// Validate rejects settings the daemon cannot run with.
func (c Config) Validate() error {
	switch {
	case c.API.Port <= 0 || c.API.Port > 65535:
		return fmt.Errorf("api.port %d out of range", c.API.Port)
	case c.API.RateLimitRPS < 0 || c.API.RateLimitBurst < 0:
		return fmt.Errorf("api rate limits must not be negative")
	case c.Engine.SweepInterval.Duration <= 0:
		return fmt.Errorf("engine.sweep_interval must be positive")
	case c.Notifications.MaxPerDay < 0:
		return fmt.Errorf("notifications.max_per_day must not be negative")
	}
	if _, err := c.Engine.Location(); err != nil {
		return err
	}
	return nil
}

// loadDotEnv loads .env from the working directory and the home directory.
// Variables already set win; missing files are ignored.
func loadDotEnv() {
	_ = godotenv.Load()
	home, err := os.UserHomeDir()
	if err == nil {
		_ = godotenv.Load(filepath.Join(home, ".questforge.env"))
	}
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("QUESTFORGE_API_HOST"); v != "" {
		cfg.API.Host = v
	}
	if v := os.Getenv("QUESTFORGE_API_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("QUESTFORGE_API_PORT: %w", err)
		}
		cfg.API.Port = port
	}
	if v := os.Getenv("QUESTFORGE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	return nil
}

// ConfigPath returns the config file location.
func ConfigPath() string {
	return filepath.Join(Home(), "config.toml")
}

// Home returns the QuestForge data directory: $QUESTFORGE_HOME or
// ~/.questforge.
func Home() string {
	if env := os.Getenv("QUESTFORGE_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".questforge")
}
