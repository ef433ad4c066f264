package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"dynamic-island/internal/logger"
)

// DefaultPath is used when neither -config nor CONFIG_PATH is set.
const DefaultPath = "./config/config.yaml"

// Config represents the overall application configuration.
type Config struct {
	Server        ServerConfig          `yaml:"server"`
	Log           logger.Config         `yaml:"log"`
	Store         StoreConfig           `yaml:"store"`
	Scheduler     SchedulerConfig       `yaml:"scheduler"`
	Notifications NotificationConfig    `yaml:"notifications"`
	Devices       DeviceConfig          `yaml:"devices"`
	Sizes         map[string]SizeConfig `yaml:"sizes"`
}

// ServerConfig holds the control API configuration.
type ServerConfig struct {
	Enabled          bool          `yaml:"enabled"`
	Port             int           `yaml:"port"`
	RequestIPHeader  string        `yaml:"request_ip_header"`
	RateLimitPerSec  float64       `yaml:"rate_limit_per_sec"`
	RateLimitBurst   int           `yaml:"rate_limit_burst"`
	CacheTTLSeconds  int           `yaml:"cache_ttl_seconds"`
	CacheTTL         time.Duration `yaml:"-"`
	LongPollSeconds  int           `yaml:"long_poll_seconds"`
	LongPoll         time.Duration `yaml:"-"`
	ShutdownSeconds  int           `yaml:"shutdown_seconds"`
	ShutdownDeadline time.Duration `yaml:"-"`
}

// StoreConfig selects where reminder settings live.
type StoreConfig struct {
	// Backend is one of "sqlite", "postgres" or "file".
	Backend                string `yaml:"backend"`
	Path                   string `yaml:"path"`
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// SchedulerConfig holds the coordinator's timer periods.
type SchedulerConfig struct {
	FrameIntervalMs          int           `yaml:"frame_interval_ms"`
	FrameInterval            time.Duration `yaml:"-"`
	HydrationIntervalSeconds int           `yaml:"hydration_interval_seconds"`
	HydrationInterval        time.Duration `yaml:"-"`
	TodoIntervalSeconds      int           `yaml:"todo_interval_seconds"`
	TodoInterval             time.Duration `yaml:"-"`
	NotificationTTLMs        int           `yaml:"notification_ttl_ms"`
	NotificationTTL          time.Duration `yaml:"-"`
}

// NotificationConfig holds the message filter and worker pool settings.
type NotificationConfig struct {
	AllowList     []string      `yaml:"allow_list"`
	DedupeSeconds int           `yaml:"dedupe_seconds"`
	Dedupe        time.Duration `yaml:"-"`
	Workers       int           `yaml:"workers"`
}

// DeviceConfig holds the debouncer and watcher settings.
type DeviceConfig struct {
	CooldownMs int             `yaml:"cooldown_ms"`
	Cooldown   time.Duration   `yaml:"-"`
	Removable  RemovableConfig `yaml:"removable"`
}

// RemovableConfig configures the removable-drive watcher.
type RemovableConfig struct {
	Enabled       bool          `yaml:"enabled"`
	PollSeconds   int           `yaml:"poll_seconds"`
	Poll          time.Duration `yaml:"-"`
	MountPrefixes []string      `yaml:"mount_prefixes"`
}

// SizeConfig overrides the pixel size of one size category.
type SizeConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Enabled:         true,
			Port:            8765,
			RateLimitPerSec: 20,
			RateLimitBurst:  40,
			CacheTTLSeconds: 5,
			LongPollSeconds: 25,
			ShutdownSeconds: 5,
		},
		Log: logger.Config{Level: "info", Output: "stdout"},
		Store: StoreConfig{
			Backend:      "sqlite",
			Path:         "./data/island.db",
			MaxOpenConns: 4,
			MaxIdleConns: 2,
		},
		Scheduler: SchedulerConfig{
			FrameIntervalMs:          16,
			HydrationIntervalSeconds: 30,
			TodoIntervalSeconds:      15,
			NotificationTTLMs:        3000,
		},
		Notifications: NotificationConfig{
			AllowList:     []string{"WeChat", "微信", "QQ"},
			DedupeSeconds: 10,
			Workers:       1,
		},
		Devices: DeviceConfig{
			CooldownMs: 2000,
			Removable: RemovableConfig{
				Enabled:     true,
				PollSeconds: 2,
			},
		},
	}
	cfg.normalize()
	return cfg
}

// Path resolves the config file location from the flag value and the
// CONFIG_PATH environment variable.
func Path(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return DefaultPath
}

// Load reads the configuration from the given path over Default. A missing
// file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Info().Str("path", path).Msg("config file not found, using defaults")
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}

	cfg.normalize()
	return cfg, nil
}

func (cfg *Config) normalize() {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		logger.Warn().Int("port", cfg.Server.Port).Msg("server.port is invalid; defaulting to 8765")
		cfg.Server.Port = 8765
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 20
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = int(cfg.Server.RateLimitPerSec * 2)
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 5
	}
	cfg.Server.CacheTTL = time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	if cfg.Server.LongPollSeconds <= 0 {
		cfg.Server.LongPollSeconds = 25
	}
	cfg.Server.LongPoll = time.Duration(cfg.Server.LongPollSeconds) * time.Second
	if cfg.Server.ShutdownSeconds <= 0 {
		cfg.Server.ShutdownSeconds = 5
	}
	cfg.Server.ShutdownDeadline = time.Duration(cfg.Server.ShutdownSeconds) * time.Second

	switch cfg.Store.Backend {
	case "sqlite", "postgres", "file":
	default:
		logger.Warn().Str("backend", cfg.Store.Backend).Msg("store.backend is not recognized; defaulting to sqlite")
		cfg.Store.Backend = "sqlite"
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = "./data/island.db"
	}
	if cfg.Store.Backend == "file" && strings.HasSuffix(cfg.Store.Path, ".db") {
		cfg.Store.Path = strings.TrimSuffix(cfg.Store.Path, ".db") + ".yaml"
	}

	if cfg.Scheduler.FrameIntervalMs <= 0 {
		cfg.Scheduler.FrameIntervalMs = 16
	}
	cfg.Scheduler.FrameInterval = time.Duration(cfg.Scheduler.FrameIntervalMs) * time.Millisecond
	if cfg.Scheduler.HydrationIntervalSeconds <= 0 {
		cfg.Scheduler.HydrationIntervalSeconds = 30
	}
	cfg.Scheduler.HydrationInterval = time.Duration(cfg.Scheduler.HydrationIntervalSeconds) * time.Second
	if cfg.Scheduler.TodoIntervalSeconds <= 0 {
		cfg.Scheduler.TodoIntervalSeconds = 15
	}
	cfg.Scheduler.TodoInterval = time.Duration(cfg.Scheduler.TodoIntervalSeconds) * time.Second
	if cfg.Scheduler.NotificationTTLMs <= 0 {
		cfg.Scheduler.NotificationTTLMs = 3000
	}
	cfg.Scheduler.NotificationTTL = time.Duration(cfg.Scheduler.NotificationTTLMs) * time.Millisecond

	if cfg.Notifications.DedupeSeconds <= 0 {
		cfg.Notifications.DedupeSeconds = 10
	}
	cfg.Notifications.Dedupe = time.Duration(cfg.Notifications.DedupeSeconds) * time.Second
	if cfg.Notifications.Workers <= 0 {
		logger.Warn().Msg("notifications.workers is not set or invalid; defaulting to 1")
		cfg.Notifications.Workers = 1
	}

	if cfg.Devices.CooldownMs <= 0 {
		cfg.Devices.CooldownMs = 2000
	}
	cfg.Devices.Cooldown = time.Duration(cfg.Devices.CooldownMs) * time.Millisecond
	if cfg.Devices.Removable.PollSeconds <= 0 {
		cfg.Devices.Removable.PollSeconds = 2
	}
	cfg.Devices.Removable.Poll = time.Duration(cfg.Devices.Removable.PollSeconds) * time.Second
}
