package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/qudata/hostmon/internal/domain"
)

// Build-time variables injected via -ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// Config holds all sampler configuration. Values come from defaults, then an
// optional YAML file, then HOSTMON_* environment variables.
type Config struct {
	// Listen is the address of the HTTP presentation adapter.
	Listen string `yaml:"listen"`

	// Token, when set, is required in the X-Hostmon-Token header.
	Token string `yaml:"token"`

	// Interval is the tick period of the update loop.
	Interval time.Duration `yaml:"interval"`

	// ModuleTimeout bounds a single capability module sample.
	ModuleTimeout time.Duration `yaml:"module_timeout"`

	// HistorySize is the number of snapshots kept in memory for sparklines.
	HistorySize int `yaml:"history_size"`

	// Capabilities is the enable-set, fixed for the life of the process.
	Capabilities domain.Capabilities `yaml:"capabilities"`

	Network NetworkConfig `yaml:"network"`
	Disk    DiskConfig    `yaml:"disk"`

	// Debug enables verbose logging.
	Debug bool `yaml:"debug"`

	// LogDir is the directory for log files. Empty logs to stderr only.
	LogDir string `yaml:"log_dir"`

	// DataDir holds the persistent host id.
	DataDir string `yaml:"data_dir"`
}

// NetworkConfig selects which interfaces are summed into throughput.
type NetworkConfig struct {
	// Interfaces restricts the sum to these names. Empty means all.
	Interfaces      []string `yaml:"interfaces"`
	IncludeLoopback bool     `yaml:"include_loopback"`
}

// DiskConfig selects which mountpoints are summed into disk usage.
type DiskConfig struct {
	// Paths restricts the sum to these mountpoints. Empty means every physical partition.
	Paths []string `yaml:"paths"`
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Listen:        "127.0.0.1:9110",
		Interval:      time.Second,
		ModuleTimeout: 250 * time.Millisecond,
		HistorySize:   120,
		Capabilities:  domain.AllCapabilities(),
		DataDir:       defaultDataDir(),
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "hostmon")
	}
	return filepath.Join(home, ".hostmon")
}

// Load builds the configuration. path may be empty, in which case
// HOSTMON_CONFIG is consulted; a missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = os.Getenv("HOSTMON_CONFIG")
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("HOSTMON_LISTEN"); v != "" {
		c.Listen = v
	}

	if v := os.Getenv("HOSTMON_TOKEN"); v != "" {
		c.Token = strings.TrimSpace(v)
	}

	if v := os.Getenv("HOSTMON_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return domain.ErrConfig{Field: "HOSTMON_INTERVAL", Reason: err.Error()}
		}
		c.Interval = d
	}

	if v := os.Getenv("HOSTMON_MODULE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return domain.ErrConfig{Field: "HOSTMON_MODULE_TIMEOUT", Reason: err.Error()}
		}
		c.ModuleTimeout = d
	}

	if v := os.Getenv("HOSTMON_HISTORY_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return domain.ErrConfig{Field: "HOSTMON_HISTORY_SIZE", Reason: err.Error()}
		}
		c.HistorySize = n
	}

	for name, dst := range map[string]*bool{
		"HOSTMON_ENABLE_BATTERY":           &c.Capabilities.Battery,
		"HOSTMON_ENABLE_NETWORK":           &c.Capabilities.Network,
		"HOSTMON_ENABLE_DISK":              &c.Capabilities.Disk,
		"HOSTMON_NETWORK_INCLUDE_LOOPBACK": &c.Network.IncludeLoopback,
		"HOSTMON_DEBUG":                    &c.Debug,
	} {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return domain.ErrConfig{Field: name, Reason: err.Error()}
		}
		*dst = b
	}

	if v := os.Getenv("HOSTMON_NETWORK_INTERFACES"); v != "" {
		c.Network.Interfaces = splitList(v)
	}

	if v := os.Getenv("HOSTMON_DISK_PATHS"); v != "" {
		c.Disk.Paths = splitList(v)
	}

	if v := os.Getenv("HOSTMON_LOG_DIR"); v != "" {
		c.LogDir = v
	}

	if v := os.Getenv("HOSTMON_DATA_DIR"); v != "" {
		c.DataDir = v
	}

	return nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if c.Listen == "" {
		return domain.ErrConfig{Field: "listen", Reason: "must not be empty"}
	}
	if c.Interval < 100*time.Millisecond {
		return domain.ErrConfig{Field: "interval", Reason: "must be at least 100ms"}
	}
	if c.ModuleTimeout <= 0 {
		return domain.ErrConfig{Field: "module_timeout", Reason: "must be positive"}
	}
	if c.ModuleTimeout >= c.Interval {
		return domain.ErrConfig{Field: "module_timeout", Reason: "must be shorter than interval"}
	}
	if c.HistorySize < 1 {
		return domain.ErrConfig{Field: "history_size", Reason: "must be at least 1"}
	}
	if c.DataDir == "" {
		return domain.ErrConfig{Field: "data_dir", Reason: "must not be empty"}
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// NewLogger creates a structured logger writing JSON to stderr and, when
// LogDir is set, to <LogDir>/<name>.log as well.
func NewLogger(cfg *Config, name string) (*slog.Logger, error) {
	var w io.Writer = os.Stderr

	if cfg.LogDir != "" {
		if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}

		logPath := filepath.Join(cfg.LogDir, name+".log")
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file %s: %w", logPath, err)
		}
		w = io.MultiWriter(os.Stderr, file)
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler), nil
}
