package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr            string        `yaml:"addr"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Data struct {
		Dir       string `yaml:"dir"`
		SourceURL string `yaml:"source_url"`
	} `yaml:"data"`
	Loader struct {
		Workers int           `yaml:"workers"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"loader"`
	Analytics struct {
		Windows           []int   `yaml:"windows"`
		TrimDays          int     `yaml:"trim_days"`
		RemoveOutliers    bool    `yaml:"remove_outliers"`
		OutlierThreshold  float64 `yaml:"outlier_threshold"`
		ProjectionHorizon int     `yaml:"projection_horizon"`
		ProjectionWindow  int     `yaml:"projection_window"`
	} `yaml:"analytics"`
	Schedule struct {
		RebuildCron string `yaml:"rebuild_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Catalog []Collection `yaml:"catalog"`
}

// Collection lists the items of one collection by tier name.
type Collection struct {
	Name  string              `yaml:"name"`
	Title string              `yaml:"title"`
	Tiers map[string][]string `yaml:"tiers"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	// Defaults where zero is a valid setting go in before decoding.
	cfg.Analytics.RemoveOutliers = true
	cfg.Analytics.ProjectionHorizon = 12

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("SKININDEX_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("SKININDEX_DATA_DIR"); v != "" {
		cfg.Data.Dir = v
	}
	if v := os.Getenv("SKININDEX_SOURCE_URL"); v != "" {
		cfg.Data.SourceURL = v
	}
	if v := os.Getenv("LOADER_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Loader.Workers = n
		}
	}
	if v := os.Getenv("REBUILD_CRON"); v != "" {
		cfg.Schedule.RebuildCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("MA_WINDOWS"); v != "" {
		if windows, err := ParseWindows(v); err == nil {
			cfg.Analytics.Windows = windows
		}
	}

	// Defaults
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 10 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Data.Dir == "" {
		cfg.Data.Dir = "data"
	}
	if cfg.Loader.Workers == 0 {
		cfg.Loader.Workers = 8
	}
	if cfg.Loader.Timeout == 0 {
		cfg.Loader.Timeout = 30 * time.Second
	}
	if len(cfg.Analytics.Windows) == 0 {
		cfg.Analytics.Windows = []int{7, 30, 180, 365}
	}
	if cfg.Analytics.OutlierThreshold == 0 {
		cfg.Analytics.OutlierThreshold = 3.0
	}
	if cfg.Analytics.ProjectionWindow == 0 {
		cfg.Analytics.ProjectionWindow = 30
	}
	if cfg.Schedule.RebuildCron == "" {
		cfg.Schedule.RebuildCron = "0 0 4 * * *"
	}

	return cfg, nil
}

// Validate checks that all settings are usable.
func (c *Config) Validate() error {
	if c.Loader.Workers <= 0 {
		return fmt.Errorf("loader.workers must be positive")
	}
	if c.Data.Dir == "" && c.Data.SourceURL == "" {
		return fmt.Errorf("data.dir or data.source_url is required")
	}
	for _, w := range c.Analytics.Windows {
		if w <= 0 {
			return fmt.Errorf("analytics.windows: %d is not a positive window", w)
		}
	}
	if c.Analytics.TrimDays < 0 {
		return fmt.Errorf("analytics.trim_days must not be negative")
	}
	if c.Analytics.OutlierThreshold <= 0 {
		return fmt.Errorf("analytics.outlier_threshold must be positive")
	}
	if c.Analytics.ProjectionHorizon < 0 {
		return fmt.Errorf("analytics.projection_horizon must not be negative")
	}
	if c.Analytics.ProjectionWindow <= 0 {
		return fmt.Errorf("analytics.projection_window must be positive")
	}
	seen := make(map[string]bool, len(c.Catalog))
	for _, col := range c.Catalog {
		if col.Name == "" {
			return fmt.Errorf("catalog: collection without a name")
		}
		if seen[col.Name] {
			return fmt.Errorf("catalog: duplicate collection %q", col.Name)
		}
		seen[col.Name] = true
	}
	return nil
}

// ParseWindows parses a comma separated list of positive window sizes.
func ParseWindows(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("window %q: %w", part, err)
		}
		if n <= 0 {
			return nil, fmt.Errorf("window %d must be positive", n)
		}
		out = append(out, n)
	}
	return out, nil
}
