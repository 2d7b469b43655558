package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("expected default addr, got %q", cfg.Server.Addr)
	}
	if !slices.Equal(cfg.Analytics.Windows, []int{7, 30, 180, 365}) {
		t.Errorf("unexpected default windows %v", cfg.Analytics.Windows)
	}
	if !cfg.Analytics.RemoveOutliers {
		t.Error("expected outlier removal on by default")
	}
	if cfg.Analytics.OutlierThreshold != 3.0 {
		t.Errorf("expected threshold 3, got %f", cfg.Analytics.OutlierThreshold)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_YAMLAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
server:
  addr: ":9000"
  shutdown_timeout: 5s
data:
  dir: /srv/skins
analytics:
  windows: [7, 30]
  trim_days: 30
  remove_outliers: false
catalog:
  - name: norse
    title: Norse
    tiers:
      gray: [Barricade, Tornado]
      purple: [AstralJormungandr]
`
	if err := os.WriteFile(path, []byte(yml), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SKININDEX_ADDR", ":9100")
	t.Setenv("LOADER_WORKERS", "3")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != ":9100" {
		t.Errorf("expected env addr, got %q", cfg.Server.Addr)
	}
	if cfg.Server.ShutdownTimeout != 5*time.Second {
		t.Errorf("expected 5s shutdown timeout, got %v", cfg.Server.ShutdownTimeout)
	}
	if cfg.Data.Dir != "/srv/skins" {
		t.Errorf("unexpected data dir %q", cfg.Data.Dir)
	}
	if cfg.Loader.Workers != 3 {
		t.Errorf("expected 3 workers, got %d", cfg.Loader.Workers)
	}
	if cfg.Analytics.RemoveOutliers {
		t.Error("expected outlier removal disabled")
	}
	if cfg.Analytics.TrimDays != 30 {
		t.Errorf("expected trim 30, got %d", cfg.Analytics.TrimDays)
	}
	if len(cfg.Catalog) != 1 || len(cfg.Catalog[0].Tiers["gray"]) != 2 {
		t.Errorf("unexpected catalog %+v", cfg.Catalog)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero workers", func(c *Config) { c.Loader.Workers = 0 }},
		{"bad window", func(c *Config) { c.Analytics.Windows = []int{7, 0} }},
		{"negative trim", func(c *Config) { c.Analytics.TrimDays = -1 }},
		{"no source", func(c *Config) { c.Data.Dir = ""; c.Data.SourceURL = "" }},
		{"duplicate collection", func(c *Config) {
			c.Catalog = []Collection{{Name: "canals"}, {Name: "canals"}}
		}},
	}
	for _, tt := range tests {
		cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
		if err != nil {
			t.Fatal(err)
		}
		tt.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}

func TestParseWindows(t *testing.T) {
	got, err := ParseWindows("7, 30,,365")
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got, []int{7, 30, 365}) {
		t.Errorf("unexpected windows %v", got)
	}
	if _, err := ParseWindows("7,x"); err == nil {
		t.Error("expected error for non-numeric window")
	}
	if _, err := ParseWindows("-2"); err == nil {
		t.Error("expected error for negative window")
	}
}

func TestLoad_ZeroProjectionHorizonIsKept(t *testing.T) {
	tests := []struct {
		name string
		yml  string
		want int
	}{
		{"unset", "analytics:\n  trim_days: 30\n", 12},
		{"explicit zero", "analytics:\n  projection_horizon: 0\n", 0},
		{"explicit value", "analytics:\n  projection_horizon: 4\n", 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.yml), 0644); err != nil {
				t.Fatal(err)
			}
			cfg, err := Load(path)
			if err != nil {
				t.Fatal(err)
			}
			if cfg.Analytics.ProjectionHorizon != tt.want {
				t.Errorf("expected horizon %d, got %d", tt.want, cfg.Analytics.ProjectionHorizon)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("validate: %v", err)
			}
		})
	}
}
