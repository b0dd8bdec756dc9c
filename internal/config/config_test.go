package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/modelcycles/yongent/internal/config"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, path, exists, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if exists {
		t.Fatal("expected missing config file")
	}
	if path == "" {
		t.Fatal("expected resolved path")
	}
	if cfg.Metadata.Placeholder != "확인 필요" {
		t.Fatalf("unexpected default placeholder: %q", cfg.Metadata.Placeholder)
	}
	if cfg.YtDlp.SearchLimit != 10 {
		t.Fatalf("unexpected default search limit: %d", cfg.YtDlp.SearchLimit)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
output_dir = "` + filepath.Join(dir, "music") + `"

[metadata]
placeholder = "unknown"
publisher_keywords = ["official"]

[workflow]
max_concurrent_jobs = 4
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be found")
	}
	if cfg.Metadata.Placeholder != "unknown" {
		t.Fatalf("override not applied: %q", cfg.Metadata.Placeholder)
	}
	if len(cfg.Metadata.PublisherKeywords) != 1 || cfg.Metadata.PublisherKeywords[0] != "official" {
		t.Fatalf("unexpected publisher keywords: %v", cfg.Metadata.PublisherKeywords)
	}
	if cfg.Workflow.MaxConcurrentJobs != 4 {
		t.Fatalf("unexpected concurrency: %d", cfg.Workflow.MaxConcurrentJobs)
	}
	if !filepath.IsAbs(cfg.Paths.OutputDir) {
		t.Fatalf("expected absolute output dir, got %q", cfg.Paths.OutputDir)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"empty output dir", func(c *config.Config) { c.Paths.OutputDir = "" }, "output_dir"},
		{"zero search limit", func(c *config.Config) { c.YtDlp.SearchLimit = 0 }, "search_limit"},
		{"fade longer than clip", func(c *config.Config) { c.Clip.FadeSeconds = 120 }, "fade_seconds"},
		{"zero concurrency", func(c *config.Config) { c.Workflow.MaxConcurrentJobs = 0 }, "max_concurrent_jobs"},
		{"negative melon timeout", func(c *config.Config) { c.Melon.RequestTimeout = -1 }, "request_timeout"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.OutputDir = filepath.Join(base, "out")
	cfg.Paths.StagingDir = filepath.Join(base, "staging")
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.OutputDir, cfg.Paths.StagingDir, cfg.Paths.StateDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %q to exist", dir)
		}
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[ytdlp]") {
		t.Fatal("sample config missing ytdlp section")
	}
}
