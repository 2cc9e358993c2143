package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// writeConfig writes content to a temporary YAML file and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func TestLoad_Success(t *testing.T) {
	content := `
inspection:
  concurrency: 8
thresholds:
  cpu_usage: 75
report:
  formats: [excel, json]
`
	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Verify file values
	if cfg.Inspection.Concurrency != 8 {
		t.Errorf("Concurrency = %v, want 8", cfg.Inspection.Concurrency)
	}
	if cfg.Thresholds.CPUUsage != 75 {
		t.Errorf("CPUUsage = %v, want 75", cfg.Thresholds.CPUUsage)
	}
	if len(cfg.Report.Formats) != 2 || cfg.Report.Formats[1] != "json" {
		t.Errorf("Formats = %v, want [excel json]", cfg.Report.Formats)
	}

	// Verify defaults
	if cfg.Thresholds.MemoryUsage != 80 {
		t.Errorf("MemoryUsage = %v, want 80", cfg.Thresholds.MemoryUsage)
	}
	if cfg.HTTP.Retry.MaxRetries != 3 {
		t.Errorf("MaxRetries = %v, want 3", cfg.HTTP.Retry.MaxRetries)
	}
	if cfg.Report.Timezone != "Asia/Shanghai" {
		t.Errorf("Timezone = %v, want Asia/Shanghai", cfg.Report.Timezone)
	}
	if cfg.Push.Timeout != 30*time.Second {
		t.Errorf("Push.Timeout = %v, want 30s", cfg.Push.Timeout)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	if err == nil {
		t.Error("Load() should return error for nonexistent file")
	}
}

func TestLoad_EmptyPath(t *testing.T) {
	_, err := Load("")
	if err == nil {
		t.Error("Load() should return error for empty path")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	content := `
thresholds:
  memory_usage: 120
`
	_, err := Load(writeConfig(t, content))
	if err == nil {
		t.Fatal("Load() should return error for memory_usage > 100")
	}
	if _, ok := err.(ValidationErrors); !ok {
		t.Errorf("Load() error type = %T, want ValidationErrors", err)
	}
}

func TestLoad_EnvironmentOverride(t *testing.T) {
	content := `
push:
  enabled: true
  endpoint: "http://collector.local/api/inspections"
  token: "file-token"
`
	t.Setenv("INSPECT_PUSH_TOKEN", "env-token")

	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Environment variable should override file value
	if cfg.Push.Token != "env-token" {
		t.Errorf("Push token = %v, want env-token (env override)", cfg.Push.Token)
	}
}

func TestDefault(t *testing.T) {
	cfg, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}

	if cfg.Inspection.Concurrency != 20 {
		t.Errorf("Concurrency = %v, want 20", cfg.Inspection.Concurrency)
	}
	if cfg.Thresholds.CPUUsage != 80 || cfg.Thresholds.MemoryUsage != 80 {
		t.Errorf("Thresholds = %+v, want 80/80", cfg.Thresholds)
	}
	if cfg.Push.Enabled {
		t.Error("Push should be disabled by default")
	}
}

func TestDefault_EnvironmentOverride(t *testing.T) {
	t.Setenv("INSPECT_INSPECTION_CONCURRENCY", "4")

	cfg, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	if cfg.Inspection.Concurrency != 4 {
		t.Errorf("Concurrency = %v, want 4 (env override)", cfg.Inspection.Concurrency)
	}
}
