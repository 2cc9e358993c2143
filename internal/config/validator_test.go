package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// newValidConfig creates a valid configuration for testing.
func newValidConfig() *Config {
	return &Config{
		Inspection: InspectionConfig{
			Concurrency: 20,
		},
		Thresholds: ThresholdsConfig{
			CPUUsage:    80,
			MemoryUsage: 80,
		},
		Report: ReportConfig{
			OutputDir:        "./reports",
			Formats:          []string{"excel", "html"},
			FilenameTemplate: "device_inspection_{{.Date}}",
			Timezone:         "Asia/Shanghai",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		HTTP: HTTPConfig{
			Retry: RetryConfig{
				MaxRetries: 3,
				BaseDelay:  1 * time.Second,
			},
		},
		Push: PushConfig{
			Timeout: 30 * time.Second,
		},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := newValidConfig()

	err := Validate(cfg)
	if err != nil {
		t.Errorf("Validate() error = %v, want nil for valid config", err)
	}
}

func TestValidate_ConcurrencyRange(t *testing.T) {
	tests := []struct {
		name        string
		concurrency int
		wantErr     bool
	}{
		{"zero", 0, true},
		{"one", 1, false},
		{"default", 20, false},
		{"max", 256, false},
		{"too high", 257, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newValidConfig()
			cfg.Inspection.Concurrency = tt.concurrency

			err := Validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !strings.Contains(err.Error(), "inspection.concurrency") {
				t.Errorf("error should mention field 'inspection.concurrency', got: %s", err.Error())
			}
		})
	}
}

func TestValidate_ThresholdRange(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		wantErr bool
	}{
		{"zero", 0, true},
		{"negative", -5, true},
		{"low", 1, false},
		{"hundred", 100, false},
		{"over hundred", 100.5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newValidConfig()
			cfg.Thresholds.CPUUsage = tt.value

			err := Validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !strings.Contains(err.Error(), "thresholds.cpu_usage") {
				t.Errorf("error should mention 'thresholds.cpu_usage', got: %s", err.Error())
			}
		})
	}
}

func TestValidate_InvalidReportFormat(t *testing.T) {
	cfg := newValidConfig()
	cfg.Report.Formats = []string{"excel", "pdf"}

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Validate() should return error for invalid report format")
	}
	if !strings.Contains(err.Error(), "report.formats") {
		t.Errorf("error should mention 'report.formats', got: %s", err.Error())
	}
}

func TestValidate_JSONReportFormat(t *testing.T) {
	cfg := newValidConfig()
	cfg.Report.Formats = []string{"json"}

	if err := Validate(cfg); err != nil {
		t.Errorf("Validate() error = %v, want nil for json format", err)
	}
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := newValidConfig()
	cfg.Logging.Level = "verbose"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Validate() should return error for invalid log level")
	}
	if !strings.Contains(err.Error(), "logging.level") {
		t.Errorf("error should mention 'logging.level', got: %s", err.Error())
	}
}

func TestValidate_InvalidLogFormat(t *testing.T) {
	cfg := newValidConfig()
	cfg.Logging.Format = "xml"

	if err := Validate(cfg); err == nil {
		t.Fatal("Validate() should return error for invalid log format")
	}
}

func TestValidate_InvalidTimezone(t *testing.T) {
	cfg := newValidConfig()
	cfg.Report.Timezone = "Invalid/Timezone"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Validate() should return error for invalid timezone")
	}
	if !strings.Contains(err.Error(), "report.timezone") {
		t.Errorf("error should mention 'report.timezone', got: %s", err.Error())
	}
}

func TestValidate_EmptyTimezone(t *testing.T) {
	cfg := newValidConfig()
	cfg.Report.Timezone = ""

	if err := Validate(cfg); err != nil {
		t.Errorf("Validate() error = %v, want nil for empty timezone", err)
	}
}

func TestValidate_PushEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		enabled  bool
		endpoint string
		wantErr  bool
	}{
		{"disabled without endpoint", false, "", false},
		{"enabled without endpoint", true, "", true},
		{"enabled with endpoint", true, "http://collector.local/api", false},
		{"invalid url", true, "not a url", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newValidConfig()
			cfg.Push.Enabled = tt.enabled
			cfg.Push.Endpoint = tt.endpoint

			err := Validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !strings.Contains(err.Error(), "push.endpoint") {
				t.Errorf("error should mention 'push.endpoint', got: %s", err.Error())
			}
		})
	}
}

func TestValidate_CommandsFile(t *testing.T) {
	cfg := newValidConfig()
	cfg.Inspection.CommandsFile = "/nonexistent/commands.yaml"

	err := Validate(cfg)
	if err == nil || !strings.Contains(err.Error(), "inspection.commands_file") {
		t.Errorf("Validate() error = %v, want commands_file error", err)
	}

	path := filepath.Join(t.TempDir(), "commands.yaml")
	if err := os.WriteFile(path, []byte("vendors: {}"), 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	cfg.Inspection.CommandsFile = path
	if err := Validate(cfg); err != nil {
		t.Errorf("Validate() error = %v, want nil for existing commands file", err)
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := newValidConfig()
	cfg.Inspection.Concurrency = 0   // Error 1
	cfg.Thresholds.MemoryUsage = 200 // Error 2
	cfg.Push.Enabled = true          // Error 3 (no endpoint)

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Validate() should return error for multiple validation failures")
	}

	errs, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("Validate() error type = %T, want ValidationErrors", err)
	}
	if len(errs) != 3 {
		t.Errorf("len(errors) = %d, want 3: %s", len(errs), err.Error())
	}
}

func TestValidate_RetryMaxRetriesRange(t *testing.T) {
	tests := []struct {
		name       string
		maxRetries int
		wantErr    bool
	}{
		{"zero retries", 0, false},
		{"valid retries", 5, false},
		{"max retries", 10, false},
		{"too many retries", 11, true},
		{"negative retries", -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newValidConfig()
			cfg.HTTP.Retry.MaxRetries = tt.maxRetries

			err := Validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Field:   "test.field",
		Tag:     "required",
		Value:   "",
		Message: "this field is required",
	}

	expected := "this field is required"
	if err.Error() != expected {
		t.Errorf("ValidationError.Error() = %v, want %v", err.Error(), expected)
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errors := ValidationErrors{
		{Field: "field1", Message: "error1"},
		{Field: "field2", Message: "error2"},
	}

	errStr := errors.Error()
	if !strings.Contains(errStr, "config validation failed") {
		t.Errorf("ValidationErrors.Error() should contain header, got: %s", errStr)
	}
	if !strings.Contains(errStr, "field1") || !strings.Contains(errStr, "error1") {
		t.Errorf("ValidationErrors.Error() should contain first error, got: %s", errStr)
	}
	if !strings.Contains(errStr, "field2") || !strings.Contains(errStr, "error2") {
		t.Errorf("ValidationErrors.Error() should contain second error, got: %s", errStr)
	}
}

func TestValidationErrors_Empty(t *testing.T) {
	errors := ValidationErrors{}
	if errors.Error() != "" {
		t.Errorf("Empty ValidationErrors.Error() should return empty string, got: %s", errors.Error())
	}
}
