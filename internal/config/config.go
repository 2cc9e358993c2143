// Package config provides configuration management for the device inspection tool.
package config

import "time"

// Config is the root configuration structure for the device inspection tool.
type Config struct {
	Inspection InspectionConfig `mapstructure:"inspection"`
	Thresholds ThresholdsConfig `mapstructure:"thresholds"`
	Report     ReportConfig     `mapstructure:"report"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	HTTP       HTTPConfig       `mapstructure:"http"`
	Push       PushConfig       `mapstructure:"push"`
}

// InspectionConfig contains configurations for batch inspection behavior.
type InspectionConfig struct {
	Concurrency  int    `mapstructure:"concurrency" validate:"gte=1,lte=256"`
	CommandsFile string `mapstructure:"commands_file"` // Optional per-vendor command catalog (YAML)
}

// ThresholdsConfig contains usage thresholds in percent.
// A value at or above the threshold is reported as abnormal.
type ThresholdsConfig struct {
	CPUUsage    float64 `mapstructure:"cpu_usage" validate:"gt=0,lte=100"`    // Default: 80
	MemoryUsage float64 `mapstructure:"memory_usage" validate:"gt=0,lte=100"` // Default: 80
}

// ReportConfig contains configurations for report generation.
type ReportConfig struct {
	OutputDir        string   `mapstructure:"output_dir"`
	Formats          []string `mapstructure:"formats" validate:"dive,oneof=excel html json"`
	FilenameTemplate string   `mapstructure:"filename_template"`
	HTMLTemplate     string   `mapstructure:"html_template"`
	Timezone         string   `mapstructure:"timezone"`
}

// LoggingConfig contains configurations for logging.
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}

// HTTPConfig contains HTTP client configurations including retry settings.
type HTTPConfig struct {
	Retry RetryConfig `mapstructure:"retry"`
}

// RetryConfig defines retry behavior for HTTP requests.
type RetryConfig struct {
	MaxRetries int           `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	BaseDelay  time.Duration `mapstructure:"base_delay"`
}

// PushConfig contains configuration for pushing batch results to a
// collecting HTTP endpoint.
type PushConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Endpoint string        `mapstructure:"endpoint" validate:"omitempty,url"`
	Token    string        `mapstructure:"token"`
	Timeout  time.Duration `mapstructure:"timeout"`
}
