package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Load reads configuration from the specified YAML file and environment variables.
// Environment variables take precedence over file values.
// Environment variable format: INSPECT_<SECTION>_<KEY> (e.g., INSPECT_PUSH_TOKEN)
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		return nil, fmt.Errorf("config file path is required")
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", configPath)
	}

	v := newViper()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return unmarshal(v)
}

// Default returns the built-in configuration with environment overrides applied.
// It is used when no config file is given.
func Default() (*Config, error) {
	return unmarshal(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()

	// Set defaults first
	setDefaults(v)

	// Configure environment variable binding
	v.SetEnvPrefix("INSPECT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults sets default values for all configuration options.
func setDefaults(v *viper.Viper) {
	// Inspection defaults
	v.SetDefault("inspection.concurrency", 20)
	v.SetDefault("inspection.commands_file", "")

	// Thresholds defaults
	v.SetDefault("thresholds.cpu_usage", 80.0)
	v.SetDefault("thresholds.memory_usage", 80.0)

	// Report defaults
	v.SetDefault("report.output_dir", "./reports")
	v.SetDefault("report.formats", []string{"excel", "html"})
	v.SetDefault("report.filename_template", "device_inspection_{{.Date}}")
	v.SetDefault("report.html_template", "")
	v.SetDefault("report.timezone", "Asia/Shanghai")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	// HTTP retry defaults
	v.SetDefault("http.retry.max_retries", 3)
	v.SetDefault("http.retry.base_delay", 1*time.Second)

	// Push defaults
	v.SetDefault("push.enabled", false)
	v.SetDefault("push.endpoint", "")
	v.SetDefault("push.token", "")
	v.SetDefault("push.timeout", 30*time.Second)
}
