package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"device-inspection/internal/model"
)

// CommandCatalog lists the diagnostic commands a collector runs per vendor.
// The inspection categories read the outputs of these commands.
type CommandCatalog struct {
	Vendors map[string][]string `yaml:"vendors"`
}

// DefaultCommands returns the built-in command catalog.
func DefaultCommands() *CommandCatalog {
	return &CommandCatalog{
		Vendors: map[string][]string{
			string(model.VendorHuawei): {
				"display version",
				"display cpu",
				"display memory",
				"display alarm active",
				"display device",
				"display interface brief",
				"display clock",
				"display ntp status",
				"display temperature all",
				"display logbuffer",
			},
			string(model.VendorH3C): {
				"display version",
				"display cpu",
				"display memory",
				"display power",
				"display fan",
				"display alarm",
				"display environment",
				"display counters inbound interface",
				"display counters outbound interface",
				"display clock",
				"display ntp status",
				"display logbuffer",
			},
		},
	}
}

// LoadCommands reads a command catalog from the specified YAML file.
// Vendor keys accept the same aliases as model.ParseVendor.
func LoadCommands(commandsPath string) (*CommandCatalog, error) {
	if commandsPath == "" {
		return nil, fmt.Errorf("commands file path is required")
	}

	// Check if file exists
	if _, err := os.Stat(commandsPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("commands file not found: %s", commandsPath)
	}

	// Read file content
	data, err := os.ReadFile(commandsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read commands file: %w", err)
	}

	// Parse YAML
	var raw CommandCatalog
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse commands file: %w", err)
	}

	if len(raw.Vendors) == 0 {
		return nil, fmt.Errorf("no vendors defined in file: %s", commandsPath)
	}

	catalog := &CommandCatalog{Vendors: make(map[string][]string, len(raw.Vendors))}
	for name, commands := range raw.Vendors {
		vendor := model.ParseVendor(name)
		if !vendor.IsSupported() {
			return nil, fmt.Errorf("unsupported vendor %q in commands file", name)
		}
		if len(commands) == 0 {
			return nil, fmt.Errorf("vendor %q has no commands", name)
		}
		for i, cmd := range commands {
			if cmd == "" {
				return nil, fmt.Errorf("vendor %q command at index %d is empty", name, i)
			}
		}
		catalog.Vendors[string(vendor)] = append(catalog.Vendors[string(vendor)], commands...)
	}

	return catalog, nil
}

// For returns the commands for a vendor, or nil if none are defined.
func (c *CommandCatalog) For(vendor model.Vendor) []string {
	if c == nil {
		return nil
	}
	return c.Vendors[string(vendor)]
}
