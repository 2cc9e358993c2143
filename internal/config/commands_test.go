package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"device-inspection/internal/model"
)

func writeCommands(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "commands.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultCommands(t *testing.T) {
	catalog := DefaultCommands()

	huawei := catalog.For(model.VendorHuawei)
	assert.Contains(t, huawei, "display alarm active")
	assert.Contains(t, huawei, "display interface brief")
	assert.Contains(t, huawei, "display temperature all")

	h3c := catalog.For(model.VendorH3C)
	assert.Contains(t, h3c, "display counters inbound interface")
	assert.Contains(t, h3c, "display counters outbound interface")
	assert.Contains(t, h3c, "display environment")

	assert.Nil(t, catalog.For(model.VendorUnknown))
}

func TestLoadCommands(t *testing.T) {
	path := writeCommands(t, `
vendors:
  huawei_vrp:
    - display version
    - display cpu
  hp_comware:
    - display version
`)

	catalog, err := LoadCommands(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"display version", "display cpu"}, catalog.For(model.VendorHuawei))
	assert.Equal(t, []string{"display version"}, catalog.For(model.VendorH3C))
}

func TestLoadCommands_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no vendors", "vendors: {}"},
		{"unsupported vendor", "vendors:\n  cisco_ios:\n    - show version"},
		{"empty list", "vendors:\n  huawei: []"},
		{"empty command", "vendors:\n  h3c:\n    - \"\""},
		{"bad yaml", "vendors: [unclosed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCommands(writeCommands(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadCommands_MissingFile(t *testing.T) {
	_, err := LoadCommands("")
	assert.Error(t, err)

	_, err = LoadCommands("/nonexistent/commands.yaml")
	assert.Error(t, err)
}

func TestCommandCatalog_NilSafe(t *testing.T) {
	var catalog *CommandCatalog
	assert.Nil(t, catalog.For(model.VendorHuawei))
}
