package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"

	"device-inspection/internal/config"
	"device-inspection/internal/model"
	"device-inspection/internal/service"
)

// inspectDirectoryTimeout bounds a directory run started from a tool call.
const inspectDirectoryTimeout = 5 * time.Minute

type handlers struct {
	runner     *service.Runner
	inspection *service.Inspection
	catalog    *config.CommandCatalog
	logger     zerolog.Logger
}

// handleInspectText inspects a capture passed inline.
func (h *handlers) handleInspectText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := getArgs(request)

	text := stringArg(args, "text", "")
	if text == "" {
		return errResult("text is required"), nil
	}
	source := stringArg(args, "source", "inline")
	vendor := model.ParseVendor(stringArg(args, "vendor", ""))

	report, ok := h.runner.InspectTextAs(source, text, vendor)
	if !ok {
		return errResult(service.ErrUnsupportedVendor.Error()), nil
	}

	h.logger.Debug().
		Str("source", source).
		Str("vendor", string(report.Vendor)).
		Str("status", string(report.OverallStatus())).
		Msg("inspected inline capture")

	return jsonResult(map[string]interface{}{
		"source":  report.Source,
		"vendor":  report.Vendor,
		"status":  report.OverallStatus(),
		"summary": report.OverallText(),
		"results": report.Results,
	})
}

// handleInspectDirectory runs a batch over a directory.
func (h *handlers) handleInspectDirectory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := getArgs(request)

	path := stringArg(args, "path", "")
	if path == "" {
		return errResult("path is required"), nil
	}

	ctx, cancel := context.WithTimeout(ctx, inspectDirectoryTimeout)
	defer cancel()

	result, err := h.inspection.Run(ctx, path)
	if err != nil {
		return errResult(fmt.Sprintf("inspection failed: %v", err)), nil
	}

	if boolArg(args, "problems_only") {
		filtered := make([]*model.InspectionReport, 0, len(result.Reports))
		for _, r := range result.Reports {
			if len(r.Problems()) > 0 {
				filtered = append(filtered, r)
			}
		}
		result.Reports = filtered
	}

	return jsonResult(result)
}

// handleListCommands lists the expected display commands per vendor.
func (h *handlers) handleListCommands(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := getArgs(request)

	name := stringArg(args, "vendor", "")
	if name != "" {
		vendor := model.ParseVendor(name)
		if !vendor.IsSupported() {
			return errResult(fmt.Sprintf("unsupported vendor: %s", name)), nil
		}
		return jsonResult(map[string][]string{string(vendor): h.catalog.For(vendor)})
	}

	vendors := make([]string, 0, len(h.catalog.Vendors))
	for v := range h.catalog.Vendors {
		vendors = append(vendors, v)
	}
	sort.Strings(vendors)

	out := make(map[string][]string, len(vendors))
	for _, v := range vendors {
		out[v] = h.catalog.Vendors[v]
	}
	return jsonResult(out)
}

// getArgs safely extracts the arguments map from a CallToolRequest.
func getArgs(request mcp.CallToolRequest) map[string]interface{} {
	if request.Params.Arguments == nil {
		return map[string]interface{}{}
	}
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return map[string]interface{}{}
	}
	return args
}

// stringArg extracts a string argument with a default value.
func stringArg(args map[string]interface{}, key, defaultVal string) string {
	val, ok := args[key]
	if !ok || val == nil {
		return defaultVal
	}
	s, ok := val.(string)
	if !ok || s == "" {
		return defaultVal
	}
	return s
}

func boolArg(args map[string]interface{}, key string) bool {
	b, _ := args[key].(bool)
	return b
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errResult(fmt.Sprintf("json marshal failed: %v", err)), nil
	}
	return newTextResult(string(data)), nil
}

// newTextResult creates a successful MCP tool result with text content.
func newTextResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: text,
			},
		},
	}
}

// errResult creates an MCP tool error result (IsError=true).
func errResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: msg,
			},
		},
	}
}
