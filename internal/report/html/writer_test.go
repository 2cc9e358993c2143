package html

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"device-inspection/internal/model"
)

func TestNewWriter(t *testing.T) {
	t.Run("nil timezone defaults to Asia/Shanghai", func(t *testing.T) {
		w := NewWriter(nil, "")
		if w.timezone == nil {
			t.Fatal("expected timezone to be set")
		}
		if w.timezone.String() != "Asia/Shanghai" {
			t.Errorf("expected timezone Asia/Shanghai, got %s", w.timezone.String())
		}
	})

	t.Run("custom timezone", func(t *testing.T) {
		loc, _ := time.LoadLocation("America/New_York")
		w := NewWriter(loc, "")
		if w.timezone != loc {
			t.Errorf("expected custom timezone")
		}
	})

	t.Run("with template path", func(t *testing.T) {
		w := NewWriter(nil, "/path/to/template.html")
		if w.templatePath != "/path/to/template.html" {
			t.Errorf("expected template path to be set")
		}
	})
}

func TestWriter_Format(t *testing.T) {
	w := NewWriter(nil, "")
	if w.Format() != "html" {
		t.Errorf("expected format 'html', got '%s'", w.Format())
	}
}

func TestWriter_Write_NilResult(t *testing.T) {
	w := NewWriter(nil, "")
	err := w.Write(nil, "test.html")
	if err == nil {
		t.Fatal("expected error for nil result")
	}
	if !strings.Contains(err.Error(), "nil") {
		t.Errorf("expected error message to mention nil, got: %s", err.Error())
	}
}

func TestWriter_Write_Success(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "test_report.html")

	w := NewWriter(time.UTC, "")
	if err := w.Write(createTestResult(), outputPath); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	content, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("failed to read output file: %v", err)
	}

	contentStr := string(content)
	expectedContent := []string{
		"<!DOCTYPE html>",
		"网络设备巡检报告",
		"巡检概览",
		"设备详情",
		"异常汇总",
		"/captures/core-sw-01.txt",
		"华为",
		"电源状态:异常, 1个电源状态异常",
		"PWR2: Registered/Abnormal",
		"status-abnormal",
		"2024-01-10 02:00:00",
		"run-42",
	}

	for _, expected := range expectedContent {
		if !strings.Contains(contentStr, expected) {
			t.Errorf("expected content to contain '%s'", expected)
		}
	}
}

func TestWriter_Write_AddsHtmlExtension(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "test_report") // No extension

	w := NewWriter(nil, "")
	if err := w.Write(createTestResult(), outputPath); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	if _, err := os.Stat(outputPath + ".html"); os.IsNotExist(err) {
		t.Error("file with .html extension was not created")
	}
}

func TestWriter_LoadTemplate_Default(t *testing.T) {
	w := NewWriter(nil, "")
	tmpl, err := w.loadTemplate()
	if err != nil {
		t.Fatalf("failed to load default template: %v", err)
	}
	if tmpl == nil {
		t.Error("expected template to be loaded")
	}
}

func TestWriter_LoadTemplate_CustomNotFound(t *testing.T) {
	// Non-existent template path should fall back to default
	w := NewWriter(nil, "/nonexistent/path/template.html")
	tmpl, err := w.loadTemplate()
	if err != nil {
		t.Fatalf("failed to load template: %v", err)
	}
	if tmpl == nil {
		t.Error("expected template to be loaded (fallback to default)")
	}
}

func TestWriter_LoadTemplate_Custom(t *testing.T) {
	tempDir := t.TempDir()
	customTemplate := filepath.Join(tempDir, "custom.html")

	customContent := `<!DOCTYPE html>
<html>
<head><title>{{.Title}}</title></head>
<body>
<h1>Custom Template</h1>
<p>Devices: {{len .Devices}}</p>
</body>
</html>`

	if err := os.WriteFile(customTemplate, []byte(customContent), 0644); err != nil {
		t.Fatalf("failed to create custom template: %v", err)
	}

	w := NewWriter(nil, customTemplate)
	outputPath := filepath.Join(tempDir, "output.html")
	if err := w.Write(createTestResult(), outputPath); err != nil {
		t.Fatalf("Write with custom template failed: %v", err)
	}

	content, _ := os.ReadFile(outputPath)
	if !strings.Contains(string(content), "Custom Template") {
		t.Error("custom template was not used")
	}
	if !strings.Contains(string(content), "Devices: 2") {
		t.Error("expected device count in custom template output")
	}
}

func TestWriter_LoadTemplate_CustomInvalid(t *testing.T) {
	customTemplate := filepath.Join(t.TempDir(), "broken.html")
	if err := os.WriteFile(customTemplate, []byte("{{.Title"), 0644); err != nil {
		t.Fatalf("failed to create custom template: %v", err)
	}

	w := NewWriter(nil, customTemplate)
	if _, err := w.loadTemplate(); err == nil {
		t.Error("expected parse error for broken template")
	}
}

func TestWriter_EmptyResult(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "empty_report.html")

	result := model.NewBatchResult("run-empty", "/captures", time.Now())
	result.Finalize(time.Now())

	w := NewWriter(nil, "")
	if err := w.Write(result, outputPath); err != nil {
		t.Fatalf("Write failed for empty result: %v", err)
	}

	content, _ := os.ReadFile(outputPath)
	if !strings.Contains(string(content), "未发现可识别的设备采集文件") {
		t.Error("expected empty device notice")
	}
	if !strings.Contains(string(content), "所有设备检查项均正常") {
		t.Error("expected empty problem notice")
	}
}

func TestPrepareTemplateData(t *testing.T) {
	w := NewWriter(time.UTC, "")
	data := w.prepareTemplateData(createTestResult())

	if data.Title != "网络设备巡检报告" {
		t.Errorf("unexpected title %q", data.Title)
	}
	if data.Duration != "3.0秒" {
		t.Errorf("unexpected duration %q", data.Duration)
	}
	if len(data.Categories) != len(model.Categories) {
		t.Errorf("expected %d categories, got %d", len(model.Categories), len(data.Categories))
	}
	if len(data.Devices) != 2 {
		t.Fatalf("expected 2 devices, got %d", len(data.Devices))
	}
	for _, d := range data.Devices {
		if len(d.Results) != len(model.Categories) {
			t.Errorf("%s: expected %d results, got %d", d.Source, len(model.Categories), len(d.Results))
		}
	}

	// abnormal power, error memory, warning ntp
	if len(data.Problems) != 3 {
		t.Fatalf("expected 3 problems, got %d", len(data.Problems))
	}
	wantOrder := []string{"电源", "内存", "NTP"}
	for i, want := range wantOrder {
		if data.Problems[i].Category != want {
			t.Errorf("problem %d: expected %s, got %s", i, want, data.Problems[i].Category)
		}
	}
}

func TestConvertDevice_MissingCategory(t *testing.T) {
	report := model.NewInspectionReport("partial.txt", model.VendorH3C)
	report.Results[model.CategoryCPU] = model.NewResult(model.StatusNormal, "CPU状态:正常, 最高使用率:5%")

	device := convertDevice(report)
	if device.Results[0].StatusClass != "status-normal" {
		t.Errorf("unexpected class %q", device.Results[0].StatusClass)
	}
	if device.Results[1].Message != "N/A" {
		t.Errorf("expected N/A for missing memory, got %q", device.Results[1].Message)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		duration time.Duration
		expected string
	}{
		{500 * time.Millisecond, "500ms"},
		{5 * time.Second, "5.0秒"},
		{90 * time.Second, "1.5分钟"},
		{2 * time.Hour, "2.0小时"},
	}

	for _, tt := range tests {
		if got := formatDuration(tt.duration); got != tt.expected {
			t.Errorf("formatDuration(%v) = %s, expected %s", tt.duration, got, tt.expected)
		}
	}
}

func TestStatusClass(t *testing.T) {
	tests := []struct {
		status   model.Status
		expected string
	}{
		{model.StatusNormal, "status-normal"},
		{model.StatusWarning, "status-warning"},
		{model.StatusAbnormal, "status-abnormal"},
		{model.StatusError, "status-error"},
		{model.Status("other"), ""},
	}

	for _, tt := range tests {
		if got := statusClass(tt.status); got != tt.expected {
			t.Errorf("statusClass(%s) = %s, expected %s", tt.status, got, tt.expected)
		}
	}
}

// Helper functions for creating test data

func createTestResult() *model.BatchResult {
	start := time.Date(2024, 1, 10, 2, 0, 0, 0, time.UTC)
	result := model.NewBatchResult("run-42", "/captures", start)
	result.Version = "v1.0.0"

	core := model.NewInspectionReport("/captures/core-sw-01.txt", model.VendorHuawei)
	edge := model.NewInspectionReport("/captures/edge-sw-01.txt", model.VendorH3C)
	for _, c := range model.Categories {
		core.Results[c] = model.NewResult(model.StatusNormal, c.DisplayName()+"状态:正常")
		edge.Results[c] = model.NewResult(model.StatusNormal, c.DisplayName()+"状态:正常")
	}

	core.Results[model.CategoryPower] = model.CategoryResult{
		Status:  model.StatusAbnormal,
		Message: "电源状态:异常, 1个电源状态异常",
		Details: map[string]string{"PWR2": "Registered/Abnormal"},
	}
	edge.Results[model.CategoryMemory] = model.NewResult(model.StatusError, "未找到display memory命令输出")
	edge.Results[model.CategoryNTP] = model.NewResult(model.StatusWarning, "NTP状态:警告, NTP未配置")

	result.Reports = append(result.Reports, edge, core)
	result.Finalize(start.Add(3 * time.Second))
	return result
}
