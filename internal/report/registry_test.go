package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"device-inspection/internal/model"
)

func newTestBatch() *model.BatchResult {
	start := time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC)
	result := model.NewBatchResult("run-1", "/captures", start)

	report := model.NewInspectionReport("/captures/core-sw-01.txt", model.VendorHuawei)
	for _, c := range model.Categories {
		report.Results[c] = model.NewResult(model.StatusNormal, c.DisplayName()+"状态:正常")
	}
	report.Results[model.CategoryCPU] = model.CategoryResult{
		Status:  model.StatusAbnormal,
		Message: "CPU状态:异常, 1个CPU使用率达到80%",
		Details: map[string]string{"CPU": "当前:85%, 最大:90%"},
	}
	result.Reports = append(result.Reports, report)
	result.Finalize(start.Add(2 * time.Second))
	return result
}

func TestNewRegistry(t *testing.T) {
	t.Run("with nil timezone uses default", func(t *testing.T) {
		r := NewRegistry(nil, "")

		if r == nil {
			t.Fatal("expected non-nil registry")
		}

		if len(r.writers) != 3 {
			t.Errorf("expected 3 writers, got %d", len(r.writers))
		}

		for _, format := range []string{"excel", "html", "json"} {
			if _, ok := r.writers[format]; !ok {
				t.Errorf("expected %s writer to be registered", format)
			}
		}
	})

	t.Run("with custom timezone", func(t *testing.T) {
		tz, _ := time.LoadLocation("America/New_York")
		r := NewRegistry(tz, "")

		if len(r.writers) != 3 {
			t.Errorf("expected 3 writers, got %d", len(r.writers))
		}
	})

	t.Run("with custom template path", func(t *testing.T) {
		r := NewRegistry(nil, "/custom/template.html")

		htmlWriter, ok := r.writers["html"]
		if !ok {
			t.Fatal("expected html writer to be registered")
		}
		if htmlWriter.Format() != "html" {
			t.Errorf("expected html format, got %s", htmlWriter.Format())
		}
	})
}

func TestRegistry_Get_Unknown(t *testing.T) {
	r := NewRegistry(nil, "")

	writer, err := r.Get("pdf")

	if err == nil {
		t.Fatal("expected error for unknown format")
	}
	if writer != nil {
		t.Error("expected nil writer for unknown format")
	}

	if !strings.Contains(err.Error(), "pdf") {
		t.Errorf("error message should mention the unsupported format 'pdf': %v", err)
	}
	if !strings.Contains(err.Error(), "excel, html, json") {
		t.Errorf("error message should list supported formats: %v", err)
	}
}

func TestRegistry_Get_CaseInsensitive(t *testing.T) {
	r := NewRegistry(nil, "")

	testCases := []struct {
		input    string
		expected string
	}{
		{"excel", "excel"},
		{"EXCEL", "excel"},
		{"Html", "html"},
		{"JSON", "json"},
		{" excel ", "excel"}, // with whitespace
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			writer, err := r.Get(tc.input)

			if err != nil {
				t.Fatalf("unexpected error for input %q: %v", tc.input, err)
			}
			if writer.Format() != tc.expected {
				t.Errorf("expected format %q, got %q", tc.expected, writer.Format())
			}
		})
	}
}

func TestRegistry_GetAll(t *testing.T) {
	r := NewRegistry(nil, "")

	formats := r.GetAll()

	expected := []string{"excel", "html", "json"}
	if len(formats) != len(expected) {
		t.Fatalf("expected %d formats, got %d", len(expected), len(formats))
	}
	for i, format := range expected {
		if formats[i] != format {
			t.Errorf("expected formats[%d] = %q, got %q", i, format, formats[i])
		}
	}
}

func TestRegistry_Has(t *testing.T) {
	r := NewRegistry(nil, "")

	testCases := []struct {
		format   string
		expected bool
	}{
		{"excel", true},
		{"html", true},
		{"json", true},
		{"pdf", false},
		{"HTML", true},
		{"", false},
		{"   ", false},
	}

	for _, tc := range testCases {
		t.Run(tc.format, func(t *testing.T) {
			if got := r.Has(tc.format); got != tc.expected {
				t.Errorf("Has(%q) = %v, expected %v", tc.format, got, tc.expected)
			}
		})
	}
}

func TestRegistry_WriteAll(t *testing.T) {
	r := NewRegistry(time.UTC, "")
	dir := t.TempDir()

	paths, err := r.WriteAll(newTestBatch(), dir, "device_inspection", []string{"excel", "html", "json"})
	if err != nil {
		t.Fatalf("WriteAll failed: %v", err)
	}

	expected := []string{
		filepath.Join(dir, "device_inspection.xlsx"),
		filepath.Join(dir, "device_inspection.html"),
		filepath.Join(dir, "device_inspection.json"),
	}
	if len(paths) != len(expected) {
		t.Fatalf("expected %d paths, got %v", len(expected), paths)
	}
	for i, path := range expected {
		if paths[i] != path {
			t.Errorf("expected paths[%d] = %s, got %s", i, path, paths[i])
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected %s to exist: %v", path, err)
		}
	}
}

func TestRegistry_WriteAll_UnknownFormat(t *testing.T) {
	r := NewRegistry(time.UTC, "")

	paths, err := r.WriteAll(newTestBatch(), t.TempDir(), "report", []string{"json", "pdf"})
	if err == nil {
		t.Fatal("expected error for unknown format")
	}
	if len(paths) != 1 {
		t.Errorf("expected the json report to be written before the failure, got %v", paths)
	}
}
