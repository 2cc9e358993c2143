package service

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"device-inspection/internal/inspector"
	"device-inspection/internal/model"
)

const separator = "--------------------------------------------------"

func block(command, output string) string {
	return "命令:\n" + command + "\n输出:\n" + output + "\n" + separator + "\n"
}

func huaweiCapture(cpu string) string {
	return block("display version", "Huawei Versatile Routing Platform Software") +
		block("display cpu", "CPU Usage            : "+cpu+"% Max: 30%") +
		block("display memory", "Memory Using Percentage Is: 40%")
}

func h3cCapture() string {
	return block("display version", "H3C Comware Software, Version 7.1.070") +
		block("display cpu", "Slot 1 CPU 0 CPU usage:\n       5% in last 5 seconds\n       4% in last 1 minute\n       4% in last 5 minutes")
}

func writeCapture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write capture: %v", err)
	}
	return path
}

func newTestRunner(buf *bytes.Buffer, opts ...RunnerOption) *Runner {
	logger := zerolog.New(buf).Level(zerolog.DebugLevel)
	return NewRunner(inspector.DefaultThresholds(), logger, opts...)
}

// =============================================================================
// Runner Construction Tests
// =============================================================================

func TestNewRunner_Workers(t *testing.T) {
	var buf bytes.Buffer

	tests := []struct {
		name     string
		opts     []RunnerOption
		expected int
	}{
		{"default", nil, DefaultWorkers},
		{"custom", []RunnerOption{WithWorkers(4)}, 4},
		{"zero keeps default", []RunnerOption{WithWorkers(0)}, DefaultWorkers},
		{"negative keeps default", []RunnerOption{WithWorkers(-1)}, DefaultWorkers},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRunner(&buf, tt.opts...)
			if r.Workers() != tt.expected {
				t.Errorf("expected %d workers, got %d", tt.expected, r.Workers())
			}
		})
	}
}

// =============================================================================
// Batch Run Tests
// =============================================================================

func TestRunner_Run_SkipsUndecodableFiles(t *testing.T) {
	dir := t.TempDir()
	writeCapture(t, dir, "a.txt", huaweiCapture("10"))
	writeCapture(t, dir, "b.txt", h3cCapture())
	writeCapture(t, dir, "nested/c.txt", huaweiCapture("95"))
	bad := writeCapture(t, dir, "d.txt", "display cpu\n\xff\xfe\xfd")

	var buf bytes.Buffer
	r := newTestRunner(&buf, WithWorkers(2))

	reports, err := r.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(reports) != 3 {
		t.Fatalf("expected 3 reports, got %d", len(reports))
	}

	for _, report := range reports {
		if len(report.Results) != len(model.Categories) {
			t.Errorf("%s: expected %d categories, got %d", report.Source, len(model.Categories), len(report.Results))
		}
	}

	logs := buf.String()
	if !strings.Contains(logs, `"level":"warn"`) || !strings.Contains(logs, bad) {
		t.Errorf("expected a warning naming %s, got logs:\n%s", bad, logs)
	}
}

func TestRunner_Run_SkipsUnsupportedVendor(t *testing.T) {
	dir := t.TempDir()
	writeCapture(t, dir, "huawei.txt", huaweiCapture("10"))
	writeCapture(t, dir, "notes.txt", "nothing to see here")

	var buf bytes.Buffer
	reports, err := newTestRunner(&buf).Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(reports) != 1 {
		t.Fatalf("expected 1 report, got %d", len(reports))
	}
	if reports[0].Vendor != model.VendorHuawei {
		t.Errorf("expected huawei, got %s", reports[0].Vendor)
	}
}

func TestRunner_Run_EmptyDirectory(t *testing.T) {
	var buf bytes.Buffer
	reports, err := newTestRunner(&buf).Run(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if reports == nil || len(reports) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", reports)
	}
}

func TestRunner_Run_MissingRoot(t *testing.T) {
	var buf bytes.Buffer
	_, err := newTestRunner(&buf).Run(context.Background(), filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestRunner_Run_RootIsFile(t *testing.T) {
	path := writeCapture(t, t.TempDir(), "a.txt", huaweiCapture("10"))

	var buf bytes.Buffer
	_, err := newTestRunner(&buf).Run(context.Background(), path)
	if err == nil {
		t.Fatal("expected error when root is a file")
	}
}

func TestRunner_Run_Cancelled(t *testing.T) {
	dir := t.TempDir()
	writeCapture(t, dir, "a.txt", huaweiCapture("10"))
	writeCapture(t, dir, "b.txt", huaweiCapture("20"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	reports, err := newTestRunner(&buf).Run(ctx, dir)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(reports) != 0 {
		t.Errorf("expected no reports after cancellation, got %d", len(reports))
	}
}

// =============================================================================
// Single File Tests
// =============================================================================

func TestRunner_ProcessFile(t *testing.T) {
	dir := t.TempDir()

	var buf bytes.Buffer
	r := newTestRunner(&buf)

	t.Run("supported vendor", func(t *testing.T) {
		path := writeCapture(t, dir, "ok.txt", huaweiCapture("95"))
		result := r.ProcessFile(path)

		if !result.Success {
			t.Fatalf("expected success, got error %q", result.Error)
		}
		if result.Vendor != model.VendorHuawei {
			t.Errorf("expected huawei, got %s", result.Vendor)
		}
		if got := result.Report.Results[model.CategoryCPU].Status; got != model.StatusAbnormal {
			t.Errorf("expected abnormal cpu, got %s", got)
		}
	})

	t.Run("unsupported vendor", func(t *testing.T) {
		path := writeCapture(t, dir, "unknown.txt", "hello")
		result := r.ProcessFile(path)

		if result.Success {
			t.Fatal("expected failure")
		}
		if result.Error != ErrUnsupportedVendor.Error() {
			t.Errorf("unexpected error %q", result.Error)
		}
		if result.Report != nil {
			t.Error("expected nil report")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		result := r.ProcessFile(filepath.Join(dir, "nope.txt"))
		if result.Success || result.Error == "" {
			t.Errorf("expected failure with message, got %+v", result)
		}
	})

	t.Run("invalid encoding", func(t *testing.T) {
		path := writeCapture(t, dir, "bad.txt", "\xff\xfe")
		result := r.ProcessFile(path)
		if result.Success || result.Error != ErrInvalidEncoding.Error() {
			t.Errorf("expected encoding failure, got %+v", result)
		}
	})
}

func TestRunner_InspectTextAs(t *testing.T) {
	var buf bytes.Buffer
	r := newTestRunner(&buf)

	// Forced vendor wins over classification.
	report, ok := r.InspectTextAs("mem", h3cCapture(), model.VendorHuawei)
	if !ok || report.Vendor != model.VendorHuawei {
		t.Fatalf("expected forced huawei report, got %v %v", report, ok)
	}

	report, ok = r.InspectTextAs("mem", h3cCapture(), model.VendorUnknown)
	if !ok || report.Vendor != model.VendorH3C {
		t.Fatalf("expected classified h3c report, got %v %v", report, ok)
	}

	if _, ok := r.InspectText("mem", ""); ok {
		t.Error("expected empty text to be unsupported")
	}
}

// =============================================================================
// Decoding Tests
// =============================================================================

func TestDecodeCapture(t *testing.T) {
	text, err := DecodeCapture([]byte("\xEF\xBB\xBFline1\r\nline2\r\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "line1\nline2\n" {
		t.Errorf("unexpected text %q", text)
	}

	if _, err := DecodeCapture([]byte{0xff}); !errors.Is(err, ErrInvalidEncoding) {
		t.Errorf("expected ErrInvalidEncoding, got %v", err)
	}
}
