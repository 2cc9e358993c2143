package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"device-inspection/internal/inspector"
	"device-inspection/internal/model"
)

// DefaultWorkers is the number of files inspected concurrently.
const DefaultWorkers = 20

var (
	// ErrUnsupportedVendor is returned when a capture matches no known vendor.
	ErrUnsupportedVendor = errors.New("unsupported vendor")
	// ErrInvalidEncoding is returned when a capture is not valid UTF-8.
	ErrInvalidEncoding = errors.New("invalid UTF-8 encoding")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Runner inspects every capture file under a directory with a bounded
// worker pool. A failing file is logged and skipped; it never aborts its
// siblings.
type Runner struct {
	thresholds inspector.Thresholds
	workers    int
	logger     zerolog.Logger
}

// RunnerOption is a functional option for configuring a Runner.
type RunnerOption func(*Runner)

// WithWorkers sets the worker count. Non-positive values keep the default.
func WithWorkers(n int) RunnerOption {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// NewRunner creates a Runner that applies thresholds to every capture.
func NewRunner(thresholds inspector.Thresholds, logger zerolog.Logger, opts ...RunnerOption) *Runner {
	r := &Runner{
		thresholds: thresholds,
		workers:    DefaultWorkers,
		logger:     logger.With().Str("component", "runner").Logger(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Workers returns the effective worker count.
func (r *Runner) Workers() int {
	return r.workers
}

// Run inspects all regular files under root and returns one report per
// file with a recognised vendor. Completion order is unspecified.
//
// A missing root is an error. Cancelling ctx stops new files from being
// read; reports finished so far are returned with the context error.
func (r *Runner) Run(ctx context.Context, root string) ([]*model.InspectionReport, error) {
	files, err := r.listFiles(root)
	if err != nil {
		return nil, err
	}

	reports := make([]*model.InspectionReport, 0, len(files))
	if len(files) == 0 {
		r.logger.Info().Str("root", root).Msg("no capture files found")
		return reports, nil
	}

	r.logger.Info().
		Str("root", root).
		Int("files", len(files)).
		Int("workers", r.workers).
		Msg("starting batch inspection")

	var (
		g  errgroup.Group
		mu sync.Mutex // Protects reports from concurrent appends
	)
	g.SetLimit(r.workers)

	for _, path := range files {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}

			report, err := r.inspectFile(path)
			if err != nil {
				r.logger.Warn().Err(err).Str("file", path).Msg("failed to inspect file")
				return nil
			}
			if report == nil {
				return nil
			}

			mu.Lock()
			reports = append(reports, report)
			mu.Unlock()
			return nil
		})
	}

	// Tasks never return errors; failures are logged per file.
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return reports, fmt.Errorf("batch inspection cancelled: %w", err)
	}

	r.logger.Info().
		Int("files", len(files)).
		Int("reports", len(reports)).
		Msg("batch inspection completed")

	return reports, nil
}

// listFiles recursively collects regular files under root.
func (r *Runner) listFiles(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to access capture directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("capture path is not a directory: %s", root)
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			r.logger.Warn().Err(err).Str("path", path).Msg("failed to walk path")
			return nil
		}
		if d.Type().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk capture directory: %w", err)
	}

	return files, nil
}

// inspectFile returns nil without error when the vendor is not supported.
func (r *Runner) inspectFile(path string) (*model.InspectionReport, error) {
	text, err := ReadCapture(path)
	if err != nil {
		return nil, err
	}

	report, ok := r.InspectText(path, text)
	if !ok {
		r.logger.Debug().Str("file", path).Msg("unsupported vendor, skipping file")
		return nil, nil
	}

	r.logger.Debug().
		Str("file", path).
		Str("vendor", string(report.Vendor)).
		Str("status", string(report.OverallStatus())).
		Msg("file inspected")

	return report, nil
}

// InspectText classifies and inspects an in-memory capture. It reports
// false when the vendor is not supported.
func (r *Runner) InspectText(source, text string) (*model.InspectionReport, bool) {
	return r.InspectTextAs(source, text, model.VendorUnknown)
}

// InspectTextAs inspects a capture as the given vendor. An unsupported
// vendor falls back to classification.
func (r *Runner) InspectTextAs(source, text string, vendor model.Vendor) (*model.InspectionReport, bool) {
	if !vendor.IsSupported() {
		vendor = inspector.Classify(text)
	}

	insp := inspector.New(vendor, inspector.WithThresholds(r.thresholds))
	if insp == nil {
		return nil, false
	}

	return insp.Inspect(source, text), true
}

// ProcessFile inspects a single capture file. I/O, decoding and
// unsupported-vendor failures are reported in the result, not as errors.
func (r *Runner) ProcessFile(path string) model.FileResult {
	result := model.FileResult{Source: path, Vendor: model.VendorUnknown}

	text, err := ReadCapture(path)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	report, ok := r.InspectText(path, text)
	if !ok {
		result.Error = ErrUnsupportedVendor.Error()
		return result
	}

	result.Vendor = report.Vendor
	result.Success = true
	result.Report = report
	return result
}

// ReadCapture reads a capture file as UTF-8 text with any byte-order mark
// removed and CRLF line endings normalised to LF.
func ReadCapture(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read capture file: %w", err)
	}
	return DecodeCapture(data)
}

// DecodeCapture validates and normalises raw capture bytes.
func DecodeCapture(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return "", ErrInvalidEncoding
	}
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	return string(data), nil
}
