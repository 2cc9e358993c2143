package report

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"device-inspection/internal/model"
	"device-inspection/internal/report/excel"
	"device-inspection/internal/report/html"
	"device-inspection/internal/report/jsonreport"
)

// Registry manages report writers for different formats.
// It provides a centralized way to access report writers by format name.
type Registry struct {
	writers map[string]ReportWriter
}

// NewRegistry creates a new report registry with pre-registered Excel, HTML
// and JSON writers. If timezone is nil, defaults to Asia/Shanghai.
// htmlTemplatePath is optional; if empty, the HTML writer will use the embedded default template.
func NewRegistry(timezone *time.Location, htmlTemplatePath string) *Registry {
	if timezone == nil {
		timezone, _ = time.LoadLocation("Asia/Shanghai")
	}

	r := &Registry{
		writers: make(map[string]ReportWriter),
	}

	// Register writers using their Format() return values
	for _, w := range []ReportWriter{
		excel.NewWriter(timezone),
		html.NewWriter(timezone, htmlTemplatePath),
		jsonreport.NewWriter(),
	} {
		r.writers[w.Format()] = w
	}

	return r
}

// Get returns a writer for the specified format.
// Format names are case-insensitive (e.g., "Excel", "EXCEL", "excel" all work).
// Returns an error if the format is not supported.
func (r *Registry) Get(format string) (ReportWriter, error) {
	normalizedFormat := strings.ToLower(strings.TrimSpace(format))

	writer, ok := r.writers[normalizedFormat]
	if !ok {
		supported := r.GetAll()
		return nil, fmt.Errorf("unsupported report format %q, supported formats: %s",
			format, strings.Join(supported, ", "))
	}

	return writer, nil
}

// GetAll returns all supported format names in sorted order.
func (r *Registry) GetAll() []string {
	formats := make([]string, 0, len(r.writers))
	for format := range r.writers {
		formats = append(formats, format)
	}
	sort.Strings(formats)
	return formats
}

// Has checks if the specified format is supported.
// Format names are case-insensitive.
func (r *Registry) Has(format string) bool {
	normalizedFormat := strings.ToLower(strings.TrimSpace(format))
	_, ok := r.writers[normalizedFormat]
	return ok
}

// WriteAll writes result once per format into dir using baseName as the
// file name stem, and returns the written paths in format order.
// It stops at the first unknown format or write failure.
func (r *Registry) WriteAll(result *model.BatchResult, dir, baseName string, formats []string) ([]string, error) {
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		writer, err := r.Get(format)
		if err != nil {
			return paths, err
		}

		path := filepath.Join(dir, baseName+extension(writer.Format()))
		if err := writer.Write(result, path); err != nil {
			return paths, fmt.Errorf("failed to write %s report: %w", writer.Format(), err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// extension returns the file extension written by a format.
func extension(format string) string {
	switch format {
	case "excel":
		return ".xlsx"
	default:
		return "." + format
	}
}
