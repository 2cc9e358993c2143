// Package report provides report generation functionality for the device inspection tool.
// It defines the ReportWriter interface and provides implementations for
// different output formats including Excel, HTML and JSON.
package report

import (
	"device-inspection/internal/model"
)

// ReportWriter defines the interface for generating inspection reports.
// Implementations write a batch result to a file in their specific format.
type ReportWriter interface {
	// Write generates a report from the batch result and saves it to the
	// specified output path. A missing format extension is appended.
	//
	// Returns an error if the report generation or file writing fails.
	Write(result *model.BatchResult, outputPath string) error

	// Format returns the format identifier for this writer.
	// Common values are "excel", "html" and "json".
	Format() string
}
