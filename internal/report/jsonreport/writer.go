// Package jsonreport writes batch results as indented JSON documents.
package jsonreport

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"device-inspection/internal/model"
)

// Writer implements report.ReportWriter for JSON format.
type Writer struct {
	indent string
}

// NewWriter creates a JSON writer with two-space indentation.
func NewWriter() *Writer {
	return &Writer{indent: "  "}
}

// Format returns the format identifier for this writer.
func (w *Writer) Format() string {
	return "json"
}

// Write encodes the batch result to outputPath.
func (w *Writer) Write(result *model.BatchResult, outputPath string) error {
	if result == nil {
		return fmt.Errorf("batch result is nil")
	}

	if !strings.HasSuffix(strings.ToLower(outputPath), ".json") {
		outputPath = outputPath + ".json"
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", w.indent)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	return nil
}
