// Package html provides HTML report generation for the device inspection tool.
// It implements the report.ReportWriter interface to generate .html files
// with the batch overview, per-device results and a problem summary.
package html

import (
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"device-inspection/internal/model"
)

//go:embed templates/*.html
var embeddedTemplates embed.FS

// Writer implements report.ReportWriter for HTML format.
type Writer struct {
	timezone     *time.Location
	templatePath string // User-defined template path (optional)
}

// TemplateData holds all data passed to the HTML template.
type TemplateData struct {
	Title          string
	RunID          string
	Root           string
	InspectionTime string
	Duration       string
	Summary        *model.BatchSummary
	Categories     []string
	Devices        []*DeviceData
	Problems       []*ProblemData
	Version        string
	GeneratedAt    string
}

// DeviceData represents one device row formatted for template rendering.
type DeviceData struct {
	Source      string
	Vendor      string
	Status      string
	StatusClass string
	Results     []*ResultData // In category display order
}

// ResultData represents one category cell.
type ResultData struct {
	Category    string
	Status      string
	StatusClass string
	Message     string
}

// ProblemData represents one non-normal category result.
type ProblemData struct {
	Source      string
	Vendor      string
	Category    string
	Status      string
	StatusClass string
	Message     string
	Details     []string
	DetailText  string
}

// NewWriter creates a new HTML report writer.
// If timezone is nil, it defaults to Asia/Shanghai.
// If templatePath is empty, the embedded default template will be used.
func NewWriter(timezone *time.Location, templatePath string) *Writer {
	if timezone == nil {
		timezone, _ = time.LoadLocation("Asia/Shanghai")
	}
	return &Writer{
		timezone:     timezone,
		templatePath: templatePath,
	}
}

// Format returns the format identifier for this writer.
func (w *Writer) Format() string {
	return "html"
}

// Write generates an HTML report from the batch result.
func (w *Writer) Write(result *model.BatchResult, outputPath string) error {
	if result == nil {
		return fmt.Errorf("batch result is nil")
	}

	// Ensure output path has .html extension
	if !strings.HasSuffix(strings.ToLower(outputPath), ".html") {
		outputPath = outputPath + ".html"
	}

	tmpl, err := w.loadTemplate()
	if err != nil {
		return fmt.Errorf("failed to load template: %w", err)
	}

	data := w.prepareTemplateData(result)

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := tmpl.Execute(file, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return nil
}

// loadTemplate loads the HTML template.
// It first tries to load a user-defined template, then falls back to the embedded default.
func (w *Writer) loadTemplate() (*template.Template, error) {
	funcMap := template.FuncMap{
		"formatDuration": formatDuration,
		"statusClass":    statusClass,
	}

	if w.templatePath != "" {
		if _, err := os.Stat(w.templatePath); err == nil {
			tmpl, err := template.New(filepath.Base(w.templatePath)).Funcs(funcMap).ParseFiles(w.templatePath)
			if err != nil {
				return nil, fmt.Errorf("failed to parse user template: %w", err)
			}
			return tmpl, nil
		}
		// User template not found, fall through to default
	}

	tmpl, err := template.New("default.html").Funcs(funcMap).ParseFS(embeddedTemplates, "templates/default.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded template: %w", err)
	}
	return tmpl, nil
}

// prepareTemplateData converts a BatchResult to TemplateData for template rendering.
func (w *Writer) prepareTemplateData(result *model.BatchResult) *TemplateData {
	summary := result.Summary
	if summary == nil {
		summary = model.NewBatchSummary(result.Reports)
	}

	categories := make([]string, 0, len(model.Categories))
	for _, c := range model.Categories {
		categories = append(categories, c.DisplayName())
	}

	devices := make([]*DeviceData, 0, len(result.Reports))
	for _, report := range result.Reports {
		devices = append(devices, convertDevice(report))
	}

	return &TemplateData{
		Title:          "网络设备巡检报告",
		RunID:          result.RunID,
		Root:           result.Root,
		InspectionTime: result.StartedAt.In(w.timezone).Format("2006-01-02 15:04:05"),
		Duration:       formatDuration(result.Duration),
		Summary:        summary,
		Categories:     categories,
		Devices:        devices,
		Problems:       convertProblems(result.Reports),
		Version:        result.Version,
		GeneratedAt:    time.Now().In(w.timezone).Format("2006-01-02 15:04:05"),
	}
}

// convertDevice converts an InspectionReport to DeviceData.
func convertDevice(report *model.InspectionReport) *DeviceData {
	overall := report.OverallStatus()
	device := &DeviceData{
		Source:      report.Source,
		Vendor:      report.Vendor.DisplayName(),
		Status:      report.OverallText(),
		StatusClass: statusClass(overall),
		Results:     make([]*ResultData, 0, len(model.Categories)),
	}

	for _, c := range model.Categories {
		res, ok := report.Result(c)
		if !ok {
			device.Results = append(device.Results, &ResultData{Category: c.DisplayName(), Message: "N/A"})
			continue
		}
		device.Results = append(device.Results, &ResultData{
			Category:    c.DisplayName(),
			Status:      res.Status.DisplayText(),
			StatusClass: statusClass(res.Status),
			Message:     res.Message,
		})
	}
	return device
}

// convertProblems flattens and sorts non-normal results (abnormal first).
func convertProblems(reports []*model.InspectionReport) []*ProblemData {
	type entry struct {
		report   *model.InspectionReport
		category model.Category
		result   model.CategoryResult
	}

	var entries []entry
	for _, report := range reports {
		for _, c := range report.Problems() {
			entries = append(entries, entry{report: report, category: c, result: report.Results[c]})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		pi, pj := statusPriority(entries[i].result.Status), statusPriority(entries[j].result.Status)
		if pi != pj {
			return pi > pj
		}
		return entries[i].report.Source < entries[j].report.Source
	})

	problems := make([]*ProblemData, 0, len(entries))
	for _, e := range entries {
		problems = append(problems, &ProblemData{
			Source:      e.report.Source,
			Vendor:      e.report.Vendor.DisplayName(),
			Category:    e.category.DisplayName(),
			Status:      e.result.Status.DisplayText(),
			StatusClass: statusClass(e.result.Status),
			Message:     e.result.Message,
			Details:     e.result.DetailLines(),
			DetailText:  e.result.DetailText,
		})
	}
	return problems
}

// Helper functions

// formatDuration formats a duration in a human-readable format.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1f秒", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%.1f分钟", d.Minutes())
	}
	return fmt.Sprintf("%.1f小时", d.Hours())
}

// statusClass returns the CSS class for a status.
func statusClass(status model.Status) string {
	switch status {
	case model.StatusNormal:
		return "status-normal"
	case model.StatusWarning:
		return "status-warning"
	case model.StatusAbnormal:
		return "status-abnormal"
	case model.StatusError:
		return "status-error"
	default:
		return ""
	}
}

// statusPriority returns a numeric priority for sorting (higher = shown first).
func statusPriority(status model.Status) int {
	switch status {
	case model.StatusAbnormal:
		return 3
	case model.StatusError:
		return 2
	case model.StatusWarning:
		return 1
	default:
		return 0
	}
}
