// Package excel provides Excel report generation for the device inspection tool.
// It implements the report.ReportWriter interface to generate .xlsx files
// with an overview, per-device results and a problem summary.
package excel

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"device-inspection/internal/model"
)

const (
	// Sheet names
	sheetSummary  = "巡检概览"
	sheetDetail   = "巡检结果"
	sheetProblems = "异常汇总"

	// Default sheet to remove
	defaultSheet = "Sheet1"

	// Colors for conditional formatting (RGB without #)
	colorWarningBg  = "FFEB9C" // Yellow background for warning
	colorWarningFg  = "9C6500" // Dark yellow text for warning
	colorCriticalBg = "FFC7CE" // Red background for abnormal
	colorCriticalFg = "9C0006" // Dark red text for abnormal
	colorErrorBg    = "D9D9D9" // Grey background for error
	colorErrorFg    = "3F3F3F" // Dark grey text for error
	colorHeaderBg   = "4472C4" // Blue background for header
	colorHeaderFg   = "FFFFFF" // White text for header
	colorNormalBg   = "C6EFCE" // Green background for normal
	colorNormalFg   = "006100" // Dark green text for normal

	// Column widths
	sourceColWidth   = 36.0
	categoryColWidth = 28.0
	narrowColWidth   = 10.0
)

// Writer implements report.ReportWriter for Excel format.
type Writer struct {
	timezone *time.Location
}

// NewWriter creates a new Excel report writer.
// If timezone is nil, it defaults to Asia/Shanghai.
func NewWriter(timezone *time.Location) *Writer {
	if timezone == nil {
		timezone, _ = time.LoadLocation("Asia/Shanghai")
	}
	return &Writer{
		timezone: timezone,
	}
}

// Format returns the format identifier for this writer.
func (w *Writer) Format() string {
	return "excel"
}

// Write generates an Excel report from the batch result.
func (w *Writer) Write(result *model.BatchResult, outputPath string) error {
	if result == nil {
		return fmt.Errorf("batch result is nil")
	}

	// Ensure output path has .xlsx extension
	if !strings.HasSuffix(strings.ToLower(outputPath), ".xlsx") {
		outputPath = outputPath + ".xlsx"
	}

	f := excelize.NewFile()
	defer f.Close()

	styles, err := newStyleSet(f)
	if err != nil {
		return fmt.Errorf("failed to create styles: %w", err)
	}

	if err := w.createSummarySheet(f, result, styles); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	if err := w.createDetailSheet(f, result, styles); err != nil {
		return fmt.Errorf("failed to create detail sheet: %w", err)
	}

	if err := w.createProblemsSheet(f, result, styles); err != nil {
		return fmt.Errorf("failed to create problems sheet: %w", err)
	}

	// Sheet1 may already be gone; nothing to do in that case.
	_ = f.DeleteSheet(defaultSheet)

	idx, _ := f.GetSheetIndex(sheetSummary)
	f.SetActiveSheet(idx)

	if err := f.SaveAs(filepath.Clean(outputPath)); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}

	return nil
}

// =============================================================================
// Sheets
// =============================================================================

// createSummarySheet creates the batch overview worksheet.
func (w *Writer) createSummarySheet(f *excelize.File, result *model.BatchResult, styles *styleSet) error {
	idx, err := f.NewSheet(sheetSummary)
	if err != nil {
		return err
	}
	f.SetActiveSheet(idx)

	f.SetColWidth(sheetSummary, "A", "A", 20)
	f.SetColWidth(sheetSummary, "B", "B", 40)

	// Title
	f.MergeCell(sheetSummary, "A1", "B1")
	f.SetCellValue(sheetSummary, "A1", "网络设备巡检报告")
	f.SetCellStyle(sheetSummary, "A1", "B1", styles.title)
	f.SetRowHeight(sheetSummary, 1, 30)

	summary := result.Summary
	if summary == nil {
		summary = model.NewBatchSummary(result.Reports)
	}

	summaryData := []struct {
		label string
		value interface{}
	}{
		{"巡检时间", result.StartedAt.In(w.timezone).Format("2006-01-02 15:04:05")},
		{"巡检耗时", formatDuration(result.Duration)},
		{"采集目录", result.Root},
		{"设备总数", summary.TotalDevices},
		{"正常设备", summary.NormalDevices},
		{"警告设备", summary.WarningDevices},
		{"异常设备", summary.AbnormalDevices},
		{"错误设备", summary.ErrorDevices},
		{"批次编号", result.RunID},
	}

	if result.Version != "" {
		summaryData = append(summaryData, struct {
			label string
			value interface{}
		}{"工具版本", result.Version})
	}

	for i, item := range summaryData {
		row := i + 3 // Start from row 3
		labelCell := fmt.Sprintf("A%d", row)
		valueCell := fmt.Sprintf("B%d", row)
		f.SetCellValue(sheetSummary, labelCell, item.label)
		f.SetCellValue(sheetSummary, valueCell, item.value)
		f.SetCellStyle(sheetSummary, labelCell, labelCell, styles.header)
		f.SetCellStyle(sheetSummary, valueCell, valueCell, styles.value)
		f.SetRowHeight(sheetSummary, row, 22)
	}

	return nil
}

// createDetailSheet writes one row per device with one column per category.
func (w *Writer) createDetailSheet(f *excelize.File, result *model.BatchResult, styles *styleSet) error {
	if _, err := f.NewSheet(sheetDetail); err != nil {
		return err
	}

	headers := []string{"文件", "厂商", "巡检结果"}
	for _, c := range model.Categories {
		headers = append(headers, c.DisplayName())
	}

	f.SetColWidth(sheetDetail, "A", "A", sourceColWidth)
	f.SetColWidth(sheetDetail, "B", "B", narrowColWidth)
	f.SetColWidth(sheetDetail, "C", "C", 16)
	lastCol := columnName(len(headers))
	f.SetColWidth(sheetDetail, "D", lastCol, categoryColWidth)

	writeHeaderRow(f, sheetDetail, headers, styles.header)

	for i, report := range result.Reports {
		row := i + 2
		rowStr := fmt.Sprintf("%d", row)

		f.SetCellValue(sheetDetail, "A"+rowStr, report.Source)
		f.SetCellValue(sheetDetail, "B"+rowStr, report.Vendor.DisplayName())
		f.SetCellValue(sheetDetail, "C"+rowStr, report.OverallText())
		if style := styles.forStatus(report.OverallStatus()); style > 0 {
			f.SetCellStyle(sheetDetail, "C"+rowStr, "C"+rowStr, style)
		}

		for j, c := range model.Categories {
			cell := columnName(j+4) + rowStr
			res, ok := report.Result(c)
			if !ok {
				f.SetCellValue(sheetDetail, cell, "N/A")
				continue
			}
			f.SetCellValue(sheetDetail, cell, res.Message)
			if style := styles.forStatus(res.Status); style > 0 {
				f.SetCellStyle(sheetDetail, cell, cell, style)
			}
		}
	}

	return nil
}

// createProblemsSheet lists every non-normal category, worst first.
func (w *Writer) createProblemsSheet(f *excelize.File, result *model.BatchResult, styles *styleSet) error {
	if _, err := f.NewSheet(sheetProblems); err != nil {
		return err
	}

	headers := []string{"文件", "厂商", "检查项", "状态", "说明", "详情"}
	colWidths := []float64{sourceColWidth, narrowColWidth, narrowColWidth, 12, 40, 60}
	for i, width := range colWidths {
		col := columnName(i + 1)
		f.SetColWidth(sheetProblems, col, col, width)
	}

	writeHeaderRow(f, sheetProblems, headers, styles.header)

	problems := collectProblems(result.Reports)
	for i, p := range problems {
		rowStr := fmt.Sprintf("%d", i+2)

		f.SetCellValue(sheetProblems, "A"+rowStr, p.source)
		f.SetCellValue(sheetProblems, "B"+rowStr, p.vendor.DisplayName())
		f.SetCellValue(sheetProblems, "C"+rowStr, p.category.DisplayName())
		f.SetCellValue(sheetProblems, "D"+rowStr, p.result.Status.DisplayText())
		f.SetCellValue(sheetProblems, "E"+rowStr, p.result.Message)
		f.SetCellValue(sheetProblems, "F"+rowStr, detailText(p.result))

		if style := styles.forStatus(p.result.Status); style > 0 {
			f.SetCellStyle(sheetProblems, "D"+rowStr, "D"+rowStr, style)
		}
		if p.result.HasDetails() {
			f.SetCellStyle(sheetProblems, "F"+rowStr, "F"+rowStr, styles.wrap)
		}
	}

	return nil
}

// =============================================================================
// Helpers
// =============================================================================

type problem struct {
	source   string
	vendor   model.Vendor
	category model.Category
	result   model.CategoryResult
}

// collectProblems flattens non-normal results sorted by status then source.
func collectProblems(reports []*model.InspectionReport) []problem {
	var problems []problem
	for _, report := range reports {
		for _, c := range report.Problems() {
			problems = append(problems, problem{
				source:   report.Source,
				vendor:   report.Vendor,
				category: c,
				result:   report.Results[c],
			})
		}
	}

	sort.SliceStable(problems, func(i, j int) bool {
		pi, pj := statusPriority(problems[i].result.Status), statusPriority(problems[j].result.Status)
		if pi != pj {
			return pi > pj
		}
		return problems[i].source < problems[j].source
	})
	return problems
}

// detailText joins the per-entity details and the free-text block.
func detailText(res model.CategoryResult) string {
	lines := res.DetailLines()
	if res.DetailText != "" {
		lines = append(lines, res.DetailText)
	}
	return strings.Join(lines, "\n")
}

func writeHeaderRow(f *excelize.File, sheet string, headers []string, style int) {
	for i, header := range headers {
		cell := fmt.Sprintf("%s1", columnName(i+1))
		f.SetCellValue(sheet, cell, header)
		f.SetCellStyle(sheet, cell, cell, style)
	}
	f.SetRowHeight(sheet, 1, 25)

	// Freeze header row
	f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		Split:       false,
		XSplit:      0,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

// statusPriority orders statuses for the problem sheet; abnormal first.
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

// columnName converts a 1-based column index to Excel column name (A, B, ..., Z, AA, AB, ...).
func columnName(index int) string {
	result := ""
	for index > 0 {
		index--
		result = string(rune('A'+index%26)) + result
		index /= 26
	}
	return result
}

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
