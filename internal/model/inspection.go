// Package model provides data models for the device inspection tool.
package model

import (
	"sort"
	"time"
)

// InspectionReport is the inspection result for a single capture.
type InspectionReport struct {
	Source  string                      `json:"source"`  // 文件路径或调用方标识
	Vendor  Vendor                      `json:"vendor"`  // 设备厂商
	Results map[Category]CategoryResult `json:"results"` // 各类别检测结果
}

// NewInspectionReport creates a report with an empty result map.
func NewInspectionReport(source string, vendor Vendor) *InspectionReport {
	return &InspectionReport{
		Source:  source,
		Vendor:  vendor,
		Results: make(map[Category]CategoryResult, len(Categories)),
	}
}

// Result returns the result for a category and whether it exists.
func (r *InspectionReport) Result(category Category) (CategoryResult, bool) {
	if r.Results == nil {
		return CategoryResult{}, false
	}
	res, ok := r.Results[category]
	return res, ok
}

// OverallStatus returns the worst category status of the device.
// error outranks abnormal so that incomplete captures are noticed first.
func (r *InspectionReport) OverallStatus() Status {
	overall := StatusNormal
	for _, res := range r.Results {
		if res.Status.severity() > overall.severity() {
			overall = res.Status
		}
	}
	return overall
}

// OverallText returns the device-level status line.
func (r *InspectionReport) OverallText() string {
	switch r.OverallStatus() {
	case StatusError:
		return "成功: 发现错误"
	case StatusAbnormal:
		return "成功: 发现异常"
	case StatusWarning:
		return "成功: 存在警告"
	default:
		return "成功: 设备正常"
	}
}

// Problems returns the non-normal categories in display order.
func (r *InspectionReport) Problems() []Category {
	var problems []Category
	for _, c := range Categories {
		if res, ok := r.Results[c]; ok && res.IsProblem() {
			problems = append(problems, c)
		}
	}
	return problems
}

// FileResult is the outcome of the single-file entry point.
// Success is false only for I/O, decoding or unsupported-vendor failures.
type FileResult struct {
	Source  string            `json:"source"`
	Vendor  Vendor            `json:"vendor"`
	Success bool              `json:"success"`
	Error   string            `json:"error,omitempty"`
	Report  *InspectionReport `json:"report,omitempty"`
}

// BatchSummary aggregates device-level statuses of a batch.
type BatchSummary struct {
	TotalDevices    int `json:"total_devices"`    // 设备总数
	NormalDevices   int `json:"normal_devices"`   // 正常设备数
	WarningDevices  int `json:"warning_devices"`  // 警告设备数
	AbnormalDevices int `json:"abnormal_devices"` // 异常设备数
	ErrorDevices    int `json:"error_devices"`    // 采集不完整设备数
}

// NewBatchSummary counts device statuses over reports.
func NewBatchSummary(reports []*InspectionReport) *BatchSummary {
	summary := &BatchSummary{}
	for _, r := range reports {
		if r == nil {
			continue
		}
		summary.TotalDevices++
		switch r.OverallStatus() {
		case StatusNormal:
			summary.NormalDevices++
		case StatusWarning:
			summary.WarningDevices++
		case StatusAbnormal:
			summary.AbnormalDevices++
		case StatusError:
			summary.ErrorDevices++
		}
	}
	return summary
}

// BatchResult is the envelope handed to report writers and the push client.
type BatchResult struct {
	RunID     string              `json:"run_id"`
	Root      string              `json:"root"`
	StartedAt time.Time           `json:"started_at"`
	Duration  time.Duration       `json:"duration"`
	Summary   *BatchSummary       `json:"summary"`
	Reports   []*InspectionReport `json:"reports"`
	Version   string              `json:"version,omitempty"`
}

// NewBatchResult creates an envelope for a run starting at startedAt.
func NewBatchResult(runID, root string, startedAt time.Time) *BatchResult {
	return &BatchResult{
		RunID:     runID,
		Root:      root,
		StartedAt: startedAt,
		Reports:   make([]*InspectionReport, 0),
	}
}

// Finalize sorts reports by source and computes the summary.
// Worker completion order is not stable, so reports are sorted for output.
func (b *BatchResult) Finalize(endTime time.Time) {
	sort.Slice(b.Reports, func(i, j int) bool {
		return b.Reports[i].Source < b.Reports[j].Source
	})
	b.Duration = endTime.Sub(b.StartedAt)
	b.Summary = NewBatchSummary(b.Reports)
}

// HasAbnormal returns true if any device is abnormal.
func (b *BatchResult) HasAbnormal() bool {
	return b.Summary != nil && b.Summary.AbnormalDevices > 0
}

// HasWarning returns true if any device has warnings or errors.
func (b *BatchResult) HasWarning() bool {
	return b.Summary != nil && (b.Summary.WarningDevices > 0 || b.Summary.ErrorDevices > 0)
}
