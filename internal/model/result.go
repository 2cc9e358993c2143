package model

import "sort"

// Status represents the outcome of a single category check.
type Status string

const (
	StatusNormal   Status = "normal"   // 正常
	StatusAbnormal Status = "abnormal" // 异常：设备存在健康问题
	StatusError    Status = "error"    // 错误：采集内容缺少所需命令输出
	StatusWarning  Status = "warning"  // 警告：命令不支持或结果不确定
)

// DisplayText returns the status text shown in reports.
func (s Status) DisplayText() string {
	switch s {
	case StatusNormal:
		return "✓ 正常"
	case StatusAbnormal:
		return "! 异常"
	case StatusError:
		return "✗ 错误"
	case StatusWarning:
		return "⚠ 警告"
	default:
		return "未知"
	}
}

// severity orders statuses for aggregation; higher is worse.
func (s Status) severity() int {
	switch s {
	case StatusError:
		return 3
	case StatusAbnormal:
		return 2
	case StatusWarning:
		return 1
	default:
		return 0
	}
}

// Category is one of the eight fixed health categories.
type Category string

const (
	CategoryCPU             Category = "cpu"
	CategoryMemory          Category = "memory"
	CategoryPower           Category = "power"
	CategoryFan             Category = "fan"
	CategoryNTP             Category = "ntp"
	CategoryInterfaceErrors Category = "interface_errors"
	CategoryAlarms          Category = "alarms"
	CategoryTemperature     Category = "temperature"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryCPU,
	CategoryMemory,
	CategoryPower,
	CategoryFan,
	CategoryNTP,
	CategoryInterfaceErrors,
	CategoryAlarms,
	CategoryTemperature,
}

var categoryNames = map[Category]string{
	CategoryCPU:             "CPU",
	CategoryMemory:          "内存",
	CategoryPower:           "电源",
	CategoryFan:             "风扇",
	CategoryNTP:             "NTP",
	CategoryInterfaceErrors: "接口",
	CategoryAlarms:          "告警",
	CategoryTemperature:     "温度",
}

// DisplayName returns the category name shown in reports.
func (c Category) DisplayName() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return string(c)
}

// CategoryResult is the outcome of one category check.
// Details holds per-entity anomalies (e.g. "Slot 1 CPU 0" -> usage text);
// DetailText holds a free-text block such as a raw alarm table.
type CategoryResult struct {
	Status     Status            `json:"status"`
	Message    string            `json:"message"`
	Details    map[string]string `json:"details,omitempty"`
	DetailText string            `json:"detail_text,omitempty"`
}

// NewResult creates a CategoryResult without details.
func NewResult(status Status, message string) CategoryResult {
	return CategoryResult{Status: status, Message: message}
}

// HasDetails returns true if the result carries any detail.
func (r CategoryResult) HasDetails() bool {
	return len(r.Details) > 0 || r.DetailText != ""
}

// IsProblem returns true for any non-normal status.
func (r CategoryResult) IsProblem() bool {
	return r.Status != StatusNormal
}

// DetailLines returns Details as "key: value" lines sorted by key.
func (r CategoryResult) DetailLines() []string {
	keys := make([]string, 0, len(r.Details))
	for k := range r.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+": "+r.Details[k])
	}
	return lines
}
