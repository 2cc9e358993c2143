// Package inspector parses captured network-device CLI output and derives
// per-category health results for Huawei VRP and H3C Comware devices.
package inspector

import (
	"fmt"

	"device-inspection/internal/model"
)

// Default usage thresholds in percent.
const (
	DefaultCPUThreshold    = 80.0
	DefaultMemoryThreshold = 80.0
)

// Thresholds holds the usage limits at or above which CPU and memory are
// reported abnormal.
type Thresholds struct {
	CPUUsage    float64
	MemoryUsage float64
}

// DefaultThresholds returns the built-in thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{CPUUsage: DefaultCPUThreshold, MemoryUsage: DefaultMemoryThreshold}
}

type checkFunc func(text string) model.CategoryResult

// Inspector runs the eight category checks for one vendor dialect.
type Inspector struct {
	vendor     model.Vendor
	thresholds Thresholds
	checks     map[model.Category]checkFunc
}

// Option configures an Inspector.
type Option func(*Inspector)

// WithThresholds overrides the CPU and memory thresholds. Non-positive
// values keep the defaults.
func WithThresholds(t Thresholds) Option {
	return func(i *Inspector) {
		if t.CPUUsage > 0 {
			i.thresholds.CPUUsage = t.CPUUsage
		}
		if t.MemoryUsage > 0 {
			i.thresholds.MemoryUsage = t.MemoryUsage
		}
	}
}

// New returns the inspector for vendor, or nil when the vendor is not
// supported. Callers treat nil as "skip this input".
func New(vendor model.Vendor, opts ...Option) *Inspector {
	i := &Inspector{
		vendor:     vendor,
		thresholds: DefaultThresholds(),
	}
	for _, opt := range opts {
		opt(i)
	}

	switch vendor {
	case model.VendorHuawei:
		i.checks = huaweiChecks(i.thresholds)
	case model.VendorH3C:
		i.checks = h3cChecks(i.thresholds)
	default:
		return nil
	}
	return i
}

// Vendor returns the vendor this inspector handles.
func (i *Inspector) Vendor() model.Vendor {
	return i.vendor
}

// Thresholds returns the effective thresholds.
func (i *Inspector) Thresholds() Thresholds {
	return i.thresholds
}

// Check runs a single category check.
func (i *Inspector) Check(category model.Category, text string) (result model.CategoryResult) {
	check, ok := i.checks[category]
	if !ok {
		return model.NewResult(model.StatusError, fmt.Sprintf("不支持的检测类别: %s", category))
	}

	// A parsing bug degrades to an error result for this category only.
	defer func() {
		if r := recover(); r != nil {
			result = model.NewResult(model.StatusError, fmt.Sprintf("%s检测失败: %v", category.DisplayName(), r))
		}
	}()

	return check(text)
}

// CPU checks CPU usage against the CPU threshold.
func (i *Inspector) CPU(text string) model.CategoryResult {
	return i.Check(model.CategoryCPU, text)
}

// Memory checks memory usage against the memory threshold.
func (i *Inspector) Memory(text string) model.CategoryResult {
	return i.Check(model.CategoryMemory, text)
}

// Power checks power supply states.
func (i *Inspector) Power(text string) model.CategoryResult {
	return i.Check(model.CategoryPower, text)
}

// Fan checks fan states.
func (i *Inspector) Fan(text string) model.CategoryResult {
	return i.Check(model.CategoryFan, text)
}

// NTP checks clock synchronisation.
func (i *Inspector) NTP(text string) model.CategoryResult {
	return i.Check(model.CategoryNTP, text)
}

// InterfaceErrors checks per-interface error counters.
func (i *Inspector) InterfaceErrors(text string) model.CategoryResult {
	return i.Check(model.CategoryInterfaceErrors, text)
}

// Alarms checks active alarms, falling back to the log buffer.
func (i *Inspector) Alarms(text string) model.CategoryResult {
	return i.Check(model.CategoryAlarms, text)
}

// Temperature checks sensor temperatures against their own thresholds.
func (i *Inspector) Temperature(text string) model.CategoryResult {
	return i.Check(model.CategoryTemperature, text)
}

// InspectAll runs every category and returns exactly one result per
// category. A failing category never stops the others.
func (i *Inspector) InspectAll(text string) map[model.Category]model.CategoryResult {
	results := make(map[model.Category]model.CategoryResult, len(model.Categories))
	for _, c := range model.Categories {
		results[c] = i.Check(c, text)
	}
	return results
}

// Inspect runs every category and wraps the results in a report.
func (i *Inspector) Inspect(source, text string) *model.InspectionReport {
	report := model.NewInspectionReport(source, i.vendor)
	report.Results = i.InspectAll(text)
	return report
}
