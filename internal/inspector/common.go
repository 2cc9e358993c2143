package inspector

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"device-inspection/internal/model"
)

// missingCommand is the error result for a capture that lacks a command.
func missingCommand(command string) model.CategoryResult {
	return model.NewResult(model.StatusError, fmt.Sprintf("未找到%s命令输出", command))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// formatPercent renders a percentage without trailing zeros.
func formatPercent(v float64) string {
	return strconv.FormatFloat(round2(v), 'f', -1, 64)
}

func parseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseInt(s string) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

var slotHeaderRe = regexp.MustCompile(`(?mi)^\s*(?:Chassis\s+\d+\s+)?Slot\s+(\d+)\s*:`)

// slotIndex maps byte offsets to the nearest preceding "Slot N:" header.
type slotIndex struct {
	offsets []int
	slots   []string
}

func newSlotIndex(text string) slotIndex {
	var idx slotIndex
	for _, m := range slotHeaderRe.FindAllStringSubmatchIndex(text, -1) {
		idx.offsets = append(idx.offsets, m[0])
		idx.slots = append(idx.slots, text[m[2]:m[3]])
	}
	return idx
}

// at returns the slot number in effect at pos, or "".
func (s slotIndex) at(pos int) string {
	i := sort.SearchInts(s.offsets, pos+1) - 1
	if i < 0 {
		return ""
	}
	return s.slots[i]
}

// qualify prefixes an entity name with its slot, if any.
func (s slotIndex) qualify(pos int, name string) string {
	if slot := s.at(pos); slot != "" {
		return "Slot " + slot + " " + name
	}
	return name
}

// ============================================================================
// CPU
// ============================================================================

type usageValue struct {
	label   string
	percent float64
}

type cpuSample struct {
	entity string
	values []usageValue
}

func evalCPU(samples []cpuSample, threshold float64) model.CategoryResult {
	details := make(map[string]string)
	peak := 0.0
	for _, s := range samples {
		over := false
		parts := make([]string, 0, len(s.values))
		for _, v := range s.values {
			peak = math.Max(peak, v.percent)
			if v.percent >= threshold {
				over = true
			}
			parts = append(parts, fmt.Sprintf("%s:%s%%", v.label, formatPercent(v.percent)))
		}
		if over {
			details[s.entity] = strings.Join(parts, ", ")
		}
	}

	if len(details) > 0 {
		return model.CategoryResult{
			Status:  model.StatusAbnormal,
			Message: fmt.Sprintf("CPU状态:异常, %d个CPU使用率达到%s%%", len(details), formatPercent(threshold)),
			Details: details,
		}
	}
	return model.NewResult(model.StatusNormal, fmt.Sprintf("CPU状态:正常, 最高使用率:%s%%", formatPercent(peak)))
}

// ============================================================================
// Memory
// ============================================================================

func evalMemory(percent, threshold float64) model.CategoryResult {
	percent = round2(percent)
	if percent >= threshold {
		return model.NewResult(model.StatusAbnormal,
			fmt.Sprintf("内存状态:异常, 内存使用率:%s%%, 阈值:%s%%", formatPercent(percent), formatPercent(threshold)))
	}
	return model.NewResult(model.StatusNormal, fmt.Sprintf("内存状态:正常, 内存使用率:%s%%", formatPercent(percent)))
}

// ============================================================================
// Power / Fan
// ============================================================================

type component struct {
	id      string
	state   string
	healthy bool
}

// componentReading is the parsed state of power supplies or fans. implicit
// marks a reading inferred from chassis rows when no per-unit rows exist.
type componentReading struct {
	entries  []component
	implicit bool
}

func evalComponents(category model.Category, r componentReading) model.CategoryResult {
	name := category.DisplayName()
	details := make(map[string]string)
	for _, e := range r.entries {
		if !e.healthy {
			details[e.id] = e.state
		}
	}

	switch {
	case len(details) > 0:
		return model.CategoryResult{
			Status:  model.StatusAbnormal,
			Message: fmt.Sprintf("%s状态:异常, %d个%s状态异常", name, len(details), name),
			Details: details,
		}
	case r.implicit:
		return model.NewResult(model.StatusNormal, fmt.Sprintf("%s状态:正常 (依据机框状态判定)", name))
	default:
		return model.NewResult(model.StatusNormal, fmt.Sprintf("%s状态:正常, 共%d个", name, len(r.entries)))
	}
}

// ============================================================================
// Interface errors
// ============================================================================

type ifaceCounter struct {
	name        string
	in, out     int64
	directional bool
}

func (c ifaceCounter) describe() string {
	if c.directional {
		return fmt.Sprintf("入方向错包数:%d, 出方向错包数:%d", c.in, c.out)
	}
	return fmt.Sprintf("错包数:%d", c.in+c.out)
}

var excludedInterfaceRe = regexp.MustCompile(`(?i)^(?:inloop|loop|null)`)

// excludedInterface reports whether an interface is virtual and never
// carries wire errors.
func excludedInterface(name string) bool {
	return excludedInterfaceRe.MatchString(name)
}

func evalInterfaces(counters []ifaceCounter) model.CategoryResult {
	details := make(map[string]string)
	checked := 0
	for _, c := range counters {
		if excludedInterface(c.name) {
			continue
		}
		checked++
		if c.in+c.out > 0 {
			details[c.name] = c.describe()
		}
	}

	if len(details) > 0 {
		return model.CategoryResult{
			Status:  model.StatusAbnormal,
			Message: fmt.Sprintf("接口状态:异常, %d个接口存在错包", len(details)),
			Details: details,
		}
	}
	return model.NewResult(model.StatusNormal, fmt.Sprintf("接口状态:正常, 共检查%d个接口", checked))
}

// ============================================================================
// NTP
// ============================================================================

var (
	ntpNotConfiguredRe = regexp.MustCompile(`(?i)NTP\s+(?:service\s+)?is\s+not\s+(?:configured|enabled)`)
	clockStatusRe      = regexp.MustCompile(`(?i)clock\s+status\s*:\s*(\S+)`)
)

func checkNTP(c *capture, commands ...string) model.CategoryResult {
	if !c.hasAny(commands...) {
		return missingCommand(commands[0])
	}

	out := c.output(commands...)
	if ntpNotConfiguredRe.MatchString(out) {
		return model.NewResult(model.StatusWarning, "NTP状态:未配置")
	}

	status := "未知"
	if m := clockStatusRe.FindStringSubmatch(out); m != nil {
		status = m[1]
	}
	if strings.EqualFold(status, "synchronized") {
		return model.NewResult(model.StatusNormal, "NTP状态:正常, 时钟状态:synchronized")
	}
	return model.NewResult(model.StatusAbnormal, fmt.Sprintf("NTP状态:异常, 时钟状态:%s", status))
}
