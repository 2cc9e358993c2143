package inspector

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"device-inspection/internal/model"
)

// H3C Comware diagnostic commands.
const (
	h3cCPUCommand      = "display cpu"
	h3cMemoryCommand   = "display memory"
	h3cPowerCommand    = "display power"
	h3cFanCommand      = "display fan"
	h3cNTPCommand      = "display ntp status"
	h3cNTPAltCommand   = "display ntp-service status"
	h3cInboundCommand  = "display counters inbound interface"
	h3cOutboundCommand = "display counters outbound interface"
	h3cAlarmCommand    = "display alarm"
	h3cEnvCommand      = "display environment"
)

var (
	h3cCPUSlotRe      = regexp.MustCompile(`(?i)(?:Chassis\s+(\d+)\s+)?Slot\s+(\d+)\s+CPU\s+(\d+)\s+CPU usage:\s*(\d+)%\s+in last 5 seconds\s*(\d+)%\s+in last 1 minute\s*(\d+)%\s+in last 5 minutes`)
	h3cCPUBoardRe     = regexp.MustCompile(`(?i)(?:(Board|Slot)\s+(\d+)\s+)?CPU\s+(?:usage|busy status)\s*:\s*(\d+)%\s+in last 5 seconds\s*(\d+)%\s+in last 1 minute\s*(\d+)%\s+in last 5 minutes`)
	h3cMemRateRe      = regexp.MustCompile(`(?i)System Total Memory\(bytes\):\s*(\d+)\s+Total Used Memory\(bytes\):\s*(\d+)\s+Used Rate:\s*(\d+(?:\.\d+)?)%`)
	h3cMemBytesRe     = regexp.MustCompile(`(?is)System Total Memory\(bytes\):\s*(\d+).*?Total Used Memory\(bytes\):\s*(\d+)`)
	h3cMemFreeRe      = regexp.MustCompile(`(?m)^\s*Mem:\s+(?:\d+\s+)+(\d+(?:\.\d+)?)%`)
	h3cPowerHeadRe    = regexp.MustCompile(`(?i)PowerID\s+State`)
	h3cPowerBlockRe   = regexp.MustCompile(`(?i)\bPower\s+(\d+)\s*:?\s*State\s*:\s*(\S+)`)
	h3cFanHeadRe      = regexp.MustCompile(`(?i)FanID\s+Status`)
	h3cFanBlockRe     = regexp.MustCompile(`(?i)\bFan\s+(\d+)\s*:?\s*State\s*:\s*(\S+)`)
	h3cFanFrameRe     = regexp.MustCompile(`(?mi)^\s*(Fan\s*Frame\s*\d+)\b.*?State\s*:\s*(\S+)`)
	h3cStateRowRe     = regexp.MustCompile(`^\s*(\d+)\s+(\S+)`)
	h3cCounterRowRe   = regexp.MustCompile(`(?m)^\s*([A-Za-z][\w\-/.:]*\d)\s+(\d+|--)\s+(\d+|--)\s+(\d+|--)\s+(\d+|--)\s*$`)
	h3cCounterLooseRe = regexp.MustCompile(`(?m)^\s*((?:GE|XGE|FGE|HGE|WGE|BAGG|RAGG)[\w/.:\-]*)\s+.*?\s+(\d+)\s*$`)
	h3cAlarmHeadRe    = regexp.MustCompile(`(?mi)^\s*(?:Chassis\s+)?Slot\s+(?:\S+\s+)?Level\s+Info`)
)

var h3cTemperatureLayouts = []layout[[]sensorReading]{
	{name: "threshold-table", extract: parseThresholdTable},
}

var h3cCPULayouts = []layout[[]cpuSample]{
	{name: "slot-cpu", extract: func(out string) ([]cpuSample, bool) {
		var samples []cpuSample
		for _, m := range h3cCPUSlotRe.FindAllStringSubmatch(out, -1) {
			entity := fmt.Sprintf("Slot %s CPU %s", m[2], m[3])
			if m[1] != "" {
				entity = "Chassis " + m[1] + " " + entity
			}
			samples = append(samples, cpuSample{entity: entity, values: windowValues(m[4], m[5], m[6])})
		}
		return samples, len(samples) > 0
	}},
	{name: "board-cpu", extract: func(out string) ([]cpuSample, bool) {
		var samples []cpuSample
		for i, m := range h3cCPUBoardRe.FindAllStringSubmatch(out, -1) {
			entity := "CPU"
			switch {
			case m[1] != "":
				entity = m[1] + " " + m[2]
			case i > 0:
				entity = fmt.Sprintf("CPU %d", i)
			}
			samples = append(samples, cpuSample{entity: entity, values: windowValues(m[3], m[4], m[5])})
		}
		return samples, len(samples) > 0
	}},
}

var h3cMemoryLayouts = []layout[float64]{
	{name: "used-rate", extract: func(out string) (float64, bool) {
		return maxPercent(h3cMemRateRe.FindAllStringSubmatch(out, -1), func(m []string) (float64, bool) {
			return parseFloat(m[3])
		})
	}},
	{name: "total-used", extract: func(out string) (float64, bool) {
		return maxPercent(h3cMemBytesRe.FindAllStringSubmatch(out, -1), func(m []string) (float64, bool) {
			total, _ := parseFloat(m[1])
			used, _ := parseFloat(m[2])
			if total <= 0 {
				return 0, false
			}
			return used / total * 100, true
		})
	}},
	{name: "free-ratio", extract: func(out string) (float64, bool) {
		return maxPercent(h3cMemFreeRe.FindAllStringSubmatch(out, -1), func(m []string) (float64, bool) {
			free, ok := parseFloat(m[1])
			return 100 - free, ok
		})
	}},
}

// maxPercent returns the highest usage over all slots that report one.
func maxPercent(matches [][]string, usage func([]string) (float64, bool)) (float64, bool) {
	best, found := math.Inf(-1), false
	for _, m := range matches {
		if v, ok := usage(m); ok {
			best = math.Max(best, v)
			found = true
		}
	}
	return best, found
}

var h3cPowerLayouts = []layout[componentReading]{
	{name: "power-table", extract: func(out string) (componentReading, bool) {
		return scanStateTable(out, h3cPowerHeadRe, "Power")
	}},
	{name: "power-block", extract: func(out string) (componentReading, bool) {
		return scanStateBlocks(out, h3cPowerBlockRe, "Power")
	}},
}

var h3cFanLayouts = []layout[componentReading]{
	{name: "fan-block", extract: func(out string) (componentReading, bool) {
		return scanStateBlocks(out, h3cFanBlockRe, "Fan")
	}},
	{name: "fan-table", extract: func(out string) (componentReading, bool) {
		return scanStateTable(out, h3cFanHeadRe, "Fan")
	}},
	{name: "fan-frame", extract: func(out string) (componentReading, bool) {
		var r componentReading
		for _, m := range h3cFanFrameRe.FindAllStringSubmatch(out, -1) {
			r.entries = append(r.entries, stateComponent(spaceRunRe.ReplaceAllString(m[1], " "), m[2]))
		}
		return r, len(r.entries) > 0
	}},
}

func stateComponent(id, state string) component {
	return component{id: id, state: state, healthy: strings.EqualFold(state, "Normal")}
}

// scanStateTable reads "<ID> <State> ..." rows under a header, qualifying
// ids with the enclosing "Slot N:" block.
func scanStateTable(out string, headerRe *regexp.Regexp, label string) (componentReading, bool) {
	var (
		r       componentReading
		slot    string
		inTable bool
	)
	for _, line := range strings.Split(out, "\n") {
		switch {
		case slotHeaderRe.MatchString(line):
			slot = slotHeaderRe.FindStringSubmatch(line)[1]
			inTable = false
		case headerRe.MatchString(line):
			inTable = true
		case strings.TrimSpace(line) == "" || tableRuleRe.MatchString(line):
		case inTable:
			m := h3cStateRowRe.FindStringSubmatch(line)
			if m == nil {
				inTable = false
				continue
			}
			id := label + " " + m[1]
			if slot != "" {
				id = "Slot " + slot + " " + id
			}
			r.entries = append(r.entries, stateComponent(id, m[2]))
		}
	}
	return r, len(r.entries) > 0
}

// scanStateBlocks reads "<Label> N: State : X" blocks.
func scanStateBlocks(out string, blockRe *regexp.Regexp, label string) (componentReading, bool) {
	var r componentReading
	slots := newSlotIndex(out)
	for _, loc := range blockRe.FindAllStringSubmatchIndex(out, -1) {
		id := slots.qualify(loc[0], label+" "+out[loc[2]:loc[3]])
		r.entries = append(r.entries, stateComponent(id, out[loc[4]:loc[5]]))
	}
	return r, len(r.entries) > 0
}

var h3cInterfaceLayouts = []layout[[]ifaceCounter]{
	{name: "counters-table", extract: func(out string) ([]ifaceCounter, bool) {
		var counters []ifaceCounter
		for _, m := range h3cCounterRowRe.FindAllStringSubmatch(out, -1) {
			counters = append(counters, ifaceCounter{name: m[1], in: parseInt(m[5])})
		}
		return counters, len(counters) > 0
	}},
	{name: "trailing-count", extract: func(out string) ([]ifaceCounter, bool) {
		var counters []ifaceCounter
		for _, m := range h3cCounterLooseRe.FindAllStringSubmatch(out, -1) {
			counters = append(counters, ifaceCounter{name: m[1], in: parseInt(m[2])})
		}
		return counters, len(counters) > 0
	}},
}

type h3c struct {
	thresholds Thresholds
}

func h3cChecks(t Thresholds) map[model.Category]checkFunc {
	h := h3c{thresholds: t}
	return map[model.Category]checkFunc{
		model.CategoryCPU:             h.cpu,
		model.CategoryMemory:          h.memory,
		model.CategoryPower:           h.power,
		model.CategoryFan:             h.fan,
		model.CategoryNTP:             h.ntp,
		model.CategoryInterfaceErrors: h.interfaceErrors,
		model.CategoryAlarms:          h.alarms,
		model.CategoryTemperature:     h.temperature,
	}
}

func (h h3c) cpu(text string) model.CategoryResult {
	c := newCapture(text)
	if !c.has(h3cCPUCommand) {
		return missingCommand(h3cCPUCommand)
	}
	samples, _, ok := firstMatch(c.output(h3cCPUCommand), h3cCPULayouts)
	if !ok {
		return model.NewResult(model.StatusError, "无法获取CPU使用率")
	}
	return evalCPU(samples, h.thresholds.CPUUsage)
}

func (h h3c) memory(text string) model.CategoryResult {
	c := newCapture(text)
	if !c.has(h3cMemoryCommand) {
		return missingCommand(h3cMemoryCommand)
	}
	percent, _, ok := firstMatch(c.output(h3cMemoryCommand), h3cMemoryLayouts)
	if !ok {
		return model.NewResult(model.StatusError, "无法获取内存使用率")
	}
	return evalMemory(percent, h.thresholds.MemoryUsage)
}

func (h h3c) power(text string) model.CategoryResult {
	return h.component(text, model.CategoryPower, h3cPowerCommand, h3cPowerLayouts)
}

func (h h3c) fan(text string) model.CategoryResult {
	return h.component(text, model.CategoryFan, h3cFanCommand, h3cFanLayouts)
}

func (h h3c) component(text string, category model.Category, command string, layouts []layout[componentReading]) model.CategoryResult {
	c := newCapture(text)
	if !c.has(command) {
		return missingCommand(command)
	}
	reading, _, ok := firstMatch(c.output(command), layouts)
	if !ok {
		return model.NewResult(model.StatusError, fmt.Sprintf("无法获取%s状态", category.DisplayName()))
	}
	return evalComponents(category, reading)
}

func (h h3c) ntp(text string) model.CategoryResult {
	return checkNTP(newCapture(text), h3cNTPCommand, h3cNTPAltCommand)
}

// interfaceErrors merges the inbound and outbound counter tables per
// interface. Unstructured captures are read as a single undirected table.
func (h h3c) interfaceErrors(text string) model.CategoryResult {
	c := newCapture(text)
	if !c.hasAny(h3cInboundCommand, h3cOutboundCommand) {
		return missingCommand(h3cInboundCommand)
	}

	if !c.structured() {
		counters, _, ok := firstMatch(text, h3cInterfaceLayouts)
		if !ok {
			return model.NewResult(model.StatusError, "无法获取接口错包信息")
		}
		return evalInterfaces(counters)
	}

	var (
		merged []ifaceCounter
		index  = make(map[string]int)
		parsed bool
	)
	for _, command := range []string{h3cInboundCommand, h3cOutboundCommand} {
		out, ok := c.sectionOutput(command)
		if !ok {
			continue
		}
		rows, _, ok := firstMatch(out, h3cInterfaceLayouts)
		if !ok {
			continue
		}
		parsed = true
		for _, row := range rows {
			i, seen := index[row.name]
			if !seen {
				i = len(merged)
				index[row.name] = i
				merged = append(merged, ifaceCounter{name: row.name, directional: true})
			}
			if command == h3cInboundCommand {
				merged[i].in = row.in
			} else {
				merged[i].out = row.in
			}
		}
	}
	if !parsed {
		return model.NewResult(model.StatusError, "无法获取接口错包信息")
	}
	return evalInterfaces(merged)
}

func (h h3c) alarms(text string) model.CategoryResult {
	return checkAlarms(newCapture(text), alarmSource{
		command:     h3cAlarmCommand,
		tableHeader: h3cAlarmHeadRe,
	})
}

func (h h3c) temperature(text string) model.CategoryResult {
	return checkTemperature(newCapture(text), []string{h3cEnvCommand}, h3cTemperatureLayouts)
}
