package inspector

import (
	"fmt"
	"regexp"
	"strings"

	"device-inspection/internal/model"
)

// Huawei VRP diagnostic commands.
const (
	huaweiCPUCommand       = "display cpu"
	huaweiMemoryCommand    = "display memory"
	huaweiDeviceCommand    = "display device"
	huaweiNTPCommand       = "display ntp status"
	huaweiInterfaceCommand = "display interface brief"
	huaweiAlarmCommand     = "display alarm active"
	huaweiTempCommand      = "display temperature"
	huaweiEnvCommand       = "display environment"
)

var (
	huaweiCPUMaxRe      = regexp.MustCompile(`(?i)CPU Usage\s*:\s*(\d+(?:\.\d+)?)%\s+Max\s*:\s*(\d+(?:\.\d+)?)%`)
	huaweiCPUWindowRe   = regexp.MustCompile(`(?i)CPU utilization for five seconds:\s*(\d+)%\s*:?\s*one minute:\s*(\d+)%\s*:?\s*five minutes:\s*(\d+)%`)
	huaweiCPUSystemRe   = regexp.MustCompile(`(?i)System CPU Using Percentage\s*:\s*(\d+(?:\.\d+)?)%`)
	huaweiCPUCoreRe     = regexp.MustCompile(`(?mi)^\s*(cpu\d+)\s+(\d+(?:\.\d+)?)%`)
	huaweiMemPercentRe  = regexp.MustCompile(`(?i)Memory Using Percentage(?:\s+Is)?\s*:\s*(\d+(?:\.\d+)?)%`)
	huaweiMemTotalRe    = regexp.MustCompile(`(?i)System Total Memory(?:\s+Is)?\s*:\s*([\d,]+)`)
	huaweiMemUsedRe     = regexp.MustCompile(`(?i)Total Memory Used(?:\s+Is)?\s*:\s*([\d,]+)`)
	huaweiChassisHeadRe = regexp.MustCompile(`(?i)Slot\s+(?:Sub|Card)\s+Type\s+Online\s+Power\s+Register\s+(?:Status|Alarm)`)
	huaweiChassisRowRe  = regexp.MustCompile(`(?m)^\s*(\d+)\s+\S+\s+\S+\s+(Present|Absent)\s+\S+\s+(Registered|Unregistered)\s+(\S+)`)
	huaweiPowerRowRe    = regexp.MustCompile(`(?mi)^\s*(?:\d+\s+)?((?:PWR|POWER)\d+)\b(.*)$`)
	huaweiFanRowRe      = regexp.MustCompile(`(?mi)^\s*(?:\d+\s+)?(FAN\d+)\b(.*)$`)
	huaweiIfaceRowRe    = regexp.MustCompile(`(?mi)^\s*(\S+)\s+([*^#]?(?:up|down)\S*)\s+(\S+)\s+(\S+)\s+(\S+)\s+(\d+)\s+(\d+)\s*$`)
	huaweiIfaceLooseRe  = regexp.MustCompile(`(?m)^\s*((?:100GE|40GE|25GE|10GE|XGE|GE|Eth-Trunk|GigabitEthernet|XGigabitEthernet|Ethernet)[\w/.:\-]*)\s+.*?\s+(\d+)\s*$`)
	huaweiAlarmHeadRe   = regexp.MustCompile(`(?i)Sequence\s+AlarmId\s+Severity`)
	huaweiTempHeadRe    = regexp.MustCompile(`(?i)Slot\s+Card\s+Sensor\s+Status\s+Current`)
	huaweiTempRowRe     = regexp.MustCompile(`^\s*(\S+)\s+(\S+)\s+(\S+)\s+([A-Za-z]+)\s+(-?\d+)\s+(-?\d+)\s+(-?\d+)(?:\s+(-?\d+)\s+(-?\d+))?\s*$`)
)

var huaweiCPULayouts = []layout[[]cpuSample]{
	{name: "current-max", extract: func(out string) ([]cpuSample, bool) {
		m := huaweiCPUMaxRe.FindStringSubmatch(out)
		if m == nil {
			return nil, false
		}
		cur, _ := parseFloat(m[1])
		peak, _ := parseFloat(m[2])
		return []cpuSample{{entity: "CPU", values: []usageValue{{"当前", cur}, {"峰值", peak}}}}, true
	}},
	{name: "five-seconds", extract: func(out string) ([]cpuSample, bool) {
		m := huaweiCPUWindowRe.FindStringSubmatch(out)
		if m == nil {
			return nil, false
		}
		return []cpuSample{{entity: "CPU", values: windowValues(m[1], m[2], m[3])}}, true
	}},
	{name: "system-percentage", extract: func(out string) ([]cpuSample, bool) {
		m := huaweiCPUSystemRe.FindStringSubmatch(out)
		if m == nil {
			return nil, false
		}
		v, _ := parseFloat(m[1])
		return []cpuSample{{entity: "CPU", values: []usageValue{{"当前", v}}}}, true
	}},
	{name: "per-core", extract: func(out string) ([]cpuSample, bool) {
		var samples []cpuSample
		for _, m := range huaweiCPUCoreRe.FindAllStringSubmatch(out, -1) {
			v, _ := parseFloat(m[2])
			samples = append(samples, cpuSample{entity: strings.ToUpper(m[1]), values: []usageValue{{"当前", v}}})
		}
		return samples, len(samples) > 0
	}},
}

var huaweiMemoryLayouts = []layout[float64]{
	{name: "percentage", extract: func(out string) (float64, bool) {
		m := huaweiMemPercentRe.FindStringSubmatch(out)
		if m == nil {
			return 0, false
		}
		return parseFloat(m[1])
	}},
	{name: "total-used", extract: func(out string) (float64, bool) {
		tm := huaweiMemTotalRe.FindStringSubmatch(out)
		um := huaweiMemUsedRe.FindStringSubmatch(out)
		if tm == nil || um == nil {
			return 0, false
		}
		total, _ := parseFloat(tm[1])
		used, _ := parseFloat(um[1])
		if total <= 0 {
			return 0, false
		}
		return used / total * 100, true
	}},
}

// huaweiDeviceLayouts reads power or fan rows from "display device".
// Without per-unit rows, healthy chassis rows imply healthy units.
func huaweiDeviceLayouts(rowRe *regexp.Regexp) []layout[componentReading] {
	return []layout[componentReading]{
		{name: "unit-rows", extract: func(out string) (componentReading, bool) {
			var r componentReading
			for _, m := range rowRe.FindAllStringSubmatch(out, -1) {
				if e, ok := huaweiDeviceRow(strings.ToUpper(m[1]), m[2]); ok {
					r.entries = append(r.entries, e)
				}
			}
			return r, len(r.entries) > 0
		}},
		{name: "chassis-rows", extract: func(out string) (componentReading, bool) {
			if !huaweiChassisHeadRe.MatchString(out) {
				return componentReading{}, false
			}
			r := componentReading{implicit: true}
			for _, m := range huaweiChassisRowRe.FindAllStringSubmatch(out, -1) {
				healthy := m[2] == "Present" && m[3] == "Registered" && strings.EqualFold(m[4], "Normal")
				r.entries = append(r.entries, component{
					id:      "Slot " + m[1],
					state:   fmt.Sprintf("%s/%s/%s", m[2], m[3], m[4]),
					healthy: healthy,
				})
			}
			return r, len(r.entries) > 0
		}},
	}
}

// huaweiDeviceRow reads the Register and Status tokens that follow a unit id.
func huaweiDeviceRow(id, rest string) (component, bool) {
	fields := strings.Fields(rest)
	for i, f := range fields {
		if f != "Registered" && f != "Unregistered" {
			continue
		}
		status := "未知"
		if i+1 < len(fields) {
			status = fields[i+1]
		}
		return component{
			id:      id,
			state:   f + "/" + status,
			healthy: f == "Registered" && strings.EqualFold(status, "Normal"),
		}, true
	}
	return component{}, false
}

var huaweiInterfaceLayouts = []layout[[]ifaceCounter]{
	{name: "in-out-errors", extract: func(out string) ([]ifaceCounter, bool) {
		var counters []ifaceCounter
		for _, m := range huaweiIfaceRowRe.FindAllStringSubmatch(out, -1) {
			counters = append(counters, ifaceCounter{
				name:        m[1],
				in:          parseInt(m[6]),
				out:         parseInt(m[7]),
				directional: true,
			})
		}
		return counters, len(counters) > 0
	}},
	{name: "trailing-count", extract: func(out string) ([]ifaceCounter, bool) {
		var counters []ifaceCounter
		for _, m := range huaweiIfaceLooseRe.FindAllStringSubmatch(out, -1) {
			counters = append(counters, ifaceCounter{name: m[1], in: parseInt(m[2])})
		}
		return counters, len(counters) > 0
	}},
}

var huaweiTemperatureLayouts = []layout[[]sensorReading]{
	{name: "temperature-all", extract: parseHuaweiTemperatureAll},
	{name: "threshold-table", extract: parseThresholdTable},
}

// parseHuaweiTemperatureAll reads "display temperature all". Upper is the
// alarm threshold and Upper Resume, when present, the warning threshold.
func parseHuaweiTemperatureAll(out string) ([]sensorReading, bool) {
	loc := huaweiTempHeadRe.FindStringIndex(out)
	if loc == nil {
		return nil, false
	}

	var sensors []sensorReading
	for _, line := range strings.Split(out[loc[1]:], "\n") {
		m := huaweiTempRowRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		s := sensorReading{name: huaweiSensorName(m[1], m[2], m[3])}
		s.current, _ = parseFloat(m[5])
		if m[8] != "" {
			s.alarm, s.hasAlarm = parseFloat(m[8])
			s.warning, s.hasWarning = parseFloat(m[9])
		} else {
			s.alarm, s.hasAlarm = parseFloat(m[7])
		}
		sensors = append(sensors, s)
	}
	return sensors, len(sensors) > 0
}

func huaweiSensorName(slot, card, sensor string) string {
	name := "Slot " + slot
	if card != "NA" && card != "-" {
		name += " Card " + card
	}
	if sensor != "NA" && sensor != "-" {
		name += " Sensor " + sensor
	}
	return name
}

func windowValues(five, one, fifteen string) []usageValue {
	a, _ := parseFloat(five)
	b, _ := parseFloat(one)
	c, _ := parseFloat(fifteen)
	return []usageValue{{"5秒", a}, {"1分钟", b}, {"5分钟", c}}
}

type huawei struct {
	thresholds Thresholds
}

func huaweiChecks(t Thresholds) map[model.Category]checkFunc {
	h := huawei{thresholds: t}
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

func (h huawei) cpu(text string) model.CategoryResult {
	c := newCapture(text)
	if !c.has(huaweiCPUCommand) {
		return missingCommand(huaweiCPUCommand)
	}
	samples, _, ok := firstMatch(c.output(huaweiCPUCommand), huaweiCPULayouts)
	if !ok {
		return model.NewResult(model.StatusError, "无法获取CPU使用率")
	}
	return evalCPU(samples, h.thresholds.CPUUsage)
}

func (h huawei) memory(text string) model.CategoryResult {
	c := newCapture(text)
	if !c.has(huaweiMemoryCommand) {
		return missingCommand(huaweiMemoryCommand)
	}
	percent, _, ok := firstMatch(c.output(huaweiMemoryCommand), huaweiMemoryLayouts)
	if !ok {
		return model.NewResult(model.StatusError, "无法获取内存使用率")
	}
	return evalMemory(percent, h.thresholds.MemoryUsage)
}

func (h huawei) power(text string) model.CategoryResult {
	return h.device(text, model.CategoryPower, huaweiPowerRowRe)
}

func (h huawei) fan(text string) model.CategoryResult {
	return h.device(text, model.CategoryFan, huaweiFanRowRe)
}

func (h huawei) device(text string, category model.Category, rowRe *regexp.Regexp) model.CategoryResult {
	c := newCapture(text)
	if !c.has(huaweiDeviceCommand) {
		return missingCommand(huaweiDeviceCommand)
	}
	reading, _, ok := firstMatch(c.output(huaweiDeviceCommand), huaweiDeviceLayouts(rowRe))
	if !ok {
		return model.NewResult(model.StatusError, fmt.Sprintf("无法获取%s状态", category.DisplayName()))
	}
	return evalComponents(category, reading)
}

func (h huawei) ntp(text string) model.CategoryResult {
	return checkNTP(newCapture(text), huaweiNTPCommand)
}

func (h huawei) interfaceErrors(text string) model.CategoryResult {
	c := newCapture(text)
	if !c.has(huaweiInterfaceCommand) {
		return missingCommand(huaweiInterfaceCommand)
	}
	counters, _, ok := firstMatch(c.output(huaweiInterfaceCommand), huaweiInterfaceLayouts)
	if !ok {
		return model.NewResult(model.StatusError, "无法获取接口错包信息")
	}
	return evalInterfaces(counters)
}

func (h huawei) alarms(text string) model.CategoryResult {
	return checkAlarms(newCapture(text), alarmSource{
		command:     huaweiAlarmCommand,
		tableHeader: huaweiAlarmHeadRe,
	})
}

func (h huawei) temperature(text string) model.CategoryResult {
	return checkTemperature(newCapture(text),
		[]string{huaweiTempCommand, huaweiEnvCommand}, huaweiTemperatureLayouts)
}
