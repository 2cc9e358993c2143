package inspector

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"device-inspection/internal/model"
)

type sensorReading struct {
	name       string
	current    float64
	warning    float64
	alarm      float64
	hasWarning bool
	hasAlarm   bool
}

const tempNum = `(-?\d+(?:\.\d+)?|NA|--)`

var (
	// Slot  Sensor  Temperature  Lower  Warning  Alarm  [Shutdown]
	thresholdHeaderRe = regexp.MustCompile(`(?i)\btemperature\S*\s+lower\S*\s+warning\S*\s+alarm\S*(\s+shutdown\S*)?`)
	thresholdRow4Re   = regexp.MustCompile(`^\s*(\S.*?)\s+(-?\d+(?:\.\d+)?)\s+` + tempNum + `\s+` + tempNum + `\s+` + tempNum + `\s*$`)
	thresholdRow5Re   = regexp.MustCompile(`^\s*(\S.*?)\s+(-?\d+(?:\.\d+)?)\s+` + tempNum + `\s+` + tempNum + `\s+` + tempNum + `\s+` + tempNum + `\s*$`)
)

// parseThresholdTable reads the "Temperature Lower Warning Alarm" table.
// The column count follows the most recent header so that rows with and
// without a Shutdown column are both read correctly.
func parseThresholdTable(out string) ([]sensorReading, bool) {
	var (
		sensors    []sensorReading
		rowRe      *regexp.Regexp
		slotPrefix bool
	)

	for _, line := range strings.Split(out, "\n") {
		if m := thresholdHeaderRe.FindStringSubmatch(line); m != nil {
			rowRe = thresholdRow4Re
			if m[1] != "" {
				rowRe = thresholdRow5Re
			}
			slotPrefix = strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "slot")
			continue
		}
		if rowRe == nil {
			continue
		}

		m := rowRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		current, ok := parseFloat(m[2])
		if !ok {
			continue
		}
		name := spaceRunRe.ReplaceAllString(strings.TrimSpace(m[1]), " ")
		if slotPrefix && name[0] >= '0' && name[0] <= '9' {
			name = "Slot " + name
		}
		s := sensorReading{name: name, current: current}
		s.warning, s.hasWarning = parseFloat(m[4])
		s.alarm, s.hasAlarm = parseFloat(m[5])
		sensors = append(sensors, s)
	}

	return sensors, len(sensors) > 0
}

func evalTemperature(sensors []sensorReading) model.CategoryResult {
	details := make(map[string]string)
	peak := math.Inf(-1)
	alarms, warnings := 0, 0

	for _, s := range sensors {
		peak = math.Max(peak, s.current)
		switch {
		case s.hasAlarm && s.current >= s.alarm:
			alarms++
			details[s.name] = fmt.Sprintf("当前温度%s℃, 已达告警阈值%s℃", formatPercent(s.current), formatPercent(s.alarm))
		case s.hasWarning && s.current >= s.warning:
			warnings++
			details[s.name] = fmt.Sprintf("当前温度%s℃, 已达预警阈值%s℃", formatPercent(s.current), formatPercent(s.warning))
		}
	}

	maxText := formatPercent(peak)
	switch {
	case alarms > 0:
		return model.CategoryResult{
			Status:  model.StatusAbnormal,
			Message: fmt.Sprintf("温度状态:异常, 最高温度:%s℃, %d个传感器达到告警阈值", maxText, alarms),
			Details: details,
		}
	case warnings > 0:
		return model.CategoryResult{
			Status:  model.StatusWarning,
			Message: fmt.Sprintf("温度状态:警告, 最高温度:%s℃, %d个传感器达到预警阈值", maxText, warnings),
			Details: details,
		}
	default:
		return model.NewResult(model.StatusNormal, fmt.Sprintf("温度状态:正常, 最高温度:%s℃", maxText))
	}
}

func checkTemperature(c *capture, commands []string, layouts []layout[[]sensorReading]) model.CategoryResult {
	if !c.hasAny(commands...) {
		return model.NewResult(model.StatusWarning,
			fmt.Sprintf("温度状态:未知, 未找到%s命令输出", strings.Join(commands, "/")))
	}

	sensors, _, ok := firstMatch(c.output(commands...), layouts)
	if !ok {
		return model.NewResult(model.StatusWarning, "温度状态:未知, 无法解析温度信息")
	}
	return evalTemperature(sensors)
}
