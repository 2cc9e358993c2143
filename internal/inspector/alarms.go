package inspector

import (
	"fmt"
	"regexp"
	"strings"

	"device-inspection/internal/model"
)

const (
	logBufferCommand = "display logbuffer"
	maxLogLines      = 20
)

var (
	noAlarmRe            = regexp.MustCompile(`(?i)\bno\s+(?:active\s+)?alarms?\b`)
	unsupportedCommandRe = regexp.MustCompile(`(?i)unrecognized command|unknown command|wrong parameter found|incomplete command`)
	severityKeywordRe    = regexp.MustCompile(`(?i)\b(?:critical|major|minor|warning|error|failure|failed|alarm|alert)\b`)
	alarmLegendRe        = regexp.MustCompile(`(?m)^\s*A/B/C/D`)
	alarmLegendRowRe     = regexp.MustCompile(`(?m)^\s*\d+/\S+`)
	tableRuleRe          = regexp.MustCompile(`^\s*[-=]+\s*$`)
)

// alarmSource describes where a vendor lists active alarms.
type alarmSource struct {
	command     string
	tableHeader *regexp.Regexp
}

type alarmFinding struct {
	active bool
	text   string
}

func alarmLayouts(tableHeader *regexp.Regexp) []layout[alarmFinding] {
	return []layout[alarmFinding]{
		{name: "empty", extract: func(out string) (alarmFinding, bool) {
			return alarmFinding{}, strings.TrimSpace(out) == ""
		}},
		{name: "table", extract: func(out string) (alarmFinding, bool) {
			loc := tableHeader.FindStringIndex(out)
			if loc == nil {
				return alarmFinding{}, false
			}
			return alarmFinding{active: hasTableBody(out[loc[1]:]), text: out}, true
		}},
		{name: "legend", extract: func(out string) (alarmFinding, bool) {
			if !alarmLegendRe.MatchString(out) {
				return alarmFinding{}, false
			}
			return alarmFinding{active: alarmLegendRowRe.MatchString(out), text: out}, true
		}},
		{name: "no-alarm", extract: func(out string) (alarmFinding, bool) {
			return alarmFinding{}, noAlarmRe.MatchString(out)
		}},
		{name: "keyword", extract: func(out string) (alarmFinding, bool) {
			if !severityKeywordRe.MatchString(out) {
				return alarmFinding{}, false
			}
			return alarmFinding{active: true, text: out}, true
		}},
		{name: "plain", extract: func(string) (alarmFinding, bool) {
			return alarmFinding{}, true
		}},
	}
}

// hasTableBody reports whether any line after a table header is a data row.
func hasTableBody(rest string) bool {
	lines := strings.Split(rest, "\n")
	// The first element is the remainder of the header line itself.
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" || tableRuleRe.MatchString(line) {
			continue
		}
		return true
	}
	return false
}

func checkAlarms(c *capture, src alarmSource) model.CategoryResult {
	hasAlarm := c.has(src.command)
	if hasAlarm {
		out := c.output(src.command)
		if !unsupportedCommandRe.MatchString(out) {
			finding, _, _ := firstMatch(out, alarmLayouts(src.tableHeader))
			if finding.active {
				return model.CategoryResult{
					Status:     model.StatusAbnormal,
					Message:    "告警状态:异常, 存在活动告警",
					DetailText: strings.TrimSpace(finding.text),
				}
			}
			return model.NewResult(model.StatusNormal, "告警状态:正常, 无活动告警")
		}
	}

	if c.has(logBufferCommand) {
		return scanLogBuffer(c.output(logBufferCommand))
	}
	if !hasAlarm {
		return missingCommand(src.command)
	}
	return model.NewResult(model.StatusWarning,
		fmt.Sprintf("告警状态:未知, 设备不支持%s命令且未采集日志缓冲区", src.command))
}

// scanLogBuffer looks for severity keywords in log buffer lines.
func scanLogBuffer(out string) model.CategoryResult {
	var hits []string
	total := 0
	for _, line := range strings.Split(out, "\n") {
		if !severityKeywordRe.MatchString(line) {
			continue
		}
		total++
		if len(hits) < maxLogLines {
			hits = append(hits, strings.TrimSpace(line))
		}
	}

	if total == 0 {
		return model.NewResult(model.StatusNormal, "告警状态:正常 (依据日志缓冲区判定)")
	}
	return model.CategoryResult{
		Status:     model.StatusAbnormal,
		Message:    fmt.Sprintf("告警状态:异常, 日志缓冲区中发现%d条告警相关日志", total),
		DetailText: strings.Join(hits, "\n"),
	}
}
