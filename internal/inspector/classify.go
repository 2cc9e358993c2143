package inspector

import (
	"regexp"

	"device-inspection/internal/model"
)

// Brand strings printed by "display version" and banners.
// Huawei signatures are case-sensitive; H3C ones are not.
var (
	huaweiBrandRes = []*regexp.Regexp{
		regexp.MustCompile(`Huawei Versatile Routing Platform`),
		regexp.MustCompile(`VRP \(R\) software`),
		regexp.MustCompile(`HUAWEI \S+ (?:Routing Switch|Switch)`),
		regexp.MustCompile(`\bHuawei\b`),
		regexp.MustCompile(`\bHUAWEI\b`),
	}
	h3cBrandRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)H3C Comware`),
		regexp.MustCompile(`(?i)\bH3C S\d+`),
		regexp.MustCompile(`(?i)hp_comware`),
		regexp.MustCompile(`(?i)HPE Comware`),
	}
)

// Output layouts that only one vendor prints.
var (
	huaweiFeatureRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)CPU Usage\s*:\s*\d+%\s+Max\s*:\s*\d+%`),
		regexp.MustCompile(`(?i)CPU utilization for five seconds:`),
		regexp.MustCompile(`(?i)Memory Using Percentage Is:`),
		regexp.MustCompile(`(?i)System Total Memory Is:.*\n\s*Total Memory Used Is:`),
		regexp.MustCompile(`(?i)Slot\s+Sub\s+Type\s+Online\s+Power\s+Register\s+Status\s+Role`),
	}
	h3cFeatureRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Slot\s+\d+\s+CPU\s+\d+\s+CPU usage`),
		regexp.MustCompile(`(?i)Memory statistics are measured in KB`),
		regexp.MustCompile(`(?i)FreeRatio`),
		regexp.MustCompile(`(?i)PowerID\s+State\s+Mode\s+Current`),
	}
)

// Command echoes that lean towards one vendor. Each marker counts once.
var (
	h3cVoteRes = []*regexp.Regexp{
		echoMarker(`display cpu`),
		echoMarker(`display memory`),
		echoMarker(`display fan`),
	}
	huaweiVoteRes = []*regexp.Regexp{
		echoMarker(`display device`),
		echoMarker(`display interface brief`),
		regexp.MustCompile(`InUti/OutUti:\s*input utility/output utility`),
	}
)

// echoMarker matches a command line immediately followed by an output header.
func echoMarker(command string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + regexp.QuoteMeta(command) + `[ \t]*\r?\n\s*(?:output|输出)\s*[:：]`)
}

// Classify identifies the vendor of a capture. It never fails: input
// without any vendor evidence, or with a tied vote, is VendorUnknown.
func Classify(text string) model.Vendor {
	if text == "" {
		return model.VendorUnknown
	}

	switch {
	case anyMatch(text, huaweiBrandRes):
		return model.VendorHuawei
	case anyMatch(text, h3cBrandRes):
		return model.VendorH3C
	case anyMatch(text, huaweiFeatureRes):
		return model.VendorHuawei
	case anyMatch(text, h3cFeatureRes):
		return model.VendorH3C
	}

	huawei := countMatches(text, huaweiVoteRes)
	h3c := countMatches(text, h3cVoteRes)
	switch {
	case huawei > h3c:
		return model.VendorHuawei
	case h3c > huawei:
		return model.VendorH3C
	default:
		return model.VendorUnknown
	}
}

func anyMatch(text string, res []*regexp.Regexp) bool {
	for _, re := range res {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

func countMatches(text string, res []*regexp.Regexp) int {
	n := 0
	for _, re := range res {
		if re.MatchString(text) {
			n++
		}
	}
	return n
}
