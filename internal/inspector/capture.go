package inspector

import (
	"regexp"
	"strings"
)

var (
	commandHeaderRe = regexp.MustCompile(`^\s*(?i:command|命令)\s*[:：]\s*(.*?)\s*$`)
	outputHeaderRe  = regexp.MustCompile(`^\s*(?i:output|输出)\s*[:：]\s*(.*?)$`)
	ruleLineRe      = regexp.MustCompile(`^\s*-{10,}\s*$`)
	spaceRunRe      = regexp.MustCompile(`\s+`)
)

// section is one command/output block of a structured capture.
type section struct {
	command string // normalised: lower case, single spaces
	output  string
}

// capture wraps raw capture text with its parsed command sections.
// Captures without command/output headers have no sections and every
// lookup falls back to the whole text.
type capture struct {
	text     string
	lower    string
	sections []section
}

func newCapture(text string) *capture {
	return &capture{
		text:     text,
		lower:    strings.ToLower(text),
		sections: parseSections(text),
	}
}

// has reports whether the command string appears anywhere in the capture.
func (c *capture) has(command string) bool {
	return strings.Contains(c.lower, strings.ToLower(command))
}

// hasAny reports whether any of the commands appears in the capture.
func (c *capture) hasAny(commands ...string) bool {
	for _, cmd := range commands {
		if c.has(cmd) {
			return true
		}
	}
	return false
}

// structured reports whether command/output headers were found.
func (c *capture) structured() bool {
	return len(c.sections) > 0
}

// output returns the concatenated output of every section whose command
// starts with one of the given commands. Unstructured captures, and
// structured ones where no section matches, yield the whole text.
func (c *capture) output(commands ...string) string {
	out, ok := c.sectionOutput(commands...)
	if !ok {
		return c.text
	}
	return out
}

// sectionOutput is like output but reports whether a section matched.
func (c *capture) sectionOutput(commands ...string) (string, bool) {
	var parts []string
	matched := false
	for _, s := range c.sections {
		for _, cmd := range commands {
			if strings.HasPrefix(s.command, normaliseCommand(cmd)) {
				parts = append(parts, s.output)
				matched = true
				break
			}
		}
	}
	return strings.Join(parts, "\n"), matched
}

func normaliseCommand(cmd string) string {
	return strings.ToLower(strings.TrimSpace(spaceRunRe.ReplaceAllString(cmd, " ")))
}

type parseState int

const (
	stateIdle parseState = iota
	stateAwaitCommand
	stateAwaitOutput
	stateOutput
)

// parseSections splits a capture of the form
//
//	command:
//	display cpu
//	output:
//	...
//	--------------------------------------------------
//
// into sections. A dashed rule only closes a section when the next
// non-blank line is another command header or the end of input, because
// device tables use dashed rules too.
func parseSections(text string) []section {
	lines := strings.Split(text, "\n")

	var (
		sections []section
		state    = stateIdle
		command  string
		body     []string
	)

	flush := func() {
		if command != "" {
			sections = append(sections, section{
				command: normaliseCommand(command),
				output:  strings.TrimRight(strings.Join(body, "\n"), " \t\r\n"),
			})
		}
		command = ""
		body = nil
	}

	for i, line := range lines {
		if m := commandHeaderRe.FindStringSubmatch(line); m != nil {
			flush()
			command = m[1]
			state = stateAwaitOutput
			if command == "" {
				state = stateAwaitCommand
			}
			continue
		}

		switch state {
		case stateAwaitCommand:
			if strings.TrimSpace(line) != "" {
				command = strings.TrimSpace(line)
				state = stateAwaitOutput
			}
		case stateAwaitOutput:
			if m := outputHeaderRe.FindStringSubmatch(line); m != nil {
				state = stateOutput
				if rest := strings.TrimSpace(m[1]); rest != "" {
					body = append(body, m[1])
				}
			}
		case stateOutput:
			if ruleLineRe.MatchString(line) && closesSection(lines, i+1) {
				flush()
				state = stateIdle
				continue
			}
			body = append(body, line)
		}
	}
	flush()

	return sections
}

// closesSection reports whether the lines from start on contain only blank
// lines before the next command header or the end of input.
func closesSection(lines []string, start int) bool {
	for _, line := range lines[start:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		return commandHeaderRe.MatchString(line)
	}
	return true
}
