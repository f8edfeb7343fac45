package propfile

import "strings"

// Rule rewrites any line whose trimmed form starts with Prefix to Line.
// Rules are evaluated in declared order and at most one rule fires per
// line.
type Rule struct {
	Prefix string
	Line   string
}

// KeyRule builds the conventional rule for a property key: match the
// key= prefix, replace the whole line with key=value.
func KeyRule(key, value string) Rule {
	return Rule{Prefix: key + "=", Line: key + "=" + value}
}

// Apply runs the rule set over content. Lines that match a rule are
// rewritten only when their trimmed form differs from the target line;
// lines matching a delete prefix are dropped; everything else is
// preserved byte-for-byte, trailing terminator included. The first
// matching rule wins and suppresses the deletion check for that line.
func Apply(content string, rules []Rule, deletePrefixes []string) (string, bool) {
	var out strings.Builder
	out.Grow(len(content))
	changed := false

	for _, line := range splitLines(content) {
		trimmed := strings.TrimSpace(line)

		matched := false
		for _, rule := range rules {
			if !strings.HasPrefix(trimmed, rule.Prefix) {
				continue
			}
			if trimmed != rule.Line {
				out.WriteString(rule.Line)
				out.WriteString("\n")
				changed = true
			} else {
				out.WriteString(line)
			}
			matched = true
			break
		}
		if matched {
			continue
		}

		deleted := false
		for _, prefix := range deletePrefixes {
			if strings.HasPrefix(trimmed, prefix) {
				changed = true
				deleted = true
				break
			}
		}
		if deleted {
			continue
		}

		out.WriteString(line)
	}

	return out.String(), changed
}

// splitLines splits content after every newline, keeping terminators
// attached so untouched lines round-trip exactly.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	parts := strings.SplitAfter(content, "\n")
	if parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}
