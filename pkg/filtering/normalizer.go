package filtering

import (
	"regexp"
	"strings"
)

// hostsPrefix matches the address column of a hosts-file line, e.g. "0.0.0.0 ".
var hostsPrefix = regexp.MustCompile(`^[0-9]+\.[0-9]+\.[0-9]+\.[0-9]+[ \t]+`)

// rejectRule reports whether a raw line must be dropped.
type rejectRule struct {
	name  string
	match func(line string) bool
}

var rejectRules = []rejectRule{
	{"colon", hasColon},
	{"bracket", hasBracket},
	{"comment", isComment},
	{"localhost", hasLocalhost},
	{"local-suffix", hasLocalSuffix},
	{"blank", isBlank},
	{"no-lowercase", lacksLowercase},
}

// Normalize extracts the domain encoded by a raw list line. It returns false
// when the line carries no usable entry.
func Normalize(raw string) (Entry, bool) {
	line := stripBOM(raw)
	if rejectReason(line) != "" {
		return Entry{}, false
	}

	line = hostsPrefix.ReplaceAllString(strings.TrimLeft(line, " \t"), "")
	line = stripCarriageReturn(line)
	line = strings.TrimSpace(line)
	if line == "" || strings.ContainsAny(line, " \t") {
		return Entry{}, false
	}

	return Entry{Domain: line, Class: Classify(line)}, true
}

// Classify returns the syntax class of a normalised domain.
func Classify(domain string) Class {
	switch {
	case strings.HasPrefix(domain, "."):
		return Negated
	case strings.Contains(domain, "*"):
		return Wildcarded
	default:
		return Plain
	}
}

// rejectReason names the first rule that drops the line, or "" if none does.
func rejectReason(line string) string {
	for _, rule := range rejectRules {
		if rule.match(line) {
			return rule.name
		}
	}
	return ""
}

// hasColon catches IPv6 hosts entries and "key: value" metadata.
func hasColon(line string) bool {
	return strings.Contains(line, ":")
}

// hasBracket catches section headers and adblock-style "||name^" rules.
func hasBracket(line string) bool {
	return strings.ContainsAny(line, "[]|")
}

func isComment(line string) bool {
	return strings.Contains(line, "#")
}

func hasLocalhost(line string) bool {
	return strings.Contains(line, "localhost")
}

func hasLocalSuffix(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	last := fields[len(fields)-1]
	return last == "local" || strings.HasSuffix(last, ".local")
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

func lacksLowercase(line string) bool {
	for i := 0; i < len(line); i++ {
		if line[i] >= 'a' && line[i] <= 'z' {
			return false
		}
	}
	return true
}

func stripBOM(line string) string {
	return strings.TrimLeft(line, "\ufeff")
}

func stripCarriageReturn(line string) string {
	line = strings.TrimSuffix(line, "\r")
	return strings.TrimSuffix(line, "\n")
}
