package filtering

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	"github.com/miekg/dns"
	"golang.org/x/net/idna"
)

// maxLineLength bounds a single list line. Longer lines are skipped.
const maxLineLength = 1024 * 1024

// BuildOptions configures Build.
type BuildOptions struct {
	ListID     string
	Logger     *slog.Logger
	ErrorLimit int
	// Strict drops entries that are not valid DNS names after IDNA conversion.
	Strict bool
}

type errorLimiter struct {
	limit int
	count int
}

// Build turns a raw list body into a deduplicated DomainSet. A nil body, as
// left behind by a failed fetch, yields an empty set.
func Build(data []byte, opts BuildOptions) *DomainSet {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	set := NewDomainSet()
	if data == nil {
		return set
	}

	stats := ParseStats{}
	limiter := errorLimiter{limit: opts.ErrorLimit}
	reasons := make(map[string]int)

	rest := data
	for lineNum := 1; len(rest) > 0; lineNum++ {
		var raw []byte
		raw, rest = nextLine(rest)
		stats.TotalLines++

		if len(raw) > maxLineLength {
			stats.Rejected++
			reasons["oversized"]++
			continue
		}
		line := string(raw)

		entry, ok := Normalize(line)
		if !ok {
			stats.Rejected++
			if reason := rejectReason(stripBOM(line)); reason != "" {
				reasons[reason]++
			}
			continue
		}

		if opts.Strict {
			domain, err := validateDomain(entry.Domain)
			if err != nil {
				stats.Invalid++
				limiter.log(logger, opts.ListID, lineNum, entry.Domain, err)
				continue
			}
			entry.Domain = domain
		}

		if set.Add(entry.Domain) {
			stats.Domains++
		}
	}

	limiter.summary(logger, opts.ListID, stats.Invalid)
	if set.Len() == 0 {
		logger.Info("no domain entries found", "list", opts.ListID)
	}
	logger.Debug("rejected lines", "list", opts.ListID, "by_rule", reasons)
	logger.Info("parsed list", "list", opts.ListID, "lines", stats.TotalLines, "domains", stats.Domains,
		"rejected", stats.Rejected, "invalid", stats.Invalid)
	return set
}

// nextLine cuts data at the first '\n'. A trailing '\r' stays on the line for
// the normaliser to strip.
func nextLine(data []byte) (line, rest []byte) {
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return data[:i], data[i+1:]
	}
	return data, nil
}

func validateDomain(domain string) (string, error) {
	prefix := ""
	name := domain
	if strings.HasPrefix(name, ".") {
		prefix = "."
		name = strings.TrimPrefix(name, ".")
	}
	ascii, err := idna.Lookup.ToASCII(strings.ReplaceAll(name, "*", "x"))
	if err != nil {
		return "", fmt.Errorf("idna: %w", err)
	}
	if _, ok := dns.IsDomainName(ascii); !ok {
		return "", fmt.Errorf("invalid domain")
	}
	if !strings.Contains(name, "*") {
		name = ascii
	}
	return prefix + name, nil
}

func (l *errorLimiter) log(logger *slog.Logger, listID string, lineNum int, token string, err error) {
	if l.limit == 0 {
		return
	}
	if l.limit > 0 && l.count >= l.limit {
		l.count++
		return
	}
	l.count++
	logger.Error("invalid list entry", "list", listID, "line", lineNum, "entry", token, "error", err)
}

func (l *errorLimiter) summary(logger *slog.Logger, listID string, invalid int) {
	if l.limit <= 0 {
		return
	}
	if invalid > l.limit {
		logger.Warn("list parsing errors suppressed", "list", listID, "errors", invalid, "logged", l.limit)
	}
}
