// Package output renders merged sinkhole entries into resolver configuration
// files.
package output

import (
	"sinkholegen/pkg/filtering"
)

// NullAddress is the blackhole address blocked names resolve to.
const NullAddress = "0.0.0.0"

// TimestampLayout is the build date layout used in file headers.
const TimestampLayout = "2006-01-02 15:04:05"

// Format renders entries for one target resolver.
type Format struct {
	// Name identifies the format in logs and metrics.
	Name string
	// CommentPrefix starts every header line.
	CommentPrefix string
	// Render returns the line for entry, or false when the format has no
	// construct for its class.
	Render func(entry filtering.Entry) (string, bool)
	// Usage tells the operator how to install the named file.
	Usage func(fileName string) string
}

// Header returns the comment block that opens every generated file.
func (f Format) Header(timestamp string) string {
	return f.CommentPrefix + " Auto-generated list, build date " + timestamp + "\n" +
		f.CommentPrefix + " No addresses of these domains must be resolved\n\n"
}

// Pdnsd renders negative-cache and resource-record rules for pdnsd.
var Pdnsd = Format{
	Name:          "pdnsd",
	CommentPrefix: "//",
	Render:        renderPdnsd,
	Usage: func(fileName string) string {
		return "Move it to /etc/ folder and add the following configuration setting in /etc/pdnsd.conf:\n\n" +
			"//Blacklisted domains\ninclude { file = \"/etc/" + fileName + "\"; }\n\n" +
			"--------------------\nRestart pdnsd by issuing command 'systemctl restart pdnsd'\n"
	},
}

// Dnscrypt renders dnscrypt-proxy cloaking rules.
var Dnscrypt = Format{
	Name:          "dnscrypt",
	CommentPrefix: "#",
	Render:        renderDnscrypt,
	Usage: func(fileName string) string {
		return "Move it to /etc/dnscrypt-proxy/ and add the following configuration setting in\n" +
			"/etc/dnscrypt-proxy/dnscrypt-proxy.toml:\n\n" +
			"cloaking_rules = '/etc/dnscrypt-proxy/" + fileName + "'\n\n" +
			"--------------------\nRestart dnscrypt-proxy by issuing command 'systemctl restart dnscrypt-proxy'\n"
	},
}

func renderPdnsd(entry filtering.Entry) (string, bool) {
	switch entry.Class {
	case filtering.Negated:
		return "neg { name=*" + entry.Domain + "; types = domain; }", true
	case filtering.Wildcarded:
		return "neg { name=" + entry.Domain + "; types = domain; }", true
	default:
		return "rr { name=" + entry.Domain + "; a=" + NullAddress + "; }", true
	}
}

// dnscrypt cloaking has no negation construct, so only plain names are kept.
func renderDnscrypt(entry filtering.Entry) (string, bool) {
	if entry.Class != filtering.Plain {
		return "", false
	}
	return entry.Domain + " " + NullAddress, true
}

// RenderLines renders entries and drops repeated lines, keeping the first.
func RenderLines(format Format, entries []filtering.Entry) []string {
	seen := make(map[string]struct{}, len(entries))
	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		line, ok := format.Render(entry)
		if !ok {
			continue
		}
		if _, dup := seen[line]; dup {
			continue
		}
		seen[line] = struct{}{}
		lines = append(lines, line)
	}
	return lines
}
