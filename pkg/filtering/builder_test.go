package filtering

import (
	"bytes"
	"io"
	"log/slog"
	"reflect"
	"strings"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBuildHostsAndDomains(t *testing.T) {
	input := strings.Join([]string{
		"# Title: test hosts",
		"127.0.0.1 localhost",
		"::1 localhost",
		"0.0.0.0 bad.example.com",
		"0.0.0.0 also.bad.example.com\r",
		"bad.example.net",
		"bad.example.com",
		".neg.example.org",
		"ads.*.example.org",
		"",
	}, "\n")

	set := Build([]byte(input), BuildOptions{ListID: "test", Logger: discardLogger()})

	want := []string{
		"bad.example.com",
		"also.bad.example.com",
		"bad.example.net",
		".neg.example.org",
		"ads.*.example.org",
	}
	if got := set.Domains(); !reflect.DeepEqual(got, want) {
		t.Errorf("Build() = %v, want %v", got, want)
	}
}

func TestBuildNilDocument(t *testing.T) {
	set := Build(nil, BuildOptions{ListID: "missing", Logger: discardLogger()})
	if set == nil || set.Len() != 0 {
		t.Fatalf("expected empty set for nil document, got %v", set)
	}
}

func TestBuildReportsEmptyResult(t *testing.T) {
	var logBuf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logBuf, nil))

	set := Build([]byte("# only comments\n\n"), BuildOptions{ListID: "empty", Logger: logger})
	if set.Len() != 0 {
		t.Fatalf("expected no domains, got %d", set.Len())
	}
	if !strings.Contains(logBuf.String(), "no domain entries found") {
		t.Error("expected informational log for empty list")
	}
	if strings.Contains(logBuf.String(), "level=ERROR") {
		t.Error("empty list must not be logged as an error")
	}
}

func TestBuildStrict(t *testing.T) {
	input := strings.Join([]string{
		"good.example.com",
		"bad..example.com",
		"bücher.example",
		".neg.example.com",
		"ads.*.example.com",
	}, "\n")

	lenient := Build([]byte(input), BuildOptions{ListID: "test", Logger: discardLogger()})
	if !lenient.Contains("bad..example.com") {
		t.Error("lenient mode should keep bad..example.com")
	}

	strict := Build([]byte(input), BuildOptions{ListID: "test", Logger: discardLogger(), Strict: true})
	want := []string{"good.example.com", "xn--bcher-kva.example", ".neg.example.com", "ads.*.example.com"}
	if got := strict.Domains(); !reflect.DeepEqual(got, want) {
		t.Errorf("strict Build() = %v, want %v", got, want)
	}
}

func TestBuildErrorLimit(t *testing.T) {
	input := strings.Join([]string{
		"good.example.com",
		"bad..example.com",
		"worse..example.com",
		"worst..example.com",
	}, "\n")

	var logBuf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logBuf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	Build([]byte(input), BuildOptions{ListID: "test", Logger: logger, ErrorLimit: 2, Strict: true})

	logText := logBuf.String()
	if got := strings.Count(logText, "invalid list entry"); got != 2 {
		t.Fatalf("expected 2 invalid entry logs, got %d", got)
	}
	if !strings.Contains(logText, "list parsing errors suppressed") {
		t.Error("expected summary log for suppressed errors")
	}
}

func TestNextLineKeepsCarriageReturn(t *testing.T) {
	line, rest := nextLine([]byte("a.example.com\r\nb"))
	if string(line) != "a.example.com\r" || string(rest) != "b" {
		t.Errorf("nextLine = (%q, %q), want (%q, %q)", line, rest, "a.example.com\r", "b")
	}

	line, rest = nextLine([]byte("last.example.com"))
	if string(line) != "last.example.com" || rest != nil {
		t.Errorf("nextLine without newline = (%q, %q)", line, rest)
	}
}

func TestBuildSkipsOversizedLines(t *testing.T) {
	input := "before.example.com\n" +
		strings.Repeat("x", maxLineLength+1) + "\n" +
		"after.example.com\n"

	set := Build([]byte(input), BuildOptions{ListID: "huge", Logger: discardLogger()})

	want := []string{"before.example.com", "after.example.com"}
	if got := set.Domains(); !reflect.DeepEqual(got, want) {
		t.Errorf("Domains() = %v, want %v", got, want)
	}
}
