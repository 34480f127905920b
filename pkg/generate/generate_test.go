package generate

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"

	"sinkholegen/internal/testutil"
	"sinkholegen/pkg/filtering"
	"sinkholegen/pkg/output"
)

var fixedNow = time.Date(2019, 3, 4, 5, 6, 7, 0, time.UTC)

const stamp = "2019-03-04 05:06:07"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testOptions(fs afero.Fs, fetcher Fetcher) Options {
	return Options{
		Fetcher:      fetcher,
		Fs:           fs,
		OutputDir:    "/out",
		PdnsdFile:    "pdnsd.sinkhole",
		DnscryptFile: "dnscrypt.cloaking.txt",
		Parallelism:  4,
		Log:          discardLogger(),
		Now:          func() time.Time { return fixedNow },
	}
}

func readFile(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestRunEndToEnd(t *testing.T) {
	stub := testutil.StartListStub(t, map[string]testutil.Response{
		"/hosts": {Body: testutil.Lines(
			"# StevenBlack style hosts",
			"127.0.0.1 localhost",
			"0.0.0.0 ads.example.com",
			"0.0.0.0 tracker.example.com\r",
			"0.0.0.0 allowed.example.com",
		)},
		"/domains": {Body: testutil.Lines(
			"tracker.example.com",
			".neg.example.com",
			"ads.*.example.net",
			"also-allowed.example.com",
			"late.example.com",
		)},
		"/whitelist": {Body: "allowed.example.com\n"},
	})

	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/home/user/dns-whitelist.txt", []byte("also-allowed.example.com\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	fetcher := filtering.NewFetcher(filtering.FetcherOptions{Fs: fs, Log: discardLogger()})

	opts := testOptions(fs, fetcher)
	opts.Blocklists = []filtering.Source{
		{Name: "Hosts", Location: stub.At("hosts")},
		{Name: "Domains", Location: stub.At("domains")},
	}
	opts.Whitelists = []filtering.Source{
		{Name: "Remote whitelist", Location: stub.At("whitelist")},
		{Name: "My custom whitelist", Location: "file:///home/user/dns-whitelist.txt"},
	}

	report, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(report.Failed) != 0 {
		t.Errorf("unexpected failures %v", report.Failed)
	}
	if report.Entries != 5 {
		t.Errorf("expected 5 merged entries, got %d", report.Entries)
	}

	wantPdnsd := output.Pdnsd.Header(stamp) + strings.Join([]string{
		"rr { name=ads.example.com; a=0.0.0.0; }",
		"rr { name=tracker.example.com; a=0.0.0.0; }",
		"neg { name=*.neg.example.com; types = domain; }",
		"neg { name=ads.*.example.net; types = domain; }",
		"rr { name=late.example.com; a=0.0.0.0; }",
	}, "\n") + "\n"
	if got := readFile(t, fs, "/out/pdnsd.sinkhole"); got != wantPdnsd {
		t.Errorf("pdnsd file =\n%s\nwant\n%s", got, wantPdnsd)
	}

	wantDnscrypt := output.Dnscrypt.Header(stamp) + strings.Join([]string{
		"ads.example.com 0.0.0.0",
		"tracker.example.com 0.0.0.0",
		"late.example.com 0.0.0.0",
	}, "\n") + "\n"
	if got := readFile(t, fs, "/out/dnscrypt.cloaking.txt"); got != wantDnscrypt {
		t.Errorf("dnscrypt file =\n%s\nwant\n%s", got, wantDnscrypt)
	}

	if len(report.Outputs) != 2 || report.Outputs[0].Lines != 5 || report.Outputs[1].Lines != 3 {
		t.Errorf("unexpected outputs %+v", report.Outputs)
	}
}

func TestRunToleratesSourceFailures(t *testing.T) {
	stub := testutil.StartListStub(t, map[string]testutil.Response{
		"/error": {Status: http.StatusInternalServerError},
		"/slow":  {Body: "slow.example.com", Delay: 3 * time.Second},
		"/good":  {Body: "good.example.com\n"},
	})

	fs := afero.NewMemMapFs()
	fetcher := filtering.NewFetcher(filtering.FetcherOptions{Timeout: 200 * time.Millisecond, Fs: fs, Log: discardLogger()})
	opts := testOptions(fs, fetcher)
	opts.Blocklists = []filtering.Source{
		{Name: "Broken", Location: stub.At("error")},
		{Name: "Slow", Location: stub.At("slow")},
		{Name: "Good", Location: stub.At("good")},
	}
	opts.Whitelists = []filtering.Source{
		{Name: "Missing whitelist", Location: "/no/such/whitelist.txt"},
	}

	report, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	failed := append([]string(nil), report.Failed...)
	sort.Strings(failed)
	want := []string{"Broken", "Missing whitelist", "Slow"}
	if strings.Join(failed, ",") != strings.Join(want, ",") {
		t.Errorf("failed = %v, want %v", failed, want)
	}

	got := readFile(t, fs, "/out/dnscrypt.cloaking.txt")
	if got != output.Dnscrypt.Header(stamp)+"good.example.com 0.0.0.0\n" {
		t.Errorf("unexpected dnscrypt file %q", got)
	}
}

func TestRunWithoutReachableSources(t *testing.T) {
	fs := afero.NewMemMapFs()
	fetcher := filtering.NewFetcher(filtering.FetcherOptions{Fs: fs, Log: discardLogger()})
	opts := testOptions(fs, fetcher)
	opts.Blocklists = []filtering.Source{
		{Name: "Gone", Location: "file:///gone.txt"},
		{Name: "Refused", Location: "http://127.0.0.1:1/list"},
	}

	report, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(report.Failed) != 2 {
		t.Errorf("expected 2 failures, got %v", report.Failed)
	}
	if got := readFile(t, fs, "/out/pdnsd.sinkhole"); got != output.Pdnsd.Header(stamp) {
		t.Errorf("expected header-only pdnsd file, got %q", got)
	}
	if got := readFile(t, fs, "/out/dnscrypt.cloaking.txt"); got != output.Dnscrypt.Header(stamp) {
		t.Errorf("expected header-only dnscrypt file, got %q", got)
	}
}

func TestRunWithoutSources(t *testing.T) {
	fs := afero.NewMemMapFs()
	report, err := Run(context.Background(), testOptions(fs, filtering.NewFetcher(filtering.FetcherOptions{Fs: fs})))
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if report.Entries != 0 || len(report.Failed) != 0 {
		t.Errorf("unexpected report %+v", report)
	}
	if got := readFile(t, fs, "/out/pdnsd.sinkhole"); got != output.Pdnsd.Header(stamp) {
		t.Errorf("expected header-only pdnsd file, got %q", got)
	}
}

// blockingFetcher waits for cancellation on every fetch.
type blockingFetcher struct {
	started chan struct{}
	once    sync.Once
}

func (f *blockingFetcher) Fetch(ctx context.Context, _ filtering.Source) ([]byte, error) {
	f.once.Do(func() { close(f.started) })
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestRunInterrupted(t *testing.T) {
	fs := afero.NewMemMapFs()
	fetcher := &blockingFetcher{started: make(chan struct{})}
	opts := testOptions(fs, fetcher)
	opts.Blocklists = []filtering.Source{{Name: "a"}, {Name: "b"}, {Name: "c"}}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-fetcher.started
		cancel()
	}()

	report, err := Run(ctx, opts)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got report=%v err=%v", report, err)
	}
	if got := readFile(t, fs, "/out/pdnsd.sinkhole"); got != output.Pdnsd.Header(stamp) {
		t.Errorf("interrupted run must leave header-only file, got %q", got)
	}
}

func TestRunOutputFailureIsFatal(t *testing.T) {
	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	opts := testOptions(fs, &blockingFetcher{started: make(chan struct{})})
	opts.Blocklists = []filtering.Source{{Name: "never fetched"}}

	if _, err := Run(context.Background(), opts); err == nil {
		t.Fatal("expected error when output directory is not writable")
	}
}

func TestRunRequiresFetcher(t *testing.T) {
	if _, err := Run(context.Background(), Options{}); err == nil {
		t.Fatal("expected error without fetcher")
	}
}

func TestRunWritesMetrics(t *testing.T) {
	stub := testutil.StartListStub(t, map[string]testutil.Response{
		"/list": {Body: "a.example.com\n.b.example.com\n"},
	})

	fs := afero.NewMemMapFs()
	opts := testOptions(fs, filtering.NewFetcher(filtering.FetcherOptions{Log: discardLogger()}))
	opts.Blocklists = []filtering.Source{{Name: "List", Location: stub.At("list")}}
	opts.MetricsFile = filepath.Join(t.TempDir(), "sinkholegen.prom")

	if _, err := Run(context.Background(), opts); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	data, err := os.ReadFile(opts.MetricsFile)
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	for _, want := range []string{
		`sinkholegen_output_lines{format="pdnsd"} 2`,
		`sinkholegen_output_lines{format="dnscrypt"} 1`,
		`sinkholegen_source_domains{list="List"} 2`,
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestReportPrint(t *testing.T) {
	report := &Report{
		Outputs: []output.Result{{Format: "pdnsd", Path: "/tmp/pdnsd.sinkhole", Lines: 12, Usage: "usage text\n"}},
		Failed:  []string{"Broken list"},
	}

	var buf bytes.Buffer
	if err := report.Print(&buf); err != nil {
		t.Fatalf("Print returned error: %v", err)
	}
	text := buf.String()
	for _, want := range []string{
		"Added 12 unique domains to the sinkhole file /tmp/pdnsd.sinkhole",
		"DNS sinkhole file /tmp/pdnsd.sinkhole generated successfully.",
		"usage text",
		"could not get data for the following blocklists",
		"\tBroken list\n",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("report missing %q:\n%s", want, text)
		}
	}
}

func TestFailureLogConcurrentAdds(t *testing.T) {
	var log FailureLog
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Add("list")
		}()
	}
	wg.Wait()
	if got := len(log.Names()); got != 50 {
		t.Errorf("expected 50 failures, got %d", got)
	}
}
