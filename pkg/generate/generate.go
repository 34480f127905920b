// Package generate runs one sinkhole generation: it fetches every configured
// list, merges them, and writes the resolver files.
package generate

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"sinkholegen/pkg/filtering"
	"sinkholegen/pkg/metrics"
	"sinkholegen/pkg/output"
)

const (
	kindBlocklist = "blocklist"
	kindWhitelist = "whitelist"
)

// Fetcher retrieves the raw body of a list.
type Fetcher interface {
	Fetch(ctx context.Context, source filtering.Source) ([]byte, error)
}

// Options configures a run.
type Options struct {
	Blocklists   []filtering.Source
	Whitelists   []filtering.Source
	Fetcher      Fetcher
	Fs           afero.Fs
	OutputDir    string
	PdnsdFile    string
	DnscryptFile string
	MetricsFile  string
	Parallelism  int
	Strict       bool
	ErrorLimit   int
	Log          *slog.Logger
	Now          func() time.Time
}

// Report describes a finished run.
type Report struct {
	Outputs  []output.Result
	Failed   []string
	Entries  int
	Duration time.Duration
}

type target struct {
	format output.Format
	path   string
}

type sourceJob struct {
	kind   string
	source filtering.Source
}

// runState is owned by a single run. Workers write only their own slot of
// sets; failures is shared and locks internally.
type runState struct {
	sets     []*filtering.DomainSet
	failures FailureLog
	recorder *metrics.Recorder
}

// Run executes one generation. Source failures are logged and skipped; only
// output filesystem errors and cancellation of ctx end the run early.
func Run(ctx context.Context, opts Options) (*Report, error) {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	if opts.Fetcher == nil {
		return nil, fmt.Errorf("no fetcher configured")
	}

	start := now()
	timestamp := start.Format(output.TimestampLayout)
	targets := []target{
		{format: output.Pdnsd, path: filepath.Join(opts.OutputDir, opts.PdnsdFile)},
		{format: output.Dnscrypt, path: filepath.Join(opts.OutputDir, opts.DnscryptFile)},
	}

	for _, t := range targets {
		if err := output.WriteHeader(fs, t.path, t.format, timestamp); err != nil {
			return nil, err
		}
	}

	jobs := make([]sourceJob, 0, len(opts.Whitelists)+len(opts.Blocklists))
	for _, source := range opts.Whitelists {
		jobs = append(jobs, sourceJob{kind: kindWhitelist, source: source})
	}
	for _, source := range opts.Blocklists {
		jobs = append(jobs, sourceJob{kind: kindBlocklist, source: source})
	}

	state := &runState{
		sets:     make([]*filtering.DomainSet, len(jobs)),
		recorder: metrics.New(),
	}
	if err := fetchAll(ctx, opts, log, jobs, state); err != nil {
		return nil, err
	}

	whitelist := filtering.MergeSets(state.sets[:len(opts.Whitelists)]...)
	entries := filtering.Merge(whitelist, state.sets[len(opts.Whitelists):])
	log.Info("merged lists", "entries", len(entries), "whitelisted", whitelist.Len())

	results, err := writeAll(ctx, fs, targets, timestamp, entries)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Outputs:  results,
		Failed:   state.failures.Names(),
		Entries:  len(entries),
		Duration: now().Sub(start),
	}
	for _, result := range results {
		state.recorder.OutputWritten(result.Format, result.Lines)
		log.Info("sinkhole file generated", "format", result.Format, "path", result.Path, "unique", result.Lines)
	}
	if len(report.Failed) > 0 {
		log.Warn("could not get data for some lists", "lists", report.Failed)
	}

	if opts.MetricsFile != "" {
		state.recorder.RunFinished(start.Add(report.Duration), report.Duration)
		if err := state.recorder.WriteTextfile(opts.MetricsFile); err != nil {
			log.Error("failed to write metrics file", "path", opts.MetricsFile, "error", err)
		}
	}

	return report, nil
}

func fetchAll(ctx context.Context, opts Options, log *slog.Logger, jobs []sourceJob, state *runState) error {
	parallelism := opts.Parallelism
	if parallelism < 1 {
		parallelism = 1
	}

	p := pool.New().WithMaxGoroutines(parallelism).WithContext(ctx)
	for i, job := range jobs {
		p.Go(func(ctx context.Context) error {
			name := job.source.DisplayName()
			log.Info("processing list", "kind", job.kind, "list", name)

			data, err := opts.Fetcher.Fetch(ctx, job.source)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				log.Error("data retrieval failed", "list", name, "url", job.source.Location, "error", err)
				state.failures.Add(name)
				state.recorder.SourceDone(job.kind, name, 0, true)
				return nil
			}

			set := filtering.Build(data, filtering.BuildOptions{
				ListID:     name,
				Logger:     log,
				ErrorLimit: opts.ErrorLimit,
				Strict:     opts.Strict,
			})
			state.sets[i] = set
			state.recorder.SourceDone(job.kind, name, set.Len(), false)
			return nil
		})
	}

	if err := p.Wait(); err != nil && ctx.Err() == nil {
		return err
	}
	return ctx.Err()
}

func writeAll(ctx context.Context, fs afero.Fs, targets []target, timestamp string, entries []filtering.Entry) ([]output.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := make([]output.Result, len(targets))
	var g errgroup.Group
	for i, t := range targets {
		g.Go(func() error {
			result, err := output.Write(fs, t.path, t.format, timestamp, entries)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
