package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"sinkholegen/pkg/config"
	"sinkholegen/pkg/filtering"
	"sinkholegen/pkg/generate"
	"sinkholegen/pkg/logger"
	"sinkholegen/pkg/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		slog.Error("sinkhole generation failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "sinkholegen",
		Short:         "Generate DNS sinkhole files for pdnsd and dnscrypt-proxy",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, out)
		},
	}
	root.SetOut(out)

	flags := root.Flags()
	flags.String("config", "", "path to the TOML config file (default $SINKHOLEGEN_CONFIG or /etc/sinkholegen/sinkholegen.conf)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("output-dir", "/tmp", "directory the sinkhole files are written to")
	flags.Int("parallelism", 4, "number of lists fetched concurrently")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "sinkholegen", version.SinkholegenVersion)
		},
	})

	return root
}

func run(cmd *cobra.Command, out io.Writer) error {
	cfg, err := config.Setup(cmd.Flags())
	if err != nil {
		return err
	}

	log := logger.Setup(cfg.Logging.Level, cfg.Logging.File)
	log.Info("starting sinkhole generation", "version", version.SinkholegenVersion,
		"blocklists", len(cfg.Blocklists), "whitelists", len(cfg.Whitelists))

	fs := afero.NewOsFs()
	fetcher := filtering.NewFetcher(filtering.FetcherOptions{
		UserAgent: cfg.Fetch.UserAgent,
		Timeout:   cfg.Fetch.Timeout,
		CacheDir:  cfg.Fetch.CacheDir,
		Fs:        fs,
		Log:       log,
	})

	report, err := generate.Run(cmd.Context(), generate.Options{
		Blocklists:   cfg.Blocklists,
		Whitelists:   cfg.Whitelists,
		Fetcher:      fetcher,
		Fs:           fs,
		OutputDir:    cfg.Output.Dir,
		PdnsdFile:    cfg.Output.PdnsdFile,
		DnscryptFile: cfg.Output.DnscryptFile,
		MetricsFile:  cfg.Output.MetricsFile,
		Parallelism:  cfg.Fetch.Parallelism,
		Strict:       cfg.Filtering.Strict,
		ErrorLimit:   cfg.Logging.BlocklistErrorLimit,
		Log:          log,
	})
	if errors.Is(err, context.Canceled) {
		log.Info("interrupted, sinkhole files contain headers only",
			"pdnsd", filepath.Join(cfg.Output.Dir, cfg.Output.PdnsdFile),
			"dnscrypt", filepath.Join(cfg.Output.Dir, cfg.Output.DnscryptFile))
		return nil
	}
	if err != nil {
		return err
	}

	return report.Print(out)
}
