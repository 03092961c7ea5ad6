package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"vscraper/internal/app"
	"vscraper/internal/config"
	"vscraper/internal/logger"
	"vscraper/internal/ui"
)

type toolDownloader interface {
	app.Downloader
	CheckTool() error
}

var (
	lookupEnv     = os.LookupEnv
	newDownloader = func(binary string, strategy app.Strategy, outputDir string) toolDownloader {
		return app.NewYtDlpDownloader(binary, strategy, outputDir)
	}
)

type options struct {
	file         string
	strategy     string
	outputDir    string
	ytDlp        string
	envVar       string
	requireEnv   string
	skipEnvCheck bool
	dbPath       string
	noHistory    bool
}

func newRootCmd(cfg config.Config) *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "vscraper [flags] [URL...]",
		Short: "Download videos with yt-dlp, keeping filenames within OS limits",
		Long: `vscraper runs yt-dlp once per URL, in order. URLs come from the
command line and/or a text file with one URL per line.

The truncate strategy asks yt-dlp for its default filename and shortens it to
220 characters, keeping the extension. The restrict strategy leaves naming to
yt-dlp's --restrict-filenames with a title capped at 100 bytes.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDownload(cmd, args, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.file, "file", "f", "", "text file containing URLs (one per line)")
	flags.StringVarP(&opts.strategy, "strategy", "s", cfg.Strategy, "filename strategy: truncate or restrict")
	flags.StringVarP(&opts.outputDir, "output-dir", "o", cfg.OutputDir, "directory for downloaded files")
	flags.StringVar(&opts.ytDlp, "yt-dlp", cfg.YtDlpPath, "yt-dlp executable")
	flags.StringVar(&opts.envVar, "env-var", cfg.EnvVar, "environment variable that names the active runtime environment")
	flags.StringVar(&opts.requireEnv, "require-env", cfg.RequiredEnv, "required value of --env-var (empty disables the check)")
	flags.BoolVar(&opts.skipEnvCheck, "skip-env-check", false, "do not check the runtime environment")
	flags.BoolVar(&opts.noHistory, "no-history", false, "do not record attempts in the history database")
	cmd.PersistentFlags().StringVar(&opts.dbPath, "db-path", cfg.DBPath, "path to sqlite history database")

	cmd.AddCommand(newHistoryCmd(opts))
	return cmd
}

func runDownload(cmd *cobra.Command, args []string, opts *options) error {
	ctx := cmd.Context()
	log := logger.GetLogger()

	if !opts.skipEnvCheck {
		check := app.CheckEnvironment(lookupEnv, opts.envVar, opts.requireEnv)
		if !check.OK {
			return fmt.Errorf("this must be run in the '%s' environment; activate it with: conda activate %s: %w",
				check.Want, check.Want, check.Err())
		}
	}

	strategy, err := app.ParseStrategy(opts.strategy)
	if err != nil {
		return err
	}

	urls, err := app.CollectURLs(opts.file, args, log)
	if errors.Is(err, app.ErrNoURLs) {
		return fmt.Errorf("%w; use -h for help", err)
	}
	if err != nil {
		return err
	}

	dl := newDownloader(opts.ytDlp, strategy, opts.outputDir)
	if err := dl.CheckTool(); err != nil {
		return fmt.Errorf("%w; install it in the active environment", err)
	}

	if opts.outputDir != "" {
		if err := os.MkdirAll(opts.outputDir, 0o755); err != nil {
			return err
		}
	}

	batch := &app.Batch{
		Downloader: dl,
		Strategy:   strategy,
		Printer:    ui.NewPrinter(cmd.OutOrStdout()),
		Logger:     log,
	}
	if !opts.noHistory {
		store, err := openStore(ctx, opts.dbPath)
		if err != nil {
			log.Warn("history disabled", "db_path", opts.dbPath, "error", err)
		} else {
			defer store.Close()
			batch.Recorder = store
		}
	}

	_, err = batch.Run(ctx, urls)
	return err
}

func openStore(ctx context.Context, path string) (*app.SQLiteStore, error) {
	store, err := app.NewSQLiteStore(path)
	if err != nil {
		return nil, err
	}
	if err := store.EnsureSchema(ctx); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}
