package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"summit-abstract-miner/cache"
	"summit-abstract-miner/config"
	"summit-abstract-miner/db"
	"summit-abstract-miner/internal/app/events/dao"
	"summit-abstract-miner/internal/filter"
	"summit-abstract-miner/internal/logs"
	"summit-abstract-miner/internal/miner"
	"summit-abstract-miner/internal/scrape"
)

func newRunCmd() *cobra.Command {
	var dir string

	runCmd := &cobra.Command{
		Use:           "run",
		Short:         "Run one scrape pass over the summit schedule",
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := config.NewViper()
			if dir != "" {
				v.Set("SCRAPER_DIR", dir)
			}
			cfg, err := config.NewConfig(v)
			if err != nil {
				return err
			}

			// The scrape logger writes into the artifacts directory.
			if err := os.MkdirAll(cfg.Scraper.Dir, 0o755); err != nil {
				return err
			}

			zl, err := logs.NewScrapeLogger(cfg)
			if err != nil {
				return fmt.Errorf("build logger: %w", err)
			}
			defer func() {
				_ = zl.Sync()
			}()
			logger := zl.Sugar()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			var seen miner.SeenStore
			if client := cache.Open(cfg, logger); client != nil {
				defer func() {
					_ = client.Close()
				}()
				if err := client.Ping(ctx).Err(); err != nil {
					logger.Warnw("redis unreachable, running without dedup", "err", err)
				} else {
					seen = cache.NewSeenURLs(client)
				}
			}

			var sink miner.EventSink
			if cfg.SQLitePath != "" {
				dbx, err := db.OpenLocal(cfg.SQLitePath)
				if err != nil {
					return fmt.Errorf("open sqlite: %w", err)
				}
				defer func() {
					_ = dbx.Close()
				}()
				sink = dao.NewEventStoreWithDB(dbx, logger)
			}

			matcher, err := filter.ForKeywords(cfg.Scraper.Keywords)
			if err != nil {
				return fmt.Errorf("build keyword matcher: %w", err)
			}

			m := miner.New(miner.Params{
				Cfg:     cfg.Scraper,
				Fetcher: scrape.NewCollector(cfg.Scraper, logger),
				Matcher: matcher,
				Seen:    seen,
				Sink:    sink,
				Logger:  logger,
			})

			sum, err := m.Run(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(),
				"collected=%d skipped=%d fetched=%d failed=%d hits=%d\n",
				sum.Collected, sum.Skipped, sum.Fetched, sum.Failed, sum.Hits)
			return nil
		},
	}

	runCmd.Flags().StringVar(&dir, "dir", "", "Directory for pid file, log, and CSV artifacts (defaults to SCRAPER_DIR or cwd)")

	return runCmd
}
