package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dileroc6/bigotesfelinos/internal/config"
	"github.com/dileroc6/bigotesfelinos/internal/fetch"
	"github.com/dileroc6/bigotesfelinos/internal/history"
	"github.com/dileroc6/bigotesfelinos/internal/images"
	"github.com/dileroc6/bigotesfelinos/internal/normalize"
	"github.com/dileroc6/bigotesfelinos/internal/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute one full pipeline run: fetch, generate, publish, backfill",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runPipeline(ctx)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runPipeline(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	env, err := buildEnv(ctx, cfg)
	if err != nil {
		return err
	}
	defer env.close()

	store := history.Open(cfg.HistoryPath, env.log)
	defer store.Close()

	fetcher := fetch.NewFetcher(env.http, cfg.Timezone, env.log)
	normalizer := normalize.New(cfg.TitleStrategy == config.TitleStrategyStructured, nil)
	searcher := images.NewUnsplashSearcher(env.http, "", cfg.UnsplashAccessKey, env.log)
	backfiller := images.NewBackfiller(env.generator, searcher, env.cms, env.log)

	p := pipeline.New(cfg, store, fetcher, env.generator, normalizer, env.cms, backfiller, env.announcers, env.log)
	return p.Run(ctx)
}
