package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dileroc6/bigotesfelinos/internal/config"
	"github.com/dileroc6/bigotesfelinos/internal/images"
	"github.com/dileroc6/bigotesfelinos/internal/pipeline"
)

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Attach lead images to posts listed in the title log",
	Long: `backfill runs only the image phase: it reads the title log written by a
previous run and patches a lead image onto each matching published post.
Entries without a post id fall back to exact-title matching over the most
recent published posts.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runBackfill(ctx)
	},
}

func init() {
	rootCmd.AddCommand(backfillCmd)
}

func runBackfill(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	refs, err := pipeline.ReadTitleLog(cfg.TitlesPath)
	if err != nil {
		return err
	}
	if len(refs) == 0 {
		return nil
	}

	env, err := buildEnv(ctx, cfg)
	if err != nil {
		return err
	}
	defer env.close()

	if err := env.cms.EstablishSession(ctx); err != nil {
		return fmt.Errorf("establish cms session: %w", err)
	}

	searcher := images.NewUnsplashSearcher(env.http, "", cfg.UnsplashAccessKey, env.log)
	backfiller := images.NewBackfiller(env.generator, searcher, env.cms, env.log)

	backfiller.Run(ctx, refs)
	return nil
}
