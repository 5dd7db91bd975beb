package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/dileroc6/bigotesfelinos/internal/config"
	"github.com/dileroc6/bigotesfelinos/internal/generate"
	"github.com/dileroc6/bigotesfelinos/internal/logger"
	"github.com/dileroc6/bigotesfelinos/internal/wordpress"
	"github.com/dileroc6/bigotesfelinos/pkg/announce"
	"github.com/dileroc6/bigotesfelinos/pkg/httpclient"
)

const httpTimeout = 15 * time.Second

// env bundles the long-lived collaborators both subcommands need.
type env struct {
	log        logger.Logger
	http       httpclient.Client
	cms        *wordpress.Client
	generator  *generate.Generator
	announcers []announce.Announcer

	flushLog func()
}

func (e *env) close() {
	if e.generator != nil {
		e.generator.Close()
	}
	if e.flushLog != nil {
		e.flushLog()
	}
}

// buildEnv constructs the shared clients from the loaded config.
func buildEnv(ctx context.Context, cfg *config.Config) (*env, error) {
	log, flush, err := logger.New(cfg.Debug)
	if err != nil {
		return nil, err
	}

	structured := cfg.TitleStrategy == config.TitleStrategyStructured
	generator, err := generate.NewGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, structured, log)
	if err != nil {
		flush()
		return nil, fmt.Errorf("build generator: %w", err)
	}

	announcers, err := loadAnnouncers(ctx, cfg.AnnouncersFile, log)
	if err != nil {
		generator.Close()
		flush()
		return nil, err
	}

	return &env{
		log:        log,
		http:       httpclient.NewRestyClient(httpTimeout),
		cms:        wordpress.NewClient(cfg.WPURL, cfg.WPUser, cfg.WPPassword, log),
		generator:  generator,
		announcers: announcers,
		flushLog:   flush,
	}, nil
}

// loadAnnouncers builds the optional announcement fan-out; no file means no
// announcers.
func loadAnnouncers(ctx context.Context, path string, log logger.Logger) ([]announce.Announcer, error) {
	if path == "" {
		return nil, nil
	}

	reg, err := announce.LoadRegistry(path)
	if err != nil {
		return nil, fmt.Errorf("load announcers: %w", err)
	}

	announcers, err := announce.BuildAll(ctx, announce.DefaultRegistry(), reg.Enabled(), log)
	if err != nil {
		return nil, fmt.Errorf("build announcers: %w", err)
	}
	return announcers, nil
}
