// Package pipeline sequences the fetch-generate-normalize-publish run and
// the image backfill phase that follows it.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dileroc6/bigotesfelinos/internal/config"
	"github.com/dileroc6/bigotesfelinos/internal/domain"
	"github.com/dileroc6/bigotesfelinos/internal/fetch"
	"github.com/dileroc6/bigotesfelinos/internal/logger"
	"github.com/dileroc6/bigotesfelinos/pkg/announce"
)

// Fetcher discovers candidate items on the source listing.
type Fetcher interface {
	Fetch(ctx context.Context, sourceURL string, pred fetch.Predicate, limit int) ([]domain.SourceItem, error)
}

// Generator produces one article draft per source item.
type Generator interface {
	Generate(ctx context.Context, item domain.SourceItem) (domain.GeneratedArticle, error)
}

// Normalizer resolves the canonical title and cleans the body.
type Normalizer interface {
	Resolve(article domain.GeneratedArticle) domain.NormalizedArticle
}

// CMS is the slice of the WordPress client the orchestrator needs.
type CMS interface {
	EstablishSession(ctx context.Context) error
	CreatePost(ctx context.Context, title, bodyHTML string, status domain.PostStatus, category domain.CategoryRef) (int, error)
}

// History is the persisted set of already-processed source ids.
type History interface {
	Load() map[string]struct{}
	Record(ids []string) error
}

// Backfiller runs the deferred image phase over the run's published refs.
type Backfiller interface {
	Run(ctx context.Context, refs []domain.PublishedRef)
}

// Pipeline owns one scheduled run. Strictly sequential: one candidate at a
// time, then one backfill title at a time. Single-instance execution is
// assumed; concurrent runs would race on the history store.
type Pipeline struct {
	cfg        *config.Config
	history    History
	fetcher    Fetcher
	generator  Generator
	normalizer Normalizer
	cms        CMS
	backfiller Backfiller
	announcers []announce.Announcer
	log        logger.Logger

	// sleep is stubbed in tests.
	sleep func(time.Duration)
}

// New wires a Pipeline from its collaborators.
func New(
	cfg *config.Config,
	history History,
	fetcher Fetcher,
	generator Generator,
	normalizer Normalizer,
	cms CMS,
	backfiller Backfiller,
	announcers []announce.Announcer,
	log logger.Logger,
) *Pipeline {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Pipeline{
		cfg:        cfg,
		history:    history,
		fetcher:    fetcher,
		generator:  generator,
		normalizer: normalizer,
		cms:        cms,
		backfiller: backfiller,
		announcers: announcers,
		log:        log,
		sleep:      time.Sleep,
	}
}

// Run executes one full pipeline invocation. Only a failed CMS session is
// fatal: without it no item can be published. Everything else is contained
// to the item it concerns.
func (p *Pipeline) Run(ctx context.Context) error {
	if err := p.cms.EstablishSession(ctx); err != nil {
		return fmt.Errorf("establish cms session: %w", err)
	}

	seen := p.history.Load()

	items := p.fetchCandidates(ctx, seen)
	if len(items) == 0 {
		p.log.InfoObj("nothing new to publish", "run_empty", nil)
		return nil
	}

	refs := p.publishBatch(ctx, items)

	if err := WriteTitleLog(p.cfg.TitlesPath, refs); err != nil {
		p.log.WarnObj("title log write failed", "titlelog_write_error", map[string]any{
			"path":  p.cfg.TitlesPath,
			"error": err.Error(),
		})
	}

	p.backfiller.Run(ctx, refs)

	p.log.InfoObj("run finished", "run_done", map[string]any{
		"candidates": len(items),
		"published":  len(refs),
	})
	return nil
}

// fetchCandidates applies the configured filter policy. A FetchError
// collapses the candidate set to empty: at the run-outcome level "source
// unreachable" and "nothing new" are the same.
func (p *Pipeline) fetchCandidates(ctx context.Context, seen map[string]struct{}) []domain.SourceItem {
	var pred fetch.Predicate
	switch p.cfg.FetchFilter {
	case config.FilterPublishedYesterday:
		pred = fetch.PublishedYesterday(p.cfg.Timezone, nil)
	default:
		pred = fetch.NotSeen(seen)
	}

	items, err := p.fetcher.Fetch(ctx, p.cfg.SourceURL, pred, p.cfg.MaxItems)
	if err != nil {
		var fetchErr *domain.FetchError
		if errors.As(err, &fetchErr) {
			p.log.WarnObj("source fetch failed, treating as zero candidates", "fetch_error", map[string]any{
				"source_url": fetchErr.SourceURL,
				"error":      err.Error(),
			})
			return nil
		}
		p.log.ErrorObj("unexpected fetch failure", "fetch_error", map[string]any{
			"error": err.Error(),
		})
		return nil
	}
	return items
}

// publishBatch processes candidates one at a time. A failing item is logged
// with its source id and skipped; the batch continues.
func (p *Pipeline) publishBatch(ctx context.Context, items []domain.SourceItem) []domain.PublishedRef {
	var refs []domain.PublishedRef

	for _, item := range items {
		ref, ok := p.publishOne(ctx, item)
		if !ok {
			continue
		}
		refs = append(refs, ref)

		// Simple backpressure against the CMS, not a correctness
		// mechanism.
		p.sleep(p.cfg.PublishDelay)
	}

	return refs
}

func (p *Pipeline) publishOne(ctx context.Context, item domain.SourceItem) (domain.PublishedRef, bool) {
	generated, err := p.generator.Generate(ctx, item)
	if err != nil {
		p.log.ErrorObj("generation failed, skipping item", "generation_error", map[string]any{
			"source_id": item.ID,
			"url":       item.URL,
			"error":     err.Error(),
		})
		return domain.PublishedRef{}, false
	}

	article := p.normalizer.Resolve(generated)

	postID, err := p.cms.CreatePost(ctx, article.Title, article.BodyHTML, domain.StatusPublish, p.cfg.Category)
	if err != nil {
		p.log.ErrorObj("publish failed, skipping item", "publish_error", map[string]any{
			"source_id": item.ID,
			"title":     article.Title,
			"error":     err.Error(),
		})
		return domain.PublishedRef{}, false
	}

	p.log.InfoObj("post published", "post_published", map[string]any{
		"source_id": item.ID,
		"post_id":   postID,
		"title":     article.Title,
	})

	// A history write failure must not cancel the publication that just
	// happened; the item may be reprocessed next run, which is accepted.
	if err := p.history.Record([]string{item.ID}); err != nil {
		p.log.ErrorObj("history record failed", "history_record_error", map[string]any{
			"source_id": item.ID,
			"error":     err.Error(),
		})
	}

	announce.Fanout(ctx, p.announcers, announce.Event{
		PostID:      postID,
		Title:       article.Title,
		SourceURL:   item.URL,
		PublishedAt: time.Now().UTC(),
	}, p.log)

	return domain.PublishedRef{PostID: postID, Title: article.Title}, true
}
