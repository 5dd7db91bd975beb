package images

import (
	"context"
	"fmt"

	"github.com/dileroc6/bigotesfelinos/internal/domain"
	"github.com/dileroc6/bigotesfelinos/internal/logger"
	"github.com/dileroc6/bigotesfelinos/internal/wordpress"
)

const (
	// lookupWindow bounds the recent-posts fetch used by the title
	// fallback path.
	lookupWindow = 100

	// queryPrefix keeps every image search inside the site's topic.
	queryPrefix = "perro "
)

// KeywordDeriver yields one search term for a post title. Implementations
// never fail; they fall back to a generic term.
type KeywordDeriver interface {
	DeriveKeyword(ctx context.Context, title string) string
}

// ImageSearcher returns an image URL for a query, or "" when none is
// available.
type ImageSearcher interface {
	SearchImage(ctx context.Context, query string) (string, error)
}

// CMS is the slice of the WordPress client the backfiller needs.
type CMS interface {
	GetPost(ctx context.Context, id int) (wordpress.Post, error)
	ListPosts(ctx context.Context, filter wordpress.ListFilter) ([]wordpress.Post, error)
	UpdatePostContent(ctx context.Context, id int, content string) error
}

// Backfiller attaches a lead image to posts published earlier in the run.
// It runs after the publish loop on purpose: a post going live without an
// image is an accepted degraded state, never a blocking condition.
type Backfiller struct {
	keywords KeywordDeriver
	images   ImageSearcher
	cms      CMS
	log      logger.Logger
}

// NewBackfiller wires the backfill phase.
func NewBackfiller(keywords KeywordDeriver, images ImageSearcher, cms CMS, log logger.Logger) *Backfiller {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Backfiller{keywords: keywords, images: images, cms: cms, log: log}
}

// Run processes each published ref in order. Per-title failures are logged
// and isolated; one failing title never stops the rest.
func (b *Backfiller) Run(ctx context.Context, refs []domain.PublishedRef) {
	for _, ref := range refs {
		if err := b.backfill(ctx, ref); err != nil {
			b.log.ErrorObj("image backfill failed for title", "backfill_error", map[string]any{
				"title": ref.Title,
				"error": err.Error(),
			})
		}
	}
}

// backfill sources an image for one ref and prepends it to the post content.
// No image available means no CMS write and no error.
func (b *Backfiller) backfill(ctx context.Context, ref domain.PublishedRef) error {
	keyword := b.keywords.DeriveKeyword(ctx, ref.Title)

	imageURL, err := b.images.SearchImage(ctx, queryPrefix+keyword)
	if err != nil {
		return &domain.ImageError{Title: ref.Title, Err: err}
	}
	if imageURL == "" {
		return nil
	}

	post, found, err := b.locatePost(ctx, ref)
	if err != nil {
		return &domain.ImageError{Title: ref.Title, Err: err}
	}
	if !found {
		b.log.WarnObj("no published post matched title, skipping", "backfill_miss", map[string]any{
			"title": ref.Title,
		})
		return nil
	}

	// Prepend, never replace: the article body published earlier stays.
	content := fmt.Sprintf(`<img src="%s" alt="%s"><br>`, imageURL, ref.Title) + post.Content
	if err := b.cms.UpdatePostContent(ctx, post.ID, content); err != nil {
		return &domain.ImageError{Title: ref.Title, Err: err}
	}

	b.log.InfoObj("post updated with lead image", "backfill_done", map[string]any{
		"post_id": post.ID,
		"title":   ref.Title,
		"image":   imageURL,
	})
	return nil
}

// locatePost resolves the target post. Refs created in this run carry the
// CMS-assigned id and are fetched directly; refs without one (standalone
// backfill over a title list) fall back to an exact-title scan of the most
// recent published posts, first match wins.
func (b *Backfiller) locatePost(ctx context.Context, ref domain.PublishedRef) (wordpress.Post, bool, error) {
	if ref.PostID != 0 {
		post, err := b.cms.GetPost(ctx, ref.PostID)
		if err != nil {
			return wordpress.Post{}, false, err
		}
		return post, true, nil
	}

	posts, err := b.cms.ListPosts(ctx, wordpress.ListFilter{
		PerPage: lookupWindow,
		Status:  domain.StatusPublish,
	})
	if err != nil {
		return wordpress.Post{}, false, err
	}

	for _, post := range posts {
		if post.Title == ref.Title {
			return post, true, nil
		}
	}
	return wordpress.Post{}, false, nil
}
