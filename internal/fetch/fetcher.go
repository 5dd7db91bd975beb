// Package fetch discovers candidate articles on the source listing page.
package fetch

import (
	"bytes"
	"context"
	"crypto/sha1" //nolint:gosec // non-cryptographic id generation
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/dileroc6/bigotesfelinos/internal/domain"
	"github.com/dileroc6/bigotesfelinos/internal/logger"
	"github.com/dileroc6/bigotesfelinos/pkg/httpclient"
)

const maxHTMLBodyBytes = 1 << 20 // 1 MiB

var defaultHeaders = map[string]string{
	"User-Agent": "Mozilla/5.0 (compatible; bigotesfelinos/1.0)",
	"Accept":     "text/html,application/xhtml+xml",
}

// Fetcher scrapes a listing page and yields candidate items that pass the
// configured predicate, newest-first in page order.
type Fetcher struct {
	client httpclient.Client
	loc    *time.Location
	log    logger.Logger
}

// NewFetcher creates a Fetcher. Textual publication dates on the listing are
// interpreted in loc.
func NewFetcher(client httpclient.Client, loc *time.Location, log logger.Logger) *Fetcher {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Fetcher{client: client, loc: loc, log: log}
}

// Fetch retrieves the listing at sourceURL, keeps items accepted by pred and
// caps the result at limit. The listing's own ordering is preserved. Any
// transport or parse failure is reported as a domain.FetchError.
func (f *Fetcher) Fetch(ctx context.Context, sourceURL string, pred Predicate, limit int) ([]domain.SourceItem, error) {
	resp, err := f.client.Get(ctx, sourceURL, defaultHeaders)
	if err != nil {
		return nil, &domain.FetchError{SourceURL: sourceURL, Err: err}
	}

	if resp.StatusCode() != http.StatusOK {
		err := fmt.Errorf("listing returned status %d body: %s", resp.StatusCode(), responseSnippet(resp.Body()))
		return nil, &domain.FetchError{SourceURL: sourceURL, Err: err}
	}

	body := resp.Body()
	if len(body) > maxHTMLBodyBytes {
		f.log.InfoObj("listing body truncated", "listing_truncated", map[string]any{
			"url":      sourceURL,
			"original": len(body),
			"kept":     maxHTMLBodyBytes,
		})
		body = body[:maxHTMLBodyBytes]
	}

	items, err := parseListing(body, sourceURL, f.loc)
	if err != nil {
		return nil, &domain.FetchError{SourceURL: sourceURL, Err: err}
	}

	out := make([]domain.SourceItem, 0, limit)
	for _, item := range items {
		if len(out) >= limit {
			break
		}
		if pred != nil && !pred(item) {
			continue
		}
		out = append(out, item)
	}

	f.log.DebugObj("listing fetched", "listing_fetched", map[string]any{
		"url":        sourceURL,
		"discovered": len(items),
		"kept":       len(out),
	})
	return out, nil
}

// parseListing extracts candidate items from the listing HTML. Each candidate
// is an <article> card carrying a link and, optionally, a publication date;
// pages without article cards fall back to plain h2/h3 headline links.
func parseListing(body []byte, sourceURL string, loc *time.Location) ([]domain.SourceItem, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse listing html: %w", err)
	}

	var items []domain.SourceItem
	seen := make(map[string]struct{})

	add := func(sel *goquery.Selection, link string) {
		link = resolveURL(strings.TrimSpace(link), sourceURL)
		if link == "" {
			return
		}
		if _, dup := seen[link]; dup {
			return
		}
		seen[link] = struct{}{}

		items = append(items, domain.SourceItem{
			ID:          hashURL(link),
			URL:         link,
			Title:       strings.TrimSpace(sel.Find("h1,h2,h3").First().Text()),
			PublishedAt: extractDate(sel, loc),
		})
	}

	doc.Find("article").Each(func(_ int, card *goquery.Selection) {
		if href, ok := card.Find("a[href]").First().Attr("href"); ok {
			add(card, href)
		}
	})

	if len(items) == 0 {
		doc.Find("h2 a[href], h3 a[href]").Each(func(_ int, a *goquery.Selection) {
			if href, ok := a.Attr("href"); ok {
				add(a.Parent(), href)
			}
		})
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("listing contains no candidate links")
	}
	return items, nil
}

// hashURL generates a SHA-1 hash of the given URL string.
func hashURL(u string) string {
	sum := sha1.Sum([]byte(u))
	return hex.EncodeToString(sum[:])
}

// responseSnippet returns a truncated snippet of the response body for logging.
func responseSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}

// resolveURL resolves a possibly relative URL against a base URL.
func resolveURL(raw, base string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if parsed.IsAbs() {
		return parsed.String()
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return ""
	}
	return baseURL.ResolveReference(parsed).String()
}
