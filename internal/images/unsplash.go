// Package images sources lead images for published posts and patches them
// in after the publish phase.
package images

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dileroc6/bigotesfelinos/internal/logger"
	"github.com/dileroc6/bigotesfelinos/pkg/httpclient"
)

const defaultUnsplashBaseURL = "https://api.unsplash.com"

// UnsplashSearcher finds images through the Unsplash search API.
type UnsplashSearcher struct {
	client    httpclient.Client
	baseURL   string
	accessKey string
	log       logger.Logger
}

// NewUnsplashSearcher builds a searcher. baseURL is the API root and may be
// left empty for the public endpoint.
func NewUnsplashSearcher(client httpclient.Client, baseURL, accessKey string, log logger.Logger) *UnsplashSearcher {
	if baseURL == "" {
		baseURL = defaultUnsplashBaseURL
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &UnsplashSearcher{client: client, baseURL: baseURL, accessKey: accessKey, log: log}
}

type searchResponse struct {
	Results []struct {
		URLs struct {
			Regular string `json:"regular"`
		} `json:"urls"`
	} `json:"results"`
}

// SearchImage returns the regular-size URL of the first-ranked result for
// query. An empty result set is a normal outcome and yields ("", nil).
func (s *UnsplashSearcher) SearchImage(ctx context.Context, query string) (string, error) {
	endpoint := fmt.Sprintf("%s/search/photos?query=%s&client_id=%s",
		s.baseURL, url.QueryEscape(query), url.QueryEscape(s.accessKey))

	resp, err := s.client.Get(ctx, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("search image %q: %w", query, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("search image %q returned status %d", query, resp.StatusCode())
	}

	var payload searchResponse
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return "", fmt.Errorf("decode image search response: %w", err)
	}

	if len(payload.Results) == 0 {
		s.log.InfoObj("no image available for query", "image_search_empty", map[string]any{
			"query": query,
		})
		return "", nil
	}
	return payload.Results[0].URLs.Regular, nil
}
