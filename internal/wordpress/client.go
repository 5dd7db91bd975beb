// Package wordpress is a minimal WordPress REST v2 client covering what the
// pipeline needs: a session check, post creation, listing and in-place
// updates.
package wordpress

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/dileroc6/bigotesfelinos/internal/domain"
	"github.com/dileroc6/bigotesfelinos/internal/logger"
)

const requestTimeout = 30 * time.Second

// Post is the pipeline's view of a CMS post.
type Post struct {
	ID      int
	Title   string
	Content string
}

// ListFilter bounds a ListPosts call.
type ListFilter struct {
	PerPage int
	Status  domain.PostStatus
}

// Client talks to one WordPress site with application-password basic auth.
type Client struct {
	http *resty.Client
	log  logger.Logger
}

// NewClient builds a Client for the site at baseURL.
func NewClient(baseURL, user, password string, log logger.Logger) *Client {
	if log == nil {
		log = logger.NopLogger{}
	}

	http := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetBasicAuth(user, password).
		SetTimeout(requestTimeout).
		SetHeader("Accept", "application/json")

	return &Client{http: http, log: log}
}

// renderedField models WordPress's {rendered, raw} text wrappers. Raw is only
// present with context=edit.
type renderedField struct {
	Rendered string `json:"rendered"`
	Raw      string `json:"raw"`
}

func (f renderedField) value() string {
	if f.Raw != "" {
		return f.Raw
	}
	return f.Rendered
}

type postPayload struct {
	ID      int           `json:"id"`
	Title   renderedField `json:"title"`
	Content renderedField `json:"content"`
}

func (p postPayload) toPost() Post {
	return Post{ID: p.ID, Title: strings.TrimSpace(p.Title.value()), Content: p.Content.value()}
}

// EstablishSession verifies credentials against the site. The orchestrator
// treats a failure here as fatal to the whole run: without a session no item
// can be published.
func (c *Client) EstablishSession(ctx context.Context) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Get("/wp-json/wp/v2/users/me")
	if err != nil {
		return fmt.Errorf("wordpress session check: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("wordpress session check returned status %d", resp.StatusCode())
	}
	return nil
}

// CreatePost creates a new post and returns its CMS-assigned id. Each call
// creates a new post; deduplication is the caller's responsibility.
func (c *Client) CreatePost(ctx context.Context, title, bodyHTML string, status domain.PostStatus, category domain.CategoryRef) (int, error) {
	body := map[string]any{
		"title":   title,
		"content": bodyHTML,
		"status":  string(status),
	}
	if id, ok := c.categoryID(ctx, category); ok {
		body["categories"] = []int{id}
	}

	var created postPayload
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&created).
		Post("/wp-json/wp/v2/posts")
	if err != nil {
		return 0, &domain.PublishError{Title: title, Err: err}
	}
	if resp.IsError() {
		return 0, &domain.PublishError{Title: title, Err: fmt.Errorf("create returned status %d", resp.StatusCode())}
	}
	if created.ID == 0 {
		return 0, &domain.PublishError{Title: title, Err: fmt.Errorf("create response carried no post id")}
	}

	return created.ID, nil
}

// ListPosts returns the most recent posts matching the filter, newest first.
func (c *Client) ListPosts(ctx context.Context, filter ListFilter) ([]Post, error) {
	perPage := filter.PerPage
	if perPage <= 0 {
		perPage = 10
	}

	req := c.http.R().
		SetContext(ctx).
		SetQueryParam("per_page", fmt.Sprintf("%d", perPage)).
		SetQueryParam("context", "edit")
	if filter.Status != "" {
		req.SetQueryParam("status", string(filter.Status))
	}

	var payload []postPayload
	resp, err := req.SetResult(&payload).Get("/wp-json/wp/v2/posts")
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("list posts returned status %d", resp.StatusCode())
	}

	posts := make([]Post, 0, len(payload))
	for _, p := range payload {
		posts = append(posts, p.toPost())
	}
	return posts, nil
}

// GetPost fetches one post by id with its raw content.
func (c *Client) GetPost(ctx context.Context, id int) (Post, error) {
	var payload postPayload
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("context", "edit").
		SetResult(&payload).
		Get(fmt.Sprintf("/wp-json/wp/v2/posts/%d", id))
	if err != nil {
		return Post{}, fmt.Errorf("get post %d: %w", id, err)
	}
	if resp.IsError() {
		return Post{}, fmt.Errorf("get post %d returned status %d", id, resp.StatusCode())
	}

	return payload.toPost(), nil
}

// UpdatePostContent rewrites the content of an existing post in place.
func (c *Client) UpdatePostContent(ctx context.Context, id int, content string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{"content": content}).
		Post(fmt.Sprintf("/wp-json/wp/v2/posts/%d", id))
	if err != nil {
		return fmt.Errorf("update post %d: %w", id, err)
	}
	if resp.IsError() {
		return fmt.Errorf("update post %d returned status %d", id, resp.StatusCode())
	}
	return nil
}

// categoryID resolves the configured category to a numeric id. Numeric refs
// are forwarded as-is; named refs are looked up once per call, and a miss
// only drops the category from the post.
func (c *Client) categoryID(ctx context.Context, category domain.CategoryRef) (int, bool) {
	if category.IsZero() {
		return 0, false
	}
	if category.ID != 0 {
		return category.ID, true
	}

	var matches []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("search", category.Name).
		SetResult(&matches).
		Get("/wp-json/wp/v2/categories")
	if err != nil || resp.IsError() {
		c.log.WarnObj("category lookup failed, publishing without category", "category_lookup_error", map[string]any{
			"name": category.Name,
		})
		return 0, false
	}

	for _, m := range matches {
		if strings.EqualFold(m.Name, category.Name) {
			return m.ID, true
		}
	}

	c.log.WarnObj("category not found, publishing without category", "category_miss", map[string]any{
		"name": category.Name,
	})
	return 0, false
}
