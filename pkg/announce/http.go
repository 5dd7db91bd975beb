package announce

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// httpAnnouncer delivers events to a generic HTTP sink.
type httpAnnouncer struct {
	id     string
	typ    string
	url    string
	method string
	client *resty.Client
	log    Logger
}

// newHTTPAnnouncer creates an announcer targeting the configured webhook.
func newHTTPAnnouncer(_ context.Context, cfg AnnouncerConfig, log Logger) (Announcer, error) {
	if cfg.HTTP == nil {
		return nil, fmt.Errorf("announcer %q missing http configuration", cfg.ID)
	}

	client := resty.New().
		SetTimeout(time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second).
		SetHeader("Content-Type", "application/json")
	for k, v := range cfg.HTTP.Headers {
		client.SetHeader(k, v)
	}

	return &httpAnnouncer{
		id:     cfg.ID,
		typ:    cfg.Type,
		url:    cfg.HTTP.URL,
		method: cfg.HTTP.Method,
		client: client,
		log:    ensureLogger(log),
	}, nil
}

func (a *httpAnnouncer) ID() string   { return a.id }
func (a *httpAnnouncer) Type() string { return a.typ }

// Publish posts the event as JSON to the configured URL.
func (a *httpAnnouncer) Publish(ctx context.Context, evt Event) error {
	resp, err := a.client.R().
		SetContext(ctx).
		SetBody(evt).
		Execute(a.method, a.url)
	if err != nil {
		a.log.ErrorObj("http announcer send failed", "announce_http_error", map[string]any{
			"url":   a.url,
			"error": err.Error(),
		})
		return fmt.Errorf("post event to %s: %w", a.url, err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("http sink %s returned status %d", a.url, resp.StatusCode())
	}

	a.log.DebugObj("http announcer delivered event", "announce_http_delivery", map[string]any{
		"url":    a.url,
		"status": resp.StatusCode(),
	})
	return nil
}
