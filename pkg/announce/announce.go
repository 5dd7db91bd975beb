// Package announce fans published-post events out to optional downstream
// channels (cloud queues or HTTP webhooks) declared in a config file. A
// failing announcer never affects the publishing pipeline itself.
package announce

import (
	"context"
	"time"

	"github.com/dileroc6/bigotesfelinos/internal/logger"
)

// Event describes one post the pipeline just published.
type Event struct {
	PostID      int       `json:"post_id"`
	Title       string    `json:"title"`
	URL         string    `json:"url,omitempty"`
	SourceURL   string    `json:"source_url"`
	PublishedAt time.Time `json:"published_at"`
}

// Announcer delivers events to one configured channel.
type Announcer interface {
	ID() string
	Type() string
	Publish(ctx context.Context, evt Event) error
}

// Logger is re-exported so builders can stay decoupled from internal
// packages in their signatures.
type Logger = logger.Logger

func ensureLogger(log Logger) Logger {
	if log == nil {
		return logger.NopLogger{}
	}
	return log
}

// Fanout delivers the event to every announcer, logging failures per channel.
func Fanout(ctx context.Context, announcers []Announcer, evt Event, log Logger) {
	log = ensureLogger(log)
	for _, a := range announcers {
		if err := a.Publish(ctx, evt); err != nil {
			log.ErrorObj("announcer delivery failed", "announce_error", map[string]any{
				"announcer_id": a.ID(),
				"type":         a.Type(),
				"post_id":      evt.PostID,
				"error":        err.Error(),
			})
		}
	}
}
