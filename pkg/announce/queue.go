package announce

import (
	"context"
	"fmt"
)

// queueSender abstracts provider-specific queue senders.
type queueSender interface {
	Send(ctx context.Context, evt Event) error
}

// queueAnnouncer dispatches events to a cloud queue provider.
type queueAnnouncer struct {
	id       string
	typ      string
	provider string
	sender   queueSender
	log      Logger
}

// newQueueAnnouncer creates a queue announcer for the configured provider.
func newQueueAnnouncer(ctx context.Context, cfg AnnouncerConfig, log Logger) (Announcer, error) {
	if cfg.Queue == nil {
		return nil, fmt.Errorf("announcer %q missing queue configuration", cfg.ID)
	}

	if ctx == nil {
		ctx = context.Background()
	}

	var (
		sender queueSender
		err    error
	)

	switch cfg.Queue.Provider {
	case QueueProviderAWSSQS:
		sender, err = newAWSSQSSender(ctx, cfg.Queue.AWS, log)
	case QueueProviderAWSSNS:
		sender, err = newAWSSNSSender(ctx, cfg.Queue.SNS, log)
	case QueueProviderGCP:
		sender, err = newGCPPubSubSender(ctx, cfg.Queue.GCP, log)
	case QueueProviderAzure:
		err = fmt.Errorf("queue provider %q not implemented", cfg.Queue.Provider)
	default:
		err = fmt.Errorf("queue provider %q is not supported", cfg.Queue.Provider)
	}
	if err != nil {
		return nil, err
	}

	return &queueAnnouncer{
		id:       cfg.ID,
		typ:      cfg.Type,
		provider: cfg.Queue.Provider,
		sender:   sender,
		log:      ensureLogger(log),
	}, nil
}

func (a *queueAnnouncer) ID() string   { return a.id }
func (a *queueAnnouncer) Type() string { return a.typ }

// Publish forwards the event to the configured queue provider.
func (a *queueAnnouncer) Publish(ctx context.Context, evt Event) error {
	if err := a.sender.Send(ctx, evt); err != nil {
		return fmt.Errorf("queue provider %s send failed: %w", a.provider, err)
	}
	return nil
}
