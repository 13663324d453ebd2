package eventpublisher

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

// Dispatcher pushes stored notifications to subscribers. Notifications are
// written before delivery, so the table works as an outbox: anything not yet
// marked delivered is picked up on the next poll.
type Dispatcher struct {
	notificationRepo usecase.NotificationRepository
	publisher        Publisher
	observer         DeliveryObserver
	logger           zerolog.Logger
	batchSize        int
	interval         time.Duration
	maxAttempts      uint64
}

// Publisher defines the interface for pushing a notification to its owner.
type Publisher interface {
	Publish(ctx context.Context, n *domain.Notification) error
}

// DeliveryObserver is told the outcome of every push.
type DeliveryObserver interface {
	ObserveDelivery(err error)
}

// Config for Dispatcher.
type Config struct {
	NotificationRepo usecase.NotificationRepository
	Publisher        Publisher
	Observer         DeliveryObserver
	Logger           zerolog.Logger
	BatchSize        int           // Number of notifications to fetch per poll
	Interval         time.Duration // Polling interval
	MaxAttempts      uint64        // Publish attempts per notification per poll
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(cfg Config) *Dispatcher {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.Interval == 0 {
		cfg.Interval = 2 * time.Second
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 3
	}

	return &Dispatcher{
		notificationRepo: cfg.NotificationRepo,
		publisher:        cfg.Publisher,
		observer:         cfg.Observer,
		logger:           cfg.Logger.With().Str("component", "notification_dispatcher").Logger(),
		batchSize:        cfg.BatchSize,
		interval:         cfg.Interval,
		maxAttempts:      cfg.MaxAttempts,
	}
}

// Start runs the dispatcher until ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) error {
	d.logger.Info().
		Int("batch_size", d.batchSize).
		Dur("interval", d.interval).
		Msg("notification dispatcher started")

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	if err := d.dispatch(ctx); err != nil {
		d.logger.Error().Err(err).Msg("error dispatching notifications on start")
	}

	for {
		select {
		case <-ctx.Done():
			d.logger.Info().Msg("notification dispatcher shutting down")
			return ctx.Err()
		case <-ticker.C:
			if err := d.dispatch(ctx); err != nil {
				d.logger.Error().Err(err).Msg("error dispatching notifications")
			}
		}
	}
}

// dispatch publishes one batch of undelivered notifications.
func (d *Dispatcher) dispatch(ctx context.Context) error {
	pending, err := d.notificationRepo.GetUndelivered(ctx, d.batchSize)
	if err != nil {
		return err
	}

	if len(pending) == 0 {
		return nil
	}

	d.logger.Debug().Int("count", len(pending)).Msg("dispatching notifications")

	for _, n := range pending {
		err := d.publish(ctx, n)
		if d.observer != nil {
			d.observer.ObserveDelivery(err)
		}
		if err != nil {
			d.logger.Error().Err(err).
				Str("notification_id", n.ID).
				Str("account_id", n.AccountID).
				Msg("failed to publish notification")
			// Left undelivered; retried on the next poll.
			continue
		}

		if err := d.notificationRepo.MarkDelivered(ctx, n.ID, time.Now().UTC()); err != nil {
			d.logger.Error().Err(err).
				Str("notification_id", n.ID).
				Msg("failed to mark notification delivered")
		}
	}

	return nil
}

func (d *Dispatcher) publish(ctx context.Context, n *domain.Notification) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 50 * time.Millisecond
	b.MaxInterval = time.Second

	policy := backoff.WithContext(backoff.WithMaxRetries(b, d.maxAttempts-1), ctx)

	return backoff.Retry(func() error {
		return d.publisher.Publish(ctx, n)
	}, policy)
}

// LogPublisher writes notifications to the log. Used when Redis is disabled.
type LogPublisher struct {
	logger zerolog.Logger
}

// NewLogPublisher creates a new LogPublisher.
func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish logs the notification.
func (p *LogPublisher) Publish(_ context.Context, n *domain.Notification) error {
	p.logger.Info().
		Str("notification_id", n.ID).
		Str("account_id", n.AccountID).
		Str("type", string(n.Type)).
		Str("title", n.Title).
		Str("message", n.Message).
		Msg("notification published")

	return nil
}
