package kafka

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/feastline/order-pipeline/internal/events"
	"github.com/feastline/order-pipeline/internal/metrics"
	"github.com/feastline/order-pipeline/internal/notify"
	"github.com/feastline/order-pipeline/internal/repository"
	"github.com/feastline/order-pipeline/internal/storage"
)

// Fetcher is the slice of kafka.Reader the consumer uses. Commits are
// explicit so a failed persistence write keeps the message uncommitted.
type Fetcher interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Notifier fans a payload out to one recipient, best effort.
type Notifier interface {
	NotifyCustomer(userID string, payload []byte)
	NotifyRestaurant(restaurantID string, payload []byte)
}

type ConsumerConfig struct {
	Brokers []string
	Topic   string
	GroupID string

	// StrictTransitions rejects lifecycle steps outside the transition
	// graph. Off reproduces the legacy blind-overwrite behavior.
	StrictTransitions bool
}

// Consumer is the single sequential worker of the pipeline: one message is
// fully decoded, persisted and dispatched before the next is pulled.
type Consumer struct {
	fetcher  Fetcher
	repo     storage.OrderRepository
	notifier Notifier
	strict   bool
	logger   *zap.Logger
}

func NewConsumer(cfg ConsumerConfig, repo storage.OrderRepository, notifier Notifier, logger *zap.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: cfg.Brokers,
		GroupID: cfg.GroupID,
		Topic:   cfg.Topic,
		// A restarted consumer group must replay retained events rather
		// than skip what arrived while it was down; status writes are
		// idempotent, so reprocessing is safe.
		StartOffset:    kafka.FirstOffset,
		MinBytes:       1,
		MaxBytes:       10e6,
		MaxWait:        3 * time.Second,
		CommitInterval: 0,
	})
	return NewConsumerWithFetcher(reader, cfg.StrictTransitions, repo, notifier, logger)
}

func NewConsumerWithFetcher(fetcher Fetcher, strict bool, repo storage.OrderRepository, notifier Notifier, logger *zap.Logger) *Consumer {
	return &Consumer{
		fetcher:  fetcher,
		repo:     repo,
		notifier: notifier,
		strict:   strict,
		logger:   logger,
	}
}

// Run pulls messages until ctx is cancelled. It returns nil on shutdown and
// an error only for an unrecoverable broker failure, which the host process
// treats as fatal.
func (c *Consumer) Run(ctx context.Context) error {
	defer func() {
		if err := c.fetcher.Close(); err != nil {
			c.logger.Warn("closing kafka reader", zap.Error(err))
		}
	}()

	c.logger.Info("consumer loop started")

	for {
		msg, err := c.fetcher.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("consumer loop stopping")
				return nil
			}
			return fmt.Errorf("fetch message: %w", err)
		}

		if c.process(ctx, msg.Value) {
			// Commit with a fresh context so an in-flight message still
			// records its offset during shutdown.
			if err := c.commit(msg); err != nil {
				c.logger.Error("commit offset", zap.Error(err))
			}
		}

		if ctx.Err() != nil {
			c.logger.Info("consumer loop stopping")
			return nil
		}
	}
}

func (c *Consumer) commit(msg kafka.Message) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return c.fetcher.CommitMessages(ctx, msg)
}

// process handles one message and reports whether its offset may advance.
// Only a retryable store failure returns false; every unfixable message is
// committed so it cannot wedge the partition.
func (c *Consumer) process(ctx context.Context, raw []byte) bool {
	evt, err := events.Decode(raw)
	if err != nil {
		if errors.Is(err, events.ErrUnknownType) {
			c.logger.Warn("skipping event", zap.Error(err))
		} else {
			metrics.DecodeFailuresTotal.Inc()
			c.logger.Error("undecodable message", zap.Error(err))
		}
		return true
	}

	metrics.EventsConsumedTotal.WithLabelValues(string(evt.Type)).Inc()
	c.logger.Debug("event received",
		zap.String("type", string(evt.Type)), zap.String("order_id", evt.OrderID))

	order, err := c.repo.GetByID(ctx, evt.OrderID)
	if errors.Is(err, repository.ErrObjectNotFound) {
		c.logger.Error("order not found, dropping event",
			zap.String("order_id", evt.OrderID), zap.String("type", string(evt.Type)))
		return true
	}
	if err != nil {
		c.logger.Error("loading order", zap.String("order_id", evt.OrderID), zap.Error(err))
		return false
	}

	if evt.Type == events.EvtOrderCreated {
		return c.handleCreated(order)
	}
	return c.handleStatusChange(ctx, order, evt)
}

// handleCreated pushes the NEW_ORDER snapshot to the restaurant. Creation is
// a pure notification trigger: the order is already persisted as New.
func (c *Consumer) handleCreated(order *repository.Order) bool {
	payload, err := notify.NewOrder(order)
	if err != nil {
		c.logger.Error("building NEW_ORDER payload",
			zap.String("order_id", order.ID), zap.Error(err))
		return true
	}
	c.notifier.NotifyRestaurant(order.RestaurantID, payload)
	return true
}

func (c *Consumer) handleStatusChange(ctx context.Context, order *repository.Order, evt *events.Event) bool {
	target, err := repository.ParseStatus(evt.Status)
	if err != nil {
		c.logger.Error("dropping event with invalid status",
			zap.String("order_id", order.ID), zap.String("status", evt.Status))
		return true
	}

	if c.strict && !repository.CanTransition(order.Status, target) {
		metrics.TransitionsRejectedTotal.Inc()
		c.logger.Error("dropping event",
			zap.Error(&repository.TransitionError{OrderID: order.ID, From: order.Status, To: target}))
		return true
	}

	if err := c.repo.UpdateStatus(ctx, order.ID, target); err != nil {
		// Not committed: redelivery retries the write, which is idempotent.
		c.logger.Error("persisting status update",
			zap.String("order_id", order.ID),
			zap.String("status", string(target)),
			zap.Error(err))
		return false
	}

	c.logger.Info("order status updated",
		zap.String("order_id", order.ID), zap.String("status", string(target)))

	payload, err := notify.OrderUpdate(order.ID, target)
	if err != nil {
		c.logger.Error("building ORDER_UPDATE payload",
			zap.String("order_id", order.ID), zap.Error(err))
		return true
	}
	c.notifier.NotifyCustomer(order.UserID, payload)
	return true
}
