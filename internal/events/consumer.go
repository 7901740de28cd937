package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/tm-acme-shop/acme-shop-orderbot-service/internal/config"
	"github.com/tm-acme-shop/acme-shop-orderbot-service/internal/logging"
	"github.com/tm-acme-shop/acme-shop-orderbot-service/internal/models"
	"github.com/tm-acme-shop/acme-shop-orderbot-service/internal/repository"
)

const (
	defaultRetryBase = 500 * time.Millisecond
	defaultRetryMax  = 30 * time.Second
)

var errConsumerStopped = errors.New("consumer stopped")

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ArchiveConsumer reads placed-order events and stores them in the order archive.
// An offset is committed only once its message is archived or known to be undecodable.
type ArchiveConsumer struct {
	reader    messageReader
	archive   repository.OrderArchive
	logger    *logging.LoggerV2
	stopCh    chan struct{}
	stopOnce  sync.Once
	retryBase time.Duration
	retryMax  time.Duration
}

// NewArchiveConsumer creates a Kafka consumer on the orders topic.
func NewArchiveConsumer(cfg config.KafkaConfig, archive repository.OrderArchive, logger *logging.LoggerV2) *ArchiveConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.OrdersTopic,
		GroupID:  cfg.ConsumerGroup,
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  time.Second,
	})

	return newArchiveConsumer(reader, archive, logger)
}

func newArchiveConsumer(reader messageReader, archive repository.OrderArchive, logger *logging.LoggerV2) *ArchiveConsumer {
	return &ArchiveConsumer{
		reader:    reader,
		archive:   archive,
		logger:    logger,
		stopCh:    make(chan struct{}),
		retryBase: defaultRetryBase,
		retryMax:  defaultRetryMax,
	}
}

// Start consumes until ctx is cancelled, Stop is called or the reader is closed.
func (c *ArchiveConsumer) Start(ctx context.Context) error {
	c.logger.Info("Starting archive consumer")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.stopCh:
			c.logger.Info("Archive consumer stopped")
			return nil
		default:
			msg, err := c.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				if errors.Is(err, io.EOF) {
					return nil
				}
				c.logger.Error("Failed to fetch message", logging.Fields{"error": err.Error()})
				continue
			}

			if err := c.handleMessage(ctx, msg); err != nil {
				if errors.Is(err, errConsumerStopped) {
					c.logger.Info("Archive consumer stopped")
					return nil
				}
				return err
			}

			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				c.logger.Error("Failed to commit offset", logging.Fields{
					"partition": msg.Partition,
					"offset":    msg.Offset,
					"error":     err.Error(),
				})
			}
		}
	}
}

// Stop stops the consumer. Safe to call more than once.
func (c *ArchiveConsumer) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopCh)
		c.reader.Close()
	})
}

// handleMessage returns an error only when the consumer is shutting down before the
// message could be archived; the offset must then stay uncommitted.
func (c *ArchiveConsumer) handleMessage(ctx context.Context, msg kafka.Message) error {
	c.logger.Debug("Received message", logging.Fields{
		"topic":     msg.Topic,
		"partition": msg.Partition,
		"offset":    msg.Offset,
	})

	var event OrderEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		c.logger.Error("Skipping undecodable event", logging.Fields{
			"offset": msg.Offset,
			"error":  err.Error(),
		})
		return nil
	}

	switch event.Type {
	case EventTypeOrderPlaced:
		return c.handleOrderPlaced(ctx, &event)
	default:
		c.logger.Debug("Ignoring unknown event type", logging.Fields{"type": event.Type})
		return nil
	}
}

func (c *ArchiveConsumer) handleOrderPlaced(ctx context.Context, event *OrderEvent) error {
	var record models.PlacedOrderRecord
	if err := json.Unmarshal(event.Data, &record); err != nil {
		c.logger.Error("Skipping undecodable placed order", logging.Fields{
			"event_id": event.ID,
			"error":    err.Error(),
		})
		return nil
	}

	for attempt := 1; ; attempt++ {
		err := c.archive.Save(ctx, &record)
		if err == nil {
			return nil
		}

		delay := c.retryDelay(attempt)
		c.logger.Warn("Failed to archive order, retrying", logging.Fields{
			"order_id": record.OrderID,
			"attempt":  attempt,
			"delay":    delay.String(),
			"error":    err.Error(),
		})

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-c.stopCh:
			timer.Stop()
			return errConsumerStopped
		case <-timer.C:
		}
	}
}

// retryDelay doubles from retryBase per attempt, capped at retryMax.
func (c *ArchiveConsumer) retryDelay(attempt int) time.Duration {
	shift := attempt - 1
	if shift > 10 {
		shift = 10
	}
	delay := c.retryBase * time.Duration(1<<shift)
	if delay > c.retryMax {
		delay = c.retryMax
	}
	return delay
}
