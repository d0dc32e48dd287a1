package kafka

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/TemirB/wb-cart-quantity/internal/config"
	"github.com/TemirB/wb-cart-quantity/internal/pkg/pool"
	"github.com/TemirB/wb-cart-quantity/internal/pkg/retry"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

//go:generate mockgen -source internal/kafka/consumer.go -destination=internal/kafka/consumer_mock_test.go -package=kafka

type MessageHandler interface {
	Handle(ctx context.Context, msg kafkago.Message) error
}

type Reader interface {
	Config() kafkago.ReaderConfig
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

type Consumer struct {
	handler MessageHandler
	reader  Reader
	zlogger *zap.Logger
	workers *pool.Pool

	idleBackoff  time.Duration
	errorBackoff time.Duration
	retryBackoff time.Duration
}

func NewReader(cfg config.Kafka) *kafkago.Reader {
	return kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          cfg.Topic,
		GroupID:        cfg.Group,
		StartOffset:    kafkago.FirstOffset,
		MinBytes:       1,
		MaxBytes:       10e6,
		MaxWait:        500 * time.Millisecond,
		CommitInterval: 0,
	})
}

func NewConsumer(handler MessageHandler, reader Reader, workers int, logger *zap.Logger) *Consumer {
	return &Consumer{
		handler:      handler,
		reader:       reader,
		zlogger:      logger,
		workers:      pool.New(workers),
		idleBackoff:  10 * time.Second,
		errorBackoff: 500 * time.Millisecond,
		retryBackoff: 200 * time.Millisecond,
	}
}

// Start fetches until ctx is done. Each message is handled on the worker
// pool, but Start waits for its result before fetching the next one, so
// offsets are committed in the order they were received. A message is
// committed once it is handled or rejected permanently.
func (c *Consumer) Start(ctx context.Context) {
	defer func() {
		c.workers.Close()
		c.workers.Wait()
	}()

	rc := c.reader.Config()
	c.zlogger.Info("Starting Kafka consumer",
		zap.Strings("brokers", rc.Brokers),
		zap.String("group", rc.GroupID),
		zap.String("topic", rc.Topic),
	)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}
			if isBenignFetchTimeout(err) {
				c.zlogger.Debug("fetch timeout (idle), backing off", zap.Error(err))
				sleepWithContext(ctx, c.idleBackoff)
				continue
			}

			c.zlogger.Warn("FetchMessage error, backing off", zap.Error(err))
			sleepWithContext(ctx, c.errorBackoff)
			continue
		}

		if !c.process(ctx, msg) {
			return
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.zlogger.Warn(
				"commit failed",
				zap.Error(err),
				zap.String("topic", msg.Topic),
				zap.Int("partition", msg.Partition),
				zap.Int64("offset", msg.Offset),
			)
			sleepWithContext(ctx, c.retryBackoff)
			continue
		}
		c.zlogger.Debug("message committed",
			zap.String("topic", msg.Topic), zap.Int("partition", msg.Partition), zap.Int64("offset", msg.Offset))
	}
}

// process handles msg on the worker pool until it succeeds or fails
// permanently. The reader has already moved past msg, so giving up on a
// retryable failure would lose it once a later offset is committed.
// It returns false when ctx ends first.
func (c *Consumer) process(ctx context.Context, msg kafkago.Message) bool {
	for attempt := 1; ; attempt++ {
		done := make(chan error, 1)
		if err := c.workers.Submit(ctx, func() { done <- c.handle(ctx, msg) }); err != nil {
			return false
		}

		var procErr error
		select {
		case procErr = <-done:
		case <-ctx.Done():
			return false
		}

		switch {
		case procErr == nil:
			return true
		case retry.IsPermanent(procErr):
			c.zlogger.Error("handler rejected message; committing to skip it", zap.Error(procErr),
				zap.String("topic", msg.Topic), zap.Int("partition", msg.Partition), zap.Int64("offset", msg.Offset))
			return true
		}

		c.zlogger.Warn("handler failed; retrying message", zap.Error(procErr), zap.Int("attempt", attempt),
			zap.String("topic", msg.Topic), zap.Int("partition", msg.Partition), zap.Int64("offset", msg.Offset))
		sleepWithContext(ctx, c.retryBackoff)
		if ctx.Err() != nil {
			return false
		}
	}
}

func (c *Consumer) handle(ctx context.Context, msg kafkago.Message) error {
	start := time.Now()
	err := c.handler.Handle(ctx, msg)
	c.zlogger.Debug("message handled",
		zap.String("topic", msg.Topic),
		zap.Int("partition", msg.Partition),
		zap.Int64("offset", msg.Offset),
		zap.Int("value_bytes", len(msg.Value)),
		zap.Duration("elapsed", time.Since(start)),
		zap.Bool("ok", err == nil),
	)
	return err
}

func sleepWithContext(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

func isBenignFetchTimeout(err error) bool {
	s := err.Error()
	return strings.Contains(s, "Request Timed Out") ||
		strings.Contains(s, "no messages received from kafka within the allocated time")
}
