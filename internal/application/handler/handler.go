package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/TemirB/wb-cart-quantity/internal/application/service"
	"github.com/TemirB/wb-cart-quantity/internal/config"
	"github.com/TemirB/wb-cart-quantity/internal/domain"
	"github.com/TemirB/wb-cart-quantity/internal/observability"
	"github.com/TemirB/wb-cart-quantity/internal/pkg/retry"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

//go:generate mockgen -source internal/application/handler/handler.go -destination=internal/application/handler/handler_mock_test.go -package=handler

var (
	ErrBadJSON     = errors.New("bad json")
	ErrSetQuantity = errors.New("set quantity failed")
	ErrCircuitOpen = errors.New("circuit breaker open")
)

type Service interface {
	SetQuantity(ctx context.Context, cmd service.SetQuantity) (*domain.Cart, error)
}

type brk interface {
	Allow() error
	Success()
	Failure()
}

type Handler struct {
	service     Service
	breaker     brk
	logger      *zap.Logger
	metrics     observability.Metrics
	retryPolicy config.Retry
}

func NewHandler(service Service, brk brk, retryPolicy config.Retry, logger *zap.Logger, metrics observability.Metrics) *Handler {
	if metrics == nil {
		metrics = observability.NewNoop()
	}
	return &Handler{
		service:     service,
		breaker:     brk,
		logger:      logger,
		metrics:     metrics,
		retryPolicy: retryPolicy,
	}
}

// Handle processes one quantity command. Errors marked with retry.Permanent
// mean the message can never succeed; any other error asks for redelivery.
func (h *Handler) Handle(ctx context.Context, message kafkago.Message) (err error) {
	start := time.Now()
	defer func() {
		h.metrics.ObserveKafka(float64(time.Since(start).Microseconds())/1000.0, err == nil)
	}()

	if err := h.breaker.Allow(); err != nil {
		h.logger.Warn("circuit breaker is open",
			zap.Error(err),
			zap.Int("partition", message.Partition),
			zap.Int64("offset", message.Offset),
		)
		return fmt.Errorf("%w: %v", ErrCircuitOpen, err)
	}

	var cmd service.SetQuantity
	if err := json.Unmarshal(message.Value, &cmd); err != nil {
		h.logger.Error("bad json format",
			zap.Error(err),
			zap.Int("partition", message.Partition),
			zap.Int64("offset", message.Offset),
		)
		h.breaker.Failure()
		return retry.Permanent(ErrBadJSON)
	}
	if cmd.CartUID == "" || cmd.ItemID == "" {
		h.logger.Error("missing cart_uid or item_id",
			zap.Int("partition", message.Partition),
			zap.Int64("offset", message.Offset),
		)
		h.breaker.Failure()
		return retry.Permanent(ErrBadJSON)
	}

	var cart *domain.Cart
	if err := retry.Do(ctx, h.retryPolicy, func() error {
		var err error
		cart, err = h.service.SetQuantity(ctx, cmd)
		if isRejected(err) {
			return retry.Permanent(err)
		}
		return err
	}); err != nil {
		h.logger.Error("set quantity failed",
			zap.String("cart_uid", cmd.CartUID),
			zap.String("item_id", cmd.ItemID),
			zap.Error(err),
			zap.Int("partition", message.Partition),
			zap.Int64("offset", message.Offset),
		)
		h.breaker.Failure()
		err = fmt.Errorf("%w: %w", ErrSetQuantity, err)
		if isRejected(err) {
			return retry.Permanent(err)
		}
		return err
	}

	h.breaker.Success()

	applied := 0
	if cart != nil {
		if it, err := cart.Item(cmd.ItemID); err == nil {
			applied = it.Quantity()
		}
	}
	h.logger.Info("successfully processed quantity command",
		zap.String("cart_uid", cmd.CartUID),
		zap.String("item_id", cmd.ItemID),
		zap.Int("requested", cmd.Quantity),
		zap.Int("applied", applied),
		zap.Int("partition", message.Partition),
		zap.Int64("offset", message.Offset),
	)
	return nil
}

// isRejected reports errors that no amount of retrying will fix.
func isRejected(err error) bool {
	return errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrItemNotFound) ||
		errors.Is(err, service.ErrInvalidCommand) ||
		errors.Is(err, service.ErrQuantityTooLarge)
}
