package service

import (
	"context"
	"errors"
	"time"

	"github.com/TemirB/wb-cart-quantity/internal/domain"
	"github.com/TemirB/wb-cart-quantity/internal/observability"
	"github.com/TemirB/wb-cart-quantity/internal/pkg/keylock"
	"github.com/TemirB/wb-cart-quantity/internal/quantity"
	"go.uber.org/zap"
)

//go:generate mockgen -source internal/application/service/service.go -destination=internal/application/service/service_mock_test.go -package=service

var (
	ErrInvalidCommand   = errors.New("cart_uid and item_id are required")
	ErrQuantityTooLarge = errors.New("quantity exceeds the cart line limit")
)

type Cache interface {
	Set(*domain.Cart)
	Get(string) (*domain.Cart, bool)
}

type Storage interface {
	Upsert(context.Context, *domain.Cart) error
	GetByUID(context.Context, string) (*domain.Cart, error)
}

// Sessions runs fn with the quantity modifier owned by a session key.
type Sessions interface {
	Do(key string, fn func(quantity.Modifier) error) error
}

// SetQuantity asks to set a cart line to Quantity units on behalf of a session.
type SetQuantity struct {
	CartUID   string `json:"cart_uid"`
	ItemID    string `json:"item_id"`
	SessionID string `json:"session_id"`
	Quantity  int    `json:"quantity"`
}

// SessionKey picks the key a command's normalizer is tracked under.
// Anonymous commands share the cart's key.
func (c SetQuantity) SessionKey() string {
	if c.SessionID != "" {
		return c.SessionID
	}
	return "cart:" + c.CartUID
}

type Service struct {
	cache       Cache
	storage     Storage
	sessions    Sessions
	carts       *keylock.Locker
	maxQuantity int
	logger      *zap.Logger
	metrics     observability.Metrics
	now         func() time.Time
}

// NewService builds the cart service. maxQuantity caps requested line
// quantities and is rounded down to a multiple of quantity.Step so that
// rounding up never crosses it; zero means no cap.
func NewService(cache Cache, storage Storage, sessions Sessions, logger *zap.Logger, metrics observability.Metrics, maxQuantity int) *Service {
	if maxQuantity > 0 {
		maxQuantity = max(quantity.Step, maxQuantity-maxQuantity%quantity.Step)
	}
	return &Service{
		cache:       cache,
		storage:     storage,
		sessions:    sessions,
		carts:       keylock.New(),
		maxQuantity: maxQuantity,
		logger:      logger,
		metrics:     metrics,
		now:         time.Now,
	}
}

func (s *Service) SetQuantity(ctx context.Context, cmd SetQuantity) (*domain.Cart, error) {
	cart, _, err := s.SetQuantityWithStats(ctx, cmd)
	return cart, err
}

// SetQuantityWithStats normalizes the requested quantity through the
// session's normalizer, applies it to the line and stores the cart.
// Errors from the modifier chain are returned as is. Writers to the same
// cart are serialized, whatever session they come from.
func (s *Service) SetQuantityWithStats(ctx context.Context, cmd SetQuantity) (*domain.Cart, ModifyStats, error) {
	st := ModifyStats{Requested: cmd.Quantity}
	if cmd.CartUID == "" || cmd.ItemID == "" {
		return nil, st, ErrInvalidCommand
	}
	if s.maxQuantity > 0 && cmd.Quantity > s.maxQuantity {
		return nil, st, ErrQuantityTooLarge
	}

	var updated *domain.Cart
	err := s.sessions.Do(cmd.SessionKey(), func(m quantity.Modifier) error {
		unlock := s.carts.Lock(cmd.CartUID)
		defer unlock()

		cart, lookup, err := s.GetByUIDWithStats(ctx, cmd.CartUID)
		if err != nil {
			return err
		}
		st.Source = lookup.Source

		item, err := cart.Item(cmd.ItemID)
		if err != nil {
			s.logger.Warn("Item not in cart",
				zap.String("cart_uid", cmd.CartUID),
				zap.String("item_id", cmd.ItemID),
			)
			return err
		}

		tModify := time.Now()
		if err := m.Modify(item, cmd.Quantity); err != nil {
			s.logger.Error("Error while modifying item quantity",
				zap.String("cart_uid", cmd.CartUID),
				zap.String("item_id", cmd.ItemID),
				zap.Int("requested", cmd.Quantity),
				zap.Error(err),
			)
			return err
		}
		st.ModifyMs = convertToMs(tModify)
		st.Applied = item.Quantity()

		if cmd.SessionID != "" {
			cart.SessionID = cmd.SessionID
		}
		cart.Recalculate()
		cart.UpdatedAt = s.now().UTC()

		upsert, err := s.upsert(ctx, cart)
		if err != nil {
			return err
		}
		st.DBWriteMs = upsert.DBWriteMs

		updated = cart
		return nil
	})
	if err != nil {
		return nil, st, err
	}

	s.metrics.ObserveModify(st.Requested, st.Applied, st.ModifyMs)
	s.logger.Info("Item quantity set",
		zap.String("cart_uid", cmd.CartUID),
		zap.String("item_id", cmd.ItemID),
		zap.String("session", cmd.SessionKey()),
		zap.Int("requested", st.Requested),
		zap.Int("applied", st.Applied),
	)
	return updated, st, nil
}

func (s *Service) UpsertWithStats(ctx context.Context, cart *domain.Cart) (UpsertStats, error) {
	unlock := s.carts.Lock(cart.CartUID)
	defer unlock()
	return s.upsert(ctx, cart)
}

func (s *Service) upsert(ctx context.Context, cart *domain.Cart) (UpsertStats, error) {
	var st UpsertStats

	t0 := time.Now()
	if err := s.storage.Upsert(ctx, cart); err != nil {
		s.logger.Error(
			"Error while upserting cart in db",
			zap.String("cart_uid", cart.CartUID),
			zap.Error(err),
		)
		return st, err
	}
	st.DBWriteMs = convertToMs(t0)

	s.cache.Set(cart)

	s.metrics.ObserveUpsert(st.DBWriteMs)
	s.logger.Debug("Cart upserted",
		zap.String("cart_uid", cart.CartUID),
		zap.Float64("db_write_ms", st.DBWriteMs),
	)

	return st, nil
}

func (s *Service) Upsert(ctx context.Context, cart *domain.Cart) error {
	_, err := s.UpsertWithStats(ctx, cart)
	return err
}

func (s *Service) GetByUID(ctx context.Context, uid string) (*domain.Cart, error) {
	c, _, err := s.GetByUIDWithStats(ctx, uid)
	return c, err
}

func (s *Service) GetByUIDWithStats(ctx context.Context, uid string) (*domain.Cart, LookupStats, error) {
	var st LookupStats

	tCacheStart := time.Now()
	if cart, ok := s.cache.Get(uid); ok {
		st.Source = SourceCache
		st.CacheMs = convertToMs(tCacheStart)
		s.metrics.IncCacheHit()
		s.metrics.ObserveLookup(string(st.Source), st.CacheMs, 0)

		s.logger.Debug("Cart fetched from cache",
			zap.String("cart_uid", uid),
			zap.Float64("cache_ms", st.CacheMs),
		)

		return cart, st, nil
	}

	s.metrics.IncCacheMiss()
	st.CacheMs = convertToMs(tCacheStart)

	tDbStart := time.Now()
	cart, err := s.storage.GetByUID(ctx, uid)
	if err != nil {
		s.logger.Error(
			"Can't find cart",
			zap.String("cart_uid", uid),
			zap.Error(err),
			zap.Float64("cache_ms", st.CacheMs),
		)
		return nil, st, err
	}

	st.Source = SourceDB
	st.DBMs = convertToMs(tDbStart)

	s.cache.Set(cart)

	s.metrics.ObserveLookup(string(st.Source), st.CacheMs, st.DBMs)
	s.logger.Debug("Cart fetched from DB",
		zap.String("cart_uid", uid),
		zap.Float64("cache_ms", st.CacheMs),
		zap.Float64("db_ms", st.DBMs),
	)

	return cart, st, nil
}
