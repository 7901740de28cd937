package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tm-acme-shop/acme-shop-orderbot-service/internal/config"
	"github.com/tm-acme-shop/acme-shop-orderbot-service/internal/logging"
	"github.com/tm-acme-shop/acme-shop-orderbot-service/internal/models"
)

const (
	cartKeyPrefix     = "orderbot:cart:"
	orderKeyPrefix    = "orderbot:order:"
	defaultSessionTTL = 24 * time.Hour
)

// RedisSessionStore implements SessionStore using Redis. Every write refreshes the TTL.
type RedisSessionStore struct {
	client redis.UniversalClient
	ttl    time.Duration
	logger *logging.LoggerV2
}

// NewRedisSessionStore creates a Redis-backed session store from configuration.
func NewRedisSessionStore(cfg config.RedisConfig, ttl time.Duration) *RedisSessionStore {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return NewRedisSessionStoreWithClient(client, ttl)
}

// NewRedisSessionStoreWithClient wraps an existing client.
func NewRedisSessionStoreWithClient(client redis.UniversalClient, ttl time.Duration) *RedisSessionStore {
	if ttl == 0 {
		ttl = defaultSessionTTL
	}

	return &RedisSessionStore{
		client: client,
		ttl:    ttl,
		logger: logging.NewLoggerV2("session-store"),
	}
}

// GetCart retrieves a session's cart.
func (s *RedisSessionStore) GetCart(ctx context.Context, sessionID string) (models.Cart, error) {
	var cart models.Cart
	found, err := s.get(ctx, cartKeyPrefix+sessionID, &cart)
	if err != nil {
		return nil, err
	}
	if !found || cart == nil {
		s.logger.Debug("Cart miss", logging.Fields{"session_id": sessionID})
		return models.Cart{}, nil
	}
	return cart, nil
}

// SaveCart stores a session's cart.
func (s *RedisSessionStore) SaveCart(ctx context.Context, sessionID string, cart models.Cart) error {
	if cart == nil {
		cart = models.Cart{}
	}
	return s.set(ctx, cartKeyPrefix+sessionID, cart)
}

// GetOrder retrieves a session's last placed order.
func (s *RedisSessionStore) GetOrder(ctx context.Context, sessionID string) (*models.Order, error) {
	var order models.Order
	found, err := s.get(ctx, orderKeyPrefix+sessionID, &order)
	if err != nil || !found {
		return nil, err
	}
	return &order, nil
}

// SaveOrder replaces a session's last placed order. A nil order deletes it.
func (s *RedisSessionStore) SaveOrder(ctx context.Context, sessionID string, order *models.Order) error {
	key := orderKeyPrefix + sessionID
	if order == nil {
		if err := s.client.Del(ctx, key).Err(); err != nil {
			return fmt.Errorf("delete order of session %s: %w", sessionID, err)
		}
		return nil
	}
	return s.set(ctx, key, order)
}

// SaveCheckout writes the order and the cart in one MULTI/EXEC transaction.
func (s *RedisSessionStore) SaveCheckout(ctx context.Context, sessionID string, order *models.Order, cart models.Cart) error {
	if cart == nil {
		cart = models.Cart{}
	}
	orderData, err := json.Marshal(order)
	if err != nil {
		return err
	}
	cartData, err := json.Marshal(cart)
	if err != nil {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, orderKeyPrefix+sessionID, orderData, s.ttl)
		pipe.Set(ctx, cartKeyPrefix+sessionID, cartData, s.ttl)
		return nil
	})
	if err != nil {
		s.logger.Error("Checkout write error", logging.Fields{
			"session_id": sessionID,
			"order_id":   order.ID,
			"error":      err.Error(),
		})
		return fmt.Errorf("save checkout of session %s: %w", sessionID, err)
	}

	s.logger.Debug("Checkout stored", logging.Fields{
		"session_id": sessionID,
		"order_id":   order.ID,
	})
	return nil
}

// Ping checks connectivity.
func (s *RedisSessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (s *RedisSessionStore) Close() error {
	return s.client.Close()
}

func (s *RedisSessionStore) get(ctx context.Context, key string, dst interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		s.logger.Error("Session get error", logging.Fields{
			"key":   key,
			"error": err.Error(),
		})
		return false, fmt.Errorf("get %s: %w", key, err)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		s.logger.Error("Session decode error", logging.Fields{
			"key":   key,
			"error": err.Error(),
		})
		return false, fmt.Errorf("%w: %s: %v", ErrCorruptSession, key, err)
	}
	return true, nil
}

func (s *RedisSessionStore) set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		s.logger.Error("Session set error", logging.Fields{
			"key":   key,
			"error": err.Error(),
		})
		return fmt.Errorf("set %s: %w", key, err)
	}

	s.logger.Debug("Session state stored", logging.Fields{
		"key": key,
		"ttl": s.ttl.String(),
	})
	return nil
}
