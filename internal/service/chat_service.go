package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tm-acme-shop/acme-shop-orderbot-service/internal/cart"
	"github.com/tm-acme-shop/acme-shop-orderbot-service/internal/config"
	"github.com/tm-acme-shop/acme-shop-orderbot-service/internal/logging"
	"github.com/tm-acme-shop/acme-shop-orderbot-service/internal/menu"
	"github.com/tm-acme-shop/acme-shop-orderbot-service/internal/metrics"
	"github.com/tm-acme-shop/acme-shop-orderbot-service/internal/models"
	"github.com/tm-acme-shop/acme-shop-orderbot-service/internal/nlu"
	"github.com/tm-acme-shop/acme-shop-orderbot-service/internal/repository"
)

var (
	ErrArchiveDisabled = errors.New("order archive is disabled")
	ErrOrderNotFound   = errors.New("order not found")
)

const maxListLimit = 100

// OrderEventPublisher announces placed orders.
type OrderEventPublisher interface {
	PublishOrderPlaced(ctx context.Context, record *models.PlacedOrderRecord) error
}

// ChatService is the conversational ordering engine exposed to the transport layer.
type ChatService struct {
	store     repository.SessionStore
	catalog   *menu.Catalog
	router    *IntentRouter
	locks     *sessionLocks
	publisher OrderEventPublisher
	archive   repository.OrderArchive
	metrics   *metrics.Metrics
	config    *config.Config
	clock     func() time.Time
	logger    *logging.LoggerV2
}

// Option customizes a ChatService.
type Option func(*ChatService)

// WithClock replaces time.Now, for order timestamps and ETAs.
func WithClock(clock func() time.Time) Option {
	return func(s *ChatService) { s.clock = clock }
}

// WithPublisher sets the publisher used for placed orders when order events are enabled.
func WithPublisher(p OrderEventPublisher) Option {
	return func(s *ChatService) { s.publisher = p }
}

// WithArchive enables lookups of archived orders.
func WithArchive(a repository.OrderArchive) Option {
	return func(s *ChatService) { s.archive = a }
}

// WithMetrics records message and cart metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *ChatService) { s.metrics = m }
}

// NewChatService creates a new chat service.
func NewChatService(store repository.SessionStore, catalog *menu.Catalog, cfg *config.Config, opts ...Option) *ChatService {
	s := &ChatService{
		store:   store,
		catalog: catalog,
		locks:   newSessionLocks(),
		config:  cfg,
		clock:   time.Now,
		logger:  logging.NewLoggerV2("chat-service"),
	}
	for _, opt := range opts {
		opt(s)
	}

	tracker := NewOrderTracker(cfg.ETA, s.clock)
	s.router = NewIntentRouter(catalog, tracker, cfg.Pricing.TaxRate, s.metrics)
	return s
}

// GetMenu returns the catalog and its category grouping.
func (s *ChatService) GetMenu() models.MenuView {
	return s.catalog.View()
}

// GetCart returns the session's cart and freshly computed totals.
func (s *ChatService) GetCart(ctx context.Context, sessionID string) (*models.CartView, error) {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	c, err := s.store.GetCart(ctx, sessionID)
	if err != nil {
		s.logger.Error("Failed to load cart", logging.Fields{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return nil, fmt.Errorf("load cart: %w", err)
	}

	return &models.CartView{Cart: c, Totals: cart.CalculateTotals(c, s.config.Pricing.TaxRate)}, nil
}

// HandleMessage classifies text, applies its effect to the session and returns the reply
// together with the post-mutation cart. Business conditions such as an empty cart become
// replies; only session store failures are returned as errors.
func (s *ChatService) HandleMessage(ctx context.Context, sessionID, text string) (*models.ChatReply, error) {
	start := s.clock()
	normalized := nlu.Normalize(text)

	resp, placed, intent, err := s.handleLocked(ctx, sessionID, normalized)
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveMessage(string(intent), s.clock().Sub(start))
	s.logger.Debug("Message handled", logging.Fields{
		"session_id": sessionID,
		"intent":     string(intent),
	})

	if placed != nil {
		s.publishPlaced(ctx, sessionID, placed)
	}

	return resp, nil
}

func (s *ChatService) handleLocked(ctx context.Context, sessionID, normalized string) (*models.ChatReply, *models.Order, Intent, error) {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, nil, "", err
	}

	intent, reply := s.router.Route(sess, normalized)

	if err := s.save(ctx, sess); err != nil {
		return nil, nil, "", err
	}

	suggestions := reply.Suggestions
	if suggestions == nil {
		suggestions = []string{}
	}

	return &models.ChatReply{
		Reply:       reply.Text,
		Cart:        sess.Cart,
		Totals:      cart.CalculateTotals(sess.Cart, s.config.Pricing.TaxRate),
		Suggestions: suggestions,
	}, sess.placed, intent, nil
}

func (s *ChatService) load(ctx context.Context, sessionID string) (*SessionState, error) {
	c, err := s.store.GetCart(ctx, sessionID)
	if err != nil {
		s.logger.Error("Failed to load cart", logging.Fields{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return nil, fmt.Errorf("load cart: %w", err)
	}

	order, err := s.store.GetOrder(ctx, sessionID)
	if err != nil {
		s.logger.Error("Failed to load order", logging.Fields{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return nil, fmt.Errorf("load order: %w", err)
	}

	if c == nil {
		c = models.Cart{}
	}
	return &SessionState{ID: sessionID, Cart: c, Order: order}, nil
}

// save writes back whatever the router changed. A checkout is stored in one write so the
// session never holds the new order next to the old cart.
func (s *ChatService) save(ctx context.Context, sess *SessionState) error {
	if sess.placed != nil {
		if err := s.store.SaveCheckout(ctx, sess.ID, sess.Order, sess.Cart); err != nil {
			s.logger.Error("Failed to save checkout", logging.Fields{
				"session_id": sess.ID,
				"order_id":   sess.placed.ID,
				"error":      err.Error(),
			})
			return fmt.Errorf("save checkout: %w", err)
		}
		return nil
	}

	if sess.orderDirty {
		if err := s.store.SaveOrder(ctx, sess.ID, sess.Order); err != nil {
			s.logger.Error("Failed to save order", logging.Fields{
				"session_id": sess.ID,
				"error":      err.Error(),
			})
			return fmt.Errorf("save order: %w", err)
		}
	}

	if sess.cartDirty {
		if err := s.store.SaveCart(ctx, sess.ID, sess.Cart); err != nil {
			s.logger.Error("Failed to save cart", logging.Fields{
				"session_id": sess.ID,
				"error":      err.Error(),
			})
			return fmt.Errorf("save cart: %w", err)
		}
	}
	return nil
}

func (s *ChatService) publishPlaced(ctx context.Context, sessionID string, order *models.Order) {
	s.logger.Info("Order placed", logging.Fields{
		"session_id": sessionID,
		"order_id":   order.ID,
		"lines":      len(order.Items),
	})

	if !s.config.Features.EnableOrderEvents || s.publisher == nil {
		return
	}

	record := &models.PlacedOrderRecord{
		OrderID:   order.ID,
		SessionID: sessionID,
		Items:     order.Items,
		Totals:    cart.CalculateTotals(order.Items, s.config.Pricing.TaxRate),
		PlacedAt:  order.PlacedAt,
	}
	if err := s.publisher.PublishOrderPlaced(ctx, record); err != nil {
		// Log but don't fail
		s.logger.Error("Failed to publish order placed event", logging.Fields{
			"order_id": order.ID,
			"error":    err.Error(),
		})
	}
}

// ListOrders returns the session's archived orders, newest first.
func (s *ChatService) ListOrders(ctx context.Context, sessionID string, limit int) ([]*models.PlacedOrderRecord, error) {
	if s.archive == nil {
		return nil, ErrArchiveDisabled
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	records, err := s.archive.ListBySession(ctx, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("list archived orders: %w", err)
	}
	if records == nil {
		records = []*models.PlacedOrderRecord{}
	}
	return records, nil
}

// GetOrder returns one archived order. Orders of other sessions are reported as not found.
func (s *ChatService) GetOrder(ctx context.Context, sessionID, orderID string) (*models.PlacedOrderRecord, error) {
	if s.archive == nil {
		return nil, ErrArchiveDisabled
	}

	record, err := s.archive.GetByID(ctx, orderID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get archived order: %w", err)
	}
	if record.SessionID != sessionID {
		return nil, ErrOrderNotFound
	}
	return record, nil
}
