package handlers

import (
	"github.com/tm-acme-shop/acme-shop-orderbot-service/internal/config"
	"github.com/tm-acme-shop/acme-shop-orderbot-service/internal/logging"
	"github.com/tm-acme-shop/acme-shop-orderbot-service/internal/repository"
	"github.com/tm-acme-shop/acme-shop-orderbot-service/internal/service"
)

// Handlers holds all HTTP handlers for the orderbot service.
type Handlers struct {
	chatService *service.ChatService
	store       repository.SessionStore
	config      *config.Config
	logger      *logging.LoggerV2
}

// NewHandlers creates a new handlers instance. store is pinged by the readiness check.
func NewHandlers(
	chatService *service.ChatService,
	store repository.SessionStore,
	cfg *config.Config,
) *Handlers {
	return &Handlers{
		chatService: chatService,
		store:       store,
		config:      cfg,
		logger:      logging.NewLoggerV2("handlers"),
	}
}
