package server

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tm-acme-shop/acme-shop-orderbot-service/internal/config"
	"github.com/tm-acme-shop/acme-shop-orderbot-service/internal/handlers"
	"github.com/tm-acme-shop/acme-shop-orderbot-service/internal/menu"
	"github.com/tm-acme-shop/acme-shop-orderbot-service/internal/metrics"
	"github.com/tm-acme-shop/acme-shop-orderbot-service/internal/repository"
	"github.com/tm-acme-shop/acme-shop-orderbot-service/internal/service"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Server:  config.ServerConfig{Port: 8000, ReadTimeout: time.Second, WriteTimeout: time.Second},
		Session: config.SessionConfig{Store: config.SessionStoreMemory, TTL: time.Hour, CookieName: "orderbot_session"},
		Pricing: config.PricingConfig{TaxRate: 0.08875},
		ETA:     config.ETAConfig{BaseMinutes: 25, FloorMinutes: 5},
	}

	reg := prometheus.NewRegistry()
	store := repository.NewMemorySessionStore()
	svc := service.NewChatService(store, menu.Default(), cfg, service.WithMetrics(metrics.New(reg)))

	return New(handlers.NewHandlers(svc, store, cfg), cfg, reg)
}

func TestServer_Routes(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		method   string
		path     string
		expected int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/ready", http.StatusOK},
		{http.MethodGet, "/live", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/api/menu", http.StatusOK},
		{http.MethodGet, "/api/cart", http.StatusOK},
		{http.MethodGet, "/api/orders", http.StatusNotFound},
		{http.MethodGet, "/api/unknown", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			srv.Handler().ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.expected, w.Code)
		})
	}
}

func TestServer_MetricsAfterChat(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewBufferString(`{"message":"add 1 cola"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(handlers.SessionHeader))

	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `orderbot_intents_total{intent="add_to_cart"} 1`)
	assert.Contains(t, body, `orderbot_cart_mutations_total{op="add"} 1`)
}
