package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tm-acme-shop/acme-shop-orderbot-service/internal/logging"
	"github.com/tm-acme-shop/acme-shop-orderbot-service/internal/service"
)

type chatRequest struct {
	Message string `json:"message"`
}

// GetMenu handles GET /api/menu
func (h *Handlers) GetMenu(c *gin.Context) {
	c.JSON(http.StatusOK, h.chatService.GetMenu())
}

// GetCart handles GET /api/cart
func (h *Handlers) GetCart(c *gin.Context) {
	view, err := h.chatService.GetCart(c.Request.Context(), sessionID(c))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// Chat handles POST /api/chat. A missing message is treated as an empty one.
func (h *Handlers) Chat(c *gin.Context) {
	var req chatRequest
	if c.Request.Body != nil {
		// An empty body of unknown length surfaces as io.EOF.
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			h.logger.Error("Failed to bind request", logging.Fields{"error": err.Error()})
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	resp, err := h.chatService.HandleMessage(c.Request.Context(), sessionID(c), req.Message)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListOrders handles GET /api/orders
func (h *Handlers) ListOrders(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	orders, err := h.chatService.ListOrders(c.Request.Context(), sessionID(c), limit)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// GetOrder handles GET /api/orders/:id
func (h *Handlers) GetOrder(c *gin.Context) {
	order, err := h.chatService.GetOrder(c.Request.Context(), sessionID(c), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidSession):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrOrderNotFound), errors.Is(err, service.ErrArchiveDisabled):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
