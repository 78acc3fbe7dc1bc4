package orders

import (
	"gift_catalog/api/v1/middleware"
	"gift_catalog/internal/httpx"
	"gift_catalog/internal/model"
	"gift_catalog/internal/orders"

	"github.com/gin-gonic/gin"
)

// HeaderIdempotencyKey lets a client retry order placement safely
const HeaderIdempotencyKey = "Idempotency-Key"

// CreateRequest represents place order request
type CreateRequest struct {
	Lines []orders.Line `json:"lines" binding:"required"`
}

// Handler serves the order endpoints
type Handler struct {
	svc *orders.Service
}

// NewHandler creates an order handler
func NewHandler(svc *orders.Service) *Handler {
	return &Handler{svc: svc}
}

// Create places an order for the authenticated user
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid request body"))
		return
	}

	key := c.GetHeader(HeaderIdempotencyKey)
	if len(key) > 128 {
		httpx.FailErr(c, httpx.ErrParamIllegal("idempotency key too long"))
		return
	}

	order, err := h.svc.Place(c.Request.Context(), middleware.UserID(c), req.Lines, key)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.Created(c, order)
}

// Get returns an order owned by the caller. Admins may read any order.
func (h *Handler) Get(c *gin.Context) {
	id, ok := httpx.PathID(c, "id")
	if !ok {
		return
	}

	order, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	if order.UserID != middleware.UserID(c) && middleware.Role(c) != model.RoleAdmin {
		httpx.FailErr(c, httpx.ErrNotFound("order not found"))
		return
	}
	httpx.OK(c, order)
}

// List returns the caller's orders, newest first
func (h *Handler) List(c *gin.Context) {
	pageNum, size, ok := httpx.BindPage(c)
	if !ok {
		return
	}

	items, meta, err := h.svc.ListByUser(c.Request.Context(), middleware.UserID(c), pageNum, size)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OKPage(c, items, meta)
}
