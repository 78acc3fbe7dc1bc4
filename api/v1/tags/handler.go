package tags

import (
	"gift_catalog/internal/catalog"
	"gift_catalog/internal/httpx"

	"github.com/gin-gonic/gin"
)

// CreateRequest represents create tag request
type CreateRequest struct {
	Name string `json:"name" binding:"required"`
}

// DeleteRequest represents delete tag request
type DeleteRequest struct {
	ID int64 `json:"id" binding:"required"`
}

// Handler serves the tag endpoints
type Handler struct {
	svc *catalog.Service
}

// NewHandler creates a tag handler
func NewHandler(svc *catalog.Service) *Handler {
	return &Handler{svc: svc}
}

// List returns tags ordered by id
func (h *Handler) List(c *gin.Context) {
	pageNum, size, ok := httpx.BindPage(c)
	if !ok {
		return
	}

	result, err := h.svc.ListTags(c.Request.Context(), pageNum, size)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OKPage(c, result.Items, result.Meta)
}

// Get returns one tag
func (h *Handler) Get(c *gin.Context) {
	id, ok := httpx.PathID(c, "id")
	if !ok {
		return
	}

	tag, err := h.svc.GetTag(c.Request.Context(), id)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, tag)
}

// Create adds a tag
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid request body"))
		return
	}

	tag, err := h.svc.CreateTag(c.Request.Context(), req.Name)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.Created(c, tag)
}

// Delete removes a tag and detaches it from certificates
func (h *Handler) Delete(c *gin.Context) {
	var req DeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid request body"))
		return
	}

	if err := h.svc.DeleteTag(c.Request.Context(), req.ID); err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, gin.H{"id": req.ID})
}
