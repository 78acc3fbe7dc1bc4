package certificates

import (
	"gift_catalog/internal/catalog"
	"gift_catalog/internal/httpx"
	"gift_catalog/internal/tags"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CreateRequest represents create certificate request
type CreateRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description" binding:"required"`
	Price       decimal.Decimal `json:"price"`
	Duration    int             `json:"duration" binding:"required"`
	Tags        []tags.Ref      `json:"tags"`
}

// UpdateRequest represents update certificate request. Absent fields are left untouched.
type UpdateRequest struct {
	ID          int64            `json:"id" binding:"required"`
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Duration    *int             `json:"duration"`
	Active      *bool            `json:"active"`
	Tags        *[]tags.Ref      `json:"tags"`
}

// DeleteRequest represents delete certificate request
type DeleteRequest struct {
	ID int64 `json:"id" binding:"required"`
}

// ByTagsRequest represents the tag intersection query
type ByTagsRequest struct {
	Tags []string `form:"tags"`
	Sort string   `form:"sort"`
}

// Handler serves the certificate endpoints
type Handler struct {
	svc *catalog.Service
}

// NewHandler creates a certificate handler
func NewHandler(svc *catalog.Service) *Handler {
	return &Handler{svc: svc}
}

// List returns every certificate, one page at a time
func (h *Handler) List(c *gin.Context) {
	pageNum, size, ok := httpx.BindPage(c)
	if !ok {
		return
	}

	result, err := h.svc.ListAllCertificates(c.Request.Context(), pageNum, size)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OKPage(c, result.Items, result.Meta)
}

// Search filters certificates by the query parameters other than page and pageSize
func (h *Handler) Search(c *gin.Context) {
	pageNum, size, ok := httpx.BindPage(c)
	if !ok {
		return
	}

	params := make(map[string]string)
	for key, values := range c.Request.URL.Query() {
		if key == "page" || key == "pageSize" {
			continue
		}
		if len(values) != 1 {
			httpx.FailErr(c, httpx.ErrParamInvalid("parameter '"+key+"' must appear once"))
			return
		}
		params[key] = values[0]
	}

	result, err := h.svc.SearchCertificates(c.Request.Context(), params, pageNum, size)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OKPage(c, result.Items, result.Meta)
}

// ByTags returns certificates carrying every requested tag
func (h *Handler) ByTags(c *gin.Context) {
	pageNum, size, ok := httpx.BindPage(c)
	if !ok {
		return
	}

	var req ByTagsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid query"))
		return
	}

	result, err := h.svc.SearchCertificatesByTags(c.Request.Context(), req.Tags, req.Sort, pageNum, size)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OKPage(c, result.Items, result.Meta)
}

// Get returns one certificate
func (h *Handler) Get(c *gin.Context) {
	id, ok := httpx.PathID(c, "id")
	if !ok {
		return
	}

	cert, err := h.svc.GetCertificate(c.Request.Context(), id)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, cert)
}

// Create adds a certificate
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid request body"))
		return
	}

	cert, err := h.svc.CreateCertificate(c.Request.Context(), catalog.CreateInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Duration:    req.Duration,
		Tags:        req.Tags,
	})
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.Created(c, cert)
}

// Update changes the fields present in the request
func (h *Handler) Update(c *gin.Context) {
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid request body"))
		return
	}

	cert, err := h.svc.UpdateCertificateFields(c.Request.Context(), req.ID, catalog.Patch{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Duration:    req.Duration,
		Active:      req.Active,
		Tags:        req.Tags,
	})
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, cert)
}

// Delete removes a certificate that no order references
func (h *Handler) Delete(c *gin.Context) {
	var req DeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid request body"))
		return
	}

	if err := h.svc.DeleteCertificate(c.Request.Context(), req.ID); err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, gin.H{"id": req.ID})
}
