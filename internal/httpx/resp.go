package httpx

import (
	"net/http"

	"gift_catalog/internal/page"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RequestIDKey is the gin context key holding the request id
const RequestIDKey = "request_id"

// Response represents the standard API response structure
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// OK sends a successful response with default message "success"
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

// Created sends a 201 response with default message "created"
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Response{
		Code:    CodeSuccess,
		Message: "created",
		Data:    data,
	})
}

// FailErr sends an error response from an AppError.
// AppError.Err is logged with the request id but never returned to the client.
func FailErr(c *gin.Context, err *AppError) {
	if err.Err != nil {
		logrus.WithFields(logrus.Fields{
			"request_id": c.GetString(RequestIDKey),
			"code":       err.Code,
			"path":       c.FullPath(),
		}).WithError(err.Err).Error(err.Message)
	}

	c.JSON(err.HTTPStatus, Response{
		Code:    err.Code,
		Message: err.Message,
		Data:    err.Data,
	})
}

// Error sends the response for any service error
func Error(c *gin.Context, err error) {
	FailErr(c, FromError(err))
}

// PageData represents the standard list response data structure
type PageData struct {
	Items any       `json:"items"`
	Page  page.Meta `json:"page"`
}

// OKPage sends a successful list response with pagination metadata
func OKPage(c *gin.Context, items any, meta page.Meta) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data: PageData{
			Items: items,
			Page:  meta,
		},
	})
}
