package httpx

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// Default listing window when the client sends none
const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

// PageQuery binds the page and pageSize query parameters.
// Absent values fall back to the defaults; present values are passed on as is.
type PageQuery struct {
	Page     *int `form:"page"`
	PageSize *int `form:"pageSize"`
}

// Window returns the requested page and size
func (q PageQuery) Window() (int, int) {
	page, size := DefaultPage, DefaultPageSize
	if q.Page != nil {
		page = *q.Page
	}
	if q.PageSize != nil {
		size = *q.PageSize
	}
	return page, size
}

// BindPage reads the listing window from the query string. On failure the
// error response has already been written.
func BindPage(c *gin.Context) (int, int, bool) {
	var q PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		FailErr(c, ErrParamInvalid("page and pageSize must be integers"))
		return 0, 0, false
	}
	page, size := q.Window()
	return page, size, true
}

// PathID parses a positive integer path parameter. On failure the error
// response has already been written.
func PathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		FailErr(c, ErrParamInvalid(name+" must be a positive integer"))
		return 0, false
	}
	return id, true
}
