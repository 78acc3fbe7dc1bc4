// Package page holds the pagination arithmetic shared by certificate, tag and order listings.
package page

import "gift_catalog/internal/errs"

// MaxSize is the largest page size a caller may request
const MaxSize = 50

// Meta describes one page of a listing
type Meta struct {
	Page         int   `json:"page"`
	PageSize     int   `json:"pageSize"`
	Total        int64 `json:"total"`
	LastPage     int   `json:"lastPage"`
	NextPage     int   `json:"nextPage"`
	PreviousPage int   `json:"previousPage"`
}

// CheckRequest validates page and size before the total count is known
func CheckRequest(page, size int) error {
	if page < 1 {
		return errs.InvalidData("page must be a positive number").With("page", page)
	}
	if size < 1 || size > MaxSize {
		return errs.InvalidData("page size must be between 1 and %d", MaxSize).With("pageSize", size)
	}
	return nil
}

// Validate checks page and size against the total number of items.
// An empty result set still has one (empty) page.
func Validate(page, size int, total int64) error {
	if err := CheckRequest(page, size); err != nil {
		return err
	}
	if last := LastPage(size, total); page > last {
		return errs.InvalidData("page exceeds last page").
			With("page", page).
			With("lastPage", last)
	}
	return nil
}

// LastPage returns the number of the last page, never less than 1
func LastPage(size int, total int64) int {
	if total <= 0 || size < 1 {
		return 1
	}
	s := int64(size)
	return int((total + s - 1) / s)
}

// NextPage returns page+1, or page itself when already on the last page
func NextPage(page, size int, total int64) int {
	if last := LastPage(size, total); page >= last {
		return last
	}
	return page + 1
}

// PreviousPage returns page-1 with a floor of 1
func PreviousPage(page int) int {
	if page <= 1 {
		return 1
	}
	return page - 1
}

// Offset is the number of rows to skip for the given page
func Offset(page, size int) int {
	return (page - 1) * size
}

// NewMeta builds pagination metadata for an already validated window
func NewMeta(page, size int, total int64) Meta {
	return Meta{
		Page:         page,
		PageSize:     size,
		Total:        total,
		LastPage:     LastPage(size, total),
		NextPage:     NextPage(page, size, total),
		PreviousPage: PreviousPage(page),
	}
}
