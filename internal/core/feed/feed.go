package feed

import (
	"math"
	"strings"

	"cityscope/internal/core/apperr"
	"cityscope/internal/core/post"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Query ورودی کوئری فید؛ Type و Location اختیاری هستند
type Query struct {
	Type     string
	Location string
	Page     int
	PageSize int
	ViewerID string
}

// Filter is the validated form of the optional query filters.
type Filter struct {
	Type     post.Type
	Location string
}

// Pagination متادیتای صفحه‌بندی که همراه آیتم‌ها برگردانده می‌شود
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	PageSize    int   `json:"pageSize"`
	TotalPages  int   `json:"totalPages"`
	TotalItems  int64 `json:"totalItems"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// absent treats the literal "undefined" some clients send for unset fields as no filter.
func absent(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || s == "undefined"
}

// ParseFilter validates the optional type and location filters.
func ParseFilter(q Query) (Filter, error) {
	var f Filter
	if !absent(q.Type) {
		t, err := post.ParseType(strings.TrimSpace(q.Type))
		if err != nil {
			return Filter{}, err
		}
		f.Type = t
	}
	if !absent(q.Location) {
		f.Location = strings.TrimSpace(q.Location)
	}
	return f, nil
}

// Window validates page and pageSize, clamps pageSize to maxPageSize and returns
// the effective page size with the number of rows to skip.
func Window(page, pageSize, maxPageSize int) (size, skip int, err error) {
	if page < 1 {
		return 0, 0, apperr.Validation("page must be a positive integer")
	}
	if pageSize < 1 {
		return 0, 0, apperr.Validation("pageSize must be a positive integer")
	}
	if maxPageSize > 0 && pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	if page-1 > math.MaxInt/pageSize {
		return 0, 0, apperr.Validation("page is out of range")
	}
	return pageSize, (page - 1) * pageSize, nil
}

// NewPagination computes page metadata from the slice actually returned.
func NewPagination(page, pageSize, skip, returned int, total int64) Pagination {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return Pagination{
		CurrentPage: page,
		PageSize:    pageSize,
		TotalPages:  totalPages,
		TotalItems:  total,
		HasNextPage: int64(skip+returned) < total,
		HasPrevPage: page > 1,
	}
}
