package helpers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/courseregistry/internal/app/models/dto"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	DefaultPage     = 1
)

// PageRequest is a validated 1-based page request
type PageRequest struct {
	Page int
	Size int
}

// Offset returns the SQL offset of the page
func (p PageRequest) Offset() uint64 {
	return uint64((p.Page - 1) * p.Size)
}

// Limit returns the SQL limit of the page
func (p PageRequest) Limit() uint64 {
	return uint64(p.Size)
}

// ParsePaginationParams reads page and size from the query string, falling
// back to defaults for missing or invalid values. ok is false when neither
// parameter was supplied.
func ParsePaginationParams(c *gin.Context) (req PageRequest, ok bool) {
	pageStr, hasPage := c.GetQuery("page")
	sizeStr, hasSize := c.GetQuery("size")

	req = PageRequest{Page: DefaultPage, Size: DefaultPageSize}
	if page, err := strconv.Atoi(pageStr); err == nil && page >= 1 {
		req.Page = page
	}
	if size, err := strconv.Atoi(sizeStr); err == nil && size >= 1 && size <= MaxPageSize {
		req.Size = size
	}
	return req, hasPage || hasSize
}

// NewPaginationInfo creates a standard PaginationInfo DTO
func NewPaginationInfo(totalItems int64, req PageRequest) dto.PaginationInfo {
	size := req.Size
	if size <= 0 {
		size = DefaultPageSize
	}

	totalPages := int((totalItems + int64(size) - 1) / int64(size))
	if totalPages == 0 {
		totalPages = 1
	}

	current := req.Page
	if current < 1 {
		current = DefaultPage
	}
	if current > totalPages {
		current = totalPages
	}

	return dto.PaginationInfo{
		CurrentPage: current,
		TotalPages:  totalPages,
		PageSize:    size,
		TotalItems:  totalItems,
	}
}
