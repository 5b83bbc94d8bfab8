package helpers

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func contextWithQuery(query string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/api/admin/courses"+query, nil)
	return c
}

func TestParsePaginationParams(t *testing.T) {
	req, ok := ParsePaginationParams(contextWithQuery("?page=3&size=5"))
	if !ok {
		t.Fatal("expected pagination to be requested")
	}
	if req.Page != 3 || req.Size != 5 {
		t.Fatalf("unexpected page request: %+v", req)
	}
	if req.Offset() != 10 || req.Limit() != 5 {
		t.Fatalf("unexpected offset/limit: %d/%d", req.Offset(), req.Limit())
	}
}

func TestParsePaginationParamsDefaults(t *testing.T) {
	req, ok := ParsePaginationParams(contextWithQuery(""))
	if ok {
		t.Fatal("expected no pagination without query params")
	}
	if req.Page != DefaultPage || req.Size != DefaultPageSize {
		t.Fatalf("unexpected defaults: %+v", req)
	}

	req, _ = ParsePaginationParams(contextWithQuery("?page=-1&size=1000"))
	if req.Page != DefaultPage || req.Size != DefaultPageSize {
		t.Fatalf("expected invalid values to fall back, got %+v", req)
	}
}

func TestNewPaginationInfo(t *testing.T) {
	info := NewPaginationInfo(41, PageRequest{Page: 9, Size: 20})
	if info.TotalPages != 3 {
		t.Fatalf("expected 3 pages, got %d", info.TotalPages)
	}
	if info.CurrentPage != 3 {
		t.Fatalf("expected current page clamped to 3, got %d", info.CurrentPage)
	}

	empty := NewPaginationInfo(0, PageRequest{Page: 1, Size: 20})
	if empty.TotalPages != 1 || empty.CurrentPage != 1 {
		t.Fatalf("unexpected empty pagination: %+v", empty)
	}
}
