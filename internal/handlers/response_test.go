package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func paginationContext(t *testing.T, rawQuery string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/api/recipes?"+rawQuery, nil)
	return c
}

func TestParsePagination(t *testing.T) {
	cases := []struct {
		name       string
		query      string
		wantOffset int
		wantLimit  int
	}{
		{"defaults", "", 0, defaultPageSize},
		{"second page", "page=2&limit=5", 5, 5},
		{"bad page falls back", "page=abc&limit=5", 0, 5},
		{"zero page falls back", "page=0", 0, defaultPageSize},
		{"negative limit falls back", "limit=-3", 0, defaultPageSize},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			offset, limit := ParsePagination(paginationContext(t, tc.query))
			if offset != tc.wantOffset || limit != tc.wantLimit {
				t.Fatalf("ParsePagination(%q) = (%d, %d), want (%d, %d)",
					tc.query, offset, limit, tc.wantOffset, tc.wantLimit)
			}
		})
	}
}

func TestQueryFlag(t *testing.T) {
	cases := []struct {
		name  string
		query string
		want  bool
	}{
		{"absent", "", false},
		{"numeric", "is_favorited=1", true},
		{"word", "is_favorited=true", true},
		{"zero", "is_favorited=0", false},
		{"false", "is_favorited=false", false},
		{"garbage", "is_favorited=yes", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := queryFlag(paginationContext(t, tc.query), "is_favorited"); got != tc.want {
				t.Fatalf("queryFlag(%q) = %v, want %v", tc.query, got, tc.want)
			}
		})
	}
}
