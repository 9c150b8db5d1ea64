package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params is a normalized page request. Page is 1-based.
type Params struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Meta describes the page returned alongside a slice of results.
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// New clamps page and limit into range. Out-of-range values fall back to
// the defaults, and limits above MaxLimit are capped.
func New(page, limit int) Params {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Params{Page: page, Limit: limit}
}

// Parse reads ?page= and ?limit=. Non-numeric values count as absent.
func Parse(c *gin.Context) Params {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return New(page, limit)
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Window returns the [start, end) bounds of this page within total items.
// Pages past the end yield an empty window at total.
func (p Params) Window(total int) (int, int) {
	start := p.Offset()
	if start > total {
		start = total
	}
	end := start + p.Limit
	if end > total {
		end = total
	}
	return start, end
}

func (p Params) Meta(total int) Meta {
	pages := 0
	if total > 0 {
		pages = (total + p.Limit - 1) / p.Limit
	}
	return Meta{Page: p.Page, Limit: p.Limit, Total: total, TotalPages: pages}
}
