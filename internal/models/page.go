package models

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageRequest is the pagination window of a list call.
type PageRequest struct {
	Page  int `query:"page" json:"page"`
	Limit int `query:"limit" json:"limit"`
}

// Normalize clamps page to >= 1 and limit to [1, MaxPageSize].
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	return p
}

// Offset returns the row offset for the normalised page.
func (p PageRequest) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.Limit
}

// Page is one window of a list result.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// NewPage builds a Page from a normalised request.
func NewPage[T any](items []T, total int64, req PageRequest) Page[T] {
	req = req.Normalize()
	if items == nil {
		items = []T{}
	}
	pages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	return Page[T]{Items: items, Total: total, Page: req.Page, Limit: req.Limit, TotalPages: pages}
}
