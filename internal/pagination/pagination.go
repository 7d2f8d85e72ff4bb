// Package pagination normalizes page/limit input and builds page metadata.
package pagination

import "math"

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Params is a requested page. Zero values mean "use the default".
type Params struct {
	Page  int
	Limit int
}

// Normalize clamps Page to >= 1 and Limit to [1, MaxLimit].
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	switch {
	case p.Limit < 1:
		p.Limit = DefaultLimit
	case p.Limit > MaxLimit:
		p.Limit = MaxLimit
	}
	return p
}

// InRange reports whether the offset of page at limit fits in an int.
func InRange(page, limit int) bool {
	if page < 1 {
		return false
	}
	return limit < 1 || page-1 <= math.MaxInt/limit
}

// Offset is the number of rows to skip. It saturates at math.MaxInt.
func (p Params) Offset() int {
	if !InRange(p.Page, p.Limit) {
		if p.Page < 1 {
			return 0
		}
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}

type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Result is one page of items together with its metadata.
type Result[T any] struct {
	Items []T
	Meta  Meta
}

// NewResult builds a Result. p is expected to be normalized.
func NewResult[T any](items []T, p Params, total int) Result[T] {
	if items == nil {
		items = []T{}
	}
	return Result[T]{
		Items: items,
		Meta: Meta{
			Page:       p.Page,
			Limit:      p.Limit,
			Total:      total,
			TotalPages: (total + p.Limit - 1) / p.Limit,
		},
	}
}
