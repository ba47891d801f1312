package models

import "math"

// Direction is an ORDER BY direction.
type Direction int

const (
	Asc Direction = iota
	Desc
)

// String returns "asc" or "desc".
func (d Direction) String() string {
	if d == Desc {
		return "desc"
	}
	return "asc"
}

// Sort orders a query by one product property.
type Sort struct {
	Field     string // canonical property name, e.g. "nom" or "prix"
	Direction Direction
}

// PageRequest selects one zero-based page. A Size <= 0 requests every match.
type PageRequest struct {
	Page int
	Size int
	Sort Sort
}

// Unpaged reports whether the request asks for all matches at once.
func (r PageRequest) Unpaged() bool {
	return r.Size <= 0
}

// Offset returns the number of rows to skip. It saturates at math.MaxInt
// when Page*Size does not fit in an int.
func (r PageRequest) Offset() int {
	if r.Unpaged() || r.Page <= 0 {
		return 0
	}
	if r.Page > math.MaxInt/r.Size {
		return math.MaxInt
	}
	return r.Page * r.Size
}

// Page is a bounded, ordered slice of a larger result set.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

// NewPage builds a page and derives TotalPages from the total element count.
func NewPage[T any](content []T, req PageRequest, total int64) *Page[T] {
	if content == nil {
		content = []T{}
	}
	p := &Page[T]{
		Content:       content,
		Number:        req.Page,
		Size:          req.Size,
		TotalElements: total,
	}
	switch {
	case req.Unpaged():
		p.Number = 0
		p.Size = len(content)
		if total > 0 {
			p.TotalPages = 1
		}
	default:
		size := int64(req.Size)
		p.TotalPages = int(total / size)
		if total%size != 0 {
			p.TotalPages++
		}
	}
	return p
}

// HasNext reports whether a page follows this one.
func (p *Page[T]) HasNext() bool {
	return p.Number < p.TotalPages-1
}

// HasPrevious reports whether a page precedes this one.
func (p *Page[T]) HasPrevious() bool {
	return p.Number > 0
}

// IsFirst reports whether this is the first page.
func (p *Page[T]) IsFirst() bool {
	return !p.HasPrevious()
}

// IsLast reports whether this is the last page.
func (p *Page[T]) IsLast() bool {
	return !p.HasNext()
}
