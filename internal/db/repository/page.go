package repository

const (
	// DefaultPageSize is used when a request does not ask for a size.
	DefaultPageSize = 25
	// MaxPageSize caps the requested size.
	MaxPageSize = 100
)

// PageRequest selects one page of a listing. Page is 1-based.
type PageRequest struct {
	Page int
	Size int
}

// Normalize clamps the request into the valid range.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}

	switch {
	case p.Size <= 0:
		p.Size = DefaultPageSize
	case p.Size > MaxPageSize:
		p.Size = MaxPageSize
	}

	return p
}

// Offset returns the number of rows to skip.
func (p PageRequest) Offset() int {
	p = p.Normalize()

	return (p.Page - 1) * p.Size
}

// Page is one page of a listing.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// NewPage builds a page of items for the request and the total row count.
func NewPage[T any](items []T, pr PageRequest, total int64) Page[T] {
	pr = pr.Normalize()
	if items == nil {
		items = []T{}
	}

	return Page[T]{
		Items:      items,
		Page:       pr.Page,
		Size:       pr.Size,
		Total:      total,
		TotalPages: int((total + int64(pr.Size) - 1) / int64(pr.Size)),
	}
}

// MapPage converts the items of a page, keeping the paging fields.
func MapPage[S, D any](p Page[S], fn func([]S) []D) Page[D] {
	items := fn(p.Items)
	if items == nil {
		items = []D{}
	}

	return Page[D]{
		Items:      items,
		Page:       p.Page,
		Size:       p.Size,
		Total:      p.Total,
		TotalPages: p.TotalPages,
	}
}
