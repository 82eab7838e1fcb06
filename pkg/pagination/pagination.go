package pagination

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params holds pagination parameters taken from command flags.
type Params struct {
	Limit  int
	Offset int
}

// New clamps limit and offset into range. A non-positive limit selects
// DefaultLimit; a negative offset becomes zero.
func New(limit, offset int) Params {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return Params{Limit: limit, Offset: offset}
}

// Page is one window of a listing.
type Page[T any] struct {
	Items   []T
	Total   int
	Limit   int
	Offset  int
	HasMore bool
}

// Apply cuts the window described by p out of items.
func Apply[T any](items []T, p Params) Page[T] {
	total := len(items)
	start := min(p.Offset, total)
	end := min(start+p.Limit, total)
	return Page[T]{
		Items:   items[start:end],
		Total:   total,
		Limit:   p.Limit,
		Offset:  p.Offset,
		HasMore: p.HasNext(total),
	}
}

// Params returns the parameters the page was cut with.
func (p Page[T]) Params() Params {
	return Params{Limit: p.Limit, Offset: p.Offset}
}

// HasNext returns true if there are more results after the current page.
func (p Params) HasNext(total int) bool {
	return p.Offset+p.Limit < total
}

// HasPrevious returns true if there are results before the current page.
func (p Params) HasPrevious() bool {
	return p.Offset > 0
}

// NextOffset returns the offset for the next page.
func (p Params) NextOffset() int {
	return p.Offset + p.Limit
}

// PreviousOffset returns the offset for the previous page.
// Returns 0 if the result would be negative.
func (p Params) PreviousOffset() int {
	prev := p.Offset - p.Limit
	if prev < 0 {
		return 0
	}
	return prev
}
