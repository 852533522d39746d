package pagination

const (
	// DefaultLimit is the page size when none is requested.
	DefaultLimit = 25
	// MaxLimit caps how many rows a list query can return.
	MaxLimit = 100
)

// Params holds offset pagination inputs from controllers or services.
type Params struct {
	Limit  int
	Offset int
}

// Normalize applies the default and maximum limit and floors the offset at zero.
func (p Params) Normalize() Params {
	return Params{Limit: NormalizeLimit(p.Limit), Offset: max(p.Offset, 0)}
}

// NormalizeLimit enforces the default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return min(limit, MaxLimit)
}

// Page is a window of results plus the counters clients need to page further.
type Page[T any] struct {
	Items   []T   `json:"items"`
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasNext bool  `json:"has_next"`
}

// NewPage assembles a page for already normalized params.
func NewPage[T any](items []T, total int64, p Params) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:   items,
		Total:   total,
		Limit:   p.Limit,
		Offset:  p.Offset,
		HasNext: int64(p.Offset+len(items)) < total,
	}
}
