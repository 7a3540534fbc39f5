package pagination

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 20
	// MaxLimit caps how many rows any list query can request.
	MaxLimit = 100
)

// Params holds offset pagination inputs from controllers or services.
type Params struct {
	Skip  int
	Limit int
}

// Normalize returns params with the skip floored at zero and the limit
// clamped to [1, MaxLimit], defaulting when absent.
func (p Params) Normalize() Params {
	return Params{
		Skip:  NormalizeSkip(p.Skip),
		Limit: NormalizeLimit(p.Limit),
	}
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// NormalizeSkip floors negative offsets at zero.
func NormalizeSkip(skip int) int {
	if skip < 0 {
		return 0
	}
	return skip
}

// Page pairs a result slice with the total matching count and the
// offsets used to produce it.
type Page[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Skip  int   `json:"skip"`
	Limit int   `json:"limit"`
}

// NewPage assembles a page envelope from a query result.
func NewPage[T any](items []T, total int64, params Params) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items: items,
		Total: total,
		Skip:  params.Skip,
		Limit: params.Limit,
	}
}
