package request

import (
	"fmt"

	"github.com/kailas-cloud/prodex/internal/domain"
	"github.com/kailas-cloud/prodex/internal/domain/search/filter"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength = 1024
	DefaultTopK    = 5
	MaxTopK        = 20
)

// Limits bounds the result count of a request. Zero values fall back
// to the package defaults, so the zero Limits is usable as-is.
type Limits struct {
	DefaultTopK int
	MaxTopK     int
}

func (l Limits) withDefaults() Limits {
	if l.DefaultTopK <= 0 {
		l.DefaultTopK = DefaultTopK
	}
	if l.MaxTopK <= 0 {
		l.MaxTopK = MaxTopK
	}
	return l
}

// Request is a validated product search query.
type Request struct {
	query   string
	topK    int
	filters filter.SearchFilter
}

// New validates and normalizes search parameters.
// topK defaults to lim.DefaultTopK when non-positive and is clamped to
// lim.MaxTopK.
func New(query string, topK int, lim Limits, filters filter.SearchFilter) (Request, error) {
	lim = lim.withDefaults()

	if query == "" {
		return Request{}, fmt.Errorf("%w: query is required", domain.ErrInvalidRequest)
	}
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("%w: query too long (max %d chars)", domain.ErrInvalidRequest, MaxQueryLength)
	}
	if topK <= 0 {
		topK = lim.DefaultTopK
	}
	if topK > lim.MaxTopK {
		topK = lim.MaxTopK
	}
	if filters.MaxPrice != nil && *filters.MaxPrice < 0 {
		return Request{}, fmt.Errorf("%w: max_price must be non-negative", domain.ErrInvalidRequest)
	}

	return Request{query: query, topK: topK, filters: filters}, nil
}

// Query returns the search query text.
func (r *Request) Query() string { return r.query }

// TopK returns the number of neighbors to retrieve.
func (r *Request) TopK() int { return r.topK }

// Filters returns the attribute filter.
func (r *Request) Filters() filter.SearchFilter { return r.filters }
