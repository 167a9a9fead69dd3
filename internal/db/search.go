package db

import "github.com/kailas-cloud/prodex/internal/domain/search/filter"

// KNNQuery is the input for a filtered vector similarity search.
type KNNQuery struct {
	Collection   string
	Vector       []float32
	K            int
	Filters      filter.Expression
	ReturnFields []string
}

// SearchResult is the output of a KNN search, ordered by ascending distance.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit. Fields hold the returned
// attributes normalized to strings: numerics via strconv.FormatFloat,
// bools as "1"/"0".
type SearchEntry struct {
	ID       int64
	Distance float64
	Fields   map[string]string
}
