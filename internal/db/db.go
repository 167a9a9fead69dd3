// Package db defines the vector store facade. Two drivers implement
// it: redis (rueidis, FT.CREATE/FT.SEARCH over hashes) and qdrant
// (collections + points over gRPC). Consumers depend on the narrow
// sub-interfaces (ISP).
package db

import (
	"context"
	"time"
)

// VectorFieldName is the reserved attribute under which every
// document's embedding is stored and queried.
const VectorFieldName = "embedding"

// Store is the main vector store facade combining all sub-interfaces.
//
//nolint:interfacebloat // facade by design -- consumers use narrow sub-interfaces (ISP)
type Store interface {
	Pinger
	CollectionManager
	DocumentWriter
	Searcher
	Promoter
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks store connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CollectionManager provides collection lifecycle operations.
type CollectionManager interface {
	CreateCollection(ctx context.Context, def *CollectionDefinition) error
	DropCollection(ctx context.Context, name string) error
	CollectionExists(ctx context.Context, name string) (bool, error)
	CountDocuments(ctx context.Context, name string) (int, error)
}

// DocumentWriter provides bulk document insertion. Inserts are
// synchronous: documents are searchable once the call returns.
type DocumentWriter interface {
	InsertBatch(ctx context.Context, collection string, docs []Document) error
}

// Searcher provides filtered KNN search over a collection.
type Searcher interface {
	SearchKNN(ctx context.Context, q *KNNQuery) (*SearchResult, error)
}

// Promoter manages the logical-name → physical-collection pointer
// used for versioned rebuilds. PromoteCollection repoints the logical
// name and returns the previously promoted physical collection, if any.
type Promoter interface {
	PromoteCollection(ctx context.Context, logical, physical string) (prev string, err error)
	CurrentCollection(ctx context.Context, logical string) (string, error)
}

// Document is one row to insert. Drivers normalize values to their
// native storage: strings as-is, numerics as doubles, bools natively
// (qdrant) or as "1"/"0" tags (redis).
type Document struct {
	ID       int64
	Vector   []float32
	Strings  map[string]string
	Numerics map[string]float64
	Bools    map[string]bool
}
