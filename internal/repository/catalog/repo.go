// Package catalog persists the product catalog: versioned collection
// lifecycle, batched document insertion, and promotion of the freshly
// built version.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/prodex/internal/db"
	"github.com/kailas-cloud/prodex/internal/domain/product"
)

// store is the consumer interface for catalog persistence (ISP).
type store interface {
	CreateCollection(ctx context.Context, def *db.CollectionDefinition) error
	DropCollection(ctx context.Context, name string) error
	CollectionExists(ctx context.Context, name string) (bool, error)
	CountDocuments(ctx context.Context, name string) (int, error)
	InsertBatch(ctx context.Context, collection string, docs []db.Document) error
	PromoteCollection(ctx context.Context, logical, physical string) (string, error)
	CurrentCollection(ctx context.Context, logical string) (string, error)
}

// Config tunes the catalog repository.
type Config struct {
	// Logical is the stable collection name clients address.
	Logical string
	// VectorDim is the embedding dimension of the collection schema.
	VectorDim int
	// BatchSize caps documents per insert round-trip.
	BatchSize int
	// HNSW tunes the vector index.
	HNSW db.HNSWParams
}

// Repo implements usecase/ingest.CatalogRepository.
type Repo struct {
	store     store
	logical   string
	vectorDim int
	batchSize int
	hnsw      db.HNSWParams
}

// New creates a catalog repository.
func New(s store, cfg Config) (*Repo, error) {
	if cfg.Logical == "" {
		return nil, fmt.Errorf("logical collection name is required")
	}
	if !db.IsValidIdentifier(cfg.Logical) {
		return nil, fmt.Errorf("logical collection name contains invalid characters")
	}
	if cfg.VectorDim <= 0 {
		return nil, fmt.Errorf("vector dimension must be positive")
	}
	if cfg.BatchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive")
	}
	return &Repo{
		store:     s,
		logical:   cfg.Logical,
		vectorDim: cfg.VectorDim,
		batchSize: cfg.BatchSize,
		hnsw:      cfg.HNSW,
	}, nil
}

// CreateVersion creates a fresh physical collection for a rebuild and
// returns its name. Version names are unique per rebuild so an aborted
// build never touches the promoted collection.
func (r *Repo) CreateVersion(ctx context.Context) (string, error) {
	physical := fmt.Sprintf("%s_v%d", r.logical, time.Now().UnixMilli())

	def := collectionDefinition(physical, r.vectorDim, r.hnsw)
	if err := r.store.CreateCollection(ctx, def); err != nil {
		return "", fmt.Errorf("create version %s: %w", physical, err)
	}
	return physical, nil
}

// InsertProducts writes products with their embeddings into a physical
// collection in batches. All documents are searchable when the call
// returns.
func (r *Repo) InsertProducts(
	ctx context.Context, physical string,
	products []product.Product, vectors [][]float32,
) error {
	if len(products) != len(vectors) {
		return fmt.Errorf("products/vectors length mismatch: %d vs %d", len(products), len(vectors))
	}

	docs := make([]db.Document, len(products))
	for i := range products {
		docs[i] = ToDocument(products[i], vectors[i])
	}

	for start := 0; start < len(docs); start += r.batchSize {
		end := min(start+r.batchSize, len(docs))
		if err := r.store.InsertBatch(ctx, physical, docs[start:end]); err != nil {
			return fmt.Errorf("insert batch [%d:%d] into %s: %w", start, end, physical, err)
		}
	}
	return nil
}

// Promote atomically repoints the logical name at the given physical
// collection. Returns the previously promoted collection, if any.
func (r *Repo) Promote(ctx context.Context, physical string) (string, error) {
	prev, err := r.store.PromoteCollection(ctx, r.logical, physical)
	if err != nil {
		return "", fmt.Errorf("promote %s: %w", physical, err)
	}
	return prev, nil
}

// DropVersion removes a physical collection. Dropping a collection
// that is already gone is not an error.
func (r *Repo) DropVersion(ctx context.Context, physical string) error {
	if err := r.store.DropCollection(ctx, physical); err != nil {
		if errors.Is(err, db.ErrCollectionNotFound) {
			return nil
		}
		return fmt.Errorf("drop version %s: %w", physical, err)
	}
	return nil
}

// Current resolves the promoted physical collection.
func (r *Repo) Current(ctx context.Context) (string, error) {
	return r.store.CurrentCollection(ctx, r.logical)
}

// Count returns the number of documents in a physical collection.
func (r *Repo) Count(ctx context.Context, physical string) (int, error) {
	return r.store.CountDocuments(ctx, physical)
}
