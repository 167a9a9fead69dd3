package ingest

import (
	"context"

	"github.com/kailas-cloud/prodex/internal/domain"
	"github.com/kailas-cloud/prodex/internal/domain/product"
)

// CatalogRepository defines the storage contract for catalog rebuilds.
type CatalogRepository interface {
	// CreateVersion creates a fresh physical collection and returns its name.
	CreateVersion(ctx context.Context) (string, error)

	InsertProducts(
		ctx context.Context, physical string,
		products []product.Product, vectors [][]float32,
	) error

	// Promote repoints the logical name and returns the previous version.
	Promote(ctx context.Context, physical string) (string, error)

	// DropVersion removes a physical collection; missing versions are not an error.
	DropVersion(ctx context.Context, physical string) error

	Count(ctx context.Context, physical string) (int, error)
}

// BatchEmbedder vectorizes multiple texts in one provider call.
type BatchEmbedder interface {
	BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error)
}
