package search

import (
	"context"

	"github.com/kailas-cloud/prodex/internal/domain"
	"github.com/kailas-cloud/prodex/internal/domain/search/filter"
	"github.com/kailas-cloud/prodex/internal/domain/search/result"
)

// Repository defines the storage contract for search operations.
type Repository interface {
	// Current resolves the promoted physical collection.
	Current(ctx context.Context) (string, error)

	SearchKNN(
		ctx context.Context, physical string,
		vector []float32, filters filter.Expression, topK int,
	) ([]result.Match, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
