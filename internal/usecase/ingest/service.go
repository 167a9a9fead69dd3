// Package ingest rebuilds the product index: a fresh versioned
// collection is created, filled, verified, and promoted; the previous
// version is dropped only after promotion. Searches against the
// promoted collection never observe a half-built index.
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/prodex/internal/domain"
	"github.com/kailas-cloud/prodex/internal/domain/product"
)

// Config tunes a catalog rebuild.
type Config struct {
	// VectorDim is the expected embedding dimension.
	VectorDim int
	// EmbedBatchSize caps texts per provider call.
	EmbedBatchSize int
	// EmbedTimeout bounds each provider call.
	EmbedTimeout time.Duration
}

// Report summarizes a completed rebuild.
type Report struct {
	// Collection is the promoted physical collection.
	Collection string
	// Previous is the version replaced by this rebuild ("" on first build).
	Previous string
	// Indexed is the number of products in the promoted collection.
	Indexed int
	// TotalTokens is the embedding token usage of the rebuild.
	TotalTokens int
}

// Service coordinates catalog rebuilds.
type Service struct {
	repo  CatalogRepository
	embed BatchEmbedder
	cfg   Config
}

// DefaultEmbedBatchSize is used when the config leaves the batch size unset.
const DefaultEmbedBatchSize = 64

// New creates an ingest service.
func New(repo CatalogRepository, embed BatchEmbedder, cfg Config) *Service {
	if cfg.EmbedBatchSize <= 0 {
		cfg.EmbedBatchSize = DefaultEmbedBatchSize
	}
	return &Service{repo: repo, embed: embed, cfg: cfg}
}

// Rebuild indexes the full catalog into a new version and promotes it.
// On any failure the half-built version is dropped (best effort) and
// the previously promoted version stays live. An empty catalog is
// valid and promotes an empty collection.
func (s *Service) Rebuild(ctx context.Context, products []product.Product) (Report, error) {
	physical, err := s.repo.CreateVersion(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("create version: %w", err)
	}

	vectors, tokens, err := s.embedDescriptions(ctx, products)
	if err != nil {
		s.cleanup(ctx, physical)
		return Report{}, err
	}

	if err := s.repo.InsertProducts(ctx, physical, products, vectors); err != nil {
		s.cleanup(ctx, physical)
		return Report{}, fmt.Errorf("insert products: %w", err)
	}

	count, err := s.repo.Count(ctx, physical)
	if err != nil {
		s.cleanup(ctx, physical)
		return Report{}, fmt.Errorf("verify count: %w", err)
	}
	if count != len(products) {
		s.cleanup(ctx, physical)
		return Report{}, fmt.Errorf("verify count: indexed %d of %d products", count, len(products))
	}

	prev, err := s.repo.Promote(ctx, physical)
	if err != nil {
		s.cleanup(ctx, physical)
		return Report{}, fmt.Errorf("promote: %w", err)
	}

	if prev != "" && prev != physical {
		// Previous version is already unreachable; a failed drop only
		// leaks storage, it never breaks search.
		_ = s.repo.DropVersion(ctx, prev)
	}

	return Report{
		Collection:  physical,
		Previous:    prev,
		Indexed:     count,
		TotalTokens: tokens,
	}, nil
}

// embedDescriptions vectorizes product descriptions in provider-sized
// batches, preserving product order.
func (s *Service) embedDescriptions(
	ctx context.Context, products []product.Product,
) ([][]float32, int, error) {
	vectors := make([][]float32, 0, len(products))
	var tokens int

	for start := 0; start < len(products); start += s.cfg.EmbedBatchSize {
		end := min(start+s.cfg.EmbedBatchSize, len(products))

		texts := make([]string, 0, end-start)
		for _, p := range products[start:end] {
			texts = append(texts, p.Description())
		}

		res, err := s.embedBatch(ctx, texts)
		if err != nil {
			return nil, 0, fmt.Errorf("embed batch [%d:%d]: %w", start, end, err)
		}
		if len(res.Embeddings) != len(texts) {
			return nil, 0, fmt.Errorf("embed batch [%d:%d]: got %d embeddings for %d texts",
				start, end, len(res.Embeddings), len(texts))
		}

		for i, vec := range res.Embeddings {
			if s.cfg.VectorDim > 0 && len(vec) != s.cfg.VectorDim {
				return nil, 0, fmt.Errorf("%w: product %d: got %d, want %d",
					domain.ErrVectorDimMismatch, products[start+i].ID(), len(vec), s.cfg.VectorDim)
			}
		}

		vectors = append(vectors, res.Embeddings...)
		tokens += res.TotalTokens
	}

	return vectors, tokens, nil
}

func (s *Service) embedBatch(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if s.cfg.EmbedTimeout <= 0 {
		return s.embed.BatchEmbed(ctx, texts)
	}
	batchCtx, cancel := context.WithTimeout(ctx, s.cfg.EmbedTimeout)
	defer cancel()
	return s.embed.BatchEmbed(batchCtx, texts)
}

func (s *Service) cleanup(ctx context.Context, physical string) {
	_ = s.repo.DropVersion(ctx, physical)
}
