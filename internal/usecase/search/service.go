// Package search implements the product search flow: resolve the
// promoted collection, embed the query, run filtered KNN, and shape
// the ranked response.
package search

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/kailas-cloud/prodex/internal/domain"
	"github.com/kailas-cloud/prodex/internal/domain/search/filter"
	"github.com/kailas-cloud/prodex/internal/domain/search/relevance"
	"github.com/kailas-cloud/prodex/internal/domain/search/request"
	"github.com/kailas-cloud/prodex/internal/domain/search/result"
)

// Config bounds the two remote calls a search makes.
type Config struct {
	EmbedTimeout  time.Duration
	SearchTimeout time.Duration
	// VectorDim is the expected embedding dimension; a provider
	// response of any other width is rejected before it hits the index.
	VectorDim int
}

// Service handles product search requests.
type Service struct {
	repo  Repository
	embed Embedder
	cfg   Config
}

// New creates a search service.
func New(repo Repository, embed Embedder, cfg Config) *Service {
	return &Service{repo: repo, embed: embed, cfg: cfg}
}

// Search runs one product search. A failure to resolve the promoted
// collection means no catalog is reachable and surfaces as
// domain.ErrBackendUnavailable so callers can degrade instead of
// erroring.
func (s *Service) Search(ctx context.Context, req *request.Request) (*result.Response, error) {
	physical, err := s.repo.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve collection: %w", domain.ErrBackendUnavailable, err)
	}

	filters, err := filter.FromSearchFilter(req.Filters())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}

	vector, err := s.embedQuery(ctx, req.Query())
	if err != nil {
		return nil, err
	}

	searchCtx, cancel := context.WithTimeout(ctx, s.cfg.SearchTimeout)
	defer cancel()

	matches, err := s.repo.SearchKNN(searchCtx, physical, vector, filters, req.TopK())
	if err != nil {
		return nil, fmt.Errorf("search knn: %w", err)
	}

	hits, err := rankMatches(matches)
	if err != nil {
		return nil, err
	}

	return &result.Response{
		Query:        req.Query(),
		TotalResults: len(hits),
		Hits:         hits,
	}, nil
}

func (s *Service) embedQuery(ctx context.Context, query string) ([]float32, error) {
	embedCtx, cancel := context.WithTimeout(ctx, s.cfg.EmbedTimeout)
	defer cancel()

	res, err := s.embed.Embed(embedCtx, query)
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}
	if s.cfg.VectorDim > 0 && len(res.Embedding) != s.cfg.VectorDim {
		return nil, fmt.Errorf("%w: got %d, want %d",
			domain.ErrVectorDimMismatch, len(res.Embedding), s.cfg.VectorDim)
	}
	return res.Embedding, nil
}

// rankMatches renders relevance and fixes the final order: ascending
// distance, ties broken by ascending product id so equal-distance hits
// are deterministic.
func rankMatches(matches []result.Match) ([]result.Hit, error) {
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Distance != matches[j].Distance {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].Product.ID() < matches[j].Product.ID()
	})

	hits := make([]result.Hit, 0, len(matches))
	for _, m := range matches {
		rel, err := relevance.Score(m.Distance)
		if err != nil {
			return nil, fmt.Errorf("hit %d: %w", m.Product.ID(), err)
		}
		hits = append(hits, result.NewHit(m.Product, m.Distance, rel))
	}
	return hits, nil
}
