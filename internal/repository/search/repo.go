// Package search runs filtered KNN queries against the promoted
// collection and hydrates hits back into domain products.
package search

import (
	"context"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/prodex/internal/db"
	"github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/domain/search/filter"
	"github.com/kailas-cloud/prodex/internal/domain/search/result"
)

// store is the consumer interface for search operations (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	CurrentCollection(ctx context.Context, logical string) (string, error)
}

// Repo implements usecase/search.Repository.
type Repo struct {
	store   store
	logical string
}

// New creates a search repository addressing the given logical collection.
func New(s store, logical string) *Repo {
	return &Repo{store: s, logical: logical}
}

// Current resolves the promoted physical collection. Returns
// db.ErrNotPromoted when no catalog has been ingested yet.
func (r *Repo) Current(ctx context.Context) (string, error) {
	return r.store.CurrentCollection(ctx, r.logical)
}

// SearchKNN runs a filtered KNN query against a physical collection.
func (r *Repo) SearchKNN(
	ctx context.Context, physical string,
	vector []float32, filters filter.Expression, topK int,
) ([]result.Match, error) {
	q := &db.KNNQuery{
		Collection:   physical,
		Vector:       vector,
		K:            topK,
		Filters:      filters,
		ReturnFields: product.AttributeFields(),
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search knn %s: %w", physical, err)
	}

	return parseMatches(sr)
}

func parseMatches(sr *db.SearchResult) ([]result.Match, error) {
	if sr == nil || len(sr.Entries) == 0 {
		return nil, nil
	}

	matches := make([]result.Match, 0, len(sr.Entries))
	for i := range sr.Entries {
		m, err := parseEntry(&sr.Entries[i])
		if err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, nil
}

// parseEntry hydrates one hit. Hits come from documents that passed
// validation at ingestion, so hydration skips re-validation, but a
// malformed numeric field still fails loudly rather than silently
// zeroing a price.
func parseEntry(entry *db.SearchEntry) (result.Match, error) {
	fields := entry.Fields

	price, err := parsePrice(fields[product.FieldPrice])
	if err != nil {
		return result.Match{}, fmt.Errorf("hit %d: %w", entry.ID, err)
	}

	p := product.Reconstruct(
		entry.ID,
		fields[product.FieldName],
		fields[product.FieldDescription],
		product.Category(fields[product.FieldCategory]),
		price,
		parseInStock(fields[product.FieldInStock]),
		fields[product.FieldBrand],
	)

	return result.Match{Product: p, Distance: entry.Distance}, nil
}

func parsePrice(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	price, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse price %q: %w", s, err)
	}
	return price, nil
}

func parseInStock(s string) bool {
	return s == "1" || s == "true"
}
