package search

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/prodex/internal/db"
	"github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/domain/search/filter"
)

func TestSearchKNN_HappyPath(t *testing.T) {
	repo, ms := newTestRepo(t)
	ctx := context.Background()

	ms.searchKNNFn = func(_ context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
		if q.Collection != "products_v2" {
			t.Errorf("unexpected collection: %s", q.Collection)
		}
		if q.K != 5 {
			t.Errorf("unexpected K: %d", q.K)
		}
		return &db.SearchResult{
			Total: 2,
			Entries: []db.SearchEntry{
				{
					ID:       7,
					Distance: 0.25,
					Fields: map[string]string{
						"name":        "Trail Runner",
						"description": "Lightweight trail shoe.",
						"category":    "Footwear",
						"price":       "89.99",
						"in_stock":    "1",
						"brand":       "Everglow",
					},
				},
				{
					ID:       12,
					Distance: 0.61,
					Fields: map[string]string{
						"name":        "Road Racer",
						"description": "Carbon plate racing shoe.",
						"category":    "Footwear",
						"price":       "180",
						"in_stock":    "0",
						"brand":       "Northpeak",
					},
				},
			},
		}, nil
	}

	matches, err := repo.SearchKNN(ctx, "products_v2", testVector(), filter.Expression{}, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}

	first := matches[0]
	if first.Product.ID() != 7 {
		t.Errorf("expected id 7, got %d", first.Product.ID())
	}
	if first.Product.Name() != "Trail Runner" {
		t.Errorf("unexpected name: %s", first.Product.Name())
	}
	if first.Product.Category() != product.Footwear {
		t.Errorf("unexpected category: %s", first.Product.Category())
	}
	if first.Product.Price() != 89.99 {
		t.Errorf("unexpected price: %f", first.Product.Price())
	}
	if !first.Product.InStock() {
		t.Error("expected in stock")
	}
	if first.Distance != 0.25 {
		t.Errorf("unexpected distance: %f", first.Distance)
	}
	if matches[1].Product.InStock() {
		t.Error("expected second match out of stock")
	}
}

func TestSearchKNN_EmptyResults(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.searchKNNFn = func(_ context.Context, _ *db.KNNQuery) (*db.SearchResult, error) {
		return &db.SearchResult{Total: 0}, nil
	}

	matches, err := repo.SearchKNN(context.Background(), "products_v2", testVector(), filter.Expression{}, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("expected 0 matches, got %d", len(matches))
	}
}

func TestSearchKNN_ReturnsAttributeFields(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.searchKNNFn = func(_ context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
		want := map[string]bool{
			"name": true, "description": true, "category": true,
			"price": true, "in_stock": true, "brand": true,
		}
		if len(q.ReturnFields) != len(want) {
			t.Errorf("unexpected return fields: %v", q.ReturnFields)
		}
		for _, f := range q.ReturnFields {
			if !want[f] {
				t.Errorf("unexpected return field %q", f)
			}
		}
		return &db.SearchResult{}, nil
	}

	if _, err := repo.SearchKNN(context.Background(), "products_v2", testVector(), filter.Expression{}, 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSearchKNN_StoreError(t *testing.T) {
	repo, ms := newTestRepo(t)

	storeErr := errors.New("connection refused")
	ms.searchKNNFn = func(_ context.Context, _ *db.KNNQuery) (*db.SearchResult, error) {
		return nil, storeErr
	}

	_, err := repo.SearchKNN(context.Background(), "products_v2", testVector(), filter.Expression{}, 5)
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

func TestSearchKNN_MalformedPrice(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.searchKNNFn = func(_ context.Context, _ *db.KNNQuery) (*db.SearchResult, error) {
		return &db.SearchResult{
			Total: 1,
			Entries: []db.SearchEntry{
				{ID: 1, Fields: map[string]string{"price": "not-a-number"}},
			},
		}, nil
	}

	_, err := repo.SearchKNN(context.Background(), "products_v2", testVector(), filter.Expression{}, 5)
	if err == nil {
		t.Fatal("expected error for malformed price")
	}
}

func TestCurrent_NotPromoted(t *testing.T) {
	repo, _ := newTestRepo(t)

	_, err := repo.Current(context.Background())
	if !errors.Is(err, db.ErrNotPromoted) {
		t.Fatalf("expected ErrNotPromoted, got %v", err)
	}
}

func TestCurrent_Promoted(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.currentFn = func(_ context.Context, logical string) (string, error) {
		if logical != "products" {
			t.Errorf("unexpected logical name: %s", logical)
		}
		return "products_v2", nil
	}

	physical, err := repo.Current(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if physical != "products_v2" {
		t.Errorf("expected products_v2, got %s", physical)
	}
}
