package catalog

import (
	"context"
	"testing"

	"github.com/kailas-cloud/prodex/internal/db"
	"github.com/kailas-cloud/prodex/internal/domain/product"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	createFn  func(ctx context.Context, def *db.CollectionDefinition) error
	dropFn    func(ctx context.Context, name string) error
	existsFn  func(ctx context.Context, name string) (bool, error)
	countFn   func(ctx context.Context, name string) (int, error)
	insertFn  func(ctx context.Context, collection string, docs []db.Document) error
	promoteFn func(ctx context.Context, logical, physical string) (string, error)
	currentFn func(ctx context.Context, logical string) (string, error)
}

func (m *mockStore) CreateCollection(ctx context.Context, def *db.CollectionDefinition) error {
	if m.createFn != nil {
		return m.createFn(ctx, def)
	}
	return nil
}

func (m *mockStore) DropCollection(ctx context.Context, name string) error {
	if m.dropFn != nil {
		return m.dropFn(ctx, name)
	}
	return nil
}

func (m *mockStore) CollectionExists(ctx context.Context, name string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, name)
	}
	return false, nil
}

func (m *mockStore) CountDocuments(ctx context.Context, name string) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx, name)
	}
	return 0, nil
}

func (m *mockStore) InsertBatch(ctx context.Context, collection string, docs []db.Document) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, collection, docs)
	}
	return nil
}

func (m *mockStore) PromoteCollection(ctx context.Context, logical, physical string) (string, error) {
	if m.promoteFn != nil {
		return m.promoteFn(ctx, logical, physical)
	}
	return "", nil
}

func (m *mockStore) CurrentCollection(ctx context.Context, logical string) (string, error) {
	if m.currentFn != nil {
		return m.currentFn(ctx, logical)
	}
	return "", db.ErrNotPromoted
}

func newTestRepo(t *testing.T, batchSize int) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	repo, err := New(ms, Config{
		Logical:   "products",
		VectorDim: 4,
		BatchSize: batchSize,
		HNSW:      db.HNSWParams{M: 32, EFConstruct: 400},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return repo, ms
}

func testProduct(t *testing.T, id int64) product.Product {
	t.Helper()
	p, err := product.New(id, "Trail Runner", "Lightweight trail shoe.", product.Footwear, 89.99, true, "Everglow")
	if err != nil {
		t.Fatalf("product.New: %v", err)
	}
	return p
}
