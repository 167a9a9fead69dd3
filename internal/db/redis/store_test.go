package redis

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/redis/rueidis"
	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"github.com/kailas-cloud/prodex/internal/db"
	"github.com/kailas-cloud/prodex/internal/domain/search/filter"
)

const testPrefix = "prodex:"

func testDef(name string) *db.CollectionDefinition {
	return &db.CollectionDefinition{
		Name:      name,
		VectorDim: 4,
		Distance:  db.DistanceL2,
		HNSW:      db.HNSWParams{M: 32, EFConstruct: 400},
		Fields: []db.FieldDefinition{
			{Name: "category", Type: db.FieldTag},
			{Name: "brand", Type: db.FieldTag},
			{Name: "in_stock", Type: db.FieldBool},
			{Name: "price", Type: db.FieldNumeric},
			{Name: "name", Type: db.FieldStored},
			{Name: "description", Type: db.FieldStored},
		},
	}
}

// --- client.go tests ---

func TestPing_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.Result(mock.RedisString("PONG")))

	s := NewStoreForTest(c, testPrefix)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPing_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c, testPrefix)
	if err := s.Ping(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestRequestTimeout_AppliesDeadline(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		DoAndReturn(func(ctx context.Context, _ rueidis.Completed) rueidis.RedisResult {
			if _, ok := ctx.Deadline(); !ok {
				t.Error("expected per-operation deadline on the context")
			}
			return mock.Result(mock.RedisString("PONG"))
		})

	s := NewStoreForTest(c, testPrefix)
	s.reqTimeout = time.Second
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestContainsIgnoreCase(t *testing.T) {
	tests := []struct {
		s, sub string
		want   bool
	}{
		{"Index Already Exists", "index already exists", true},
		{"UNKNOWN INDEX NAME", "unknown index name", true},
		{"hello world", "world", true},
		{"short", "longer than input", false},
		{"exact", "exact", true},
		{"", "", true},
		{"notempty", "", true},
	}
	for _, tc := range tests {
		got := containsIgnoreCase(tc.s, tc.sub)
		if got != tc.want {
			t.Errorf("containsIgnoreCase(%q, %q) = %v, want %v", tc.s, tc.sub, got, tc.want)
		}
	}
}

// --- collection.go tests ---

func TestCreateCollection_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			if cmd[0] != "FT.CREATE" || cmd[1] != "prodex:products_v1" {
				return false
			}
			joined := strings.Join(cmd, " ")
			return strings.Contains(joined, "PREFIX 1 prodex:products_v1:doc:") &&
				strings.Contains(joined, "category TAG CASESENSITIVE") &&
				strings.Contains(joined, "in_stock TAG") &&
				strings.Contains(joined, "price NUMERIC") &&
				strings.Contains(joined, "embedding VECTOR HNSW") &&
				strings.Contains(joined, "DIM 4") &&
				strings.Contains(joined, "DISTANCE_METRIC L2") &&
				strings.Contains(joined, "M 32") &&
				strings.Contains(joined, "EF_CONSTRUCTION 400") &&
				// stored fields never enter the schema
				!strings.Contains(joined, "name TEXT") &&
				!strings.Contains(joined, "description")
		})).
		Return(mock.Result(mock.RedisString("OK")))

	s := NewStoreForTest(c, testPrefix)
	if err := s.CreateCollection(context.Background(), testDef("products_v1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBuildCreateArgs_TagFieldsAreCaseSensitive(t *testing.T) {
	args := buildCreateArgs("idx", "idx:doc:", testDef("products_v1"))
	joined := strings.Join(args, " ")

	// "brand" stores "ActiveGear"; the filter @brand:{activegear} must
	// not match it.
	if !strings.Contains(joined, "category TAG CASESENSITIVE") {
		t.Errorf("category tag must be case-sensitive: %q", joined)
	}
	if !strings.Contains(joined, "brand TAG CASESENSITIVE") {
		t.Errorf("brand tag must be case-sensitive: %q", joined)
	}
	if strings.Contains(joined, "in_stock TAG CASESENSITIVE") {
		t.Errorf("bool tags hold only digits, no case flag expected: %q", joined)
	}
}

func TestCreateCollection_AlreadyExists(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.CREATE"
		})).
		Return(mock.Result(mock.RedisError("Index already exists")))

	s := NewStoreForTest(c, testPrefix)
	err := s.CreateCollection(context.Background(), testDef("products_v1"))
	if !errors.Is(err, db.ErrCollectionExists) {
		t.Errorf("expected ErrCollectionExists, got %v", err)
	}
}

func TestCreateCollection_InvalidDefinition(t *testing.T) {
	s := &Store{}
	err := s.CreateCollection(context.Background(), &db.CollectionDefinition{
		Name: "products", Distance: db.DistanceL2,
	})
	if err == nil {
		t.Fatal("expected error for zero vector dim")
	}
}

func TestDropCollection_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.DROPINDEX", "prodex:products_v1", "DD")).
		Return(mock.Result(mock.RedisString("OK")))

	s := NewStoreForTest(c, testPrefix)
	if err := s.DropCollection(context.Background(), "products_v1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDropCollection_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.DROPINDEX"
		})).
		Return(mock.Result(mock.RedisError("Unknown Index name")))

	s := NewStoreForTest(c, testPrefix)
	err := s.DropCollection(context.Background(), "products_v1")
	if !errors.Is(err, db.ErrCollectionNotFound) {
		t.Errorf("expected ErrCollectionNotFound, got %v", err)
	}
}

func TestCollectionExists_True(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.INFO", "prodex:products_v1")).
		Return(mock.Result(mock.RedisArray(mock.RedisString("index_name"), mock.RedisString("prodex:products_v1"))))

	s := NewStoreForTest(c, testPrefix)
	exists, err := s.CollectionExists(context.Background(), "products_v1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exists {
		t.Error("expected true")
	}
}

func TestCollectionExists_False(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.INFO", "prodex:products_v1")).
		Return(mock.Result(mock.RedisError("Unknown Index name")))

	s := NewStoreForTest(c, testPrefix)
	exists, err := s.CollectionExists(context.Background(), "products_v1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exists {
		t.Error("expected false")
	}
}

func TestCountDocuments_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.SEARCH", "prodex:products_v1", "*", "LIMIT", "0", "0")).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(42))))

	s := NewStoreForTest(c, testPrefix)
	count, err := s.CountDocuments(context.Background(), "products_v1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 42 {
		t.Errorf("expected 42, got %d", count)
	}
}

func TestInsertBatch_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]rueidis.RedisResult{
			mock.Result(mock.RedisInt64(7)),
			mock.Result(mock.RedisInt64(7)),
		})

	s := NewStoreForTest(c, testPrefix)
	docs := []db.Document{
		{
			ID:       1,
			Vector:   []float32{0.1, 0.2, 0.3, 0.4},
			Strings:  map[string]string{"name": "Trail Runner", "category": "Footwear"},
			Numerics: map[string]float64{"price": 89.99},
			Bools:    map[string]bool{"in_stock": true},
		},
		{
			ID:       2,
			Vector:   []float32{0.5, 0.6, 0.7, 0.8},
			Strings:  map[string]string{"name": "Rain Jacket", "category": "Clothing"},
			Numerics: map[string]float64{"price": 120},
			Bools:    map[string]bool{"in_stock": false},
		},
	}
	if err := s.InsertBatch(context.Background(), "products_v1", docs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestInsertBatch_Empty(t *testing.T) {
	s := NewStoreForTest(nil, testPrefix)
	if err := s.InsertBatch(context.Background(), "products_v1", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestInsertBatch_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any()).
		Return([]rueidis.RedisResult{
			mock.ErrorResult(context.DeadlineExceeded),
		})

	s := NewStoreForTest(c, testPrefix)
	err := s.InsertBatch(context.Background(), "products_v1", []db.Document{{ID: 1}})
	if err == nil {
		t.Fatal("expected error")
	}
	if !isDBError(err) {
		t.Errorf("expected db.Error, got %T", err)
	}
}

func TestPromoteCollection_NoPrevious(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("SET", "prodex:current:products", "products_v2", "GET")).
		Return(mock.Result(mock.RedisNil()))

	s := NewStoreForTest(c, testPrefix)
	prev, err := s.PromoteCollection(context.Background(), "products", "products_v2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prev != "" {
		t.Errorf("expected no previous collection, got %q", prev)
	}
}

func TestPromoteCollection_ReturnsPrevious(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("SET", "prodex:current:products", "products_v2", "GET")).
		Return(mock.Result(mock.RedisString("products_v1")))

	s := NewStoreForTest(c, testPrefix)
	prev, err := s.PromoteCollection(context.Background(), "products", "products_v2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prev != "products_v1" {
		t.Errorf("expected products_v1, got %q", prev)
	}
}

func TestCurrentCollection_Found(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "prodex:current:products")).
		Return(mock.Result(mock.RedisString("products_v2")))

	s := NewStoreForTest(c, testPrefix)
	physical, err := s.CurrentCollection(context.Background(), "products")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if physical != "products_v2" {
		t.Errorf("expected products_v2, got %q", physical)
	}
}

func TestCurrentCollection_NotPromoted(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "prodex:current:products")).
		Return(mock.Result(mock.RedisNil()))

	s := NewStoreForTest(c, testPrefix)
	_, err := s.CurrentCollection(context.Background(), "products")
	if !errors.Is(err, db.ErrNotPromoted) {
		t.Errorf("expected ErrNotPromoted, got %v", err)
	}
}

// --- search.go tests ---

func TestSearchKNN_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			if cmd[0] != "FT.SEARCH" || cmd[1] != "prodex:products_v1" {
				return false
			}
			joined := strings.Join(cmd, " ")
			return strings.Contains(cmd[2], "[KNN 5 @embedding $BLOB]") &&
				strings.Contains(joined, "SORTBY __embedding_score ASC") &&
				strings.Contains(joined, "DIALECT 2")
		})).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(1), // total
			mock.RedisString("prodex:products_v1:doc:7"),
			mock.RedisArray(
				mock.RedisString("__embedding_score"),
				mock.RedisString("0.25"),
				mock.RedisString("name"),
				mock.RedisString("Trail Runner"),
				mock.RedisString("price"),
				mock.RedisString("89.99"),
			),
		)))

	s := NewStoreForTest(c, testPrefix)
	result, err := s.SearchKNN(context.Background(), &db.KNNQuery{
		Collection:   "products_v1",
		Vector:       []float32{0.1, 0.2, 0.3, 0.4},
		K:            5,
		ReturnFields: []string{"name", "price"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 1 {
		t.Fatalf("expected total 1, got %d", result.Total)
	}
	entry := result.Entries[0]
	if entry.ID != 7 {
		t.Errorf("expected id 7, got %d", entry.ID)
	}
	if entry.Distance != 0.25 {
		t.Errorf("expected distance 0.25, got %f", entry.Distance)
	}
	if entry.Fields["name"] != "Trail Runner" {
		t.Errorf("unexpected fields: %v", entry.Fields)
	}
	if _, ok := entry.Fields["__embedding_score"]; ok {
		t.Error("score attribute should not leak into fields")
	}
}

func TestSearchKNN_FilterInQuery(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH" &&
				cmd[2] == `(@category:{Footwear} @in_stock:{1})=>[KNN 5 @embedding $BLOB]`
		})).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(0))))

	category, _ := filter.NewMatch("category", "Footwear")
	inStock, _ := filter.NewBool("in_stock", true)

	s := NewStoreForTest(c, testPrefix)
	_, err := s.SearchKNN(context.Background(), &db.KNNQuery{
		Collection: "products_v1",
		Vector:     []float32{0.1},
		K:          5,
		Filters:    filter.NewExpression([]filter.Condition{category, inStock}),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSearchKNN_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(0))))

	s := NewStoreForTest(c, testPrefix)
	result, err := s.SearchKNN(context.Background(), &db.KNNQuery{
		Collection: "products_v1",
		Vector:     []float32{0.1},
		K:          5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Entries) != 0 {
		t.Errorf("expected 0 entries, got %d", len(result.Entries))
	}
}

func TestSearchKNN_UnknownIndex(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.ErrorResult(mockRedisErr("Unknown Index name")))

	s := NewStoreForTest(c, testPrefix)
	_, err := s.SearchKNN(context.Background(), &db.KNNQuery{
		Collection: "products_v1",
		Vector:     []float32{0.1},
		K:          5,
	})
	if !errors.Is(err, db.ErrCollectionNotFound) {
		t.Errorf("expected ErrCollectionNotFound, got %v", err)
	}
}

func TestSearchKNN_Validation(t *testing.T) {
	s := &Store{}
	ctx := context.Background()

	_, err := s.SearchKNN(ctx, &db.KNNQuery{Vector: []float32{0.1}, K: 5})
	if err == nil {
		t.Error("expected error for empty collection")
	}

	_, err = s.SearchKNN(ctx, &db.KNNQuery{Collection: "products_v1", K: 5})
	if err == nil {
		t.Error("expected error for empty vector")
	}

	_, err = s.SearchKNN(ctx, &db.KNNQuery{Collection: "products_v1", Vector: []float32{0.1}, K: 0})
	if err == nil {
		t.Error("expected error for k=0")
	}
}

// --- Filter building tests ---

func TestBuildFilter_Empty(t *testing.T) {
	result := buildFilter(filter.Expression{})
	if result != "" {
		t.Errorf("expected empty string, got %q", result)
	}
}

func TestBuildFilter_Match(t *testing.T) {
	cond, _ := filter.NewMatch("category", "Electronics")
	result := buildFilter(filter.NewExpression([]filter.Condition{cond}))
	if result != `@category:{Electronics}` {
		t.Errorf("unexpected filter: %q", result)
	}
}

func TestBuildFilter_MatchEscapesSpecials(t *testing.T) {
	cond, _ := filter.NewMatch("brand", `Ever*Glow} @x`)
	result := buildFilter(filter.NewExpression([]filter.Condition{cond}))
	if result != `@brand:{Ever\*Glow\}\ \@x}` {
		t.Errorf("unescaped value altered the query: %q", result)
	}
}

func TestBuildFilter_Bool(t *testing.T) {
	cond, _ := filter.NewBool("in_stock", true)
	result := buildFilter(filter.NewExpression([]filter.Condition{cond}))
	if result != `@in_stock:{1}` {
		t.Errorf("unexpected filter: %q", result)
	}
}

func TestBuildFilter_RangeUpperOnly(t *testing.T) {
	lte := 100.0
	rng, _ := filter.NewRangeBounds(nil, &lte)
	cond, _ := filter.NewRange("price", rng)
	result := buildFilter(filter.NewExpression([]filter.Condition{cond}))
	if result != `@price:[-inf 100]` {
		t.Errorf("unexpected filter: %q", result)
	}
}

func TestBuildFilter_RangeBothBounds(t *testing.T) {
	gte := 10.0
	lte := 100.0
	rng, _ := filter.NewRangeBounds(&gte, &lte)
	cond, _ := filter.NewRange("price", rng)
	result := buildFilter(filter.NewExpression([]filter.Condition{cond}))
	if result != `@price:[10 100]` {
		t.Errorf("unexpected filter: %q", result)
	}
}

func TestVectorToBytes(t *testing.T) {
	v := []float32{1.0, 2.0}
	b := vectorToBytes(v)
	if len(b) != 8 {
		t.Fatalf("expected 8 bytes, got %d", len(b))
	}
}

// --- helpers ---

// isDBError is a test helper for checking wrapped db.Error.
func isDBError(err error) bool {
	var dbErr *db.Error
	return errors.As(err, &dbErr)
}

// mockRedisErr yields an error that rueidis.IsRedisErr recognizes.
func mockRedisErr(msg string) error {
	res := mock.Result(mock.RedisError(msg))
	return res.Error()
}
