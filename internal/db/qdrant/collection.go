package qdrant

import (
	"context"
	"fmt"

	"github.com/qdrant/go-client/qdrant"

	"github.com/kailas-cloud/prodex/internal/db"
)

// CreateCollection creates the collection and payload indexes for the
// filterable fields. Stored fields live in the payload unindexed.
func (s *Store) CreateCollection(ctx context.Context, def *db.CollectionDefinition) error {
	if err := def.Validate(); err != nil {
		return &db.Error{Op: db.OpCreateCollection, Err: err}
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	err := s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: def.Name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(def.VectorDim),
			Distance: distanceOf(def.Distance),
		}),
		HnswConfig: hnswConfig(def.HNSW),
	})
	if err != nil {
		if isExistsErr(err) {
			return db.ErrCollectionExists
		}
		return &db.Error{Op: db.OpCreateCollection, Err: err}
	}

	for i := range def.Fields {
		f := &def.Fields[i]
		fieldType, ok := fieldTypeOf(f.Type)
		if !ok {
			continue
		}
		_, err := s.client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
			CollectionName: def.Name,
			FieldName:      f.Name,
			FieldType:      &fieldType,
		})
		if err != nil {
			return &db.Error{Op: db.OpCreateCollection, Err: fmt.Errorf("field index %s: %w", f.Name, err)}
		}
	}

	return nil
}

// DropCollection removes the collection and its points.
func (s *Store) DropCollection(ctx context.Context, name string) error {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	if err := s.client.DeleteCollection(ctx, name); err != nil {
		if isNotFoundErr(err) {
			return db.ErrCollectionNotFound
		}
		return &db.Error{Op: db.OpDropCollection, Err: err}
	}
	return nil
}

// CollectionExists reports whether the collection exists.
func (s *Store) CollectionExists(ctx context.Context, name string) (bool, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	exists, err := s.client.CollectionExists(ctx, name)
	if err != nil {
		return false, &db.Error{Op: db.OpCollectionInfo, Err: err}
	}
	return exists, nil
}

// CountDocuments returns the exact point count.
func (s *Store) CountDocuments(ctx context.Context, name string) (int, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	count, err := s.client.Count(ctx, &qdrant.CountPoints{
		CollectionName: name,
		Exact:          qdrant.PtrOf(true),
	})
	if err != nil {
		if isNotFoundErr(err) {
			return 0, db.ErrCollectionNotFound
		}
		return 0, &db.Error{Op: db.OpCount, Err: err}
	}
	return int(count), nil
}

// InsertBatch upserts documents as points in a single waited call.
// Documents are searchable once the call returns.
func (s *Store) InsertBatch(ctx context.Context, collection string, docs []db.Document) error {
	if len(docs) == 0 {
		return nil
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	points := make([]*qdrant.PointStruct, len(docs))
	for i := range docs {
		doc := &docs[i]

		payload := make(map[string]any, len(doc.Strings)+len(doc.Numerics)+len(doc.Bools))
		for k, v := range doc.Strings {
			payload[k] = v
		}
		for k, v := range doc.Numerics {
			payload[k] = v
		}
		for k, v := range doc.Bools {
			payload[k] = v
		}

		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewIDNum(uint64(doc.ID)),
			Vectors: qdrant.NewVectors(doc.Vector...),
			Payload: qdrant.NewValueMap(payload),
		}
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collection,
		Points:         points,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return &db.Error{Op: db.OpInsert, Err: err}
	}
	return nil
}

// PromoteCollection repoints the logical alias at physical and returns
// the previously aliased collection ("" when none). Alias replacement
// is delete-then-create, not a single transaction.
func (s *Store) PromoteCollection(ctx context.Context, logical, physical string) (string, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	prev, err := s.aliasTarget(ctx, logical)
	if err != nil {
		return "", &db.Error{Op: db.OpPromote, Err: err}
	}

	if prev != "" {
		if err := s.client.DeleteAlias(ctx, logical); err != nil {
			return "", &db.Error{Op: db.OpPromote, Err: err}
		}
	}
	if err := s.client.CreateAlias(ctx, logical, physical); err != nil {
		return "", &db.Error{Op: db.OpPromote, Err: err}
	}
	return prev, nil
}

// CurrentCollection resolves the promoted physical collection for a
// logical name. Returns db.ErrNotPromoted when no alias exists yet.
func (s *Store) CurrentCollection(ctx context.Context, logical string) (string, error) {
	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	physical, err := s.aliasTarget(ctx, logical)
	if err != nil {
		return "", &db.Error{Op: db.OpCurrent, Err: err}
	}
	if physical == "" {
		return "", db.ErrNotPromoted
	}
	return physical, nil
}

func (s *Store) aliasTarget(ctx context.Context, alias string) (string, error) {
	aliases, err := s.client.ListAliases(ctx)
	if err != nil {
		return "", err
	}
	for _, a := range aliases {
		if a.GetAliasName() == alias {
			return a.GetCollectionName(), nil
		}
	}
	return "", nil
}

func distanceOf(metric db.DistanceMetric) qdrant.Distance {
	switch metric {
	case db.DistanceCosine:
		return qdrant.Distance_Cosine
	case db.DistanceL2:
		return qdrant.Distance_Euclid
	}
	return qdrant.Distance_Euclid
}

func hnswConfig(p db.HNSWParams) *qdrant.HnswConfigDiff {
	if p.M <= 0 && p.EFConstruct <= 0 {
		return nil
	}
	cfg := &qdrant.HnswConfigDiff{}
	if p.M > 0 {
		cfg.M = qdrant.PtrOf(uint64(p.M))
	}
	if p.EFConstruct > 0 {
		cfg.EfConstruct = qdrant.PtrOf(uint64(p.EFConstruct))
	}
	return cfg
}

func fieldTypeOf(t db.FieldType) (qdrant.FieldType, bool) {
	switch t {
	case db.FieldTag:
		return qdrant.FieldType_FieldTypeKeyword, true
	case db.FieldNumeric:
		return qdrant.FieldType_FieldTypeFloat, true
	case db.FieldBool:
		return qdrant.FieldType_FieldTypeBool, true
	case db.FieldStored:
		return 0, false
	}
	return 0, false
}
