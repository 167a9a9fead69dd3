package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/prodex/internal/db"
)

// CreateCollection creates the RediSearch index for a collection. The
// hash documents themselves materialize on insert under the
// collection's key prefix.
func (s *Store) CreateCollection(ctx context.Context, def *db.CollectionDefinition) error {
	if err := def.Validate(); err != nil {
		return &db.Error{Op: db.OpCreateCollection, Err: err}
	}

	args := buildCreateArgs(s.indexName(def.Name), s.docPrefix(def.Name), def)

	cmd := s.b().Arbitrary("FT.CREATE").Args(args...).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, "index already exists") {
			return db.ErrCollectionExists
		}
		return &db.Error{Op: db.OpCreateCollection, Err: err}
	}
	return nil
}

// DropCollection removes the index and its documents (FT.DROPINDEX DD).
func (s *Store) DropCollection(ctx context.Context, name string) error {
	cmd := s.b().Arbitrary("FT.DROPINDEX").Args(s.indexName(name), "DD").Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, "unknown index name") {
			return db.ErrCollectionNotFound
		}
		return &db.Error{Op: db.OpDropCollection, Err: err}
	}
	return nil
}

// CollectionExists probes via FT.INFO; "unknown index name" means absent.
func (s *Store) CollectionExists(ctx context.Context, name string) (bool, error) {
	cmd := s.b().Arbitrary("FT.INFO").Args(s.indexName(name)).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, "unknown index name") {
			return false, nil
		}
		return false, &db.Error{Op: db.OpCollectionInfo, Err: err}
	}
	return true, nil
}

// CountDocuments returns document count via FT.SEARCH with LIMIT 0 0.
func (s *Store) CountDocuments(ctx context.Context, name string) (int, error) {
	cmd := s.b().Arbitrary("FT.SEARCH").Args(s.indexName(name), "*", "LIMIT", "0", "0").Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		if isRedisErr(err, "unknown index name") {
			return 0, db.ErrCollectionNotFound
		}
		return 0, &db.Error{Op: db.OpCount, Err: err}
	}
	if len(raw) == 0 {
		return 0, nil
	}
	total, err := raw[0].AsInt64()
	if err != nil {
		return 0, fmt.Errorf("parse count: %w", err)
	}
	return int(total), nil
}

// InsertBatch stores documents as hashes in a single DoMulti round-trip.
// Documents are searchable once the call returns.
func (s *Store) InsertBatch(ctx context.Context, collection string, docs []db.Document) error {
	if len(docs) == 0 {
		return nil
	}

	cmds := make([]rueidis.Completed, len(docs))
	for i := range docs {
		doc := &docs[i]
		cmd := s.b().Hset().Key(s.docKey(collection, doc.ID)).FieldValue()
		for k, v := range doc.Strings {
			cmd = cmd.FieldValue(k, v)
		}
		for k, v := range doc.Numerics {
			cmd = cmd.FieldValue(k, strconv.FormatFloat(v, 'g', -1, 64))
		}
		for k, v := range doc.Bools {
			cmd = cmd.FieldValue(k, formatBool(v))
		}
		if len(doc.Vector) > 0 {
			cmd = cmd.FieldValue(db.VectorFieldName, vectorToBytes(doc.Vector))
		}
		cmds[i] = cmd.Build()
	}

	results := s.doMulti(ctx, cmds...)
	for i, res := range results {
		if err := res.Error(); err != nil {
			return &db.Error{Op: db.OpInsert, Err: fmt.Errorf("doc %d: %w", docs[i].ID, err)}
		}
	}
	return nil
}

// PromoteCollection repoints the logical name at physical in one SET GET,
// returning the previously promoted collection ("" when none).
func (s *Store) PromoteCollection(ctx context.Context, logical, physical string) (string, error) {
	cmd := s.b().Set().Key(s.pointerKey(logical)).Value(physical).Get().Build()
	prev, err := s.do(ctx, cmd).ToString()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return "", nil
		}
		return "", &db.Error{Op: db.OpPromote, Err: err}
	}
	return prev, nil
}

// CurrentCollection resolves the promoted physical collection for a
// logical name. Returns db.ErrNotPromoted when nothing was promoted yet.
func (s *Store) CurrentCollection(ctx context.Context, logical string) (string, error) {
	cmd := s.b().Get().Key(s.pointerKey(logical)).Build()
	physical, err := s.do(ctx, cmd).ToString()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return "", db.ErrNotPromoted
		}
		return "", &db.Error{Op: db.OpCurrent, Err: err}
	}
	return physical, nil
}

func buildCreateArgs(index, docPrefix string, def *db.CollectionDefinition) []string {
	args := []string{index, "ON", "HASH", "PREFIX", "1", docPrefix, "SCHEMA"}

	for i := range def.Fields {
		f := &def.Fields[i]
		switch f.Type {
		case db.FieldTag:
			// TAG matching is case-insensitive unless told otherwise;
			// exact match requires CASESENSITIVE
			args = append(args, f.Name, "TAG", "CASESENSITIVE")
		case db.FieldBool:
			// bools are stored as "1"/"0" tags
			args = append(args, f.Name, "TAG")
		case db.FieldNumeric:
			args = append(args, f.Name, "NUMERIC")
		case db.FieldStored:
			// kept in the hash, not indexed
		}
	}

	args = append(args, db.VectorFieldName, "VECTOR", "HNSW")
	attrs := []string{
		"TYPE", "FLOAT32",
		"DIM", strconv.Itoa(def.VectorDim),
		"DISTANCE_METRIC", string(def.Distance),
	}
	if def.HNSW.M > 0 {
		attrs = append(attrs, "M", strconv.Itoa(def.HNSW.M))
	}
	if def.HNSW.EFConstruct > 0 {
		attrs = append(attrs, "EF_CONSTRUCTION", strconv.Itoa(def.HNSW.EFConstruct))
	}
	args = append(args, strconv.Itoa(len(attrs)))
	args = append(args, attrs...)

	return args
}

func formatBool(v bool) string {
	if v {
		return "1"
	}
	return "0"
}
