package qdrant

import (
	"context"
	"fmt"
	"strconv"

	"github.com/qdrant/go-client/qdrant"

	"github.com/kailas-cloud/prodex/internal/db"
	"github.com/kailas-cloud/prodex/internal/domain/search/filter"
)

// SearchKNN runs a filtered KNN search. With Euclid distance the score
// Qdrant reports is the distance itself, lower is better, and entries
// come back ordered ascending.
func (s *Store) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if q.Collection == "" {
		return nil, fmt.Errorf("collection is required")
	}
	if len(q.Vector) == 0 {
		return nil, fmt.Errorf("vector is required")
	}
	if q.K <= 0 {
		return nil, fmt.Errorf("k must be positive")
	}

	ctx, cancel := s.opCtx(ctx)
	defer cancel()

	limit := uint64(q.K)
	points, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.Collection,
		Query:          qdrant.NewQuery(q.Vector...),
		Limit:          &limit,
		Filter:         buildFilter(q.Filters),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		if isNotFoundErr(err) {
			return nil, db.ErrCollectionNotFound
		}
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	entries := make([]db.SearchEntry, 0, len(points))
	for _, point := range points {
		entry := db.SearchEntry{
			Distance: float64(point.GetScore()),
			Fields:   payloadFields(point.GetPayload(), q.ReturnFields),
		}
		if id := point.GetId(); id != nil {
			entry.ID = int64(id.GetNum())
		}
		entries = append(entries, entry)
	}

	return &db.SearchResult{Total: len(entries), Entries: entries}, nil
}

// payloadFields normalizes payload values to the db.SearchEntry string
// convention. When returnFields is set, only those keys are kept.
func payloadFields(payload map[string]*qdrant.Value, returnFields []string) map[string]string {
	wanted := func(string) bool { return true }
	if len(returnFields) > 0 {
		set := make(map[string]bool, len(returnFields))
		for _, f := range returnFields {
			set[f] = true
		}
		wanted = func(k string) bool { return set[k] }
	}

	m := make(map[string]string, len(payload))
	for k, v := range payload {
		if !wanted(k) {
			continue
		}
		switch val := v.GetKind().(type) {
		case *qdrant.Value_StringValue:
			m[k] = val.StringValue
		case *qdrant.Value_DoubleValue:
			m[k] = strconv.FormatFloat(val.DoubleValue, 'g', -1, 64)
		case *qdrant.Value_IntegerValue:
			m[k] = strconv.FormatInt(val.IntegerValue, 10)
		case *qdrant.Value_BoolValue:
			if val.BoolValue {
				m[k] = "1"
			} else {
				m[k] = "0"
			}
		}
	}
	return m
}

// buildFilter translates filter.Expression into a Qdrant must-filter.
func buildFilter(expr filter.Expression) *qdrant.Filter {
	if expr.IsEmpty() {
		return nil
	}

	conditions := make([]*qdrant.Condition, 0, len(expr.Must()))
	for _, cond := range expr.Must() {
		if qc := buildCondition(cond); qc != nil {
			conditions = append(conditions, qc)
		}
	}
	if len(conditions) == 0 {
		return nil
	}

	return &qdrant.Filter{Must: conditions}
}

func buildCondition(cond filter.Condition) *qdrant.Condition {
	switch cond.Kind() {
	case filter.KindMatch:
		return fieldCondition(&qdrant.FieldCondition{
			Key:   cond.Key(),
			Match: &qdrant.Match{MatchValue: &qdrant.Match_Keyword{Keyword: cond.Match()}},
		})
	case filter.KindBool:
		return fieldCondition(&qdrant.FieldCondition{
			Key:   cond.Key(),
			Match: &qdrant.Match{MatchValue: &qdrant.Match_Boolean{Boolean: cond.Bool()}},
		})
	case filter.KindRange:
		r := cond.Range()
		return fieldCondition(&qdrant.FieldCondition{
			Key:   cond.Key(),
			Range: &qdrant.Range{Gte: r.GTE(), Lte: r.LTE()},
		})
	}
	return nil
}

func fieldCondition(fc *qdrant.FieldCondition) *qdrant.Condition {
	return &qdrant.Condition{
		ConditionOneOf: &qdrant.Condition_Field{Field: fc},
	}
}
