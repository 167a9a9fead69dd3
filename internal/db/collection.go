package db

import (
	"errors"
	"strconv"
)

// DistanceMetric used by KNN similarity queries.
type DistanceMetric string

const (
	// DistanceL2 is Euclidean distance.
	DistanceL2 DistanceMetric = "L2"
	// DistanceCosine is cosine distance.
	DistanceCosine DistanceMetric = "COSINE"
)

// FieldType enumerates supported attribute field kinds.
type FieldType int

const (
	// FieldStored is kept with the document but not indexed for filtering.
	FieldStored FieldType = iota
	// FieldTag is indexed for case-sensitive exact string match.
	FieldTag
	// FieldNumeric is indexed for numeric range filters.
	FieldNumeric
	// FieldBool is indexed for boolean equality.
	FieldBool
)

// FieldDefinition describes one scalar attribute of a collection.
// MaxLength documents the schema budget for text fields; enforcement
// happens at the domain layer before insertion.
type FieldDefinition struct {
	Name      string
	Type      FieldType
	MaxLength int
}

// HNSWParams are the vector index tuning parameters.
type HNSWParams struct {
	M           int
	EFConstruct int
}

// CollectionDefinition is a complete collection schema: one int64
// primary key, one fixed-dimension vector under VectorFieldName, and
// scalar attributes.
type CollectionDefinition struct {
	Name      string
	VectorDim int
	Distance  DistanceMetric
	HNSW      HNSWParams
	Fields    []FieldDefinition
}

// Validate checks that the collection definition is well-formed.
func (d *CollectionDefinition) Validate() error {
	if d.Name == "" {
		return errors.New("collection name is required")
	}
	if !IsValidIdentifier(d.Name) {
		return errors.New("collection name contains invalid characters")
	}
	if d.VectorDim <= 0 {
		return errors.New("vector field requires positive DIM")
	}
	if d.Distance == "" {
		return errors.New("distance metric is required")
	}

	seen := map[string]bool{VectorFieldName: true}
	for i := range d.Fields {
		f := &d.Fields[i]
		if f.Name == "" {
			return errors.New("field name is required at index " + strconv.Itoa(i))
		}
		if seen[f.Name] {
			return errors.New("duplicate field name: " + f.Name)
		}
		seen[f.Name] = true
	}

	return nil
}

// IsValidIdentifier returns true if s matches [a-zA-Z0-9_:-]+.
func IsValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		isAlpha := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		isSpecial := r == '_' || r == ':' || r == '-'
		if !isAlpha && !isDigit && !isSpecial {
			return false
		}
	}
	return true
}
