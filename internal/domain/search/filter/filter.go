// Package filter holds the typed attribute predicate built from a
// search filter. Conditions are tagged variants (match, bool, range)
// combined as a conjunction; serialization to a backend's native
// filter language happens only in the db drivers, so filter values
// never reach a query string unescaped.
package filter

import (
	"fmt"

	"github.com/kailas-cloud/prodex/internal/domain/product"
)

// SearchFilter is the request-scoped filter value object. All fields
// are independently optional; present fields combine with logical AND.
type SearchFilter struct {
	MaxPrice    *float64
	Category    *string
	Brand       *string
	InStockOnly bool
}

// Expression is a conjunction of attribute conditions.
type Expression struct {
	must []Condition
}

// NewExpression creates a conjunction of the given conditions.
func NewExpression(must []Condition) Expression {
	return Expression{must: must}
}

// Must returns the conjunction's conditions.
func (e Expression) Must() []Condition { return e.must }

// IsEmpty reports whether the expression matches everything.
func (e Expression) IsEmpty() bool { return len(e.must) == 0 }

// Kind discriminates the condition variants.
type Kind int

const (
	// KindMatch is an exact, case-sensitive string equality.
	KindMatch Kind = iota
	// KindBool is a boolean equality.
	KindBool
	// KindRange is a numeric range with optional inclusive bounds.
	KindRange
)

// Condition is a single filter clause: exact match, boolean, or numeric range.
type Condition struct {
	kind      Kind
	key       string
	match     string
	boolVal   bool
	rangeExpr *Range
}

// NewMatch creates an exact string match condition.
func NewMatch(key, match string) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	if match == "" {
		return Condition{}, fmt.Errorf("match value is required for key %q", key)
	}
	return Condition{kind: KindMatch, key: key, match: match}, nil
}

// NewBool creates a boolean equality condition.
func NewBool(key string, value bool) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	return Condition{kind: KindBool, key: key, boolVal: value}, nil
}

// NewRange creates a numeric range condition.
func NewRange(key string, r Range) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	return Condition{kind: KindRange, key: key, rangeExpr: &r}, nil
}

// Kind returns the condition variant.
func (c Condition) Kind() Kind { return c.kind }

// Key returns the field name.
func (c Condition) Key() string { return c.key }

// Match returns the exact match value.
func (c Condition) Match() string { return c.match }

// Bool returns the boolean value.
func (c Condition) Bool() bool { return c.boolVal }

// Range returns the numeric range expression.
func (c Condition) Range() *Range { return c.rangeExpr }

// Range is a numeric range with optional inclusive bounds.
type Range struct {
	gte *float64
	lte *float64
}

// NewRangeBounds validates and creates a Range. At least one bound is required.
func NewRangeBounds(gte, lte *float64) (Range, error) {
	if gte == nil && lte == nil {
		return Range{}, fmt.Errorf("at least one range bound is required")
	}
	return Range{gte: gte, lte: lte}, nil
}

// GTE returns the lower inclusive bound.
func (r Range) GTE() *float64 { return r.gte }

// LTE returns the upper inclusive bound.
func (r Range) LTE() *float64 { return r.lte }

// FromSearchFilter builds the conjunction corresponding to the
// non-absent filter fields. An all-absent filter yields an empty
// (match-all) expression. InStockOnly=false contributes nothing: the
// flag narrows to in-stock products, it never demands out-of-stock.
func FromSearchFilter(f SearchFilter) (Expression, error) {
	var must []Condition

	if f.MaxPrice != nil {
		if *f.MaxPrice < 0 {
			return Expression{}, fmt.Errorf("max_price must be non-negative, got %g", *f.MaxPrice)
		}
		r, err := NewRangeBounds(nil, f.MaxPrice)
		if err != nil {
			return Expression{}, fmt.Errorf("max_price: %w", err)
		}
		cond, err := NewRange(product.FieldPrice, r)
		if err != nil {
			return Expression{}, fmt.Errorf("max_price: %w", err)
		}
		must = append(must, cond)
	}

	if f.Category != nil && *f.Category != "" {
		cond, err := NewMatch(product.FieldCategory, *f.Category)
		if err != nil {
			return Expression{}, fmt.Errorf("category: %w", err)
		}
		must = append(must, cond)
	}

	if f.InStockOnly {
		cond, err := NewBool(product.FieldInStock, true)
		if err != nil {
			return Expression{}, fmt.Errorf("in_stock_only: %w", err)
		}
		must = append(must, cond)
	}

	if f.Brand != nil && *f.Brand != "" {
		cond, err := NewMatch(product.FieldBrand, *f.Brand)
		if err != nil {
			return Expression{}, fmt.Errorf("brand: %w", err)
		}
		must = append(must, cond)
	}

	return NewExpression(must), nil
}
