package product

import (
	"fmt"

	"github.com/kailas-cloud/prodex/internal/domain"
)

// Field length budgets match the collection schema. Records exceeding
// them are rejected before insertion, never truncated.
const (
	MaxNameLength        = 256
	MaxDescriptionLength = 2000
	MaxCategoryLength    = 100
	MaxBrandLength       = 100
)

// Category is the fixed product taxonomy.
type Category string

// Known categories; ingestion rejects anything outside this set.
const (
	Footwear    Category = "Footwear"
	Clothing    Category = "Clothing"
	Electronics Category = "Electronics"
	Accessories Category = "Accessories"
	Outdoor     Category = "Outdoor"
)

// Categories lists the valid category values in tool-descriptor order.
func Categories() []Category {
	return []Category{Footwear, Clothing, Electronics, Accessories, Outdoor}
}

// IsValid checks membership in the fixed category set.
func (c Category) IsValid() bool {
	switch c {
	case Footwear, Clothing, Electronics, Accessories, Outdoor:
		return true
	}
	return false
}

// Product is one validated catalog entry (immutable value object).
// The embedding is derived from the description during ingestion and
// never supplied by the caller.
type Product struct {
	id          int64
	name        string
	description string
	category    Category
	price       float64
	inStock     bool
	brand       string
}

// New validates and creates a Product.
func New(
	id int64, name, description string,
	category Category, price float64, inStock bool, brand string,
) (Product, error) {
	if id <= 0 {
		return Product{}, fmt.Errorf("%w: product_id must be positive, got %d", domain.ErrInvalidProduct, id)
	}
	if name == "" {
		return Product{}, fmt.Errorf("%w: name is required (product_id=%d)", domain.ErrInvalidProduct, id)
	}
	if len(name) > MaxNameLength {
		return Product{}, fmt.Errorf(
			"%w: name exceeds %d chars (product_id=%d)", domain.ErrInvalidProduct, MaxNameLength, id)
	}
	if description == "" {
		return Product{}, fmt.Errorf("%w: description is required (product_id=%d)", domain.ErrInvalidProduct, id)
	}
	if len(description) > MaxDescriptionLength {
		return Product{}, fmt.Errorf(
			"%w: description exceeds %d chars (product_id=%d)", domain.ErrInvalidProduct, MaxDescriptionLength, id)
	}
	if !category.IsValid() {
		return Product{}, fmt.Errorf(
			"%w: unknown category %q (product_id=%d)", domain.ErrInvalidProduct, category, id)
	}
	if price < 0 {
		return Product{}, fmt.Errorf(
			"%w: price must be non-negative, got %g (product_id=%d)", domain.ErrInvalidProduct, price, id)
	}
	if brand == "" {
		return Product{}, fmt.Errorf("%w: brand is required (product_id=%d)", domain.ErrInvalidProduct, id)
	}
	if len(brand) > MaxBrandLength {
		return Product{}, fmt.Errorf(
			"%w: brand exceeds %d chars (product_id=%d)", domain.ErrInvalidProduct, MaxBrandLength, id)
	}

	return Product{
		id:          id,
		name:        name,
		description: description,
		category:    category,
		price:       price,
		inStock:     inStock,
		brand:       brand,
	}, nil
}

// Reconstruct creates a Product without validation (storage hydration).
func Reconstruct(
	id int64, name, description string,
	category Category, price float64, inStock bool, brand string,
) Product {
	return Product{
		id:          id,
		name:        name,
		description: description,
		category:    category,
		price:       price,
		inStock:     inStock,
		brand:       brand,
	}
}

// ID returns the primary key.
func (p Product) ID() int64 { return p.id }

// Name returns the product name.
func (p Product) Name() string { return p.name }

// Description returns the product description (embedding input).
func (p Product) Description() string { return p.description }

// Category returns the product category.
func (p Product) Category() Category { return p.category }

// Price returns the product price.
func (p Product) Price() float64 { return p.price }

// InStock reports stock availability.
func (p Product) InStock() bool { return p.inStock }

// Brand returns the brand name.
func (p Product) Brand() string { return p.brand }
