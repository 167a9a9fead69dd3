package catalog

import (
	"github.com/kailas-cloud/prodex/internal/db"
	"github.com/kailas-cloud/prodex/internal/domain/product"
)

// collectionDefinition maps the product schema onto a collection:
// category, brand and in_stock are filterable, price supports range
// filters, name and description are stored for result shaping only.
func collectionDefinition(physical string, vectorDim int, hnsw db.HNSWParams) *db.CollectionDefinition {
	return &db.CollectionDefinition{
		Name:      physical,
		VectorDim: vectorDim,
		Distance:  db.DistanceL2,
		HNSW:      hnsw,
		Fields: []db.FieldDefinition{
			{Name: product.FieldCategory, Type: db.FieldTag, MaxLength: product.MaxCategoryLength},
			{Name: product.FieldBrand, Type: db.FieldTag, MaxLength: product.MaxBrandLength},
			{Name: product.FieldInStock, Type: db.FieldBool},
			{Name: product.FieldPrice, Type: db.FieldNumeric},
			{Name: product.FieldName, Type: db.FieldStored, MaxLength: product.MaxNameLength},
			{Name: product.FieldDescription, Type: db.FieldStored, MaxLength: product.MaxDescriptionLength},
		},
	}
}

// ToDocument converts a validated product and its embedding into the
// storage document.
func ToDocument(p product.Product, vector []float32) db.Document {
	return db.Document{
		ID:     p.ID(),
		Vector: vector,
		Strings: map[string]string{
			product.FieldName:        p.Name(),
			product.FieldDescription: p.Description(),
			product.FieldCategory:    string(p.Category()),
			product.FieldBrand:       p.Brand(),
		},
		Numerics: map[string]float64{
			product.FieldPrice: p.Price(),
		},
		Bools: map[string]bool{
			product.FieldInStock: p.InStock(),
		},
	}
}
