// Package catalog loads the product catalog from its JSON file and
// validates every record before it reaches the index.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kailas-cloud/prodex/internal/domain/product"
)

// productRecord mirrors one entry of products.json.
type productRecord struct {
	ProductID   int64   `json:"product_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	InStock     bool    `json:"in_stock"`
	Brand       string  `json:"brand"`
}

// Load reads and validates a catalog file. Any invalid record fails
// the whole load; a partially indexed catalog is worse than none.
func Load(path string) ([]product.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates catalog JSON.
func Parse(data []byte) ([]product.Product, error) {
	var records []productRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	products := make([]product.Product, 0, len(records))
	seen := make(map[int64]bool, len(records))

	for i, rec := range records {
		if seen[rec.ProductID] {
			return nil, fmt.Errorf("record %d: duplicate product_id %d", i, rec.ProductID)
		}
		seen[rec.ProductID] = true

		p, err := product.New(
			rec.ProductID,
			rec.Name,
			rec.Description,
			product.Category(rec.Category),
			rec.Price,
			rec.InStock,
			rec.Brand,
		)
		if err != nil {
			return nil, fmt.Errorf("record %d (product_id %d): %w", i, rec.ProductID, err)
		}
		products = append(products, p)
	}

	return products, nil
}
