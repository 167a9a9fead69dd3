package mcp

import (
	"fmt"

	"github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/domain/search/request"
)

// searchToolName is the single tool exposed over tools/list.
const searchToolName = "search_products"

// toolDescriptor is the JSON-schema-style tool spec served by tools/list.
type toolDescriptor struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	InputSchema toolSchema `json:"inputSchema"`
}

type toolSchema struct {
	Type       string                  `json:"type"`
	Properties map[string]toolProperty `json:"properties"`
	Required   []string                `json:"required"`
}

type toolProperty struct {
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Default     any      `json:"default,omitempty"`
	Enum        []string `json:"enum,omitempty"`
}

func searchToolDescriptor(lim request.Limits) toolDescriptor {
	if lim.DefaultTopK <= 0 {
		lim.DefaultTopK = request.DefaultTopK
	}
	if lim.MaxTopK <= 0 {
		lim.MaxTopK = request.MaxTopK
	}

	categories := product.Categories()
	enum := make([]string, len(categories))
	for i, c := range categories {
		enum[i] = string(c)
	}

	return toolDescriptor{
		Name: searchToolName,
		Description: "Semantic search for e-commerce products. Understands natural language " +
			"queries (e.g., 'waterproof running shoes under 100 euros') and returns ranked " +
			"results with relevance scores. Supports optional filtering by price, category, " +
			"brand, and stock availability. Use this tool when customers want to find, " +
			"search, browse, or get recommendations for products.",
		InputSchema: toolSchema{
			Type: "object",
			Properties: map[string]toolProperty{
				"query": {
					Type:        "string",
					Description: "Natural language description of the desired product",
				},
				"top_k": {
					Type:        "integer",
					Description: fmt.Sprintf("Maximum number of results to return (1-%d)", lim.MaxTopK),
					Default:     lim.DefaultTopK,
				},
				"max_price": {
					Type:        "number",
					Description: "Maximum price in EUR (optional filter)",
				},
				"category": {
					Type:        "string",
					Description: "Product category to filter by",
					Enum:        enum,
				},
				"in_stock_only": {
					Type:        "boolean",
					Description: "If true, return only products currently in stock",
					Default:     false,
				},
				"brand": {
					Type:        "string",
					Description: "Brand name to filter by (e.g., 'ActiveGear')",
				},
			},
			Required: []string{"query"},
		},
	}
}
