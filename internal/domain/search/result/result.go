package result

import "github.com/kailas-cloud/prodex/internal/domain/product"

// Match is one raw index hit: the hydrated product plus its distance.
// Relevance rendering and final ordering turn matches into hits.
type Match struct {
	Product  product.Product
	Distance float64
}

// Hit is a single ranked search hit.
type Hit struct {
	product   product.Product
	distance  float64
	relevance string
}

// NewHit creates a search hit.
func NewHit(p product.Product, distance float64, relevance string) Hit {
	return Hit{product: p, distance: distance, relevance: relevance}
}

// Product returns the matched product attributes.
func (h *Hit) Product() product.Product { return h.product }

// Distance returns the raw index distance (smaller = closer).
func (h *Hit) Distance() float64 { return h.distance }

// Relevance returns the percentage rendering of the distance.
func (h *Hit) Relevance() string { return h.relevance }

// Response is the shaped search result set. Hits are ordered by
// ascending distance; ties break by ascending product id.
type Response struct {
	Query        string
	TotalResults int
	Hits         []Hit
}
