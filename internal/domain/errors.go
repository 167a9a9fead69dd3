package domain

import "errors"

var (
	// ErrBackendUnavailable signals that the vector index is not ready to serve.
	ErrBackendUnavailable = errors.New("vector index unavailable")
	// ErrCollectionNotFound signals a missing collection.
	ErrCollectionNotFound = errors.New("collection not found")
	// ErrInvalidProduct signals a catalog record that fails schema validation.
	ErrInvalidProduct = errors.New("invalid product")
	// ErrInvalidRequest signals a malformed search request.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
)
