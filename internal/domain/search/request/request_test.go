package request

import (
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/prodex/internal/domain"
	"github.com/kailas-cloud/prodex/internal/domain/search/filter"
)

func TestNew_Defaults(t *testing.T) {
	req, err := New("running shoes", 0, Limits{}, filter.SearchFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.TopK() != DefaultTopK {
		t.Errorf("expected default top_k %d, got %d", DefaultTopK, req.TopK())
	}
	if req.Query() != "running shoes" {
		t.Errorf("unexpected query: %s", req.Query())
	}
}

func TestNew_ClampsTopK(t *testing.T) {
	req, err := New("shoes", 1000, Limits{}, filter.SearchFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.TopK() != MaxTopK {
		t.Errorf("expected top_k clamped to %d, got %d", MaxTopK, req.TopK())
	}

	req, err = New("shoes", -3, Limits{}, filter.SearchFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.TopK() != DefaultTopK {
		t.Errorf("expected default top_k for negative input, got %d", req.TopK())
	}
}

func TestNew_ConfiguredLimits(t *testing.T) {
	lim := Limits{DefaultTopK: 3, MaxTopK: 10}

	req, err := New("shoes", 0, lim, filter.SearchFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.TopK() != 3 {
		t.Errorf("expected configured default 3, got %d", req.TopK())
	}

	req, err = New("shoes", 50, lim, filter.SearchFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.TopK() != 10 {
		t.Errorf("expected clamp to configured max 10, got %d", req.TopK())
	}
}

func TestNew_EmptyQuery(t *testing.T) {
	_, err := New("", 5, Limits{}, filter.SearchFilter{})
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestNew_QueryTooLong(t *testing.T) {
	_, err := New(strings.Repeat("a", MaxQueryLength+1), 5, Limits{}, filter.SearchFilter{})
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestNew_NegativeMaxPrice(t *testing.T) {
	price := -10.0
	_, err := New("shoes", 5, Limits{}, filter.SearchFilter{MaxPrice: &price})
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}
