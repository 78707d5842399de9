package views

import (
	"testing"

	"github.com/dematic-gent/prodreg/internal/models"
)

func TestFilterProductsCategoryAndSearch(t *testing.T) {
	products := []models.Product{
		{ID: "p1", Name: "A", QRCode: "Q1", CategoryID: "1"},
		{ID: "p2", Name: "B", QRCode: "Q2", CategoryID: "2"},
	}

	got := FilterProducts(products, "1", "a")
	if len(got) != 1 || got[0].Name != "A" {
		t.Fatalf("Expected exactly product A, got %v", got)
	}

	// Search also matches QR codes, case-insensitively.
	got = FilterProducts(products, CategoryAll, "q2")
	if len(got) != 1 || got[0].Name != "B" {
		t.Fatalf("Expected QR match on B, got %v", got)
	}

	// "all" category disables the category predicate.
	if got := FilterProducts(products, CategoryAll, ""); len(got) != 2 {
		t.Errorf("Expected all products, got %d", len(got))
	}

	// Category filter without search.
	if got := FilterProducts(products, "2", ""); len(got) != 1 || got[0].Name != "B" {
		t.Errorf("Expected only category-2 products, got %v", got)
	}
}

func TestFindProductByQR(t *testing.T) {
	products := []models.Product{
		{ID: "p1", Name: "A", QRCode: "Q1"},
		{ID: "p2", Name: "B"}, // no code; must never match ""
	}

	if p := FindProductByQR(products, "Q1"); p == nil || p.Name != "A" {
		t.Errorf("Expected A for Q1, got %v", p)
	}
	if p := FindProductByQR(products, ""); p != nil {
		t.Errorf("Empty scan must not match a product without a code, got %v", p)
	}
	if p := FindProductByQR(products, "missing"); p != nil {
		t.Errorf("Expected nil for an unknown code, got %v", p)
	}
}
