package views

import (
	"strings"

	"github.com/dematic-gent/prodreg/internal/models"
)

// CategoryAll disables category filtering.
const CategoryAll = "all"

// FilterProducts returns the products matching an active category filter
// and a case-insensitive substring search against name or QR code.
func FilterProducts(products []models.Product, categoryID, query string) []models.Product {
	filtered := products

	if categoryID != "" && categoryID != CategoryAll {
		next := make([]models.Product, 0, len(filtered))
		for _, p := range filtered {
			if p.CategoryID == categoryID {
				next = append(next, p)
			}
		}
		filtered = next
	}

	if query != "" {
		q := strings.ToLower(query)
		next := make([]models.Product, 0, len(filtered))
		for _, p := range filtered {
			if strings.Contains(strings.ToLower(p.Name), q) ||
				(p.QRCode != "" && strings.Contains(strings.ToLower(p.QRCode), q)) {
				next = append(next, p)
			}
		}
		filtered = next
	}

	return filtered
}

// FindProductByQR resolves a scanned code to a product, or nil.
func FindProductByQR(products []models.Product, code string) *models.Product {
	for i := range products {
		if products[i].QRCode != "" && products[i].QRCode == code {
			return &products[i]
		}
	}
	return nil
}

// FindProductByName resolves a product by exact name, or nil.
func FindProductByName(products []models.Product, name string) *models.Product {
	for i := range products {
		if products[i].Name == name {
			return &products[i]
		}
	}
	return nil
}
