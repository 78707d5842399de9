package views

import (
	"testing"

	"github.com/dematic-gent/prodreg/internal/models"
)

func TestFilterUsersSearchAndOrder(t *testing.T) {
	users := []models.User{
		{Name: "Wim Peckstadt"},
		{Name: "nele Herteleer"},
		{Name: "Tom Peckstadt"},
	}

	got := FilterUsers(users, "peckstadt")
	if len(got) != 2 {
		t.Fatalf("Expected 2 matches, got %d", len(got))
	}
	if got[0].Name != "Tom Peckstadt" || got[1].Name != "Wim Peckstadt" {
		t.Errorf("Expected ascending name order, got %v", []string{got[0].Name, got[1].Name})
	}

	// Empty query returns everyone, sorted case-insensitively.
	all := FilterUsers(users, "")
	if len(all) != 3 || all[0].Name != "nele Herteleer" {
		t.Errorf("Expected nele first in full listing, got %v", all)
	}
}
