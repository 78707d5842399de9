package views

import (
	"sort"
	"strings"

	"github.com/dematic-gent/prodreg/internal/models"
)

// FilterUsers narrows by substring on name and always sorts ascending
// by collated name; direction is not selectable here.
func FilterUsers(users []models.User, query string) []models.User {
	q := strings.ToLower(query)
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		if q == "" || strings.Contains(strings.ToLower(u.Name), q) {
			out = append(out, u)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return compareText(out[i].Name, out[j].Name) < 0
	})
	return out
}

// FindUserByName resolves a user by exact display name, or nil.
func FindUserByName(users []models.User, name string) *models.User {
	for i := range users {
		if users[i].Name == name {
			return &users[i]
		}
	}
	return nil
}
