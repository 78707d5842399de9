package views

import (
	"sort"
	"strings"

	"github.com/dematic-gent/prodreg/internal/models"
)

// Sort keys for registration history.
const (
	SortByDate     = "date"
	SortByUser     = "user"
	SortByProduct  = "product"
	SortByLocation = "location"

	OrderNewest = "newest"
	OrderOldest = "oldest"
)

// RegistrationFilter narrows the history view. Zero values (and "all"
// for User/Location) leave the corresponding predicate inactive. The
// predicates are independent, so application order never matters.
type RegistrationFilter struct {
	Query    string
	User     string
	Location string
	DateFrom string // inclusive, YYYY-MM-DD
	DateTo   string // inclusive, YYYY-MM-DD
}

// FilterRegistrations applies the five history predicates.
func FilterRegistrations(regs []models.Registration, f RegistrationFilter) []models.Registration {
	out := make([]models.Registration, 0, len(regs))
	q := strings.ToLower(f.Query)

	for _, r := range regs {
		if q != "" && !matchesQuery(r, q) {
			continue
		}
		if f.User != "" && f.User != "all" && r.UserName != f.User {
			continue
		}
		if f.Location != "" && f.Location != "all" && r.Location != f.Location {
			continue
		}
		day := r.Timestamp.UTC().Format("2006-01-02")
		if f.DateFrom != "" && day < f.DateFrom {
			continue
		}
		if f.DateTo != "" && day > f.DateTo {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matchesQuery(r models.Registration, q string) bool {
	return strings.Contains(strings.ToLower(r.UserName), q) ||
		strings.Contains(strings.ToLower(r.ProductName), q) ||
		strings.Contains(strings.ToLower(r.Location), q) ||
		strings.Contains(strings.ToLower(r.Purpose), q) ||
		(r.QRCode != "" && strings.Contains(strings.ToLower(r.QRCode), q))
}

// SortRegistrations orders a filtered set. Date compares instants,
// text keys use collated comparison. The order flag is a sign flip on
// the comparator regardless of key. Equal keys fall back to the
// timestamp and then the record id, so the order is total and flipping
// the direction yields the exact mirror sequence.
func SortRegistrations(regs []models.Registration, sortBy, order string) []models.Registration {
	out := make([]models.Registration, len(regs))
	copy(out, regs)

	cmp := func(a, b models.Registration) int {
		var c int
		switch sortBy {
		case SortByUser:
			c = compareText(a.UserName, b.UserName)
		case SortByProduct:
			c = compareText(a.ProductName, b.ProductName)
		case SortByLocation:
			c = compareText(a.Location, b.Location)
		default: // SortByDate and anything unrecognized
			c = a.Timestamp.Compare(b.Timestamp)
		}
		if c == 0 {
			c = a.Timestamp.Compare(b.Timestamp)
		}
		if c == 0 {
			c = strings.Compare(a.ID, b.ID)
		}
		return c
	}

	sort.SliceStable(out, func(i, j int) bool {
		c := cmp(out[i], out[j])
		if order == OrderOldest {
			return c < 0
		}
		return c > 0
	})
	return out
}
