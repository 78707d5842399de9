package views

import (
	"testing"

	"github.com/dematic-gent/prodreg/internal/models"
)

func usageFixture() []models.Registration {
	regs := make([]models.Registration, 0, 16)
	add := func(user, product, location string, times int) {
		for i := 0; i < times; i++ {
			regs = append(regs, models.Registration{
				UserName: user, ProductName: product, Location: location,
			})
		}
	}
	add("tom", "spray", "warehouse", 4)
	add("nele", "grease", "office", 3)
	add("sven", "kit", "workshop", 2)
	add("wim", "foam", "warehouse", 2)
	add("jan", "fin", "office", 1)
	add("an", "lube", "workshop", 1)
	add("bea", "oil", "attic", 1)
	return regs
}

func TestTopCountsBounds(t *testing.T) {
	regs := usageFixture()

	for name, top := range map[string][]Count{
		"users":     TopUsers(regs),
		"products":  TopProducts(regs),
		"locations": TopLocations(regs),
	} {
		if len(top) > 5 {
			t.Errorf("%s: expected at most 5 buckets, got %d", name, len(top))
		}
		sum := 0
		for _, c := range top {
			sum += c.Count
		}
		if sum > len(regs) {
			t.Errorf("%s: counts sum %d exceeds total %d", name, sum, len(regs))
		}
		for i := 1; i < len(top); i++ {
			if top[i].Count > top[i-1].Count {
				t.Errorf("%s: not sorted descending at %d", name, i)
			}
		}
	}
}

func TestTopCountsExactOccurrences(t *testing.T) {
	regs := usageFixture()

	truth := make(map[string]int)
	for _, r := range regs {
		truth[r.UserName]++
	}
	for _, c := range TopUsers(regs) {
		if c.Count != truth[c.Key] {
			t.Errorf("User %s: reported %d, true count %d", c.Key, c.Count, truth[c.Key])
		}
	}
}

func TestTopCountsTiesKeepInsertionOrder(t *testing.T) {
	regs := []models.Registration{
		{UserName: "second"}, {UserName: "first"},
		{UserName: "first"}, {UserName: "second"},
		{UserName: "third"},
	}

	top := TopUsers(regs)
	// first-seen wins ties: "second" appeared before "first".
	if top[0].Key != "second" || top[1].Key != "first" {
		t.Errorf("Expected tie broken by insertion order, got %v", top)
	}
}

func TestProductChartPalette(t *testing.T) {
	regs := usageFixture()

	chart := ProductChartData(regs)
	if len(chart) == 0 {
		t.Fatal("Expected chart slices")
	}
	for i, s := range chart {
		if s.Color != chartColors[i%len(chartColors)] {
			t.Errorf("Slice %d: expected color %s, got %s", i, chartColors[i%len(chartColors)], s.Color)
		}
		if s.Count == 0 {
			t.Errorf("Slice %d: zero count should not appear", i)
		}
	}
}

func TestTopCountsEmptyInput(t *testing.T) {
	if got := TopUsers(nil); len(got) != 0 {
		t.Errorf("Expected no buckets for empty history, got %v", got)
	}
	if got := ProductChartData(nil); len(got) != 0 {
		t.Errorf("Expected no chart slices for empty history, got %v", got)
	}
}
