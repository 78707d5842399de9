package views

import (
	"sort"

	"github.com/dematic-gent/prodreg/internal/models"
)

const topN = 5

// Count is one aggregation bucket.
type Count struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// ChartSlice is a chart bucket with its palette color attached.
type ChartSlice struct {
	Product string `json:"product"`
	Count   int    `json:"count"`
	Color   string `json:"color"`
}

// chartColors is the fixed dashboard palette, assigned cyclically.
var chartColors = [8]string{
	"#ff6b6b", "#4ecdc4", "#45b7d1", "#96ceb4",
	"#feca57", "#ff9ff3", "#54a0ff", "#5f27cd",
}

func topCounts(regs []models.Registration, key func(models.Registration) string) []Count {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, r := range regs {
		k := key(r)
		if _, seen := counts[k]; !seen {
			order = append(order, k)
		}
		counts[k]++
	}

	out := make([]Count, 0, len(order))
	for _, k := range order {
		out = append(out, Count{Key: k, Count: counts[k]})
	}
	// Stable sort: ties keep first-seen order.
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > topN {
		out = out[:topN]
	}
	return out
}

// TopUsers returns the five most frequent registrants.
func TopUsers(regs []models.Registration) []Count {
	return topCounts(regs, func(r models.Registration) string { return r.UserName })
}

// TopProducts returns the five most registered products.
func TopProducts(regs []models.Registration) []Count {
	return topCounts(regs, func(r models.Registration) string { return r.ProductName })
}

// TopLocations returns the five most used locations.
func TopLocations(regs []models.Registration) []Count {
	return topCounts(regs, func(r models.Registration) string { return r.Location })
}

// ProductChartData is TopProducts annotated with palette colors.
func ProductChartData(regs []models.Registration) []ChartSlice {
	top := TopProducts(regs)
	out := make([]ChartSlice, len(top))
	for i, c := range top {
		out[i] = ChartSlice{
			Product: c.Key,
			Count:   c.Count,
			Color:   chartColors[i%len(chartColors)],
		}
	}
	return out
}
