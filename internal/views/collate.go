// Package views computes filtered, sorted and aggregated projections
// over collection snapshots. Every function is pure and recomputed on
// demand; nothing here caches, so results are always consistent with
// the snapshot passed in.
package views

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Text fields compare with Dutch collation at base sensitivity:
// case, width and accents are ignored, matching how the history table
// has always sorted names.
var collator = collate.New(language.Dutch, collate.Loose)

func compareText(a, b string) int {
	return collator.CompareString(a, b)
}
