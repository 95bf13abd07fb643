package core

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FilterByKind returns the records matching f. FilterAll returns the input slice as is.
func FilterByKind(records []Record, f KindFilter) []Record {
	if f == FilterAll {
		return records
	}
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if f.Matches(r.Kind) {
			out = append(out, r)
		}
	}
	return out
}

// FilterByNote keeps records whose note contains query, ignoring case and
// diacritics. An empty query returns the input slice as is. The query is not trimmed.
func FilterByNote(records []Record, query string) []Record {
	if query == "" {
		return records
	}
	needle := foldText(query)
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if r.Note == "" {
			continue
		}
		if strings.Contains(foldText(r.Note), needle) {
			out = append(out, r)
		}
	}
	return out
}

// Search applies the kind filter first and then the note query.
func Search(records []Record, f KindFilter, query string) []Record {
	return FilterByNote(FilterByKind(records, f), query)
}

// SortByDateDesc orders records newest first in place. Records without a date
// go last; ties keep their relative order.
func SortByDateDesc(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i].Date, records[j].Date
		if a.IsZero() || b.IsZero() {
			return !a.IsZero() && b.IsZero()
		}
		return a.After(b.Time)
	})
}

// foldText strips combining marks and case folds s so that "Café" and "cafe" compare equal.
func foldText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	// Casers are stateful and must not be shared between goroutines.
	return cases.Fold().String(stripped)
}
