package journal

import (
	"sort"
	"strings"
	"time"
)

// SortDirection orders a timeline by entry date.
type SortDirection string

const (
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)

// Filters is the structured filter set applied to a timeline view. All
// zero-valued fields impose no constraint; active filters combine with AND.
type Filters struct {
	DateFrom    string `json:"dateFrom,omitempty"` // DateLayout, inclusive
	DateTo      string `json:"dateTo,omitempty"`   // DateLayout, inclusive
	HasLocation bool   `json:"hasLocation,omitempty"`
	HasPhoto    bool   `json:"hasPhoto,omitempty"`
}

// IsZero reports whether no filter is active.
func (f Filters) IsZero() bool {
	return f.DateFrom == "" && f.DateTo == "" && !f.HasLocation && !f.HasPhoto
}

// DeriveView computes the displayed list from the source list, the search
// term, and the filter set. It is a pure function of its inputs: the source
// order is preserved, the source slice is never mutated, and clearing both
// term and filters yields the source list unchanged.
func DeriveView(source []Entry, term string, filters Filters) []Entry {
	term = strings.TrimSpace(term)
	if term == "" && filters.IsZero() {
		return source
	}

	out := make([]Entry, 0, len(source))
	for _, e := range source {
		if matchesSearch(&e, term) && matchesFilters(&e, filters) {
			out = append(out, e)
		}
	}
	return out
}

// matchesSearch does a case-insensitive substring match against the entry's
// title, story, and location address. A blank term matches everything; a
// missing address simply never matches.
func matchesSearch(e *Entry, term string) bool {
	if term == "" {
		return true
	}
	needle := strings.ToLower(term)
	if strings.Contains(strings.ToLower(e.Title), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(e.Story), needle) {
		return true
	}
	if e.Location != nil && e.Location.Address != "" {
		return strings.Contains(strings.ToLower(e.Location.Address), needle)
	}
	return false
}

func matchesFilters(e *Entry, f Filters) bool {
	if from, ok := parseFilterDate(f.DateFrom); ok {
		if d := e.DateValue(); d.Before(from) {
			return false
		}
	}
	if to, ok := parseFilterDate(f.DateTo); ok {
		if d := e.DateValue(); d.After(to) {
			return false
		}
	}
	if f.HasLocation && !e.Location.HasCoordinates() {
		return false
	}
	if f.HasPhoto && e.ImageURL == "" {
		return false
	}
	return true
}

// parseFilterDate treats an empty or unparseable bound as absent.
func parseFilterDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// SortByDate orders entries by calendar date with createdAt as the
// secondary key, so entries sharing a date keep a consistent order across
// renders. The input slice is not modified.
func SortByDate(entries []Entry, dir SortDirection) []Entry {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		di, dj := sorted[i].DateValue(), sorted[j].DateValue()
		if !di.Equal(dj) {
			if dir == SortAscending {
				return di.Before(dj)
			}
			return di.After(dj)
		}
		if dir == SortAscending {
			return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
		}
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	return sorted
}
