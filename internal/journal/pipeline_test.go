package journal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }

func testEntries() []Entry {
	return []Entry{
		{
			ID:    "1",
			Title: "Paris",
			Story: "Walked along the Seine all afternoon",
			Date:  "2024-01-01",
			Location: &Location{
				Latitude:  f64(48.8566),
				Longitude: f64(2.3522),
				Address:   "Paris, France",
			},
			ImageURL:  "https://i.ibb.co/paris.jpg",
			CreatedAt: time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:        "2",
			Title:     "Tokyo",
			Story:     "Ramen at midnight in Shinjuku",
			Date:      "2024-06-01",
			CreatedAt: time.Date(2024, 6, 2, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:    "3",
			Title: "Lisbon",
			Story: "Trams and pasteis de nata",
			Date:  "2024-03-15",
			Location: &Location{
				Address: "Lisbon, Portugal", // no coordinates
			},
			CreatedAt: time.Date(2024, 3, 16, 10, 0, 0, 0, time.UTC),
		},
	}
}

func TestDeriveViewEmptySearchReturnsSource(t *testing.T) {
	source := testEntries()
	got := DeriveView(source, "", Filters{})
	assert.Equal(t, source, got)

	// Whitespace-only terms behave the same
	got = DeriveView(source, "   ", Filters{})
	assert.Equal(t, source, got)
}

func TestDeriveViewSearchMatching(t *testing.T) {
	source := testEntries()

	tests := []struct {
		name string
		term string
		want []string
	}{
		{"title match", "paris", []string{"1"}},
		{"title match case insensitive", "PARIS", []string{"1"}},
		{"story match", "ramen", []string{"2"}},
		{"address match", "portugal", []string{"3"}},
		{"substring across entries", "a", []string{"1", "2", "3"}},
		{"no match", "antarctica", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveView(source, tt.term, Filters{})
			var ids []string
			for _, e := range got {
				ids = append(ids, e.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestDeriveViewMissingAddressDoesNotMatch(t *testing.T) {
	// Tokyo has no location at all; searching for an address term must
	// exclude it without error.
	got := DeriveView(testEntries(), "france", Filters{})
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)
}

func TestDeriveViewHasPhotoFilter(t *testing.T) {
	source := testEntries()
	got := DeriveView(source, "", Filters{HasPhoto: true})
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)

	// Idempotent: filtering the filtered set again changes nothing
	again := DeriveView(got, "", Filters{HasPhoto: true})
	assert.Equal(t, got, again)
}

func TestDeriveViewHasLocationRequiresBothCoordinates(t *testing.T) {
	// Lisbon has an address but no coordinates and must be excluded.
	got := DeriveView(testEntries(), "", Filters{HasLocation: true})
	require.Len(t, got, 1)
	assert.Equal(t, "Paris", got[0].Title)
}

func TestDeriveViewDateRange(t *testing.T) {
	source := testEntries()

	tests := []struct {
		name    string
		filters Filters
		want    []string
	}{
		{"inclusive lower bound", Filters{DateFrom: "2024-03-15"}, []string{"2", "3"}},
		{"inclusive upper bound", Filters{DateTo: "2024-03-15"}, []string{"1", "3"}},
		{"both bounds", Filters{DateFrom: "2024-02-01", DateTo: "2024-05-01"}, []string{"3"}},
		{"inverted range yields empty set", Filters{DateFrom: "2024-06-01", DateTo: "2024-01-01"}, nil},
		{"unparseable bound imposes no constraint", Filters{DateFrom: "not-a-date"}, []string{"1", "2", "3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveView(source, "", tt.filters)
			var ids []string
			for _, e := range got {
				ids = append(ids, e.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestDeriveViewSearchAndFiltersIntersect(t *testing.T) {
	source := testEntries()
	// "a" matches everything; hasPhoto narrows to Paris only.
	got := DeriveView(source, "a", Filters{HasPhoto: true})
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)
}

func TestDeriveViewClearingRestoresSource(t *testing.T) {
	source := testEntries()
	_ = DeriveView(source, "paris", Filters{HasPhoto: true, DateFrom: "2024-01-01"})

	// The source list is untouched and clearing term+filters returns it
	// exactly, order preserved.
	restored := DeriveView(source, "", Filters{})
	assert.Equal(t, testEntries(), source)
	assert.Equal(t, source, restored)
}

func TestDeriveViewPreservesSourceOrder(t *testing.T) {
	source := testEntries()
	got := DeriveView(source, "", Filters{DateTo: "2024-12-31"})
	require.Len(t, got, 3)
	assert.Equal(t, []string{"1", "2", "3"}, []string{got[0].ID, got[1].ID, got[2].ID})
}

func TestSortByDate(t *testing.T) {
	source := testEntries()

	asc := SortByDate(source, SortAscending)
	assert.Equal(t, []string{"1", "3", "2"}, []string{asc[0].ID, asc[1].ID, asc[2].ID})

	desc := SortByDate(source, SortDescending)
	assert.Equal(t, []string{"2", "3", "1"}, []string{desc[0].ID, desc[1].ID, desc[2].ID})

	// Input order is untouched
	assert.Equal(t, "1", source[0].ID)
}

func TestSortByDateBreaksTiesByCreatedAt(t *testing.T) {
	entries := []Entry{
		{ID: "late", Date: "2024-05-05", CreatedAt: time.Date(2024, 5, 5, 18, 0, 0, 0, time.UTC)},
		{ID: "early", Date: "2024-05-05", CreatedAt: time.Date(2024, 5, 5, 9, 0, 0, 0, time.UTC)},
	}

	asc := SortByDate(entries, SortAscending)
	assert.Equal(t, "early", asc[0].ID)

	desc := SortByDate(entries, SortDescending)
	assert.Equal(t, "late", desc[0].ID)
}
