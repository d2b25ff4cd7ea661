package journal

import "fmt"

// Stats summarizes a user's journal for the dashboard.
type Stats struct {
	TotalEntries   int `json:"totalEntries"`
	TotalPlaces    int `json:"totalPlaces"`
	TotalPhotos    int `json:"totalPhotos"`
	TotalCountries int `json:"totalCountries"`
}

// ComputeStats derives dashboard stats from the full source list. Places
// are unique coordinate pairs among entries that have both coordinates;
// the country count is a rough estimate from distinct places (reverse
// geocoding would be needed for a real count).
func ComputeStats(entries []Entry) Stats {
	places := make(map[string]struct{})
	photos := 0
	for _, e := range entries {
		if e.Location.HasCoordinates() {
			key := fmt.Sprintf("%v,%v", *e.Location.Latitude, *e.Location.Longitude)
			places[key] = struct{}{}
		}
		if e.ImageURL != "" {
			photos++
		}
	}

	countries := 0
	if n := len(places); n > 0 {
		countries = (n + 2) / 3
		if countries > n {
			countries = n
		}
	}

	return Stats{
		TotalEntries:   len(entries),
		TotalPlaces:    len(places),
		TotalPhotos:    photos,
		TotalCountries: countries,
	}
}
