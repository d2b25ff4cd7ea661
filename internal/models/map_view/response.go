package models

import "io.winapps.explorerdiary/internal/journal"

// MapViewResponse carries the entries that can be pinned on a map, plus a
// suggested center and zoom derived from them.
type MapViewResponse struct {
	Entries []journal.Entry `json:"entries"`
	Count   int             `json:"count"`
	Center  [2]float64      `json:"center"` // latitude, longitude
	Zoom    int             `json:"zoom"`
}
