package models

import "io.winapps.explorerdiary/internal/journal"

type ListEntriesResponse struct {
	Entries []journal.Entry `json:"entries"`
	Total   int             `json:"total"`   // size of the source list
	Showing int             `json:"showing"` // size after search and filters
}
