package models

import "io.winapps.explorerdiary/internal/journal"

// ListEntriesRequest selects and narrows a user's timeline. SortOrder is a
// retrieval-order contract: it changes the order entries come back from
// the store, while search and filters narrow the fetched list in memory.
type ListEntriesRequest struct {
	SearchTerm string          `json:"searchTerm,omitempty"`
	Filters    journal.Filters `json:"filters,omitempty"`
	SortOrder  string          `json:"sortOrder,omitempty"` // "desc" (default) or "asc"
	OrderBy    string          `json:"orderBy,omitempty"`   // "date" (default) or "createdAt"
	Limit      int             `json:"limit,omitempty"`     // 0 means no limit
}
