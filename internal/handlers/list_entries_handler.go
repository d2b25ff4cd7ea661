package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"io.winapps.explorerdiary/internal/journal"
	listmodels "io.winapps.explorerdiary/internal/models/list_entries"
	"io.winapps.explorerdiary/internal/store"
)

// ListEntries returns the user's timeline: the source list fetched in the
// requested order, narrowed by the search term and filter set. A fetch
// failure after a successful auth degrades to the store's classified
// error; search and filters themselves cannot fail.
func (h *EntryHandler) ListEntries(c *gin.Context) {
	var req listmodels.ListEntriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// An empty body is fine - it means the unfiltered timeline
		req = listmodels.ListEntriesRequest{}
	}

	userUID, ok := authenticatedUID(c)
	if !ok {
		return
	}

	direction := journal.SortDescending
	if req.SortOrder == string(journal.SortAscending) {
		direction = journal.SortAscending
	}
	field := "date"
	if req.OrderBy == "createdAt" {
		field = "createdAt"
	}

	source, err := h.store.QueryByOwner(c.Request.Context(), userUID, store.Order{
		Field:     field,
		Direction: direction,
	}, req.Limit)
	if err != nil {
		h.respondStoreError(c, err)
		return
	}

	displayed := journal.DeriveView(source, req.SearchTerm, req.Filters)
	if displayed == nil {
		displayed = []journal.Entry{}
	}

	c.JSON(http.StatusOK, listmodels.ListEntriesResponse{
		Entries: displayed,
		Total:   len(source),
		Showing: len(displayed),
	})
}
