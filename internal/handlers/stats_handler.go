package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"io.winapps.explorerdiary/internal/journal"
	statsmodels "io.winapps.explorerdiary/internal/models/stats"
	"io.winapps.explorerdiary/internal/store"
)

// Stats returns the dashboard summary computed over the user's full
// source list.
func (h *EntryHandler) Stats(c *gin.Context) {
	userUID, ok := authenticatedUID(c)
	if !ok {
		return
	}

	entries, err := h.store.QueryByOwner(c.Request.Context(), userUID, store.Order{
		Field:     "createdAt",
		Direction: journal.SortDescending,
	}, 0)
	if err != nil {
		h.respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, statsmodels.StatsResponse{
		Stats: journal.ComputeStats(entries),
	})
}
