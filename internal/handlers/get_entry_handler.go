package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	getmodels "io.winapps.explorerdiary/internal/models/get_entry"
)

// GetEntry returns a single entry owned by the authenticated user.
func (h *EntryHandler) GetEntry(c *gin.Context) {
	var req getmodels.GetEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userUID, ok := authenticatedUID(c)
	if !ok {
		return
	}

	if req.EntryID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Entry ID is required"})
		return
	}

	entry, err := h.store.Get(c.Request.Context(), userUID, req.EntryID)
	if err != nil {
		h.respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, getmodels.GetEntryResponse{Entry: *entry})
}
