package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	deletemodels "io.winapps.explorerdiary/internal/models/delete_entry"
)

// DeleteEntry removes an entry owned by the authenticated user. Entries
// are otherwise read-only after creation; there is no update operation.
func (h *EntryHandler) DeleteEntry(c *gin.Context) {
	var req deletemodels.DeleteEntryRequest
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

	if err := h.store.Delete(c.Request.Context(), userUID, req.EntryID); err != nil {
		h.respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, deletemodels.DeleteEntryResponse{
		EntryID: req.EntryID,
		Message: "Entry deleted successfully",
	})
}
