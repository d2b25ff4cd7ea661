package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"io.winapps.explorerdiary/internal/journal"
	mapmodels "io.winapps.explorerdiary/internal/models/map_view"
	"io.winapps.explorerdiary/internal/store"
)

// Default map center when the user has no mappable entries (New York).
var defaultMapCenter = [2]float64{40.7128, -74.0060}

// MapView returns the user's entries that carry coordinates, with a map
// center averaged over the pins and a zoom suggestion: close in on a
// single pin, wide otherwise.
func (h *EntryHandler) MapView(c *gin.Context) {
	userUID, ok := authenticatedUID(c)
	if !ok {
		return
	}

	source, err := h.store.QueryByOwner(c.Request.Context(), userUID, store.Order{
		Field:     "date",
		Direction: journal.SortDescending,
	}, 0)
	if err != nil {
		h.respondStoreError(c, err)
		return
	}

	mapped := journal.DeriveView(source, "", journal.Filters{HasLocation: true})

	resp := mapmodels.MapViewResponse{
		Entries: mapped,
		Count:   len(mapped),
		Center:  defaultMapCenter,
		Zoom:    2,
	}
	if len(mapped) > 0 {
		var sumLat, sumLng float64
		for _, e := range mapped {
			sumLat += *e.Location.Latitude
			sumLng += *e.Location.Longitude
		}
		resp.Center = [2]float64{sumLat / float64(len(mapped)), sumLng / float64(len(mapped))}
		resp.Zoom = 4
		if len(mapped) == 1 {
			resp.Zoom = 10
		}
	}
	if resp.Entries == nil {
		resp.Entries = []journal.Entry{}
	}

	c.JSON(http.StatusOK, resp)
}
