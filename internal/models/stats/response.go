package models

import "io.winapps.explorerdiary/internal/journal"

type StatsResponse struct {
	Stats journal.Stats `json:"stats"`
}
