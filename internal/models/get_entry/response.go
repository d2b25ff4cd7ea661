package models

import "io.winapps.explorerdiary/internal/journal"

type GetEntryResponse struct {
	Entry journal.Entry `json:"entry"`
}
