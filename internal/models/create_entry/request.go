package models

import "io.winapps.explorerdiary/internal/journal"

// Upload failure policies the client can declare up front, standing in for
// the confirmation dialog shown in an interactive client.
const (
	OnUploadFailureAbort            = "abort"
	OnUploadFailureSaveWithoutImage = "save-without-image"
)

// CreateEntryRequest is the JSON body for image-less submissions. With an
// image attached the request is multipart/form-data carrying the same
// fields plus the file.
type CreateEntryRequest struct {
	Title           string            `json:"title"`
	Story           string            `json:"story"`
	Date            string            `json:"date,omitempty"`
	Location        *journal.Location `json:"location,omitempty"`
	OnUploadFailure string            `json:"onUploadFailure,omitempty"` // "abort" (default) or "save-without-image"
}
