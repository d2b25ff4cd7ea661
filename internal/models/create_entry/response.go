package models

import "io.winapps.explorerdiary/internal/journal"

type CreateEntryResponse struct {
	Entry   journal.Entry `json:"entry"`
	Message string        `json:"message"`
}

// UploadFailedResponse is returned when the image upload failed and the
// declared policy was to abort. The client may resubmit with the
// save-without-image policy to keep the narrative and drop the photo.
type UploadFailedResponse struct {
	Error     string `json:"error"`
	Reason    string `json:"reason"`
	RetryHint string `json:"retryHint"`
}
