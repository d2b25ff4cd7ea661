package models

type DeleteEntryResponse struct {
	EntryID string `json:"entryId"`
	Message string `json:"message"`
}
