package models

type ExportProgressRequest struct {
	JobID string `json:"jobId"`
}
