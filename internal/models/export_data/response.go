package models

import "time"

type ExportDataResponse struct {
	ExportJobID string `json:"exportJobId"`
	Message     string `json:"message"`
}

type ExportProgressResponse struct {
	JobID        string     `json:"jobId"`
	Status       string     `json:"status"` // pending, running, completed, failed
	Progress     int        `json:"progress"`
	TotalEntries int        `json:"totalEntries"`
	StartedAt    time.Time  `json:"startedAt"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	Error        string     `json:"error,omitempty"`
}
