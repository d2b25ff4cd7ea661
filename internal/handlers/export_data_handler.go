package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"io.winapps.explorerdiary/internal/journal"
	exportmodels "io.winapps.explorerdiary/internal/models/export_data"
	"io.winapps.explorerdiary/internal/store"
)

// ExportJobStatus tracks an export job's state. Stored in Redis as JSON
// under export_job:<jobID> with a TTL refreshed on every update.
type ExportJobStatus struct {
	JobID        string     `json:"jobId"`
	UID          string     `json:"uid"`
	Status       string     `json:"status"` // pending, running, completed, failed
	Progress     int        `json:"progress"`
	StartedAt    time.Time  `json:"startedAt"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	TotalEntries int        `json:"totalEntries"`
	FilePath     string     `json:"filePath"`
	Error        string     `json:"error,omitempty"`
}

const exportJobRedisKeyPrefix = "export_job:"

// ExportJobTTL bounds both the Redis status record and the life of the
// file on disk; the cleanup job removes files older than this.
const ExportJobTTL = 24 * time.Hour

// ExportDir returns the directory export files are written to.
func ExportDir() string {
	if dir := os.Getenv("EXPORTS_DIR"); dir != "" {
		return dir
	}
	return "./exports"
}

// ExportData starts an asynchronous export of the authenticated user's
// journal as a JSON file.
func (h *EntryHandler) ExportData(c *gin.Context) {
	userUID, ok := authenticatedUID(c)
	if !ok {
		return
	}

	jobID := uuid.New().String()
	status := ExportJobStatus{
		JobID:     jobID,
		UID:       userUID,
		Status:    "pending",
		StartedAt: time.Now(),
	}

	ctx := context.Background()
	if err := h.saveExportStatus(ctx, status); err != nil {
		h.logError(c, err, "failed to initialize export job", "job_id", jobID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to initialize export job"})
		return
	}

	// Launch the export in background
	go h.runExportJob(jobID, userUID)

	c.JSON(http.StatusAccepted, exportmodels.ExportDataResponse{
		ExportJobID: jobID,
		Message:     "Export started",
	})
}

// GetExportProgress reports the state of an export job owned by the
// authenticated user.
func (h *EntryHandler) GetExportProgress(c *gin.Context) {
	var req exportmodels.ExportProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.JobID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "jobId is required"})
		return
	}

	userUID, ok := authenticatedUID(c)
	if !ok {
		return
	}

	status, err := h.loadExportStatus(context.Background(), req.JobID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Export job not found"})
		return
	}
	if status.UID != userUID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot view another user's export"})
		return
	}

	c.JSON(http.StatusOK, exportmodels.ExportProgressResponse{
		JobID:        status.JobID,
		Status:       status.Status,
		Progress:     status.Progress,
		TotalEntries: status.TotalEntries,
		StartedAt:    status.StartedAt,
		CompletedAt:  status.CompletedAt,
		Error:        status.Error,
	})
}

// DownloadExport streams a completed export file.
func (h *EntryHandler) DownloadExport(c *gin.Context) {
	jobID := c.Param("jobId")
	if jobID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "jobId is required"})
		return
	}

	userUID, ok := authenticatedUID(c)
	if !ok {
		return
	}

	status, err := h.loadExportStatus(context.Background(), jobID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Export job not found"})
		return
	}
	if status.UID != userUID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot download another user's export"})
		return
	}
	if status.Status != "completed" || status.FilePath == "" {
		c.JSON(http.StatusConflict, gin.H{"error": "Export is not ready yet"})
		return
	}

	c.FileAttachment(status.FilePath, filepath.Base(status.FilePath))
}

// runExportJob fetches the user's entries and writes them as a JSON file,
// updating the Redis status record as it goes.
func (h *EntryHandler) runExportJob(jobID, userUID string) {
	ctx := context.Background()

	fail := func(err error) {
		now := time.Now()
		st := ExportJobStatus{
			JobID:       jobID,
			UID:         userUID,
			Status:      "failed",
			StartedAt:   now,
			CompletedAt: &now,
			Error:       err.Error(),
		}
		if prev, loadErr := h.loadExportStatus(ctx, jobID); loadErr == nil {
			st.StartedAt = prev.StartedAt
			st.TotalEntries = prev.TotalEntries
			st.Progress = prev.Progress
		}
		if saveErr := h.saveExportStatus(ctx, st); saveErr != nil && h.logger != nil {
			h.logger.Errorw("failed to record export failure", "job_id", jobID, "error", saveErr)
		}
	}

	status, err := h.loadExportStatus(ctx, jobID)
	if err != nil {
		fail(fmt.Errorf("failed to load export status: %w", err))
		return
	}
	status.Status = "running"
	status.Progress = 10
	if err := h.saveExportStatus(ctx, *status); err != nil {
		fail(err)
		return
	}

	entries, err := h.store.QueryByOwner(ctx, userUID, store.Order{
		Field:     "date",
		Direction: journal.SortDescending,
	}, 0)
	if err != nil {
		fail(err)
		return
	}
	status.TotalEntries = len(entries)
	status.Progress = 60
	if err := h.saveExportStatus(ctx, *status); err != nil {
		fail(err)
		return
	}

	if err := os.MkdirAll(ExportDir(), 0o755); err != nil {
		fail(fmt.Errorf("failed to create exports directory: %w", err))
		return
	}

	filename := fmt.Sprintf("explorer-diary-export-%s.json", time.Now().Format("2006-01-02"))
	path := filepath.Join(ExportDir(), jobID+"_"+filename)

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		fail(fmt.Errorf("failed to encode entries: %w", err))
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		fail(fmt.Errorf("failed to write export file: %w", err))
		return
	}

	now := time.Now()
	status.Status = "completed"
	status.Progress = 100
	status.CompletedAt = &now
	status.FilePath = path
	if err := h.saveExportStatus(ctx, *status); err != nil {
		fail(err)
		return
	}

	if h.logger != nil {
		h.logger.Infow("export completed", "job_id", jobID, "user_uid", userUID, "entries", len(entries))
	}
}

func (h *EntryHandler) saveExportStatus(ctx context.Context, status ExportJobStatus) error {
	data, err := json.Marshal(status)
	if err != nil {
		return err
	}
	return h.redis.Set(ctx, exportJobRedisKeyPrefix+status.JobID, data, ExportJobTTL).Err()
}

func (h *EntryHandler) loadExportStatus(ctx context.Context, jobID string) (*ExportJobStatus, error) {
	val, err := h.redis.Get(ctx, exportJobRedisKeyPrefix+jobID).Result()
	if err != nil {
		return nil, err
	}
	var st ExportJobStatus
	if err := json.Unmarshal([]byte(val), &st); err != nil {
		return nil, err
	}
	return &st, nil
}
