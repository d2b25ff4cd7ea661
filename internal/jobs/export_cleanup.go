// Package jobs holds the server's scheduled background work.
package jobs

import (
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// StartExportCleanup schedules an hourly sweep of the exports directory,
// removing files older than maxAge. The matching Redis job records expire
// on their own TTL. Returns the scheduler so the caller can stop it on
// shutdown.
func StartExportCleanup(dir string, maxAge time.Duration, logger *zap.SugaredLogger) *cron.Cron {
	c := cron.New(cron.WithLocation(time.UTC))

	c.AddFunc("@hourly", func() {
		removed, err := sweepExpired(dir, maxAge)
		if err != nil {
			logger.Warnw("export cleanup sweep failed", "dir", dir, "error", err)
			return
		}
		if removed > 0 {
			logger.Infow("removed expired export files", "dir", dir, "removed", removed)
		}
	})

	c.Start()
	return c
}

func sweepExpired(dir string, maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(dir, entry.Name())); err == nil {
				removed++
			}
		}
	}
	return removed, nil
}
