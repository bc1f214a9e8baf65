package services

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tripwise/tripmedia/config"
	"github.com/tripwise/tripmedia/models"
)

// StartUploadSweeper launches a background goroutine that periodically marks
// records stuck in UPLOADING as FAILED once their presigned window is long
// gone. The core lifecycle never drives the FAILED transition itself; this
// janitor is the failure-detection process that does. Best-effort: failures are
// logged and retried on the next tick.
func StartUploadSweeper(db *gorm.DB, interval time.Duration, log *zap.Logger) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	go func() {
		for {
			// Sleep first to avoid racing immediately at startup
			time.Sleep(interval)
			sweepExpiredUploads(db, log)
		}
	}()
}

func sweepExpiredUploads(db *gorm.DB, log *zap.Logger) {
	cfg := config.Get()
	cutoff := time.Now().Add(-time.Duration(cfg.UploadExpiryMinutes) * time.Minute)

	res := db.Model(&models.Media{}).
		Where("status = ? AND created_at < ?", models.StatusUploading, cutoff).
		Update("status", models.StatusFailed)
	if res.Error != nil {
		log.Warn("upload sweeper update failed", zap.Error(res.Error))
		return
	}
	if res.RowsAffected > 0 {
		log.Info("swept stale uploads to FAILED",
			zap.Int64("count", res.RowsAffected),
			zap.Time("cutoff", cutoff),
		)
	}
}
