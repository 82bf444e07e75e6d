package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/payslip-ledger-go/internal/domain/payslip"
	"github.com/cmlabs-hris/payslip-ledger-go/internal/pkg/storage"
)

// ArchiveJobs removes uploaded payroll exports once they pass the retention
// window. Imported documents keep their source_file key after the purge.
type ArchiveJobs struct {
	fileStorage storage.FileStorage
	retention   time.Duration
	now         func() time.Time
}

func NewArchiveJobs(fileStorage storage.FileStorage, retention time.Duration) *ArchiveJobs {
	return &ArchiveJobs{
		fileStorage: fileStorage,
		retention:   retention,
		now:         time.Now,
	}
}

// RegisterJobs adds the purge job. A zero retention keeps files forever.
func (j *ArchiveJobs) RegisterJobs(scheduler *Scheduler) {
	if j.retention <= 0 {
		slog.Info("archive retention disabled")
		return
	}
	scheduler.AddJob("purge_archived_imports", 24*time.Hour, j.PurgeArchivedImports)
}

func (j *ArchiveJobs) PurgeArchivedImports(ctx context.Context) error {
	cutoff := j.now().Add(-j.retention)
	removed, err := j.fileStorage.PurgeOlderThan(ctx, payslip.ArchivePrefix, cutoff)
	if err != nil {
		return err
	}
	if removed > 0 {
		slog.Info("purged archived imports", "removed", removed, "cutoff", cutoff.Format(time.RFC3339))
	}
	return nil
}
