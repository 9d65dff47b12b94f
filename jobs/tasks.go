package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/hibiken/asynq"

	"github.com/shopledger/shopledger/internal/interchange"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeSnapshotBackup is the task type for periodic store backups.
	TaskTypeSnapshotBackup = "backup:snapshot"
)

// SnapshotBackupPayload configures one backup run. An empty OutputDir
// falls back to the directory the job was constructed with.
type SnapshotBackupPayload struct {
	OutputDir string `json:"outputDir"`
}

// NewSnapshotBackupTask constructs an Asynq task.
func NewSnapshotBackupTask(payload SnapshotBackupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSnapshotBackup, data), nil
}

// SnapshotExporter assembles the full-store snapshot.
type SnapshotExporter interface {
	ExportJSON(ctx context.Context) (interchange.Snapshot, error)
}

// SnapshotBackupJob writes timestamped JSON snapshots to disk.
type SnapshotBackupJob struct {
	Exporter SnapshotExporter
	Dir      string
	Logger   *slog.Logger
	clock    func() time.Time
}

// NewSnapshotBackupJob initialises the backup handler.
func NewSnapshotBackupJob(exporter SnapshotExporter, dir string, logger *slog.Logger) *SnapshotBackupJob {
	return &SnapshotBackupJob{
		Exporter: exporter,
		Dir:      dir,
		Logger:   logger,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle executes one backup run.
func (j *SnapshotBackupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Exporter == nil {
		return errors.New("snapshot backup: handler not configured")
	}
	var payload SnapshotBackupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	dir := payload.OutputDir
	if dir == "" {
		dir = j.Dir
	}
	if dir == "" {
		return asynq.SkipRetry
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("snapshot backup: create dir: %w", err)
	}

	snap, err := j.Exporter.ExportJSON(ctx)
	if err != nil {
		return fmt.Errorf("snapshot backup: export: %w", err)
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("snapshot backup: encode: %w", err)
	}

	name := fmt.Sprintf("shopledger-%s.json", j.clock().Format("20060102-150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("snapshot backup: write %s: %w", path, err)
	}
	if j.Logger != nil {
		j.Logger.Info("wrote store backup",
			slog.String("path", path),
			slog.Int("products", len(snap.Products)),
			slog.Int("sales", len(snap.Sales)),
			slog.Int("expenses", len(snap.Expenses)))
	}
	return nil
}
