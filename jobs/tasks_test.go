package jobs

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopledger/shopledger/internal/interchange"
	"github.com/shopledger/shopledger/internal/inventory"
)

type stubExporter struct {
	snap interchange.Snapshot
}

func (s stubExporter) ExportJSON(ctx context.Context) (interchange.Snapshot, error) {
	return s.snap, nil
}

func TestSnapshotBackupJobWritesFile(t *testing.T) {
	dir := t.TempDir()
	job := NewSnapshotBackupJob(stubExporter{snap: interchange.Snapshot{
		Products:   []inventory.Product{{Code: "c1", Title: "Shirt"}},
		ExportedAt: "2026-03-18T12:00:00Z",
		StoreID:    "store-1",
		Version:    interchange.SnapshotVersion,
	}}, dir, nil)
	job.clock = func() time.Time { return time.Date(2026, 3, 18, 12, 0, 0, 0, time.UTC) }

	task, err := NewSnapshotBackupTask(SnapshotBackupPayload{})
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))

	path := filepath.Join(dir, "shopledger-20260318-120000.json")
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var snap interchange.Snapshot
	require.NoError(t, json.Unmarshal(data, &snap))
	assert.Equal(t, "store-1", snap.StoreID)
	require.Len(t, snap.Products, 1)
	assert.Equal(t, "Shirt", snap.Products[0].Title)
}

func TestSnapshotBackupJobPayloadOverridesDir(t *testing.T) {
	fallback := t.TempDir()
	override := t.TempDir()
	job := NewSnapshotBackupJob(stubExporter{}, fallback, nil)
	job.clock = func() time.Time { return time.Date(2026, 3, 18, 12, 0, 0, 0, time.UTC) }

	task, err := NewSnapshotBackupTask(SnapshotBackupPayload{OutputDir: override})
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))

	_, err = os.Stat(filepath.Join(override, "shopledger-20260318-120000.json"))
	assert.NoError(t, err)
}
