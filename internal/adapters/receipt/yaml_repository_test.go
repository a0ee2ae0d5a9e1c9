package receipt

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	domain "github.com/depstrap/depstrap/internal/domain/receipt"
)

func TestYAMLRepository_Load_MissingFile(t *testing.T) {
	repo := NewYAMLRepository()

	receipts, err := repo.Load(context.Background(), filepath.Join(t.TempDir(), "receipts.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(receipts) != 0 {
		t.Errorf("Load() of missing file should yield empty set, got %d", len(receipts))
	}
}

func TestYAMLRepository_RoundTrip(t *testing.T) {
	repo := NewYAMLRepository()
	path := filepath.Join(t.TempDir(), "state", "receipts.yaml")
	ctx := context.Background()

	in := map[string]domain.Receipt{
		"x265": {
			StepName:    "x265",
			PinnedRef:   "3.5",
			RunID:       "run-1",
			CompletedAt: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
		},
		"fdk-aac": {
			StepName:  "fdk-aac",
			PinnedRef: "v2.0.2",
			RunID:     "run-1",
		},
	}

	if err := repo.Save(ctx, path, in); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	out, err := repo.Load(ctx, path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("Load() len = %d, want 2", len(out))
	}
	if out["x265"].PinnedRef != "3.5" {
		t.Errorf("x265 ref = %q, want %q", out["x265"].PinnedRef, "3.5")
	}
	if !out["x265"].CompletedAt.Equal(in["x265"].CompletedAt) {
		t.Errorf("x265 completed at = %v, want %v", out["x265"].CompletedAt, in["x265"].CompletedAt)
	}
}

func TestYAMLRepository_Load_Corrupt(t *testing.T) {
	repo := NewYAMLRepository()
	path := filepath.Join(t.TempDir(), "receipts.yaml")
	if err := os.WriteFile(path, []byte("receipts: [not: valid: yaml"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := repo.Load(context.Background(), path)
	if !errors.Is(err, domain.ErrCorrupt) {
		t.Errorf("Load() error = %v, want ErrCorrupt", err)
	}
}

func TestYAMLRepository_Save_NoTempFileLeftBehind(t *testing.T) {
	repo := NewYAMLRepository()
	dir := t.TempDir()
	path := filepath.Join(dir, "receipts.yaml")

	if err := repo.Save(context.Background(), path, map[string]domain.Receipt{
		"vmaf": {StepName: "vmaf", PinnedRef: "v2.3.1"},
	}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file should be renamed away")
	}
}
