// Package receipt provides adapters for receipt persistence.
package receipt

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	domain "github.com/depstrap/depstrap/internal/domain/receipt"
)

// receiptDTO is the on-disk form of one receipt.
type receiptDTO struct {
	Step        string    `yaml:"step"`
	Ref         string    `yaml:"ref"`
	RunID       string    `yaml:"run_id"`
	CompletedAt time.Time `yaml:"completed_at"`
}

// fileDTO is the on-disk form of the receipt file.
type fileDTO struct {
	Receipts []receiptDTO `yaml:"receipts"`
}

// YAMLRepository implements receipt.Repository using a YAML file.
type YAMLRepository struct{}

// NewYAMLRepository creates a new YAML-based receipt repository.
func NewYAMLRepository() *YAMLRepository {
	return &YAMLRepository{}
}

// Load reads receipts from the given path. A missing file is not an error;
// it yields an empty set.
func (r *YAMLRepository) Load(_ context.Context, path string) (map[string]domain.Receipt, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]domain.Receipt{}, nil
		}
		return nil, fmt.Errorf("failed to read receipts: %w", err)
	}

	var dto fileDTO
	if err := yaml.Unmarshal(data, &dto); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCorrupt, err)
	}

	receipts := make(map[string]domain.Receipt, len(dto.Receipts))
	for _, d := range dto.Receipts {
		if d.Step == "" {
			return nil, fmt.Errorf("%w: receipt with empty step name", domain.ErrCorrupt)
		}
		receipts[d.Step] = domain.Receipt{
			StepName:    d.Step,
			PinnedRef:   d.Ref,
			RunID:       d.RunID,
			CompletedAt: d.CompletedAt,
		}
	}
	return receipts, nil
}

// Save writes receipts to the given path, creating parent directories as
// needed. The write is atomic: temp file then rename.
func (r *YAMLRepository) Save(_ context.Context, path string, receipts map[string]domain.Receipt) error {
	dto := fileDTO{Receipts: make([]receiptDTO, 0, len(receipts))}
	for _, rec := range receipts {
		dto.Receipts = append(dto.Receipts, receiptDTO{
			Step:        rec.StepName,
			Ref:         rec.PinnedRef,
			RunID:       rec.RunID,
			CompletedAt: rec.CompletedAt,
		})
	}
	// Stable file contents across saves.
	sort.Slice(dto.Receipts, func(i, j int) bool {
		return dto.Receipts[i].Step < dto.Receipts[j].Step
	})

	data, err := yaml.Marshal(&dto)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrSaveFailed, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: failed to create directory: %w", domain.ErrSaveFailed, err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrSaveFailed, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: %w", domain.ErrSaveFailed, err)
	}

	return nil
}

// Ensure YAMLRepository implements receipt.Repository.
var _ domain.Repository = (*YAMLRepository)(nil)
