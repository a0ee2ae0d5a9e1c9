// Package receipt records explicit per-step completion markers. A target
// directory left behind by an interrupted build is indistinguishable from a
// finished one; the receipt, written only after install succeeds, is what
// lets a retried run rebuild partially-built steps instead of skipping them.
package receipt

import (
	"context"
	"errors"
	"time"
)

// Receipt marks one step as fully built and installed at a pinned reference.
type Receipt struct {
	StepName    string
	PinnedRef   string
	RunID       string
	CompletedAt time.Time
}

// Errors for receipt persistence.
var (
	// ErrCorrupt indicates the receipt file exists but could not be decoded.
	ErrCorrupt = errors.New("receipt file corrupt")
	// ErrSaveFailed indicates the receipt file could not be written.
	ErrSaveFailed = errors.New("failed to save receipts")
)

// Repository persists the set of receipts for one install prefix, keyed by
// step name. Load returns an empty map when no receipt file exists yet.
type Repository interface {
	Load(ctx context.Context, path string) (map[string]Receipt, error)
	Save(ctx context.Context, path string, receipts map[string]Receipt) error
}
