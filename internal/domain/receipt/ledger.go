package receipt

import (
	"context"
	"fmt"
	"time"
)

// Ledger is the run-scoped view over a receipt Repository. It caches the
// loaded receipts and stamps new ones with the run's ID.
type Ledger struct {
	repo  Repository
	path  string
	runID string
	cache map[string]Receipt
	now   func() time.Time
}

// NewLedger creates a Ledger persisting to path through repo. runID tags
// every receipt written during this run.
func NewLedger(repo Repository, path, runID string) *Ledger {
	return &Ledger{
		repo:  repo,
		path:  path,
		runID: runID,
		now:   time.Now,
	}
}

// Matches reports whether a receipt exists for the step at exactly the given
// pinned reference. A missing or stale receipt means the step must rebuild.
func (l *Ledger) Matches(ctx context.Context, stepName, pinnedRef string) (bool, error) {
	if err := l.load(ctx); err != nil {
		return false, err
	}
	r, ok := l.cache[stepName]
	if !ok {
		return false, nil
	}
	return r.PinnedRef == pinnedRef, nil
}

// Record writes a receipt for the step, replacing any previous one.
func (l *Ledger) Record(ctx context.Context, stepName, pinnedRef string) error {
	if err := l.load(ctx); err != nil {
		return err
	}
	l.cache[stepName] = Receipt{
		StepName:    stepName,
		PinnedRef:   pinnedRef,
		RunID:       l.runID,
		CompletedAt: l.now().UTC(),
	}
	if err := l.repo.Save(ctx, l.path, l.cache); err != nil {
		return fmt.Errorf("record receipt for %q: %w", stepName, err)
	}
	return nil
}

func (l *Ledger) load(ctx context.Context) error {
	if l.cache != nil {
		return nil
	}
	receipts, err := l.repo.Load(ctx, l.path)
	if err != nil {
		return fmt.Errorf("load receipts: %w", err)
	}
	if receipts == nil {
		receipts = make(map[string]Receipt)
	}
	l.cache = receipts
	return nil
}
