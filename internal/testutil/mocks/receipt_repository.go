package mocks

import (
	"context"
	"sync"

	"github.com/depstrap/depstrap/internal/domain/receipt"
)

// ReceiptRepository is an in-memory test double for receipt.Repository.
type ReceiptRepository struct {
	mu       sync.Mutex
	receipts map[string]receipt.Receipt
	LoadErr  error
	SaveErr  error
}

// NewReceiptRepository creates a new ReceiptRepository mock.
func NewReceiptRepository() *ReceiptRepository {
	return &ReceiptRepository{receipts: make(map[string]receipt.Receipt)}
}

// Seed stores a receipt directly, bypassing Save.
func (m *ReceiptRepository) Seed(r receipt.Receipt) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.receipts[r.StepName] = r
}

// Get returns a stored receipt.
func (m *ReceiptRepository) Get(stepName string) (receipt.Receipt, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.receipts[stepName]
	return r, ok
}

// Load returns a copy of the stored receipts.
func (m *ReceiptRepository) Load(_ context.Context, _ string) (map[string]receipt.Receipt, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := make(map[string]receipt.Receipt, len(m.receipts))
	for k, v := range m.receipts {
		copied[k] = v
	}
	return copied, nil
}

// Save replaces the stored receipts.
func (m *ReceiptRepository) Save(_ context.Context, _ string, receipts map[string]receipt.Receipt) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.receipts = make(map[string]receipt.Receipt, len(receipts))
	for k, v := range receipts {
		m.receipts[k] = v
	}
	return nil
}

// Ensure ReceiptRepository implements receipt.Repository.
var _ receipt.Repository = (*ReceiptRepository)(nil)
