package gatewaymock

import (
	"context"
	"slices"
	"sync"

	domain "cuotas-backend/internal/domain/debt"
)

// Ensure compile-time compliance
var _ domain.Gateway = (*Gateway)(nil)

// Gateway is a function-backed mock of domain.Gateway. With no functions set
// it behaves like an in-memory slot and records every save.
type Gateway struct {
	LoadFn func(ctx context.Context) []domain.Debt
	SaveFn func(ctx context.Context, debts []domain.Debt)

	mu    sync.Mutex
	slot  []domain.Debt
	saves [][]domain.Debt
}

func New(seed ...domain.Debt) *Gateway { return &Gateway{slot: slices.Clone(seed)} }

func (m *Gateway) Load(ctx context.Context) []domain.Debt {
	if m.LoadFn != nil {
		return m.LoadFn(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.slot)
}

func (m *Gateway) Save(ctx context.Context, debts []domain.Debt) {
	m.mu.Lock()
	m.saves = append(m.saves, slices.Clone(debts))
	m.slot = slices.Clone(debts)
	m.mu.Unlock()
	if m.SaveFn != nil {
		m.SaveFn(ctx, debts)
	}
}

// Saves returns every collection handed to Save, oldest first.
func (m *Gateway) Saves() [][]domain.Debt {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.saves)
}

// Last returns the most recent saved collection, or nil.
func (m *Gateway) Last() []domain.Debt {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.saves) == 0 {
		return nil
	}
	return slices.Clone(m.saves[len(m.saves)-1])
}
