package debt

import (
	"context"
	"log"
	"slices"
	"sync"
	"time"

	domain "cuotas-backend/internal/domain/debt"
	"cuotas-backend/pkg/id"
)

// Store owns the in-memory collection, newest first. Every command swaps in
// a new slice and hands it to the gateway before the next command runs.
type Store struct {
	mu          sync.Mutex
	gw          domain.Gateway
	debts       []domain.Debt
	issued      map[string]struct{}
	saveTimeout time.Duration

	now   func() time.Time
	newID func() string
}

func NewStore(ctx context.Context, gw domain.Gateway, saveTimeout time.Duration) *Store {
	s := &Store{
		gw:          gw,
		issued:      map[string]struct{}{},
		saveTimeout: saveTimeout,
		now:         time.Now,
		newID:       id.New,
	}
	s.debts = gw.Load(ctx)
	for _, d := range s.debts {
		s.issued[d.ID] = struct{}{}
	}
	log.Printf("store: loaded %d debts", len(s.debts))
	return s
}

func (s *Store) All() []domain.Debt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.debts)
}

func (s *Store) List() ListDTO {
	p := domain.Split(s.All())
	return ListDTO{Active: toDTOs(p.Active), Completed: toDTOs(p.Completed)}
}

func (s *Store) Get(debtID string) (*DebtDTO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(debtID)
	if i < 0 {
		return nil, domain.ErrNotFound
	}
	dto := toDTO(s.debts[i])
	return &dto, nil
}

// Draft returns the edit-session copy of a debt.
func (s *Store) Draft(debtID string) (domain.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(debtID)
	if i < 0 {
		return domain.Draft{}, domain.ErrNotFound
	}
	return domain.DraftFromDebt(s.debts[i]), nil
}

func (s *Store) Create(ctx context.Context, f domain.Fields) (*DebtDTO, error) {
	if err := f.Check(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	d := f.Apply(domain.Debt{ID: s.freshID(), Paid: 0})
	next := make([]domain.Debt, 0, len(s.debts)+1)
	next = append(next, d)
	next = append(next, s.debts...)
	s.commit(ctx, next)

	dto := toDTO(d)
	return &dto, nil
}

// Update replaces the editable fields of a debt in place. Paid is kept, so
// a quantity below it is refused rather than leaving paid > quantity. A
// completed debt keeps its quantity; it never returns to active.
func (s *Store) Update(ctx context.Context, debtID string, f domain.Fields) (*DebtDTO, error) {
	if err := f.Check(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(debtID)
	if i < 0 {
		s.commit(ctx, slices.Clone(s.debts))
		return nil, domain.ErrNotFound
	}
	cur := s.debts[i]
	if cur.Completed() && f.Quantity != cur.Quantity {
		return nil, domain.ErrCompletedQuantity
	}
	if f.Quantity < cur.Paid {
		return nil, domain.ErrQuantityBelowPaid
	}

	d := f.Apply(cur)
	if cur.Completed() {
		d.EndDate = cur.EndDate
	}
	if d.Completed() && d.EndDate == "" {
		d.EndDate = domain.Today(s.now())
	}
	next := slices.Clone(s.debts)
	next[i] = d
	s.commit(ctx, next)

	dto := toDTO(d)
	return &dto, nil
}

// Remove reports whether a debt was deleted. The collection is saved either way.
func (s *Store) Remove(ctx context.Context, debtID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := slices.DeleteFunc(slices.Clone(s.debts), func(d domain.Debt) bool { return d.ID == debtID })
	removed := len(next) != len(s.debts)
	s.commit(ctx, next)
	return removed
}

func (s *Store) ToggleInstallment(ctx context.Context, debtID string, index int) (*DebtDTO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := slices.Clone(s.debts)
	i := s.indexOf(debtID)
	if i < 0 {
		s.commit(ctx, next)
		return nil, domain.ErrNotFound
	}
	next[i] = domain.MarkForward(next[i], index, s.now())
	s.commit(ctx, next)

	dto := toDTO(next[i])
	return &dto, nil
}

func (s *Store) indexOf(debtID string) int {
	return slices.IndexFunc(s.debts, func(d domain.Debt) bool { return d.ID == debtID })
}

// freshID never repeats an id handed out or loaded during this session.
func (s *Store) freshID() string {
	for {
		v := s.newID()
		if _, taken := s.issued[v]; taken {
			continue
		}
		s.issued[v] = struct{}{}
		return v
	}
}

// commit must be called with mu held.
func (s *Store) commit(ctx context.Context, next []domain.Debt) {
	s.debts = next

	saveCtx := context.WithoutCancel(ctx)
	if s.saveTimeout > 0 {
		var cancel context.CancelFunc
		saveCtx, cancel = context.WithTimeout(saveCtx, s.saveTimeout)
		defer cancel()
	}
	s.gw.Save(saveCtx, slices.Clone(next))
}
