package finance

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// InMemory implements Store with in-process concurrency safety. Used by
// tests and DSN-less development runs.
type InMemory struct {
	mu       sync.RWMutex
	accounts map[int64]*Account
	assets   map[int64]*Asset
	goals    map[int64]*Goal
	notices  map[int64]*Notice
	txs      map[int64][]*Transaction // accountID -> history, oldest first
	nextID   int64
	now      func() time.Time
}

var _ Store = (*InMemory)(nil)

// NewInMemory creates an empty finance store.
func NewInMemory() *InMemory {
	return &InMemory{
		accounts: make(map[int64]*Account),
		assets:   make(map[int64]*Asset),
		goals:    make(map[int64]*Goal),
		notices:  make(map[int64]*Notice),
		txs:      make(map[int64][]*Transaction),
		now:      time.Now,
	}
}

// SetClock overrides the time source. Only intended for test use.
func (s *InMemory) SetClock(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

func (s *InMemory) Accounts(ctx context.Context) AccountStore { return (*memAccounts)(s) }
func (s *InMemory) Assets(ctx context.Context) AssetStore     { return (*memAssets)(s) }
func (s *InMemory) Goals(ctx context.Context) GoalStore       { return (*memGoals)(s) }
func (s *InMemory) Notices(ctx context.Context) NoticeStore   { return (*memNotices)(s) }

func (s *InMemory) nextSeq() int64 {
	s.nextID++
	return s.nextID
}

// Accounts --------------------------------------------------------------

type memAccounts InMemory

func (s *memAccounts) Create(ctx context.Context, a *Account) error {
	if strings.TrimSpace(a.Name) == "" || a.MemberID <= 0 {
		return ErrInvalidInput
	}
	if a.Balance < 0 {
		return ErrInvalidAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now().UTC()
	a.ID = (*InMemory)(s).nextSeq()
	a.CreateDate = now
	a.ModifyDate = now
	cp := *a
	s.accounts[a.ID] = &cp
	return nil
}

func (s *memAccounts) Find(ctx context.Context, id int64, includeDeleted bool) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[id]
	if !ok || (a.IsDeleted && !includeDeleted) {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *memAccounts) ListByMember(ctx context.Context, memberID int64, includeDeleted bool) ([]*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var res []*Account
	for _, a := range s.accounts {
		if a.MemberID != memberID {
			continue
		}
		if a.IsDeleted && !includeDeleted {
			continue
		}
		cp := *a
		res = append(res, &cp)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (s *memAccounts) Update(ctx context.Context, id int64, upd AccountUpdate) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok || a.IsDeleted {
		return nil, ErrNotFound
	}
	if upd.Name != nil {
		a.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.AccountNumber != nil {
		a.AccountNumber = strings.TrimSpace(*upd.AccountNumber)
	}
	a.ModifyDate = s.now().UTC()
	cp := *a
	return &cp, nil
}

func (s *memAccounts) SoftDelete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok || a.IsDeleted {
		return ErrNotFound
	}
	a.IsDeleted = true
	a.ModifyDate = s.now().UTC()
	return nil
}

func (s *memAccounts) Record(ctx context.Context, t *Transaction) error {
	if t.Amount <= 0 {
		return ErrInvalidAmount
	}
	if t.Kind != TxDeposit && t.Kind != TxWithdraw {
		return ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[t.AccountID]
	if !ok || a.IsDeleted {
		return ErrNotFound
	}
	if t.Kind == TxWithdraw && a.Balance < t.Amount {
		return ErrInsufficientFunds
	}
	if t.Kind == TxWithdraw {
		a.Balance -= t.Amount
	} else {
		a.Balance += t.Amount
	}
	now := s.now().UTC()
	a.ModifyDate = now
	t.ID = (*InMemory)(s).nextSeq()
	t.CreatedAt = now
	cp := *t
	s.txs[t.AccountID] = append(s.txs[t.AccountID], &cp)
	return nil
}

func (s *memAccounts) Transactions(ctx context.Context, accountID int64, limit int) ([]*Transaction, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.accounts[accountID]; !ok {
		return nil, ErrNotFound
	}
	history := s.txs[accountID]
	// newest first
	var res []*Transaction
	for i := len(history) - 1; i >= 0 && len(res) < limit; i-- {
		cp := *history[i]
		res = append(res, &cp)
	}
	return res, nil
}

// Assets ----------------------------------------------------------------

type memAssets InMemory

func (s *memAssets) Create(ctx context.Context, a *Asset) error {
	if strings.TrimSpace(a.Name) == "" || a.MemberID <= 0 {
		return ErrInvalidInput
	}
	switch a.Kind {
	case AssetDeposit, AssetStock, AssetRealEstate:
	default:
		return ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now().UTC()
	a.ID = (*InMemory)(s).nextSeq()
	a.Status = true
	a.CreateDate = now
	a.ModifyDate = now
	cp := *a
	s.assets[a.ID] = &cp
	return nil
}

func (s *memAssets) Find(ctx context.Context, id int64, includeDeleted bool) (*Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.assets[id]
	if !ok || (!a.Status && !includeDeleted) {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *memAssets) ListByMember(ctx context.Context, memberID int64, includeDeleted bool) ([]*Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var res []*Asset
	for _, a := range s.assets {
		if a.MemberID != memberID {
			continue
		}
		if !a.Status && !includeDeleted {
			continue
		}
		cp := *a
		res = append(res, &cp)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (s *memAssets) Update(ctx context.Context, id int64, upd AssetUpdate) (*Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.assets[id]
	if !ok || !a.Status {
		return nil, ErrNotFound
	}
	// Validate the whole update before touching the stored record so a
	// partially valid patch never persists anything.
	if upd.Kind != nil {
		switch *upd.Kind {
		case AssetDeposit, AssetStock, AssetRealEstate:
		default:
			return nil, ErrInvalidInput
		}
	}
	if upd.Value != nil && *upd.Value < 0 {
		return nil, ErrInvalidAmount
	}
	if upd.Name != nil {
		a.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Kind != nil {
		a.Kind = *upd.Kind
	}
	if upd.Value != nil {
		a.Value = *upd.Value
	}
	a.ModifyDate = s.now().UTC()
	cp := *a
	return &cp, nil
}

func (s *memAssets) SoftDelete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.assets[id]
	if !ok || !a.Status {
		return ErrNotFound
	}
	a.Status = false
	a.ModifyDate = s.now().UTC()
	return nil
}

// Goals -----------------------------------------------------------------

type memGoals InMemory

func (s *memGoals) Create(ctx context.Context, g *Goal) error {
	if strings.TrimSpace(g.Name) == "" || g.MemberID <= 0 {
		return ErrInvalidInput
	}
	if g.TargetAmount <= 0 || g.CurrentAmount < 0 {
		return ErrInvalidAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now().UTC()
	g.ID = (*InMemory)(s).nextSeq()
	g.CreateDate = now
	g.ModifyDate = now
	cp := *g
	s.goals[g.ID] = &cp
	return nil
}

func (s *memGoals) Find(ctx context.Context, id int64, includeDeleted bool) (*Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.goals[id]
	if !ok || (g.IsDeleted && !includeDeleted) {
		return nil, ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (s *memGoals) ListByMember(ctx context.Context, memberID int64, includeDeleted bool) ([]*Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var res []*Goal
	for _, g := range s.goals {
		if g.MemberID != memberID {
			continue
		}
		if g.IsDeleted && !includeDeleted {
			continue
		}
		cp := *g
		res = append(res, &cp)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (s *memGoals) Update(ctx context.Context, id int64, upd GoalUpdate) (*Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.goals[id]
	if !ok || g.IsDeleted {
		return nil, ErrNotFound
	}
	if upd.TargetAmount != nil && *upd.TargetAmount <= 0 {
		return nil, ErrInvalidAmount
	}
	if upd.CurrentAmount != nil && *upd.CurrentAmount < 0 {
		return nil, ErrInvalidAmount
	}
	if upd.Name != nil {
		g.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.TargetAmount != nil {
		g.TargetAmount = *upd.TargetAmount
	}
	if upd.CurrentAmount != nil {
		g.CurrentAmount = *upd.CurrentAmount
	}
	if upd.DueDate != nil {
		g.DueDate = *upd.DueDate
	}
	g.ModifyDate = s.now().UTC()
	cp := *g
	return &cp, nil
}

func (s *memGoals) SoftDelete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.goals[id]
	if !ok || g.IsDeleted {
		return ErrNotFound
	}
	g.IsDeleted = true
	g.ModifyDate = s.now().UTC()
	return nil
}

// Notices ---------------------------------------------------------------

type memNotices InMemory

func (s *memNotices) Create(ctx context.Context, n *Notice) error {
	if strings.TrimSpace(n.Title) == "" {
		return ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now().UTC()
	n.ID = (*InMemory)(s).nextSeq()
	n.CreateDate = now
	n.ModifyDate = now
	cp := *n
	s.notices[n.ID] = &cp
	return nil
}

func (s *memNotices) Find(ctx context.Context, id int64, includeDeleted bool) (*Notice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.notices[id]
	if !ok || (n.IsDeleted && !includeDeleted) {
		return nil, ErrNotFound
	}
	cp := *n
	return &cp, nil
}

func (s *memNotices) List(ctx context.Context, limit int, includeDeleted bool) ([]*Notice, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var res []*Notice
	for _, n := range s.notices {
		if n.IsDeleted && !includeDeleted {
			continue
		}
		cp := *n
		res = append(res, &cp)
	}
	// newest first
	sort.Slice(res, func(i, j int) bool { return res[i].ID > res[j].ID })
	if len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}

func (s *memNotices) Update(ctx context.Context, id int64, upd NoticeUpdate) (*Notice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notices[id]
	if !ok || n.IsDeleted {
		return nil, ErrNotFound
	}
	if upd.Title != nil {
		n.Title = strings.TrimSpace(*upd.Title)
	}
	if upd.Content != nil {
		n.Content = *upd.Content
	}
	n.ModifyDate = s.now().UTC()
	cp := *n
	return &cp, nil
}

func (s *memNotices) SoftDelete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notices[id]
	if !ok || n.IsDeleted {
		return ErrNotFound
	}
	n.IsDeleted = true
	n.ModifyDate = s.now().UTC()
	return nil
}
