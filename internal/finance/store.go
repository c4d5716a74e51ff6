package finance

import "context"

// Store groups the persistence collaborators for the finance domain.
// Every read excludes soft-deleted rows unless includeDeleted is set.
type Store interface {
	Accounts(ctx context.Context) AccountStore
	Assets(ctx context.Context) AssetStore
	Goals(ctx context.Context) GoalStore
	Notices(ctx context.Context) NoticeStore
}

// AccountStore manages accounts and their transaction history.
type AccountStore interface {
	Create(ctx context.Context, a *Account) error
	Find(ctx context.Context, id int64, includeDeleted bool) (*Account, error)
	ListByMember(ctx context.Context, memberID int64, includeDeleted bool) ([]*Account, error)
	Update(ctx context.Context, id int64, upd AccountUpdate) (*Account, error)
	SoftDelete(ctx context.Context, id int64) error

	// Record applies the transaction to the account balance and appends it
	// to the history in a single atomic step. Withdrawals exceeding the
	// balance fail with ErrInsufficientFunds.
	Record(ctx context.Context, t *Transaction) error
	Transactions(ctx context.Context, accountID int64, limit int) ([]*Transaction, error)
}

// AssetStore manages valued holdings.
type AssetStore interface {
	Create(ctx context.Context, a *Asset) error
	Find(ctx context.Context, id int64, includeDeleted bool) (*Asset, error)
	ListByMember(ctx context.Context, memberID int64, includeDeleted bool) ([]*Asset, error)
	Update(ctx context.Context, id int64, upd AssetUpdate) (*Asset, error)
	SoftDelete(ctx context.Context, id int64) error
}

// GoalStore manages savings goals.
type GoalStore interface {
	Create(ctx context.Context, g *Goal) error
	Find(ctx context.Context, id int64, includeDeleted bool) (*Goal, error)
	ListByMember(ctx context.Context, memberID int64, includeDeleted bool) ([]*Goal, error)
	Update(ctx context.Context, id int64, upd GoalUpdate) (*Goal, error)
	SoftDelete(ctx context.Context, id int64) error
}

// NoticeStore manages announcements.
type NoticeStore interface {
	Create(ctx context.Context, n *Notice) error
	Find(ctx context.Context, id int64, includeDeleted bool) (*Notice, error)
	List(ctx context.Context, limit int, includeDeleted bool) ([]*Notice, error)
	Update(ctx context.Context, id int64, upd NoticeUpdate) (*Notice, error)
	SoftDelete(ctx context.Context, id int64) error
}
