package member

import "context"

// Store describes persistence operations for members. All lookups exclude
// soft-deleted rows unless includeDeleted is set. Absence is reported as
// ErrNotFound, never a panic; callers decide whether absence is an error.
type Store interface {
	Create(ctx context.Context, m *Member) error
	FindByID(ctx context.Context, id int64, includeDeleted bool) (*Member, error)
	FindByEmail(ctx context.Context, email string, includeDeleted bool) (*Member, error)
	ExistsActive(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, id int64, upd Update) (*Member, error)
	Deactivate(ctx context.Context, id int64) error
}
