package finance

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// PGStore implements Store using PostgreSQL.
type PGStore struct {
	db *sql.DB
}

var _ Store = (*PGStore)(nil)

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) Accounts(ctx context.Context) AccountStore { return &pgAccounts{db: s.db} }
func (s *PGStore) Assets(ctx context.Context) AssetStore     { return &pgAssets{db: s.db} }
func (s *PGStore) Goals(ctx context.Context) GoalStore       { return &pgGoals{db: s.db} }
func (s *PGStore) Notices(ctx context.Context) NoticeStore   { return &pgNotices{db: s.db} }

// Accounts --------------------------------------------------------------

type pgAccounts struct{ db *sql.DB }

const accountColumns = `id, member_id, name, account_number, balance, is_deleted, create_date, modify_date`

func (s *pgAccounts) Create(ctx context.Context, a *Account) error {
	if strings.TrimSpace(a.Name) == "" || a.MemberID <= 0 {
		return ErrInvalidInput
	}
	if a.Balance < 0 {
		return ErrInvalidAmount
	}
	return s.db.QueryRowContext(ctx, `
		insert into accounts(member_id, name, account_number, balance)
		values ($1,$2,$3,$4)
		returning id, create_date, modify_date
	`, a.MemberID, a.Name, a.AccountNumber, a.Balance).
		Scan(&a.ID, &a.CreateDate, &a.ModifyDate)
}

func (s *pgAccounts) Find(ctx context.Context, id int64, includeDeleted bool) (*Account, error) {
	row := s.db.QueryRowContext(ctx, `
		select `+accountColumns+` from accounts
		where id=$1 and (is_deleted=false or $2)
	`, id, includeDeleted)
	var a Account
	err := row.Scan(&a.ID, &a.MemberID, &a.Name, &a.AccountNumber, &a.Balance,
		&a.IsDeleted, &a.CreateDate, &a.ModifyDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *pgAccounts) ListByMember(ctx context.Context, memberID int64, includeDeleted bool) ([]*Account, error) {
	rows, err := s.db.QueryContext(ctx, `
		select `+accountColumns+` from accounts
		where member_id=$1 and (is_deleted=false or $2)
		order by id
	`, memberID, includeDeleted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*Account
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.ID, &a.MemberID, &a.Name, &a.AccountNumber, &a.Balance,
			&a.IsDeleted, &a.CreateDate, &a.ModifyDate); err != nil {
			return nil, err
		}
		res = append(res, &a)
	}
	return res, rows.Err()
}

func (s *pgAccounts) Update(ctx context.Context, id int64, upd AccountUpdate) (*Account, error) {
	row := s.db.QueryRowContext(ctx, `
		update accounts set
			name           = coalesce($2, name),
			account_number = coalesce($3, account_number),
			modify_date    = now()
		where id=$1 and is_deleted=false
		returning `+accountColumns+`
	`, id, upd.Name, upd.AccountNumber)
	var a Account
	err := row.Scan(&a.ID, &a.MemberID, &a.Name, &a.AccountNumber, &a.Balance,
		&a.IsDeleted, &a.CreateDate, &a.ModifyDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *pgAccounts) SoftDelete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `
		update accounts set is_deleted=true, modify_date=now()
		where id=$1 and is_deleted=false
	`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *pgAccounts) Record(ctx context.Context, t *Transaction) error {
	if t.Amount <= 0 {
		return ErrInvalidAmount
	}
	if t.Kind != TxDeposit && t.Kind != TxWithdraw {
		return ErrInvalidInput
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	// Lock the account row while the balance moves.
	var balance int64
	err = tx.QueryRowContext(ctx, `
		select balance from accounts where id=$1 and is_deleted=false for update
	`, t.AccountID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	delta := t.Amount
	if t.Kind == TxWithdraw {
		if balance < t.Amount {
			return ErrInsufficientFunds
		}
		delta = -t.Amount
	}
	if _, err := tx.ExecContext(ctx, `
		update accounts set balance = balance + $2, modify_date=now() where id=$1
	`, t.AccountID, delta); err != nil {
		return err
	}
	if err := tx.QueryRowContext(ctx, `
		insert into transactions(account_id, kind, amount, memo)
		values ($1,$2,$3,$4)
		returning id, created_at
	`, t.AccountID, t.Kind, t.Amount, t.Memo).Scan(&t.ID, &t.CreatedAt); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *pgAccounts) Transactions(ctx context.Context, accountID int64, limit int) ([]*Transaction, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		select id, account_id, kind, amount, memo, created_at
		from transactions
		where account_id=$1
		order by id desc
		limit $2
	`, accountID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*Transaction
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.AccountID, &t.Kind, &t.Amount, &t.Memo, &t.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, &t)
	}
	return res, rows.Err()
}

// Assets ----------------------------------------------------------------

type pgAssets struct{ db *sql.DB }

const assetColumns = `id, member_id, name, kind, value, status, create_date, modify_date`

func (s *pgAssets) Create(ctx context.Context, a *Asset) error {
	if strings.TrimSpace(a.Name) == "" || a.MemberID <= 0 {
		return ErrInvalidInput
	}
	switch a.Kind {
	case AssetDeposit, AssetStock, AssetRealEstate:
	default:
		return ErrInvalidInput
	}
	a.Status = true
	return s.db.QueryRowContext(ctx, `
		insert into assets(member_id, name, kind, value, status)
		values ($1,$2,$3,$4,true)
		returning id, create_date, modify_date
	`, a.MemberID, a.Name, a.Kind, a.Value).
		Scan(&a.ID, &a.CreateDate, &a.ModifyDate)
}

func (s *pgAssets) Find(ctx context.Context, id int64, includeDeleted bool) (*Asset, error) {
	row := s.db.QueryRowContext(ctx, `
		select `+assetColumns+` from assets
		where id=$1 and (status=true or $2)
	`, id, includeDeleted)
	var a Asset
	err := row.Scan(&a.ID, &a.MemberID, &a.Name, &a.Kind, &a.Value,
		&a.Status, &a.CreateDate, &a.ModifyDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *pgAssets) ListByMember(ctx context.Context, memberID int64, includeDeleted bool) ([]*Asset, error) {
	rows, err := s.db.QueryContext(ctx, `
		select `+assetColumns+` from assets
		where member_id=$1 and (status=true or $2)
		order by id
	`, memberID, includeDeleted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*Asset
	for rows.Next() {
		var a Asset
		if err := rows.Scan(&a.ID, &a.MemberID, &a.Name, &a.Kind, &a.Value,
			&a.Status, &a.CreateDate, &a.ModifyDate); err != nil {
			return nil, err
		}
		res = append(res, &a)
	}
	return res, rows.Err()
}

func (s *pgAssets) Update(ctx context.Context, id int64, upd AssetUpdate) (*Asset, error) {
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
	row := s.db.QueryRowContext(ctx, `
		update assets set
			name        = coalesce($2, name),
			kind        = coalesce($3, kind),
			value       = coalesce($4, value),
			modify_date = now()
		where id=$1 and status=true
		returning `+assetColumns+`
	`, id, upd.Name, upd.Kind, upd.Value)
	var a Asset
	err := row.Scan(&a.ID, &a.MemberID, &a.Name, &a.Kind, &a.Value,
		&a.Status, &a.CreateDate, &a.ModifyDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *pgAssets) SoftDelete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `
		update assets set status=false, modify_date=now()
		where id=$1 and status=true
	`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Goals -----------------------------------------------------------------

type pgGoals struct{ db *sql.DB }

const goalColumns = `id, member_id, name, target_amount, current_amount, due_date, is_deleted, create_date, modify_date`

func (s *pgGoals) Create(ctx context.Context, g *Goal) error {
	if strings.TrimSpace(g.Name) == "" || g.MemberID <= 0 {
		return ErrInvalidInput
	}
	if g.TargetAmount <= 0 || g.CurrentAmount < 0 {
		return ErrInvalidAmount
	}
	return s.db.QueryRowContext(ctx, `
		insert into goals(member_id, name, target_amount, current_amount, due_date)
		values ($1,$2,$3,$4,$5)
		returning id, create_date, modify_date
	`, g.MemberID, g.Name, g.TargetAmount, g.CurrentAmount, g.DueDate).
		Scan(&g.ID, &g.CreateDate, &g.ModifyDate)
}

func (s *pgGoals) Find(ctx context.Context, id int64, includeDeleted bool) (*Goal, error) {
	row := s.db.QueryRowContext(ctx, `
		select `+goalColumns+` from goals
		where id=$1 and (is_deleted=false or $2)
	`, id, includeDeleted)
	return scanGoal(row)
}

func (s *pgGoals) ListByMember(ctx context.Context, memberID int64, includeDeleted bool) ([]*Goal, error) {
	rows, err := s.db.QueryContext(ctx, `
		select `+goalColumns+` from goals
		where member_id=$1 and (is_deleted=false or $2)
		order by id
	`, memberID, includeDeleted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*Goal
	for rows.Next() {
		var g Goal
		if err := rows.Scan(&g.ID, &g.MemberID, &g.Name, &g.TargetAmount, &g.CurrentAmount,
			&g.DueDate, &g.IsDeleted, &g.CreateDate, &g.ModifyDate); err != nil {
			return nil, err
		}
		res = append(res, &g)
	}
	return res, rows.Err()
}

func (s *pgGoals) Update(ctx context.Context, id int64, upd GoalUpdate) (*Goal, error) {
	if upd.TargetAmount != nil && *upd.TargetAmount <= 0 {
		return nil, ErrInvalidAmount
	}
	if upd.CurrentAmount != nil && *upd.CurrentAmount < 0 {
		return nil, ErrInvalidAmount
	}
	row := s.db.QueryRowContext(ctx, `
		update goals set
			name           = coalesce($2, name),
			target_amount  = coalesce($3, target_amount),
			current_amount = coalesce($4, current_amount),
			due_date       = coalesce($5, due_date),
			modify_date    = now()
		where id=$1 and is_deleted=false
		returning `+goalColumns+`
	`, id, upd.Name, upd.TargetAmount, upd.CurrentAmount, upd.DueDate)
	return scanGoal(row)
}

func (s *pgGoals) SoftDelete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `
		update goals set is_deleted=true, modify_date=now()
		where id=$1 and is_deleted=false
	`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func scanGoal(row *sql.Row) (*Goal, error) {
	var g Goal
	err := row.Scan(&g.ID, &g.MemberID, &g.Name, &g.TargetAmount, &g.CurrentAmount,
		&g.DueDate, &g.IsDeleted, &g.CreateDate, &g.ModifyDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// Notices ---------------------------------------------------------------

type pgNotices struct{ db *sql.DB }

const noticeColumns = `id, title, content, is_deleted, create_date, modify_date`

func (s *pgNotices) Create(ctx context.Context, n *Notice) error {
	if strings.TrimSpace(n.Title) == "" {
		return ErrInvalidInput
	}
	return s.db.QueryRowContext(ctx, `
		insert into notices(title, content)
		values ($1,$2)
		returning id, create_date, modify_date
	`, n.Title, n.Content).Scan(&n.ID, &n.CreateDate, &n.ModifyDate)
}

func (s *pgNotices) Find(ctx context.Context, id int64, includeDeleted bool) (*Notice, error) {
	row := s.db.QueryRowContext(ctx, `
		select `+noticeColumns+` from notices
		where id=$1 and (is_deleted=false or $2)
	`, id, includeDeleted)
	return scanNotice(row)
}

func (s *pgNotices) List(ctx context.Context, limit int, includeDeleted bool) ([]*Notice, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		select `+noticeColumns+` from notices
		where (is_deleted=false or $1)
		order by id desc
		limit $2
	`, includeDeleted, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*Notice
	for rows.Next() {
		var n Notice
		if err := rows.Scan(&n.ID, &n.Title, &n.Content, &n.IsDeleted, &n.CreateDate, &n.ModifyDate); err != nil {
			return nil, err
		}
		res = append(res, &n)
	}
	return res, rows.Err()
}

func (s *pgNotices) Update(ctx context.Context, id int64, upd NoticeUpdate) (*Notice, error) {
	row := s.db.QueryRowContext(ctx, `
		update notices set
			title       = coalesce($2, title),
			content     = coalesce($3, content),
			modify_date = now()
		where id=$1 and is_deleted=false
		returning `+noticeColumns+`
	`, id, upd.Title, upd.Content)
	return scanNotice(row)
}

func (s *pgNotices) SoftDelete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `
		update notices set is_deleted=true, modify_date=now()
		where id=$1 and is_deleted=false
	`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func scanNotice(row *sql.Row) (*Notice, error) {
	var n Notice
	err := row.Scan(&n.ID, &n.Title, &n.Content, &n.IsDeleted, &n.CreateDate, &n.ModifyDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}
