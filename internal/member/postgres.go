package member

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

const uniqueViolation = "23505"

// PGStore implements Store using PostgreSQL.
type PGStore struct {
	db *sql.DB
}

var _ Store = (*PGStore)(nil)

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

const memberColumns = `id, email, password_hash, name, phone, role, is_active, is_deleted, create_date, modify_date`

func (s *PGStore) Create(ctx context.Context, m *Member) error {
	email := normalizeEmail(m.Email)
	if email == "" {
		return ErrInvalidInput
	}
	err := s.db.QueryRowContext(ctx, `
		insert into members(email, password_hash, name, phone, role, is_active)
		values ($1,$2,$3,$4,$5,$6)
		returning id, create_date, modify_date
	`, email, m.PasswordHash, m.Name, m.Phone, m.Role, m.IsActive).
		Scan(&m.ID, &m.CreateDate, &m.ModifyDate)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrEmailTaken
		}
		return err
	}
	m.Email = email
	return nil
}

func (s *PGStore) FindByID(ctx context.Context, id int64, includeDeleted bool) (*Member, error) {
	row := s.db.QueryRowContext(ctx, `
		select `+memberColumns+` from members
		where id=$1 and (is_deleted=false or $2)
	`, id, includeDeleted)
	return scanMember(row)
}

func (s *PGStore) FindByEmail(ctx context.Context, email string, includeDeleted bool) (*Member, error) {
	row := s.db.QueryRowContext(ctx, `
		select `+memberColumns+` from members
		where email=$1 and (is_deleted=false or $2)
	`, normalizeEmail(email), includeDeleted)
	return scanMember(row)
}

func (s *PGStore) ExistsActive(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		select exists(
			select 1 from members
			where email=$1 and is_deleted=false and is_active=true
		)
	`, normalizeEmail(email)).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (s *PGStore) Update(ctx context.Context, id int64, upd Update) (*Member, error) {
	if upd.Name != nil {
		trimmed := strings.TrimSpace(*upd.Name)
		upd.Name = &trimmed
	}
	if upd.Phone != nil {
		trimmed := strings.TrimSpace(*upd.Phone)
		upd.Phone = &trimmed
	}
	row := s.db.QueryRowContext(ctx, `
		update members set
			name          = coalesce($2, name),
			phone         = coalesce($3, phone),
			password_hash = coalesce($4, password_hash),
			modify_date   = now()
		where id=$1 and is_deleted=false
		returning `+memberColumns+`
	`, id, upd.Name, upd.Phone, upd.PasswordHash)
	return scanMember(row)
}

func (s *PGStore) Deactivate(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `
		update members set is_active=false, is_deleted=true, modify_date=now()
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMember(row rowScanner) (*Member, error) {
	var m Member
	err := row.Scan(&m.ID, &m.Email, &m.PasswordHash, &m.Name, &m.Phone, &m.Role,
		&m.IsActive, &m.IsDeleted, &m.CreateDate, &m.ModifyDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}
