package member

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func memberRows(t *testing.T, m Member) *sqlmock.Rows {
	t.Helper()
	return sqlmock.NewRows([]string{
		"id", "email", "password_hash", "name", "phone", "role",
		"is_active", "is_deleted", "create_date", "modify_date",
	}).AddRow(m.ID, m.Email, m.PasswordHash, m.Name, m.Phone, m.Role,
		m.IsActive, m.IsDeleted, m.CreateDate, m.ModifyDate)
}

func TestPGStoreCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	store := NewPGStore(db)

	now := time.Now().UTC()
	mock.ExpectQuery("insert into members").
		WithArgs("new@example.com", "hash", "New", "", RoleUser, true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "create_date", "modify_date"}).AddRow(int64(5), now, now))

	m := &Member{Email: "New@Example.com", PasswordHash: "hash", Name: "New", Role: RoleUser, IsActive: true}
	if err := store.Create(context.Background(), m); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if m.ID != 5 {
		t.Fatalf("unexpected id: %d", m.ID)
	}
	if m.Email != "new@example.com" {
		t.Fatalf("email not normalized: %s", m.Email)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPGStoreCreateDuplicateEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	store := NewPGStore(db)

	mock.ExpectQuery("insert into members").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "members_email_live_uq"})

	m := &Member{Email: "dup@example.com", PasswordHash: "hash", Name: "Dup", Role: RoleUser, IsActive: true}
	if err := store.Create(context.Background(), m); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPGStoreFindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	store := NewPGStore(db)

	now := time.Now().UTC()
	want := Member{ID: 7, Email: "a@example.com", PasswordHash: "h", Name: "A", Role: RoleUser,
		IsActive: true, CreateDate: now, ModifyDate: now}
	mock.ExpectQuery("select (.+) from members").
		WithArgs(int64(7), false).
		WillReturnRows(memberRows(t, want))

	got, err := store.FindByID(context.Background(), 7, false)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.ID != 7 || got.Email != "a@example.com" {
		t.Fatalf("unexpected member: %+v", got)
	}

	mock.ExpectQuery("select (.+) from members").
		WithArgs(int64(8), false).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if _, err := store.FindByID(context.Background(), 8, false); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPGStoreUpdate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	store := NewPGStore(db)

	now := time.Now().UTC()
	name := " Renamed "
	want := Member{ID: 3, Email: "u@example.com", PasswordHash: "h", Name: "Renamed", Role: RoleUser,
		IsActive: true, CreateDate: now, ModifyDate: now}
	mock.ExpectQuery("update members set").
		WithArgs(int64(3), "Renamed", nil, nil).
		WillReturnRows(memberRows(t, want))

	got, err := store.Update(context.Background(), 3, Update{Name: &name})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Name != "Renamed" {
		t.Fatalf("unexpected name: %s", got.Name)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPGStoreDeactivate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	store := NewPGStore(db)

	mock.ExpectExec("update members set is_active=false").
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	if err := store.Deactivate(context.Background(), 4); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}

	mock.ExpectExec("update members set is_active=false").
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	if err := store.Deactivate(context.Background(), 5); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
