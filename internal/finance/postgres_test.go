package finance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGAccountsCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	store := NewPGStore(db)
	ctx := context.Background()

	now := time.Now().UTC()
	mock.ExpectQuery("insert into accounts").
		WithArgs(int64(1), "Checking", "110-2345", int64(50000)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "create_date", "modify_date"}).AddRow(int64(11), now, now))

	a := &Account{MemberID: 1, Name: "Checking", AccountNumber: "110-2345", Balance: 50000}
	if err := store.Accounts(ctx).Create(ctx, a); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if a.ID != 11 {
		t.Fatalf("unexpected id: %d", a.ID)
	}

	// Validation short-circuits before hitting the database.
	if err := store.Accounts(ctx).Create(ctx, &Account{MemberID: 1, Name: " "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPGAccountsRecordWithdraw(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	store := NewPGStore(db)
	ctx := context.Background()

	now := time.Now().UTC()
	mock.ExpectBegin()
	mock.ExpectQuery("select balance from accounts").
		WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(int64(10000)))
	mock.ExpectExec("update accounts set balance").
		WithArgs(int64(11), int64(-4000)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("insert into transactions").
		WithArgs(int64(11), TxWithdraw, int64(4000), "rent").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(77), now))
	mock.ExpectCommit()

	tr := &Transaction{AccountID: 11, Kind: TxWithdraw, Amount: 4000, Memo: "rent"}
	if err := store.Accounts(ctx).Record(ctx, tr); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if tr.ID != 77 {
		t.Fatalf("unexpected transaction id: %d", tr.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPGAccountsRecordInsufficientFunds(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	store := NewPGStore(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery("select balance from accounts").
		WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(int64(100)))
	mock.ExpectRollback()

	tr := &Transaction{AccountID: 11, Kind: TxWithdraw, Amount: 4000}
	if err := store.Accounts(ctx).Record(ctx, tr); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPGAccountsSoftDelete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	store := NewPGStore(db)
	ctx := context.Background()

	mock.ExpectExec("update accounts set is_deleted=true").
		WithArgs(int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	if err := store.Accounts(ctx).SoftDelete(ctx, 11); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}

	mock.ExpectExec("update accounts set is_deleted=true").
		WithArgs(int64(12)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	if err := store.Accounts(ctx).SoftDelete(ctx, 12); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPGNoticesList(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	store := NewPGStore(db)
	ctx := context.Background()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "title", "content", "is_deleted", "create_date", "modify_date"}).
		AddRow(int64(2), "Maintenance window", "details", false, now, now).
		AddRow(int64(1), "Welcome", "hello", false, now, now)
	mock.ExpectQuery("select (.+) from notices").
		WithArgs(false, 10).
		WillReturnRows(rows)

	list, err := store.Notices(ctx).List(ctx, 10, false)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].Title != "Maintenance window" {
		t.Fatalf("unexpected list: %+v", list)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
