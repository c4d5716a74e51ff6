package finance

import (
	"errors"
	"time"
)

// Asset kinds.
const (
	AssetDeposit    = "deposit"
	AssetStock      = "stock"
	AssetRealEstate = "real_estate"
)

// Transaction kinds.
const (
	TxDeposit  = "deposit"
	TxWithdraw = "withdraw"
)

// Account is owned by exactly one member. Balance is a signed integer in the
// smallest currency unit; no floats.
type Account struct {
	ID            int64     `json:"id"`
	MemberID      int64     `json:"member_id"`
	Name          string    `json:"name"`
	AccountNumber string    `json:"account_number"`
	Balance       int64     `json:"balance"`
	IsDeleted     bool      `json:"-"`
	CreateDate    time.Time `json:"create_date"`
	ModifyDate    time.Time `json:"modify_date"`
}

// Asset is a valued holding owned directly by a member. Status false marks
// logical deletion, mirroring the account soft-delete flag.
type Asset struct {
	ID         int64     `json:"id"`
	MemberID   int64     `json:"member_id"`
	Name       string    `json:"name"`
	Kind       string    `json:"kind"`
	Value      int64     `json:"value"`
	Status     bool      `json:"-"`
	CreateDate time.Time `json:"create_date"`
	ModifyDate time.Time `json:"modify_date"`
}

// Goal is a savings target owned by a member.
type Goal struct {
	ID            int64     `json:"id"`
	MemberID      int64     `json:"member_id"`
	Name          string    `json:"name"`
	TargetAmount  int64     `json:"target_amount"`
	CurrentAmount int64     `json:"current_amount"`
	DueDate       time.Time `json:"due_date"`
	IsDeleted     bool      `json:"-"`
	CreateDate    time.Time `json:"create_date"`
	ModifyDate    time.Time `json:"modify_date"`
}

// Transaction records a single deposit or withdrawal against an account.
// Recording adjusts the account balance atomically.
type Transaction struct {
	ID        int64     `json:"id"`
	AccountID int64     `json:"account_id"`
	Kind      string    `json:"kind"`
	Amount    int64     `json:"amount"`
	Memo      string    `json:"memo,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Notice is a site-wide announcement; readable by any authenticated member,
// writable by administrators only.
type Notice struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	IsDeleted  bool      `json:"-"`
	CreateDate time.Time `json:"create_date"`
	ModifyDate time.Time `json:"modify_date"`
}

var (
	ErrNotFound          = errors.New("finance: not found")
	ErrInvalidInput      = errors.New("finance: invalid input")
	ErrInvalidAmount     = errors.New("finance: amount must be > 0")
	ErrInsufficientFunds = errors.New("finance: insufficient funds")
)

// AccountUpdate carries optional account mutations.
type AccountUpdate struct {
	Name          *string
	AccountNumber *string
}

// AssetUpdate carries optional asset mutations.
type AssetUpdate struct {
	Name  *string
	Kind  *string
	Value *int64
}

// GoalUpdate carries optional goal mutations.
type GoalUpdate struct {
	Name          *string
	TargetAmount  *int64
	CurrentAmount *int64
	DueDate       *time.Time
}

// NoticeUpdate carries optional notice mutations.
type NoticeUpdate struct {
	Title   *string
	Content *string
}
