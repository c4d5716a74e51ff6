package member

import (
	"errors"
	"time"
)

// Member roles.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// Member is the identity root. Rows are never physically removed; IsDeleted
// marks logical deletion and is excluded from all normal lookups. Email
// uniqueness holds only among non-deleted members.
type Member struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone,omitempty"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	IsDeleted    bool      `json:"-"`
	CreateDate   time.Time `json:"create_date"`
	ModifyDate   time.Time `json:"modify_date"`
}

// Update carries optional profile mutations; nil fields are left untouched.
type Update struct {
	Name         *string
	Phone        *string
	PasswordHash *string
}

var (
	ErrNotFound     = errors.New("member: not found")
	ErrEmailTaken   = errors.New("member: email already registered")
	ErrInvalidInput = errors.New("member: invalid input")
)
