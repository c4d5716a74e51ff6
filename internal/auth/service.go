package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"finbook.org/internal/member"
)

const minPasswordLength = 8

// Service implements the session use-cases: sign-up, login, refresh and
// profile maintenance. It is the only writer to the credential store; the
// authentication gate uses it read-only.
type Service struct {
	members member.Store
	tokens  *Issuer
}

// NewService constructs the auth service.
func NewService(members member.Store, tokens *Issuer) (*Service, error) {
	if members == nil {
		return nil, errors.New("auth: member store is required")
	}
	if tokens == nil {
		return nil, errors.New("auth: token issuer is required")
	}
	return &Service{members: members, tokens: tokens}, nil
}

// Tokens exposes the configured issuer; the session carrier derives cookie
// lifetimes from its validity windows.
func (s *Service) Tokens() *Issuer { return s.tokens }

// TokenPair represents access and refresh tokens with their expirations.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// Signup registers a new member with the USER role.
func (s *Service) Signup(ctx context.Context, email, password, name, phone string) (*member.Member, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: valid email is required", member.ErrInvalidInput)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", member.ErrInvalidInput, minPasswordLength)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", member.ErrInvalidInput)
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	m := &member.Member{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Phone:        strings.TrimSpace(phone),
		Role:         member.RoleUser,
		IsActive:     true,
	}
	if err := s.members.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Login verifies credentials and mints a token pair. Every failure collapses
// to ErrInvalidCredentials so the response never reveals whether the email
// or the password was wrong.
func (s *Service) Login(ctx context.Context, email, password string) (TokenPair, *member.Member, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return TokenPair{}, nil, ErrInvalidCredentials
	}
	m, err := s.members.FindByEmail(ctx, email, false)
	if err != nil {
		if errors.Is(err, member.ErrNotFound) {
			return TokenPair{}, nil, ErrInvalidCredentials
		}
		return TokenPair{}, nil, err
	}
	if !m.IsActive {
		return TokenPair{}, nil, ErrInvalidCredentials
	}
	if err := VerifyPassword(m.PasswordHash, password); err != nil {
		return TokenPair{}, nil, ErrInvalidCredentials
	}
	pair, err := s.mintPair(m)
	if err != nil {
		return TokenPair{}, nil, err
	}
	return pair, m, nil
}

// Refresh validates a refresh token and mints a fresh pair. The refresh
// token is rotated on every use: the caller receives a new one alongside the
// new access token.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, *member.Member, error) {
	claims, err := s.tokens.Verify(refreshToken, TokenRefresh)
	if err != nil {
		return TokenPair{}, nil, err
	}
	id, err := claims.MemberID()
	if err != nil {
		return TokenPair{}, nil, err
	}
	m, err := s.members.FindByID(ctx, id, false)
	if err != nil {
		if errors.Is(err, member.ErrNotFound) {
			return TokenPair{}, nil, ErrUnauthenticated
		}
		return TokenPair{}, nil, err
	}
	if !m.IsActive {
		return TokenPair{}, nil, ErrUnauthenticated
	}
	pair, err := s.mintPair(m)
	if err != nil {
		return TokenPair{}, nil, err
	}
	return pair, m, nil
}

// ResolveIdentity verifies an access token and loads the member it names.
// The member must still be active and not deleted; a token outliving its
// subject does not authenticate.
func (s *Service) ResolveIdentity(ctx context.Context, accessToken string) (Identity, error) {
	claims, err := s.tokens.Verify(accessToken, TokenAccess)
	if err != nil {
		return Identity{}, err
	}
	id, err := claims.MemberID()
	if err != nil {
		return Identity{}, err
	}
	m, err := s.members.FindByID(ctx, id, false)
	if err != nil {
		if errors.Is(err, member.ErrNotFound) {
			return Identity{}, ErrUnauthenticated
		}
		return Identity{}, err
	}
	if !m.IsActive {
		return Identity{}, ErrUnauthenticated
	}
	return Identity{MemberID: m.ID, Role: m.Role}, nil
}

// ProfileUpdate carries optional profile mutations; a non-nil Password is
// hashed before it reaches the store.
type ProfileUpdate struct {
	Name     *string
	Phone    *string
	Password *string
}

// UpdateProfile mutates the member's own profile.
func (s *Service) UpdateProfile(ctx context.Context, memberID int64, upd ProfileUpdate) (*member.Member, error) {
	storeUpd := member.Update{Name: upd.Name, Phone: upd.Phone}
	if upd.Password != nil {
		if len(*upd.Password) < minPasswordLength {
			return nil, fmt.Errorf("%w: password must be at least %d characters", member.ErrInvalidInput, minPasswordLength)
		}
		hash, err := HashPassword(*upd.Password)
		if err != nil {
			return nil, err
		}
		storeUpd.PasswordHash = &hash
	}
	return s.members.Update(ctx, memberID, storeUpd)
}

// Deactivate soft-deletes the member. Already-issued tokens stay
// cryptographically valid until natural expiry, but the gate re-checks the
// member row on every request, so they stop authenticating immediately.
func (s *Service) Deactivate(ctx context.Context, memberID int64) error {
	return s.members.Deactivate(ctx, memberID)
}

// Member loads the member's own record for profile reads.
func (s *Service) Member(ctx context.Context, memberID int64) (*member.Member, error) {
	return s.members.FindByID(ctx, memberID, false)
}

func (s *Service) mintPair(m *member.Member) (TokenPair, error) {
	access, accessExp, err := s.tokens.Issue(m.ID, m.Role, TokenAccess)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, refreshExp, err := s.tokens.Issue(m.ID, m.Role, TokenRefresh)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}
