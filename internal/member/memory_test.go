package member

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestInMemoryCreateAndFind(t *testing.T) {
	store := NewInMemory()
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return fixed })
	ctx := context.Background()

	m := &Member{Email: "  Alice@Example.com ", PasswordHash: "hash", Name: "Alice", Role: RoleUser, IsActive: true}
	if err := store.Create(ctx, m); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if m.ID == 0 {
		t.Fatalf("expected assigned id")
	}
	if m.Email != "alice@example.com" {
		t.Fatalf("email not normalized: %s", m.Email)
	}
	if !m.CreateDate.Equal(fixed) {
		t.Fatalf("unexpected create date: %v", m.CreateDate)
	}

	byID, err := store.FindByID(ctx, m.ID, false)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if byID.Email != "alice@example.com" {
		t.Fatalf("unexpected member: %+v", byID)
	}

	byEmail, err := store.FindByEmail(ctx, "ALICE@example.com", false)
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if byEmail.ID != m.ID {
		t.Fatalf("unexpected member id: %d", byEmail.ID)
	}

	// Returned values are copies; mutating them must not leak into the store.
	byID.Name = "mutated"
	again, err := store.FindByID(ctx, m.ID, false)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if again.Name != "Alice" {
		t.Fatalf("store leaked internal state: %s", again.Name)
	}
}

func TestInMemoryEmailUniqueness(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()

	first := &Member{Email: "dup@example.com", PasswordHash: "h", Name: "First", Role: RoleUser, IsActive: true}
	if err := store.Create(ctx, first); err != nil {
		t.Fatalf("Create: %v", err)
	}
	second := &Member{Email: "dup@example.com", PasswordHash: "h", Name: "Second", Role: RoleUser, IsActive: true}
	if err := store.Create(ctx, second); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	// The address frees up once the holder is soft-deleted.
	if err := store.Deactivate(ctx, first.ID); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	if err := store.Create(ctx, second); err != nil {
		t.Fatalf("Create after deactivate: %v", err)
	}
}

func TestInMemoryDeactivate(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()

	m := &Member{Email: "gone@example.com", PasswordHash: "h", Name: "Gone", Role: RoleUser, IsActive: true}
	if err := store.Create(ctx, m); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := store.Deactivate(ctx, m.ID); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}

	if _, err := store.FindByID(ctx, m.ID, false); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	kept, err := store.FindByID(ctx, m.ID, true)
	if err != nil {
		t.Fatalf("FindByID includeDeleted: %v", err)
	}
	if !kept.IsDeleted || kept.IsActive {
		t.Fatalf("unexpected flags: %+v", kept)
	}

	if err := store.Deactivate(ctx, m.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second deactivate: expected ErrNotFound, got %v", err)
	}
	if err := store.Deactivate(ctx, 9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown id: expected ErrNotFound, got %v", err)
	}
}

func TestInMemoryUpdate(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()

	m := &Member{Email: "upd@example.com", PasswordHash: "old-hash", Name: "Old", Phone: "111", Role: RoleUser, IsActive: true}
	if err := store.Create(ctx, m); err != nil {
		t.Fatalf("Create: %v", err)
	}

	name := "  New Name  "
	got, err := store.Update(ctx, m.ID, Update{Name: &name})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Name != "New Name" {
		t.Fatalf("name not trimmed: %q", got.Name)
	}
	if got.Phone != "111" {
		t.Fatalf("untouched field changed: %q", got.Phone)
	}

	if _, err := store.Update(ctx, 9999, Update{Name: &name}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestInMemoryExistsActive(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()

	ok, err := store.ExistsActive(ctx, "nobody@example.com")
	if err != nil || ok {
		t.Fatalf("expected false for unknown email, got ok=%v err=%v", ok, err)
	}

	m := &Member{Email: "live@example.com", PasswordHash: "h", Name: "Live", Role: RoleUser, IsActive: true}
	if err := store.Create(ctx, m); err != nil {
		t.Fatalf("Create: %v", err)
	}
	ok, err = store.ExistsActive(ctx, "live@example.com")
	if err != nil || !ok {
		t.Fatalf("expected true, got ok=%v err=%v", ok, err)
	}
}
