package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"PatternPulse/internal/domain/models"
	drepo "PatternPulse/internal/domain/repository"
)

func TestMemoryStoreUserLookup(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	u := models.User{ID: "1", Email: "a@b.c", Phone: "919876543210"}
	if err := s.Add(ctx, u); err != nil {
		t.Fatalf("Add: %v", err)
	}

	for _, ident := range []string{"a@b.c", "919876543210"} {
		got, err := s.FindByIdentifier(ctx, ident)
		if err != nil {
			t.Fatalf("FindByIdentifier(%q): %v", ident, err)
		}
		if got.ID != "1" {
			t.Fatalf("found user %q, want 1", got.ID)
		}
	}

	if _, err := s.FindByIdentifier(ctx, "ghost"); !errors.Is(err, drepo.ErrNotFound) {
		t.Fatalf("missing user err = %v, want ErrNotFound", err)
	}

	u.WhatsAppVerified = true
	if err := s.Update(ctx, u); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := s.FindByID(ctx, "1")
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if !got.WhatsAppVerified {
		t.Fatal("update not persisted")
	}
}

func TestMemoryStoreSessionTTL(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	sess := models.Session{Token: "tok", UserID: "1"}
	if err := s.Put(ctx, sess, 20*time.Millisecond); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, err := s.Get(ctx, "tok"); err != nil {
		t.Fatalf("Get before expiry: %v", err)
	}

	time.Sleep(30 * time.Millisecond)
	if _, err := s.Get(ctx, "tok"); !errors.Is(err, drepo.ErrNotFound) {
		t.Fatalf("expired session err = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreOTPTTLAndDelete(t *testing.T) {
	s := NewMemoryStore()
	otps := s.OTP()
	ctx := context.Background()

	if err := otps.Put(ctx, "tok", "1234", 20*time.Millisecond); err != nil {
		t.Fatalf("Put: %v", err)
	}
	code, err := otps.Get(ctx, "tok")
	if err != nil || code != "1234" {
		t.Fatalf("Get = %q, %v", code, err)
	}

	if err := otps.Delete(ctx, "tok"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := otps.Get(ctx, "tok"); !errors.Is(err, drepo.ErrNotFound) {
		t.Fatalf("deleted otp err = %v, want ErrNotFound", err)
	}

	if err := otps.Put(ctx, "tok2", "5678", 10*time.Millisecond); err != nil {
		t.Fatalf("Put: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if _, err := otps.Get(ctx, "tok2"); !errors.Is(err, drepo.ErrNotFound) {
		t.Fatalf("expired otp err = %v, want ErrNotFound", err)
	}
}
