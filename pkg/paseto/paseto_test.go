package pasetotoken

import (
	"errors"
	"testing"
	"time"
)

func newTestManager(t *testing.T, ttl time.Duration) *Manager {
	t.Helper()

	m, err := New(Config{
		Mode:       ModeLocal,
		Issuer:     "nabh",
		Audience:   "nabh-clients",
		SessionTTL: ttl,
	}, NewLocalKeys())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m
}

func TestIssueAndVerify(t *testing.T) {
	m := newTestManager(t, time.Hour)

	tok, err := m.Issue("64f1c0ffee0000000000abcd", "doctor")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := m.Verify(tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.UserID != "64f1c0ffee0000000000abcd" {
		t.Errorf("UserID = %q", claims.UserID)
	}
	if claims.Role != "doctor" {
		t.Errorf("Role = %q", claims.Role)
	}
	if claims.Subject != claims.UserID {
		t.Errorf("Subject = %q, want user id", claims.Subject)
	}
	if claims.IsExpired() {
		t.Error("fresh token reported expired")
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	m := newTestManager(t, time.Millisecond)

	tok, err := m.Issue("64f1c0ffee0000000000abcd", "patient")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	time.Sleep(5 * time.Millisecond)

	_, err = m.Verify(tok)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("want ErrTokenExpired, got %v", err)
	}
}

func TestVerifyGarbageToken(t *testing.T) {
	m := newTestManager(t, time.Hour)

	_, err := m.Verify("v4.local.not-a-real-token")
	var invalid ErrInvalidToken
	if !errors.As(err, &invalid) {
		t.Fatalf("want ErrInvalidToken, got %v", err)
	}
}

func TestVerifyWrongKey(t *testing.T) {
	m := newTestManager(t, time.Hour)
	other := newTestManager(t, time.Hour)

	tok, err := m.Issue("64f1c0ffee0000000000abcd", "pharmacy")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	_, err = other.Verify(tok)
	var invalid ErrInvalidToken
	if !errors.As(err, &invalid) {
		t.Fatalf("want ErrInvalidToken, got %v", err)
	}
}

func TestModeMismatchRejected(t *testing.T) {
	_, err := New(Config{
		Mode:     ModePublic,
		Issuer:   "nabh",
		Audience: "nabh-clients",
	}, NewLocalKeys())
	if err == nil {
		t.Fatal("mode mismatch accepted")
	}
}
