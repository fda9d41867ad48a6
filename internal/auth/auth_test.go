package auth

import (
	"testing"
	"time"

	"patrimonio/internal/models"
)

func TestSessionLifecycle(t *testing.T) {
	manager := NewManager(time.Hour)
	session, err := manager.Issue(models.User{ID: 1, Email: "admin@local"})
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}
	if session.Token == "" {
		t.Fatalf("expected a token to be generated")
	}

	found, ok := manager.Validate(session.Token)
	if !ok || found.User.ID != 1 {
		t.Fatalf("expected session to validate, got ok=%v", ok)
	}

	manager.Revoke(session.Token)
	if _, ok := manager.Validate(session.Token); ok {
		t.Fatalf("expected revoked session to be invalid")
	}
}

func TestSessionExpiry(t *testing.T) {
	manager := NewManager(time.Hour)
	session, err := manager.Issue(models.User{ID: 2})
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}
	session.ExpiresAt = time.Now().Add(-time.Minute)
	if _, ok := manager.Validate(session.Token); ok {
		t.Fatalf("expected expired session to be invalid")
	}
}
