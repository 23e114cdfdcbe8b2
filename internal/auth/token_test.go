package auth

import (
	"testing"
	"time"

	"tourbook/internal/api"
)

func TestIssueAndVerifyToken(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	secret := "test-secret"

	tok, err := IssueToken("user-1", "amina@example.com", api.RoleAdmin, secret, now)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	actor, err := VerifyToken(tok, secret, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if actor.ID != "user-1" || actor.Email != "amina@example.com" || actor.Role != api.RoleAdmin {
		t.Fatalf("unexpected actor: %+v", actor)
	}
}

func TestVerifyToken_Expired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tok, err := IssueToken("user-1", "", api.RoleCustomer, "s", now)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := VerifyToken(tok, "s", now.Add(13*time.Hour)); err == nil {
		t.Fatal("expected expired token to be refused")
	}
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	now := time.Now()
	tok, err := IssueToken("user-1", "", api.RoleCustomer, "s1", now)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := VerifyToken(tok, "s2", now); err == nil {
		t.Fatal("expected wrong-secret token to be refused")
	}
}

// A token with a role outside the known set must be refused outright, never
// mapped to a default role.
func TestParseRole_FailClosed(t *testing.T) {
	for _, s := range []string{"", "superuser", "Customer"} {
		if _, err := parseRole(s); err == nil {
			t.Fatalf("expected role %q to be refused", s)
		}
	}
}
