package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestCheckPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := &User{PasswordHash: string(hash)}

	if !CheckPassword(u, "correct horse") {
		t.Fatal("matching password refused")
	}
	if CheckPassword(u, "wrong horse") {
		t.Fatal("wrong password accepted")
	}
	if CheckPassword(&User{}, "anything") {
		t.Fatal("empty hash accepted")
	}
}
