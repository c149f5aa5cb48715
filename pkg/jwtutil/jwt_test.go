package jwtutil

import (
	"testing"
	"time"
)

func TestGenerateAndParse(t *testing.T) {
	secret := []byte("unit-secret")

	token, err := GenerateToken(secret, 42, time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := ParseToken(secret, token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("expected user 42, got %d", claims.UserID)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken([]byte("secret-a"), 1, time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := ParseToken([]byte("secret-b"), token); err == nil {
		t.Fatalf("token signed with another secret must be rejected")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	secret := []byte("unit-secret")
	token, err := GenerateToken(secret, 1, -time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := ParseToken(secret, token); err == nil {
		t.Fatalf("expired token must be rejected")
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := ParseToken([]byte("unit-secret"), "not-a-token"); err == nil {
		t.Fatalf("malformed token must be rejected")
	}
}
