package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestNewAccessToken(t *testing.T) {
	secret := "test-secret"
	tok, err := NewAccessToken(secret, 42, "alice", "admin", 24)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	if tok.Token == "" {
		t.Fatal("empty token")
	}
	if until := time.Until(tok.Exp); until < 23*time.Hour || until > 25*time.Hour {
		t.Errorf("expiry %v away, want ~24h", until)
	}

	parsed, err := jwt.Parse(tok.Token, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("parse back: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["sub"].(float64) != 42 || claims["username"] != "alice" || claims["role"] != "admin" {
		t.Errorf("claims = %v", claims)
	}
}

func TestNewAccessTokenWrongSecret(t *testing.T) {
	tok, err := NewAccessToken("right", 1, "bob", "user", 1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := jwt.Parse(tok.Token, func(*jwt.Token) (any, error) {
		return []byte("wrong"), nil
	}); err == nil {
		t.Fatal("token verified with the wrong secret")
	}
}
