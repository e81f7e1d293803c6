package utils

import "testing"

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("admin123", 4)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "admin123" {
		t.Fatal("hash equals plaintext")
	}
	if !VerifyPassword(hash, "admin123") {
		t.Error("correct password rejected")
	}
	if VerifyPassword(hash, "admin124") {
		t.Error("wrong password accepted")
	}
}
