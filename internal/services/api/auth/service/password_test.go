package service

import "testing"

func TestHashPassword_SaltedAndVerifiable(t *testing.T) {
	t.Parallel()

	h1, err := HashPassword("p@ss1234")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	h2, err := HashPassword("p@ss1234")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if h1 == h2 {
		t.Fatalf("expected distinct hashes for the same input")
	}
	if !VerifyPassword("p@ss1234", h1) || !VerifyPassword("p@ss1234", h2) {
		t.Fatalf("both hashes should verify against the original secret")
	}
}

func TestVerifyPassword_MismatchAndMalformed(t *testing.T) {
	t.Parallel()

	h, err := HashPassword("correct-horse")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if VerifyPassword("battery-staple", h) {
		t.Fatalf("wrong secret must not verify")
	}
	// malformed hashes verify false, never panic
	if VerifyPassword("anything", "not-a-bcrypt-hash") {
		t.Fatalf("malformed hash must not verify")
	}
	if VerifyPassword("anything", "") {
		t.Fatalf("empty hash must not verify")
	}
}
