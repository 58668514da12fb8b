package utils

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("over-and-out")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPassword(hash, "over-and-out") {
		t.Fatal("expected password to match its hash")
	}
	if CheckPassword(hash, "wrong") {
		t.Fatal("expected mismatch for wrong password")
	}
	if CheckPassword("", "over-and-out") {
		t.Fatal("expected empty hash to never match")
	}
}
