package auth

import (
	"strings"
	"testing"
)

func TestHashAndCheckPassword(t *testing.T) {
	digest, err := HashPassword("secret123", 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if digest == "secret123" {
		t.Fatal("digest must not equal the plaintext")
	}
	if !strings.HasPrefix(digest, "$2") {
		t.Errorf("unexpected digest format: %s", digest)
	}

	if !CheckPassword(digest, "secret123") {
		t.Error("correct password rejected")
	}
	if CheckPassword(digest, "secret124") {
		t.Error("wrong password accepted")
	}
	if CheckPassword(digest, "") {
		t.Error("empty password accepted")
	}
}

func TestHashPasswordDefaultCost(t *testing.T) {
	digest, err := HashPassword("secret123", 0)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPassword(digest, "secret123") {
		t.Error("round trip failed at default cost")
	}
}

func TestCheckPasswordGarbageDigest(t *testing.T) {
	if CheckPassword("not-a-bcrypt-digest", "secret123") {
		t.Error("garbage digest accepted")
	}
}
