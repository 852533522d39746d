package security_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/angelmondragon/tienda-backend/pkg/config"
	"github.com/angelmondragon/tienda-backend/pkg/security"
)

var testCfg = config.PasswordConfig{
	ArgonMemoryKB:    8192,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     16,
	ArgonKeyLen:      32,
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := security.HashPassword("Very-secure-password", testCfg)
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=8192,t=1,p=1$") {
		t.Fatalf("unexpected hash format %q", hash)
	}

	ok, err := security.VerifyPassword("Very-secure-password", hash)
	if err != nil || !ok {
		t.Fatalf("VerifyPassword failed for the correct password ok=%v err=%v", ok, err)
	}

	ok, err = security.VerifyPassword("bogus-password", hash)
	if err != nil {
		t.Fatalf("VerifyPassword returned error for invalid password: %v", err)
	}
	if ok {
		t.Fatal("VerifyPassword returned true for incorrect password")
	}
}

func TestHashPasswordSaltsEachHash(t *testing.T) {
	a, err := security.HashPassword("Same-password", testCfg)
	if err != nil {
		t.Fatalf("hash a: %v", err)
	}
	b, err := security.HashPassword("Same-password", testCfg)
	if err != nil {
		t.Fatalf("hash b: %v", err)
	}
	if a == b {
		t.Fatal("expected different salts to produce different hashes")
	}
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	if _, err := security.HashPassword("", testCfg); err == nil {
		t.Fatal("expected error for empty password")
	}
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	for _, encoded := range []string{
		"",
		"plain-text",
		"$bcrypt$v=19$m=8,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=8,t=0,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$garbage$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=8,t=1,p=1$***$aGFzaA",
	} {
		if _, err := security.VerifyPassword("x", encoded); !errors.Is(err, security.ErrInvalidHash) {
			t.Fatalf("expected ErrInvalidHash for %q, got %v", encoded, err)
		}
	}
}

func TestCheckPasswordPolicy(t *testing.T) {
	cases := map[string]bool{
		"Abcdefgh":  true,
		"abcdefgh":  false,
		"Abc":       false,
		"ñandúÑand": true,
	}
	for pw, valid := range cases {
		err := security.CheckPasswordPolicy(pw)
		if valid && err != nil {
			t.Fatalf("%q should be valid: %v", pw, err)
		}
		if !valid && !errors.Is(err, security.ErrWeakPassword) {
			t.Fatalf("%q should be rejected", pw)
		}
	}
}
