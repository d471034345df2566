package api

import (
	"testing"
	"time"
)

func TestAuthenticatorMintAndValidate(t *testing.T) {
	auth, err := NewAuthenticator([]byte("test-secret"), "cloak-api", time.Hour)
	if err != nil {
		t.Fatalf("NewAuthenticator: %v", err)
	}

	token, expires, err := auth.Mint("cli", "transforms", time.Minute)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	if time.Until(expires) > 2*time.Minute {
		t.Fatalf("unexpected expiry: %v", expires)
	}

	claims, err := auth.Validate(token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if claims.Subject != "cli" {
		t.Fatalf("unexpected subject: %q", claims.Subject)
	}
	if claims.Audience != "transforms" {
		t.Fatalf("unexpected audience: %q", claims.Audience)
	}
	if claims.ID == "" {
		t.Fatal("expected a token id")
	}
}

func TestAuthenticatorRejectsBadTokens(t *testing.T) {
	auth, err := NewAuthenticator([]byte("test-secret"), "cloak-api", time.Hour)
	if err != nil {
		t.Fatalf("NewAuthenticator: %v", err)
	}

	if _, err := auth.Validate(""); err == nil {
		t.Fatal("expected error for empty token")
	}
	if _, err := auth.Validate("not.a.jwt"); err == nil {
		t.Fatal("expected error for malformed token")
	}

	// Token minted with a different secret must not validate.
	other, err := NewAuthenticator([]byte("other-secret"), "cloak-api", time.Hour)
	if err != nil {
		t.Fatalf("NewAuthenticator: %v", err)
	}
	token, _, err := other.Mint("cli", "", 0)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	if _, err := auth.Validate(token); err == nil {
		t.Fatal("expected error for token signed with wrong secret")
	}

	// Token minted by a different issuer must not validate.
	foreign, err := NewAuthenticator([]byte("test-secret"), "someone-else", time.Hour)
	if err != nil {
		t.Fatalf("NewAuthenticator: %v", err)
	}
	token, _, err = foreign.Mint("cli", "", 0)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	if _, err := auth.Validate(token); err == nil {
		t.Fatal("expected error for wrong issuer")
	}
}

func TestAuthenticatorRequiresSubject(t *testing.T) {
	auth, err := NewAuthenticator([]byte("test-secret"), "cloak-api", time.Hour)
	if err != nil {
		t.Fatalf("NewAuthenticator: %v", err)
	}
	if _, _, err := auth.Mint("  ", "", 0); err == nil {
		t.Fatal("expected error for blank subject")
	}
}

func TestNewAuthenticatorValidation(t *testing.T) {
	if _, err := NewAuthenticator(nil, "issuer", time.Hour); err == nil {
		t.Fatal("expected error for empty secret")
	}
	if _, err := NewAuthenticator([]byte("secret"), " ", time.Hour); err == nil {
		t.Fatal("expected error for blank issuer")
	}
}
