package auth

import (
	"errors"
	"testing"
	"time"
)

func TestSignAndVerify(t *testing.T) {
	v, err := NewVerifier("s3cret", "dev")
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}
	token, err := v.Sign(Claims{Sub: "user-1", Name: "Jane"})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	claims, err := v.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Sub != "user-1" || claims.Name != "Jane" || claims.Exp == 0 {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestVerifyRejectsForeignAndExpiredTokens(t *testing.T) {
	signer, _ := NewVerifier("one", "dev")
	other, _ := NewVerifier("two", "dev")

	token, err := signer.Sign(Claims{Sub: "user-1"})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if _, err := other.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for foreign secret, got %v", err)
	}

	signer.now = func() time.Time { return time.Now().Add(48 * time.Hour) }
	if _, err := signer.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}

	if _, err := signer.Verify("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for garbage, got %v", err)
	}
}

func TestNewVerifierRequiresSecretInProd(t *testing.T) {
	if _, err := NewVerifier("", "production"); !errors.Is(err, ErrMissingSecret) {
		t.Fatalf("expected ErrMissingSecret, got %v", err)
	}
	if _, err := NewVerifier("", "dev"); err != nil {
		t.Fatalf("expected dev fallback, got %v", err)
	}
}
