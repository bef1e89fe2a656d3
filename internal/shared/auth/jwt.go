// Package auth signs and verifies the HS256 tokens carried by signed-in dashboard users.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// Claims represents the identity contained in a JWT.
type Claims struct {
	Sub  string `json:"sub"`
	Name string `json:"name,omitempty"`
	Exp  int64  `json:"exp,omitempty"`
	Iat  int64  `json:"iat,omitempty"`
}

var (
	ErrMissingSecret = errors.New("jwt secret not configured")
	ErrInvalidToken  = errors.New("invalid token")
)

const (
	devSecret  = "dev-secret"
	defaultTTL = 24 * time.Hour
)

// Verifier signs and verifies tokens with one shared secret.
type Verifier struct {
	secret []byte
	now    func() time.Time
}

// NewVerifier returns a Verifier for secret. Outside production an empty secret falls
// back to a fixed development key.
func NewVerifier(secret, env string) (*Verifier, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		if env == "production" {
			return nil, ErrMissingSecret
		}
		secret = devSecret
	}
	return &Verifier{secret: []byte(secret), now: time.Now}, nil
}

// Sign issues a token for claims, filling in iat and a 24h exp when unset.
func (v *Verifier) Sign(claims Claims) (string, error) {
	if claims.Sub == "" {
		return "", errors.New("sub is required")
	}
	now := v.now().UTC().Unix()
	if claims.Iat == 0 {
		claims.Iat = now
	}
	if claims.Exp == 0 {
		claims.Exp = now + int64(defaultTTL/time.Second)
	}

	headerJSON, err := json.Marshal(map[string]string{"alg": "HS256", "typ": "JWT"})
	if err != nil {
		return "", err
	}
	payloadJSON, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}

	signingInput := base64.RawURLEncoding.EncodeToString(headerJSON) + "." +
		base64.RawURLEncoding.EncodeToString(payloadJSON)
	return signingInput + "." + v.sign(signingInput), nil
}

// Verify checks the signature and expiry of token and returns its claims.
func (v *Verifier) Verify(token string) (Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return Claims{}, ErrInvalidToken
	}

	expectedSig := v.sign(parts[0] + "." + parts[1])
	if !hmac.Equal([]byte(parts[2]), []byte(expectedSig)) {
		return Claims{}, ErrInvalidToken
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return Claims{}, ErrInvalidToken
	}
	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return Claims{}, ErrInvalidToken
	}
	if claims.Sub == "" {
		return Claims{}, ErrInvalidToken
	}
	if claims.Exp > 0 && v.now().UTC().Unix() > claims.Exp {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}

func (v *Verifier) sign(input string) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(input))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
