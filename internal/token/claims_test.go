package token

import (
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestParse_ValidToken(t *testing.T) {
	exp := time.Now().Add(time.Hour).Unix()
	raw := signToken(t, jwt.MapClaims{"sub": "u1", "role": "admin", "exp": exp})

	claims, err := Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "u1" || claims.Role != "admin" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.ExpiresAt.Unix() != exp {
		t.Fatalf("expected exp %d, got %d", exp, claims.ExpiresAt.Unix())
	}
}

func TestParse_MalformedInputs(t *testing.T) {
	notJSON := base64.RawURLEncoding.EncodeToString([]byte("not json"))
	cases := map[string]string{
		"empty":          "",
		"whitespace":     "   ",
		"no dots":        "abcdef",
		"two segments":   "aaaa.bbbb",
		"bad base64":     "aaaa.!!!.cccc",
		"payload no json": "aaaa." + notJSON + ".cccc",
	}
	for name, raw := range cases {
		if _, err := Parse(raw); !errors.Is(err, ErrTokenMalformed) {
			t.Fatalf("%s: expected ErrTokenMalformed, got %v", name, err)
		}
	}
}

func TestParse_MissingExp(t *testing.T) {
	raw := signToken(t, jwt.MapClaims{"sub": "u1", "role": "admin"})
	if _, err := Parse(raw); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed for missing exp, got %v", err)
	}
}

func TestClaims_Expired(t *testing.T) {
	now := time.Unix(1_000_000, 0)

	past := Claims{ExpiresAt: now.Add(-10 * time.Second)}
	if !past.Expired(now) {
		t.Fatalf("expected past token to be expired")
	}

	// El límite cuenta como expirado: now >= expiry.
	boundary := Claims{ExpiresAt: now}
	if !boundary.Expired(now) {
		t.Fatalf("expected boundary token to be expired")
	}

	future := Claims{ExpiresAt: now.Add(time.Hour)}
	if future.Expired(now) {
		t.Fatalf("expected future token to be valid")
	}
}

func TestClaims_IsAdmin(t *testing.T) {
	if !(Claims{Role: "admin"}).IsAdmin() {
		t.Fatalf("expected admin role to be admin")
	}
	if (Claims{Role: "user"}).IsAdmin() {
		t.Fatalf("expected user role to not be admin")
	}
	if (Claims{}).IsAdmin() {
		t.Fatalf("expected empty role to not be admin")
	}
}
