package jwt

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

func TestSignParse_RoundTrip(t *testing.T) {
	SetSecret("unit-test-secret")
	tok, err := Sign(42, "sess-1", time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	claims, err := Parse(tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != 42 || claims.SessionID != "sess-1" {
		t.Fatalf("claims=%+v", claims)
	}
}

func TestParse_Expired(t *testing.T) {
	SetSecret("unit-test-secret")
	tok, err := Sign(1, "s", -time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := Parse(tok); err == nil {
		t.Fatalf("expired token accepted")
	}
}

func TestParse_WrongSecret(t *testing.T) {
	SetSecret("first-secret")
	tok, err := Sign(1, "s", time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	SetSecret("second-secret")
	if _, err := Parse(tok); err == nil {
		t.Fatalf("token signed with another secret accepted")
	}
}

func TestParse_RejectsNoneAlg(t *testing.T) {
	tok := jwtlib.NewWithClaims(jwtlib.SigningMethodNone, Claims{UserID: 1, SessionID: "s"})
	raw, err := tok.SignedString(jwtlib.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := Parse(raw); err == nil {
		t.Fatalf("alg=none accepted")
	}
}
