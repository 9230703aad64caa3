package util

import (
	"testing"
	"time"
)

func TestJWTRoundTrip(t *testing.T) {
	secret := "0123456789abcdef0123456789abcdef"

	token, err := GenerateJWT("ops-console", RoleAdmin, secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	claims, err := ParseJWT(token, secret)
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if claims.Subject != "ops-console" || claims.Role != RoleAdmin {
		t.Errorf("claims = %+v", claims)
	}
}

func TestParseJWTWrongSecret(t *testing.T) {
	token, err := GenerateJWT("ops-console", RoleAdmin, "secret-one-secret-one-secret-one", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	if _, err := ParseJWT(token, "secret-two-secret-two-secret-two"); err == nil {
		t.Error("wrong secret must fail verification")
	}
}

func TestParseJWTExpired(t *testing.T) {
	secret := "0123456789abcdef0123456789abcdef"
	token, err := GenerateJWT("ops-console", RoleAdmin, secret, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	if _, err := ParseJWT(token, secret); err == nil {
		t.Error("expired token must fail verification")
	}
}
