package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-key-min-32-chars-long-1234567890"

func TestGenerateToken(t *testing.T) {
	tok, err := GenerateToken("u-123", "tech@city.tn", "TECHNICIEN", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	if tok.AccessToken == "" {
		t.Fatal("Access token is empty")
	}
	if time.Until(tok.ExpiresAt) < 59*time.Minute {
		t.Errorf("unexpected expiry %v", tok.ExpiresAt)
	}

	claims, err := ValidateJWT(tok.AccessToken, testSecret)
	if err != nil {
		t.Fatalf("Failed to validate generated token: %v", err)
	}
	if claims.Subject != "u-123" {
		t.Errorf("Expected subject 'u-123', got '%s'", claims.Subject)
	}
	if claims.Email != "tech@city.tn" || claims.Role != "TECHNICIEN" {
		t.Errorf("unexpected claims %+v", claims)
	}
	if claims.Issuer != Issuer {
		t.Errorf("Expected issuer %q, got %q", Issuer, claims.Issuer)
	}
}

func TestGenerateToken_WeakSecret(t *testing.T) {
	if _, err := GenerateToken("u", "e", "ADMIN", "short", time.Hour); !errors.Is(err, ErrWeakKey) {
		t.Errorf("Expected ErrWeakKey, got %v", err)
	}
}

func TestValidateJWT_Rejects(t *testing.T) {
	valid, _ := GenerateToken("u-1", "a@b.c", "ADMIN", testSecret, time.Hour)
	expired, _ := GenerateToken("u-1", "a@b.c", "ADMIN", testSecret, -time.Minute)

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, &CustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u-1",
			Issuer:    "someone-else",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	foreignStr, _ := foreign.SignedString([]byte(testSecret))

	noneAlg := jwt.NewWithClaims(jwt.SigningMethodNone, &CustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u-1", Issuer: Issuer},
	})
	noneStr, _ := noneAlg.SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name   string
		token  string
		secret string
	}{
		{"wrong secret", valid.AccessToken, testSecret + "x"},
		{"expired", expired.AccessToken, testSecret},
		{"foreign issuer", foreignStr, testSecret},
		{"none algorithm", noneStr, testSecret},
		{"garbage", "not.a.token", testSecret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ValidateJWT(tt.token, tt.secret); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}
