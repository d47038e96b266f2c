package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/rahulm/classtrack/internal/pkg/apperrors"
)

func testService(exp time.Duration) *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: exp,
		TokenIssuer:    "test",
	})
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := testService(time.Hour)

	token, expiresIn, err := svc.GenerateToken(42, "asha", "student")
	if err != nil {
		t.Fatal(err)
	}
	if expiresIn != 3600 {
		t.Errorf("expiresIn = %d, want 3600", expiresIn)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.UserID != 42 || claims.Username != "asha" || claims.Role != "student" {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestValidateTokenRejectsForeignSecret(t *testing.T) {
	token, _, err := testService(time.Hour).GenerateToken(1, "asha", "student")
	if err != nil {
		t.Fatal(err)
	}

	other := NewJWTService(JWTConfig{SecretKey: "other-secret", AccessTokenExp: time.Hour})
	if _, err := other.ValidateToken(token); !errors.Is(err, apperrors.ErrTokenInvalid) {
		t.Errorf("got %v, want ErrTokenInvalid", err)
	}
}

func TestValidateTokenExpired(t *testing.T) {
	svc := testService(-time.Minute)
	token, _, err := svc.GenerateToken(1, "asha", "student")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.ValidateToken(token); !errors.Is(err, apperrors.ErrTokenExpired) {
		t.Errorf("got %v, want ErrTokenExpired", err)
	}
}

func TestValidateTokenGarbage(t *testing.T) {
	svc := testService(time.Hour)
	for _, tok := range []string{"", "   ", "not.a.token"} {
		if _, err := svc.ValidateToken(tok); !errors.Is(err, apperrors.ErrTokenInvalid) {
			t.Errorf("token %q: got %v, want ErrTokenInvalid", tok, err)
		}
	}
}

func TestExtractBearerToken(t *testing.T) {
	if _, err := ExtractBearerToken(""); !errors.Is(err, apperrors.ErrTokenInvalid) {
		t.Errorf("empty header: got %v, want ErrTokenInvalid", err)
	}
	if tok, err := ExtractBearerToken("Bearer abc"); err != nil || tok != "abc" {
		t.Errorf("got (%q, %v), want (abc, nil)", tok, err)
	}
	// A bare token without the scheme is accepted as is.
	if tok, err := ExtractBearerToken("abc"); err != nil || tok != "abc" {
		t.Errorf("got (%q, %v), want (abc, nil)", tok, err)
	}
}
