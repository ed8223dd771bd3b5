package helpers

import (
	"errors"
	"testing"
	"time"
)

func testJWT() *JWTManager {
	return NewJWTManager("access-secret", "refresh-secret", time.Hour, 24*time.Hour)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	t.Parallel()
	m := testJWT()

	token, exp, err := m.GenerateAccessToken("user-1", "sid-1")
	if err != nil {
		t.Fatal(err)
	}
	if time.Until(exp) < 59*time.Minute {
		t.Fatalf("expiry too soon: %v", exp)
	}

	claims, err := m.ParseAccessToken(token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.UserID != "user-1" || claims.SessionID != "sid-1" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestRefreshTokenNotValidAsAccess(t *testing.T) {
	t.Parallel()
	m := testJWT()

	refresh, _, err := m.GenerateRefreshToken("user-1", "sid-1")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.ParseAccessToken(refresh); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("refresh token accepted as access token: %v", err)
	}
	if _, err := m.ParseRefreshToken(refresh); err != nil {
		t.Fatalf("refresh token rejected by refresh parser: %v", err)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	t.Parallel()
	m := testJWT()

	token, _, err := m.GenerateWithTTL("user-1", -time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.ParseAccessToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expired token err = %v, want ErrInvalidToken", err)
	}
}

func TestWrongSecretRejected(t *testing.T) {
	t.Parallel()

	token, _, err := testJWT().GenerateAccessToken("user-1", "")
	if err != nil {
		t.Fatal(err)
	}
	other := NewJWTManager("different-secret", "refresh-secret", time.Hour, 24*time.Hour)
	if _, err := other.ParseAccessToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("cross-secret token err = %v, want ErrInvalidToken", err)
	}
}

func TestMalformedTokenRejected(t *testing.T) {
	t.Parallel()
	m := testJWT()

	for _, tok := range []string{"", "garbage", "a.b.c"} {
		if _, err := m.ParseAccessToken(tok); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("token %q err = %v, want ErrInvalidToken", tok, err)
		}
	}
}

func TestGenerateWithTTLHasNoSession(t *testing.T) {
	t.Parallel()
	m := testJWT()

	token, _, err := m.GenerateWithTTL("user-1", time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	claims, err := m.ParseAccessToken(token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.SessionID != "" {
		t.Fatalf("API token carries a session id: %q", claims.SessionID)
	}
}
