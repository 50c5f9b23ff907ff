package helpers_test

import (
	"testing"
	"time"

	"github.com/oksasatya/go-feed-service/pkg/helpers"
)

func TestJWTRoundTrip(t *testing.T) {
	m := helpers.NewJWTManager("secret", time.Hour)

	token, exp, err := m.Generate("user-1", "user-1@example.com")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if until := time.Until(exp); until < 59*time.Minute || until > time.Hour {
		t.Errorf("expiry %v not about an hour out", until)
	}

	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.UserID != "user-1" || claims.Email != "user-1@example.com" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestJWTParseRejects(t *testing.T) {
	m := helpers.NewJWTManager("secret", time.Hour)
	other := helpers.NewJWTManager("different", time.Hour)
	expired := helpers.NewJWTManager("secret", -time.Minute)

	otherToken, _, err := other.Generate("user-1", "a@b.c")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	expiredToken, _, err := expired.Generate("user-1", "a@b.c")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	for name, token := range map[string]string{
		"malformed":     "not.a.token",
		"wrong secret":  otherToken,
		"expired":       expiredToken,
		"empty":         "",
	} {
		if _, err := m.Parse(token); err == nil {
			t.Errorf("%s token accepted", name)
		}
	}
}
