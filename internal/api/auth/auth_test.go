package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var secret = []byte("test-secret")

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken("acc-1", "alice@example.com", time.Now().Add(time.Hour), secret)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	claims, err := ParseAccessToken(token, secret)
	if err != nil {
		t.Fatalf("ParseAccessToken failed: %v", err)
	}
	if claims.Subject != "acc-1" || claims.Email != "alice@example.com" || claims.Issuer != Issuer {
		t.Errorf("unexpected claims %+v", claims)
	}
}

func TestParseAccessTokenRejects(t *testing.T) {
	expired, _ := GenerateAccessToken("acc-1", "a@example.com", time.Now().Add(-time.Hour), secret)
	valid, _ := GenerateAccessToken("acc-1", "a@example.com", time.Now().Add(time.Hour), secret)

	noKid := jwt.NewWithClaims(jwt.SigningMethodHS256, &ClaimsMessage{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: Issuer, Subject: "acc-1", Audience: jwt.ClaimStrings{AccessTokenAudienceName}},
	})
	noKidToken, _ := noKid.SignedString(secret)

	cases := map[string]struct {
		token  string
		secret []byte
	}{
		"empty":        {"", secret},
		"expired":      {expired, secret},
		"wrong secret": {valid, []byte("other")},
		"missing kid":  {noKidToken, secret},
		"garbage":      {"not.a.token", secret},
	}
	for name, tc := range cases {
		if _, err := ParseAccessToken(tc.token, tc.secret); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestNeverExpiringToken(t *testing.T) {
	token, err := GenerateAccessToken("acc-1", "a@example.com", time.Time{}, secret)
	if err != nil {
		t.Fatal(err)
	}
	claims, err := ParseAccessToken(token, secret)
	if err != nil {
		t.Fatalf("token without expiry should parse: %v", err)
	}
	if claims.ExpiresAt != nil {
		t.Errorf("expected no expiry, got %v", claims.ExpiresAt)
	}
	if !strings.HasPrefix(token, "ey") {
		t.Errorf("unexpected token encoding %q", token)
	}
}
