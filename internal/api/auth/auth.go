package auth // import "github.com/Davidnet/BookWise/internal/api/auth"

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

const (
	Issuer = "bookwise"
	// KeyID is the key id of the signing secret, it goes in the token header.
	KeyID = "v1"
	// AccessTokenAudienceName is the audience name of the access token.
	AccessTokenAudienceName = "account.access-token"
	AccessTokenDuration     = 7 * 24 * time.Hour

	// CookieExpDuration expires slightly earlier than the access token.
	CookieExpDuration     = AccessTokenDuration - 1*time.Minute
	AccessTokenCookieName = "bookwise.access-token"
)

type ClaimsMessage struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// GenerateAccessToken generates an access token for the account.
func GenerateAccessToken(accountID, email string, expirationTime time.Time, secret []byte) (string, error) {
	return generateToken(accountID, email, AccessTokenAudienceName, expirationTime, secret)
}

func generateToken(accountID, email, audience string, expirationTime time.Time, secret []byte) (string, error) {
	registeredClaims := jwt.RegisteredClaims{
		Issuer:   Issuer,
		Audience: jwt.ClaimStrings{audience},
		IssuedAt: jwt.NewNumericDate(time.Now()),
		Subject:  accountID,
	}
	if !expirationTime.IsZero() {
		registeredClaims.ExpiresAt = jwt.NewNumericDate(expirationTime)
	}

	// Declare the token with the HS256 algorithm used for signing, and the claims.
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &ClaimsMessage{
		Email:            email,
		RegisteredClaims: registeredClaims,
	})
	token.Header["kid"] = KeyID

	// Create the JWT string.
	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign access token")
	}

	return tokenString, nil
}

// ParseAccessToken verifies the signature, key id, issuer, audience and
// expiry of the token and returns its claims.
func ParseAccessToken(accessToken string, secret []byte) (*ClaimsMessage, error) {
	if accessToken == "" {
		return nil, errors.New("no access token provided")
	}
	claims := &ClaimsMessage{}
	_, err := jwt.ParseWithClaims(accessToken, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Name {
			return nil, errors.New("unexpected signing method")
		}
		if kid, ok := t.Header["kid"].(string); !ok || kid != KeyID {
			return nil, errors.New("unexpected key id")
		}
		return secret, nil
	}, jwt.WithIssuer(Issuer), jwt.WithAudience(AccessTokenAudienceName))
	if err != nil {
		return nil, errors.Wrap(err, "invalid or expired access token")
	}
	if claims.Subject == "" {
		return nil, errors.New("access token has no subject")
	}
	return claims, nil
}
