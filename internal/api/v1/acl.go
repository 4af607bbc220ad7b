package v1

import (
	"context"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Davidnet/BookWise/internal/api/auth"
	"github.com/Davidnet/BookWise/internal/http/request"
	"github.com/Davidnet/BookWise/internal/http/response"
	"github.com/Davidnet/BookWise/internal/log"
	"github.com/Davidnet/BookWise/internal/model"
	"github.com/Davidnet/BookWise/internal/store"
)

type AuthInterceptor struct {
	store  *store.Store
	secret string
}

func NewAuthInterceptor(store *store.Store, secret string) *AuthInterceptor {
	return &AuthInterceptor{store: store, secret: secret}
}

func (m *AuthInterceptor) AuthenticationInterceptor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isUnauthorizeAllowed(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}
		clientIP := request.FindClientIP(r)
		accessToken := getAccessToken(r)

		account, err := m.authenticate(r.Context(), accessToken)
		if err != nil {
			if errors.Is(err, model.ErrStoreUnavailable) {
				response.ServerError(w, r, err)
				return
			}
			log.Debug("Failed to authenticate account",
				zap.String("client_ip", clientIP),
				zap.String("user_agent", r.UserAgent()),
				zap.Error(err),
			)
			response.Unauthorized(w, r)
			return
		}

		ctx := r.Context()
		ctx = context.WithValue(ctx, request.AccountIDContextKey, account.ID)
		ctx = context.WithValue(ctx, request.AccountEmailContextKey, account.Email)
		ctx = context.WithValue(ctx, request.AccessTokenContextKey, accessToken)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthInterceptor) authenticate(ctx context.Context, accessToken string) (*model.Account, error) {
	claims, err := auth.ParseAccessToken(accessToken, []byte(m.secret))
	if err != nil {
		return nil, err
	}

	account, err := m.store.GetAccount(ctx, claims.Subject)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get account")
	}
	if account == nil {
		return nil, errors.Errorf("account not found with ID: %s", claims.Subject)
	}

	// Signed out tokens are no longer among the issued tokens.
	if !store.ValidateAccessToken(accessToken, account.AccessTokens) {
		return nil, errors.New("invalid access token")
	}

	return account, nil
}

func getAccessToken(r *http.Request) string {
	// Check the HTTP Authorization header first
	authorizationHeaders := r.Header.Get("Authorization")
	// Check bearer token
	if authorizationHeaders != "" {
		splitToken := strings.Split(authorizationHeaders, "Bearer ")
		if len(splitToken) == 2 {
			return splitToken[1]
		}
	}

	// Check the cookie header
	if cookie, err := r.Cookie(auth.AccessTokenCookieName); err == nil {
		return cookie.Value
	}
	return ""
}
