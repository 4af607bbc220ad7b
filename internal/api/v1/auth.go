package v1

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Davidnet/BookWise/internal/api/auth"
	"github.com/Davidnet/BookWise/internal/http/request"
	"github.com/Davidnet/BookWise/internal/http/response"
	"github.com/Davidnet/BookWise/internal/log"
	"github.com/Davidnet/BookWise/internal/model"
	"github.com/Davidnet/BookWise/internal/store"
	"github.com/Davidnet/BookWise/internal/validator"
)

type signinResponse struct {
	AccessToken string         `json:"access_token"`
	Account     *model.Account `json:"account"`
}

func (h *Handler) signUp(w http.ResponseWriter, r *http.Request) {
	signup := &model.SignupRequest{}
	if err := json.NewDecoder(r.Body).Decode(signup); err != nil {
		log.Error("Failed to decode request body", zap.Error(err))
		response.BadRequest(w, r, err)
		return
	}

	// Validate request
	if err := validator.ValidateSignupRequest(signup); err != nil {
		log.Debug("Failed to validate signup request", zap.Error(err))
		response.BadRequest(w, r, err)
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(signup.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to generate password hash")
		response.ServerError(w, r, err)
		return
	}

	account, err := h.store.CreateAccount(r.Context(), signup.Email, string(passwordHash))
	if err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			response.Conflict(w, r, err)
			return
		}
		log.Error("Failed to signup account", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}

	response.Created(w, r, response.AccountResponse(account))
}

func (h *Handler) signIn(w http.ResponseWriter, r *http.Request) {
	signin := &model.SigninRequest{}
	if err := json.NewDecoder(r.Body).Decode(signin); err != nil {
		log.Error("Failed to decode request body", zap.Error(err))
		response.BadRequest(w, r, err)
		return
	}
	if err := validator.ValidateSigninRequest(signin); err != nil {
		response.BadRequest(w, r, err)
		return
	}

	account, err := h.store.GetAccountByEmail(r.Context(), signin.Email)
	if err != nil {
		log.Error("Failed to get account", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}
	// Unknown email and wrong password look the same to the client.
	if account == nil {
		log.Debug("Account not found", zap.String("email", signin.Email))
		response.Unauthorized(w, r)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(signin.Password)); err != nil {
		log.Debug("Failed to compare password", zap.String("email", signin.Email))
		response.Unauthorized(w, r)
		return
	}

	expireTime := time.Now().Add(h.tokenTTL)
	if signin.NeverExpire {
		// Set the expire time to 100 years.
		expireTime = time.Now().Add(100 * 365 * 24 * time.Hour)
	}
	accessToken, err := h.doSignIn(r, account, expireTime)
	if err != nil {
		log.Error("Failed to sign in", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}

	w.Header().Set("Set-Cookie", buildAccessTokenCookie(accessToken, expireTime, r.Header.Get("Origin")))
	response.OK(w, r, &signinResponse{
		AccessToken: accessToken,
		Account:     response.AccountResponse(account),
	})
}

func (h *Handler) doSignIn(r *http.Request, account *model.Account, expireTime time.Time) (string, error) {
	if h.secret == "" {
		return "", errors.New("JWT secret is not set")
	}

	accessToken, err := auth.GenerateAccessToken(account.ID, account.Email, expireTime, []byte(h.secret))
	if err != nil {
		return "", errors.Wrap(err, "failed to generate access token")
	}
	if err := h.store.UpsertAccessToken(r.Context(), account.ID, accessToken, "Account sign in"); err != nil {
		return "", errors.Wrap(err, "failed to update access token")
	}
	if err := h.store.SetLastLogin(r.Context(), account.ID); err != nil {
		log.Warn("Failed to set last login", zap.String("account_id", account.ID), zap.Error(err))
	}
	return accessToken, nil
}

func (h *Handler) signOut(w http.ResponseWriter, r *http.Request) {
	accountID := request.GetAccountID(r)
	if err := h.store.RemoveAccessToken(r.Context(), accountID, request.GetAccessToken(r)); err != nil {
		log.Error("Failed to revoke access token", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}

	w.Header().Set("Set-Cookie", buildAccessTokenCookie("", time.Time{}, r.Header.Get("Origin")))
	response.NoContent(w, r)
}

func buildAccessTokenCookie(accessToken string, expireTime time.Time, origin string) string {
	attrs := []string{
		fmt.Sprintf("%s=%s", auth.AccessTokenCookieName, accessToken),
		"Path=/",
		"HttpOnly",
	}
	if expireTime.IsZero() {
		attrs = append(attrs, "Expires=Thu, 01 Jan 1970 00:00:00 GMT")
	} else {
		attrs = append(attrs, "Expires="+expireTime.UTC().Format(http.TimeFormat))
	}

	if strings.HasPrefix(origin, "https://") {
		attrs = append(attrs, "Secure")
		attrs = append(attrs, "SameSite=None")
	} else {
		attrs = append(attrs, "SameSite=Lax")
	}
	return strings.Join(attrs, "; ")
}
