package model

import "encoding/json"

type Account struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	PasswordHash string         `json:"password_hash,omitempty"`
	CreatedTs    int64          `json:"created_ts"`
	LastLoginTs  int64          `json:"last_login_ts,omitempty"`
	AccessTokens []*AccessToken `json:"access_tokens,omitempty"`
}

// AccessToken represents an access token issued to an account.
type AccessToken struct {
	// The access token is a JWT token.
	// Including expiration time, issuer, etc.
	AccessToken string `json:"access_token,omitempty"`
	// A description for the access token.
	Description string `json:"description,omitempty"`
	// The time when the access token was created.
	CreatedTs int64 `json:"created_ts,omitempty"`
	// The time when the access token was last used.
	LastUsedTs int64 `json:"last_used_ts,omitempty"`
}

func (a *AccessToken) String() string {
	if a == nil {
		return ""
	}
	b, _ := json.Marshal(a)
	return string(b)
}

type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SigninRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	NeverExpire bool   `json:"never_expire"`
}

// EmbeddingJob asks for the notes of a book to be embedded.
type EmbeddingJob struct {
	Owner  string
	BookID string
	Notes  string
}
