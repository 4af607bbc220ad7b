package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Davidnet/BookWise/internal/model"
	"github.com/Davidnet/BookWise/internal/util"
	"github.com/pkg/errors"
)

var ErrEmailTaken = errors.New("email already registered")

type accountEmail struct {
	AccountID string `json:"account_id"`
}

// CreateAccount stores a new account and its email index entry together.
func (s *Store) CreateAccount(ctx context.Context, email, passwordHash string) (*model.Account, error) {
	email = util.NormalizeEmail(email)
	existing, err := s.GetAccountByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	account := &model.Account{
		ID:           util.GenUUID(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedTs:    time.Now().Unix(),
	}
	data, err := json.Marshal(account)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode account")
	}
	index, err := json.Marshal(&accountEmail{AccountID: account.ID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode account email")
	}
	if err := s.driver.Batch(ctx, []Write{
		{Op: WriteSet, Collection: AccountsCollection, ID: account.ID, Data: data},
		{Op: WriteSet, Collection: AccountEmailsCollection, ID: email, Data: index},
	}); err != nil {
		return nil, storeError("create account", err)
	}

	s.AccountCache.Store(account.ID, account)
	return account, nil
}

// GetAccount returns nil when no account has the id.
func (s *Store) GetAccount(ctx context.Context, id string) (*model.Account, error) {
	if cache, ok := s.AccountCache.Load(id); ok {
		return cache.(*model.Account), nil
	}

	doc, err := s.driver.Get(ctx, AccountsCollection, id)
	if err != nil {
		return nil, storeError("get account", err)
	}
	if doc == nil {
		return nil, nil
	}
	account := &model.Account{}
	if err := json.Unmarshal(doc.Data, account); err != nil {
		return nil, storeError("decode account", err)
	}
	account.ID = doc.ID
	s.AccountCache.Store(account.ID, account)
	return account, nil
}

// GetAccountByEmail returns nil when the email is not registered.
func (s *Store) GetAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	doc, err := s.driver.Get(ctx, AccountEmailsCollection, util.NormalizeEmail(email))
	if err != nil {
		return nil, storeError("get account email", err)
	}
	if doc == nil {
		return nil, nil
	}
	index := &accountEmail{}
	if err := json.Unmarshal(doc.Data, index); err != nil {
		return nil, storeError("decode account email", err)
	}
	return s.GetAccount(ctx, index.AccountID)
}

// GetAccountAccessTokens returns the access tokens issued to the account.
func (s *Store) GetAccountAccessTokens(ctx context.Context, accountID string) ([]*model.AccessToken, error) {
	account, err := s.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return []*model.AccessToken{}, nil
	}
	return account.AccessTokens, nil
}

func (s *Store) UpsertAccessToken(ctx context.Context, accountID, accessToken, description string) error {
	tokens, err := s.GetAccountAccessTokens(ctx, accountID)
	if err != nil {
		return errors.Wrap(err, "unable to update access token")
	}
	tokens = append(tokens, &model.AccessToken{
		AccessToken: accessToken,
		Description: description,
		CreatedTs:   time.Now().Unix(),
	})
	return s.setAccessTokens(ctx, accountID, tokens)
}

// RemoveAccessToken revokes a token. Unknown tokens are ignored.
func (s *Store) RemoveAccessToken(ctx context.Context, accountID, accessToken string) error {
	tokens, err := s.GetAccountAccessTokens(ctx, accountID)
	if err != nil {
		return errors.Wrap(err, "unable to remove access token")
	}
	kept := make([]*model.AccessToken, 0, len(tokens))
	for _, token := range tokens {
		if token.AccessToken != accessToken {
			kept = append(kept, token)
		}
	}
	return s.setAccessTokens(ctx, accountID, kept)
}

func (s *Store) SetLastLogin(ctx context.Context, accountID string) error {
	now := time.Now().Unix()
	if err := s.driver.Merge(ctx, AccountsCollection, accountID, map[string]any{"last_login_ts": now}); err != nil {
		return storeError("set last login", err)
	}
	if cache, ok := s.AccountCache.Load(accountID); ok {
		account := *cache.(*model.Account)
		account.LastLoginTs = now
		s.AccountCache.Store(accountID, &account)
	}
	return nil
}

func (s *Store) setAccessTokens(ctx context.Context, accountID string, tokens []*model.AccessToken) error {
	if err := s.driver.Merge(ctx, AccountsCollection, accountID, map[string]any{"access_tokens": tokens}); err != nil {
		return storeError("set access tokens", err)
	}
	s.AccountCache.Delete(accountID)
	return nil
}

// ValidateAccessToken reports whether the token is among the issued tokens.
func ValidateAccessToken(accessTokenString string, accessTokens []*model.AccessToken) bool {
	for _, accessToken := range accessTokens {
		if accessTokenString == accessToken.AccessToken {
			return true
		}
	}
	return false
}
