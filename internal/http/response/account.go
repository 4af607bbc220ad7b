package response

import "github.com/Davidnet/BookWise/internal/model"

// AccountResponse strips the password hash and issued tokens.
func AccountResponse(account *model.Account) *model.Account {
	return &model.Account{
		ID:          account.ID,
		Email:       account.Email,
		CreatedTs:   account.CreatedTs,
		LastLoginTs: account.LastLoginTs,
	}
}
