package validator // import "github.com/Davidnet/BookWise/internal/validator"

import (
	"github.com/pkg/errors"

	"github.com/Davidnet/BookWise/internal/model"
	"github.com/Davidnet/BookWise/internal/util"
)

const minPasswordLength = 6

func ValidateSignupRequest(signup *model.SignupRequest) error {
	if signup == nil {
		return errors.New("signup is nil")
	}
	if signup.Email == "" {
		return &model.ValidationError{Field: "email", Message: "is empty"}
	}
	if !util.ValidateEmail(util.NormalizeEmail(signup.Email)) {
		return &model.ValidationError{Field: "email", Message: "is invalid"}
	}
	if signup.Password == "" {
		return &model.ValidationError{Field: "password", Message: "is empty"}
	}
	return validatePassword(signup.Password)
}

func ValidateSigninRequest(signin *model.SigninRequest) error {
	if signin == nil {
		return errors.New("signin is nil")
	}
	if signin.Email == "" || signin.Password == "" {
		return &model.ValidationError{Field: "email", Message: "and password are required"}
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return &model.ValidationError{Field: "password", Message: "is too short"}
	}
	return nil
}
