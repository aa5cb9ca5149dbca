package service

import (
	"github.com/go-playground/validator/v10"
)

// Field limits follow the account schema: usernames 3-32 chars,
// passwords 8-72 (the digest algorithm caps input at 72 bytes).
type signupInput struct {
	Username string `validate:"required,min=3,max=32"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8,max=72"`
}

type loginInput struct {
	Username string `validate:"required"`
	Password string `validate:"required,min=8,max=72"`
}

func newValidator() *validator.Validate {
	return validator.New()
}

func validationError(validate *validator.Validate, input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}
	return ErrValidation.WithCause(err)
}
