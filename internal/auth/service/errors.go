package service

import (
	"net/http"

	commonerrors "github.com/kvolkov/session-gate/internal/common/errors"
)

// The 401 and 403 messages are a wire contract: existing clients match
// on them verbatim.
var (
	ErrInvalidCredentials = commonerrors.NewDomainError(
		"INVALID_CREDENTIALS",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"The user doesn't exist",
	)

	ErrUserNotFound = commonerrors.NewDomainError(
		"USER_NOT_FOUND",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"The user doesn't exist",
	)

	ErrUnauthenticated = commonerrors.NewDomainError(
		"UNAUTHENTICATED",
		commonerrors.CategoryForbidden,
		http.StatusForbidden,
		"Please go to login and provide Login/Password",
	)

	ErrUsernameTaken = commonerrors.NewDomainError(
		"USERNAME_TAKEN",
		commonerrors.CategoryConflict,
		http.StatusConflict,
		"username already exists",
	)

	ErrValidation = commonerrors.NewDomainError(
		"VALIDATION_FAILED",
		commonerrors.CategoryValidation,
		http.StatusUnprocessableEntity,
		"validation failed",
	)
)

func newInternalError(code, message string, cause error) commonerrors.DomainError {
	err := commonerrors.NewDomainError(
		code,
		commonerrors.CategoryInternal,
		http.StatusInternalServerError,
		message,
	)
	if cause != nil {
		err = err.WithCause(cause)
	}
	return err
}
