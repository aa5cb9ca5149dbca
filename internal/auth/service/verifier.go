package service

import (
	"context"
	"errors"

	commoncrypto "github.com/kvolkov/session-gate/internal/common/crypto"
	"github.com/kvolkov/session-gate/internal/common/logger"
	credrepo "github.com/kvolkov/session-gate/internal/credential/repository"
	userdomain "github.com/kvolkov/session-gate/internal/user/domain"
	userrepo "github.com/kvolkov/session-gate/internal/user/repository"
)

// CredentialVerifier checks a username/password pair against the
// stored digest. Unknown usernames and wrong passwords produce the
// same error so callers cannot enumerate accounts.
type CredentialVerifier struct {
	users       userrepo.Repository
	credentials credrepo.Repository
	hasher      commoncrypto.PasswordHasher
	log         *logger.Logger
}

func NewCredentialVerifier(
	users userrepo.Repository,
	credentials credrepo.Repository,
	hasher commoncrypto.PasswordHasher,
	log *logger.Logger,
) *CredentialVerifier {
	return &CredentialVerifier{
		users:       users,
		credentials: credentials,
		hasher:      hasher,
		log:         log,
	}
}

func (v *CredentialVerifier) Verify(ctx context.Context, username, password string) (userdomain.User, error) {
	user, err := v.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			v.log.WithFields(ctx, logger.Fields{
				"username": username,
				"action":   "verify_user_not_found",
			}).Warn("credential check failed: unknown user")
			return userdomain.User{}, ErrInvalidCredentials
		}
		v.log.WithFields(ctx, logger.Fields{
			"username": username,
			"action":   "verify_fetch_failed",
		}).Errorf("credential check failed: %v", err)
		return userdomain.User{}, newInternalError("DB_ERROR", "failed to fetch user", err)
	}

	credential, err := v.credentials.FindByUserID(ctx, string(user.ID))
	if err != nil {
		if errors.Is(err, credrepo.ErrCredentialNotFound) {
			v.log.WithFields(ctx, logger.Fields{
				"username": username,
				"user_id":  string(user.ID),
				"action":   "verify_credential_missing",
			}).Warn("credential check failed: no digest on record")
			return userdomain.User{}, ErrInvalidCredentials
		}
		v.log.WithFields(ctx, logger.Fields{
			"username": username,
			"user_id":  string(user.ID),
			"action":   "verify_credential_fetch_failed",
		}).Errorf("credential check failed: %v", err)
		return userdomain.User{}, newInternalError("DB_ERROR", "failed to fetch credential", err)
	}

	if err := v.hasher.Compare(credential.PasswordHash, password); err != nil {
		v.log.WithFields(ctx, logger.Fields{
			"username": username,
			"action":   "verify_invalid_password",
		}).Warn("credential check failed: invalid password")
		return userdomain.User{}, ErrInvalidCredentials
	}

	return user, nil
}
