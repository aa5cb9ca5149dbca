package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/kvolkov/session-gate/internal/common/clock"
	commoncrypto "github.com/kvolkov/session-gate/internal/common/crypto"
	"github.com/kvolkov/session-gate/internal/common/logger"
	credrepo "github.com/kvolkov/session-gate/internal/credential/repository"
	profilerepo "github.com/kvolkov/session-gate/internal/profile/repository"
	userdomain "github.com/kvolkov/session-gate/internal/user/domain"
	userrepo "github.com/kvolkov/session-gate/internal/user/repository"
)

// SignupService creates an account: the canonical user record, its
// credential digest, and the profile mirror.
//
// The three writes are sequential with no rollback; a failure after
// the first leaves a user without a credential or mirror row. Known
// gap, kept deliberately until a transactional signup lands.
type SignupService struct {
	users       userrepo.Repository
	credentials credrepo.Repository
	profiles    profilerepo.Repository
	hasher      commoncrypto.PasswordHasher
	ids         commoncrypto.IDGenerator
	clock       clock.Clock
	validate    *validator.Validate
	log         *logger.Logger
}

func NewSignupService(
	users userrepo.Repository,
	credentials credrepo.Repository,
	profiles profilerepo.Repository,
	hasher commoncrypto.PasswordHasher,
	ids commoncrypto.IDGenerator,
	clk clock.Clock,
	log *logger.Logger,
) *SignupService {
	return &SignupService{
		users:       users,
		credentials: credentials,
		profiles:    profiles,
		hasher:      hasher,
		ids:         ids,
		clock:       clk,
		validate:    newValidator(),
		log:         log,
	}
}

type SignupInput struct {
	Username string
	Email    string
	Password string
}

func (s *SignupService) SignUp(ctx context.Context, input SignupInput) (userdomain.User, error) {
	s.log.WithFields(ctx, logger.Fields{
		"username": input.Username,
		"action":   "signup_attempt",
	}).Info("signup attempt")

	if err := validationError(s.validate, signupInput{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
	}); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "signup_validation_failed",
		}).Warnf("signup validation failed: %v", err)
		return userdomain.User{}, err
	}

	digest, err := s.hasher.Hash(input.Password)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "signup_hash_failed",
		}).Errorf("signup failed: password hash error: %v", err)
		return userdomain.User{}, newInternalError("HASH_ERROR", "failed to hash password", err)
	}

	id, err := s.ids.NewID()
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "signup_id_generation_failed",
		}).Errorf("signup failed: id generation error: %v", err)
		return userdomain.User{}, newInternalError("ID_ERROR", "failed to generate user id", err)
	}

	user := userdomain.User{
		ID:        userdomain.ID(id),
		Username:  input.Username,
		Email:     input.Email,
		CreatedAt: s.clock.Now(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, userrepo.ErrUsernameAlreadyExists) {
			s.log.WithFields(ctx, logger.Fields{
				"username": input.Username,
				"action":   "signup_username_exists",
			}).Warn("signup failed: username already exists")
			return userdomain.User{}, ErrUsernameTaken
		}
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "signup_create_failed",
		}).Errorf("signup failed: %v", err)
		return userdomain.User{}, newInternalError("DB_ERROR", "failed to create user", err)
	}

	if err := s.credentials.Create(ctx, credrepo.Credential{
		UserID:       string(user.ID),
		PasswordHash: digest,
	}); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"user_id":  string(user.ID),
			"action":   "signup_credential_write_failed",
		}).Errorf("signup failed after user create, no rollback: %v", err)
		return userdomain.User{}, newInternalError("DB_ERROR", "failed to store credential", err)
	}

	if err := s.profiles.Create(ctx, profilerepo.Profile{
		ID:       string(user.ID),
		Username: user.Username,
		Email:    user.Email,
	}); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"user_id":  string(user.ID),
			"action":   "signup_profile_write_failed",
		}).Errorf("signup failed after credential write, no rollback: %v", err)
		return userdomain.User{}, newInternalError("DB_ERROR", "failed to store profile", err)
	}

	incrementSignups()

	s.log.WithFields(ctx, logger.Fields{
		"username": user.Username,
		"user_id":  string(user.ID),
		"action":   "signup_success",
	}).Info("signup success")

	return user, nil
}
