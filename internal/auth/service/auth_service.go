package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"

	authdomain "github.com/kvolkov/session-gate/internal/auth/domain"
	"github.com/kvolkov/session-gate/internal/common/logger"
	profilerepo "github.com/kvolkov/session-gate/internal/profile/repository"
)

// AuthService orchestrates the three session-facing operations: login
// (verify credentials, mint a session), authorize (resolve a session
// token), and whoAmI (echo a pre-validated bearer identity).
type AuthService struct {
	verifier *CredentialVerifier
	profiles profilerepo.Repository
	sessions *SessionStore
	validate *validator.Validate
	log      *logger.Logger
}

func NewAuthService(
	verifier *CredentialVerifier,
	profiles profilerepo.Repository,
	sessions *SessionStore,
	log *logger.Logger,
) *AuthService {
	return &AuthService{
		verifier: verifier,
		profiles: profiles,
		sessions: sessions,
		validate: newValidator(),
		log:      log,
	}
}

// Identity is the resolved caller identity the transport layer exposes
// as X-UserId/X-User/X-Email headers.
type Identity struct {
	UserID   string
	Username string
	Email    string
}

type LoginResult struct {
	SessionID string
	Identity  Identity
}

func (s *AuthService) Login(ctx context.Context, credentials authdomain.Credentials) (LoginResult, error) {
	s.log.WithFields(ctx, logger.Fields{
		"username": credentials.Username,
		"action":   "login_attempt",
	}).Info("login attempt")

	if err := validationError(s.validate, loginInput{
		Username: credentials.Username,
		Password: credentials.Password,
	}); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": credentials.Username,
			"action":   "login_validation_failed",
		}).Warnf("login validation failed: %v", err)
		return LoginResult{}, err
	}

	user, err := s.verifier.Verify(ctx, credentials.Username, credentials.Password)
	if err != nil {
		incrementLoginFailures()
		return LoginResult{}, err
	}

	// Defensive re-fetch against the authoritative mirror. A user
	// deleted between verification and here fails the login rather
	// than minting a dangling session.
	profile, err := s.profiles.FindByUsername(ctx, user.Username)
	if err != nil {
		if errors.Is(err, profilerepo.ErrProfileNotFound) {
			s.log.WithFields(ctx, logger.Fields{
				"username": user.Username,
				"action":   "login_profile_missing",
			}).Warn("login failed: profile record missing")
			incrementLoginFailures()
			return LoginResult{}, ErrUserNotFound
		}
		s.log.WithFields(ctx, logger.Fields{
			"username": user.Username,
			"action":   "login_profile_fetch_failed",
		}).Errorf("login failed: %v", err)
		return LoginResult{}, newInternalError("DB_ERROR", "failed to fetch profile", err)
	}

	sessionID, err := s.sessions.Create(authdomain.SessionInfo{
		UserID:   profile.ID,
		Username: profile.Username,
		Email:    profile.Email,
	})
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": profile.Username,
			"user_id":  profile.ID,
			"action":   "login_session_create_failed",
		}).Errorf("login failed: session create error: %v", err)
		return LoginResult{}, newInternalError("SESSION_ERROR", "failed to create session", err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"username": profile.Username,
		"user_id":  profile.ID,
		"action":   "login_success",
	}).Info("login success")

	return LoginResult{
		SessionID: sessionID,
		Identity: Identity{
			UserID:   profile.ID,
			Username: profile.Username,
			Email:    profile.Email,
		},
	}, nil
}

// Authorize resolves a session token back to an identity. The bound
// user record is re-fetched so a session for a since-deleted user
// fails with ErrUserNotFound instead of validating.
func (s *AuthService) Authorize(ctx context.Context, sessionID string) (Identity, error) {
	info, ok := s.sessions.Resolve(sessionID)
	if !ok {
		s.log.WithFields(ctx, logger.Fields{
			"action": "authorize_unknown_session",
		}).Warn("authorize failed: unknown session token")
		return Identity{}, ErrUnauthenticated
	}

	profile, err := s.profiles.FindByUsername(ctx, info.Username)
	if err != nil {
		if errors.Is(err, profilerepo.ErrProfileNotFound) {
			s.log.WithFields(ctx, logger.Fields{
				"username": info.Username,
				"action":   "authorize_profile_missing",
			}).Warn("authorize failed: profile record vanished")
			return Identity{}, ErrUserNotFound
		}
		s.log.WithFields(ctx, logger.Fields{
			"username": info.Username,
			"action":   "authorize_profile_fetch_failed",
		}).Errorf("authorize failed: %v", err)
		return Identity{}, newInternalError("DB_ERROR", "failed to fetch profile", err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"username": profile.Username,
		"user_id":  profile.ID,
		"action":   "authorize_success",
	}).Debug("authorize success")

	return Identity{
		UserID:   profile.ID,
		Username: profile.Username,
		Email:    profile.Email,
	}, nil
}

// Logout drops a session token. Unknown tokens are a no-op.
func (s *AuthService) Logout(ctx context.Context, sessionID string) {
	s.sessions.Invalidate(sessionID)
	s.log.WithFields(ctx, logger.Fields{
		"action": "logout",
	}).Info("session invalidated")
}

// WhoAmI echoes the subject of an identity the caller already proved
// through the bearer-token guard. The capability check happens
// upstream; this method assumes it passed.
func (s *AuthService) WhoAmI(identity Identity) string {
	return identity.UserID
}
