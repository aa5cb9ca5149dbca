package service

import (
	"context"
	"errors"
	"testing"

	authdomain "github.com/kvolkov/session-gate/internal/auth/domain"
	commoncrypto "github.com/kvolkov/session-gate/internal/common/crypto"
	credrepo "github.com/kvolkov/session-gate/internal/credential/repository"
	profilerepo "github.com/kvolkov/session-gate/internal/profile/repository"
	userdomain "github.com/kvolkov/session-gate/internal/user/domain"
	userrepo "github.com/kvolkov/session-gate/internal/user/repository"
)

func knownUserRepo() *mockUserRepo {
	return &mockUserRepo{
		findByUsernameFunc: func(ctx context.Context, username string) (userdomain.User, error) {
			if username != "alice" {
				return userdomain.User{}, userrepo.ErrUserNotFound
			}
			return userdomain.User{ID: "u-1", Username: "alice", Email: "alice@example.com"}, nil
		},
	}
}

func knownCredentialRepo() *mockCredentialRepo {
	return &mockCredentialRepo{
		findByUserIDFunc: func(ctx context.Context, userID string) (credrepo.Credential, error) {
			return credrepo.Credential{UserID: userID, PasswordHash: "digest:password123"}, nil
		},
	}
}

func knownProfileRepo() *mockProfileRepo {
	return &mockProfileRepo{
		findByUsernameFunc: func(ctx context.Context, username string) (profilerepo.Profile, error) {
			if username != "alice" {
				return profilerepo.Profile{}, profilerepo.ErrProfileNotFound
			}
			return profilerepo.Profile{ID: "u-1", Username: "alice", Email: "alice@example.com"}, nil
		},
	}
}

func newTestAuthService(t *testing.T, profiles profilerepo.Repository) *AuthService {
	t.Helper()
	store := NewSessionStore(context.Background(), commoncrypto.NewUUIDGenerator(), testClock(), 0, testLogger(t))
	t.Cleanup(store.Close)

	verifier := NewCredentialVerifier(knownUserRepo(), knownCredentialRepo(), &mockHasher{}, testLogger(t))
	return NewAuthService(verifier, profiles, store, testLogger(t))
}

func TestLoginSuccess(t *testing.T) {
	svc := newTestAuthService(t, knownProfileRepo())

	result, err := svc.Login(context.Background(), authdomain.Credentials{Username: "alice", Password: "password123"})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if result.SessionID == "" {
		t.Error("Login returned empty session id")
	}
	want := Identity{UserID: "u-1", Username: "alice", Email: "alice@example.com"}
	if result.Identity != want {
		t.Errorf("Login identity = %+v, want %+v", result.Identity, want)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	svc := newTestAuthService(t, knownProfileRepo())

	_, err := svc.Login(context.Background(), authdomain.Credentials{Username: "ghost", Password: "password123"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("Login unknown user = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestAuthService(t, knownProfileRepo())

	_, err := svc.Login(context.Background(), authdomain.Credentials{Username: "alice", Password: "not-the-one"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("Login wrong password = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginValidationRejectsShortPassword(t *testing.T) {
	svc := newTestAuthService(t, knownProfileRepo())

	_, err := svc.Login(context.Background(), authdomain.Credentials{Username: "alice", Password: "short"})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("Login short password = %v, want ErrValidation", err)
	}
}

func TestLoginProfileMirrorMissing(t *testing.T) {
	// Credentials verify but the profile mirror has no row.
	svc := newTestAuthService(t, &mockProfileRepo{})

	_, err := svc.Login(context.Background(), authdomain.Credentials{Username: "alice", Password: "password123"})
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("Login with missing profile = %v, want ErrUserNotFound", err)
	}
}

func TestLoginMintsDistinctSessions(t *testing.T) {
	svc := newTestAuthService(t, knownProfileRepo())

	creds := authdomain.Credentials{Username: "alice", Password: "password123"}

	first, err := svc.Login(context.Background(), creds)
	if err != nil {
		t.Fatalf("first Login returned error: %v", err)
	}
	second, err := svc.Login(context.Background(), creds)
	if err != nil {
		t.Fatalf("second Login returned error: %v", err)
	}
	if first.SessionID == second.SessionID {
		t.Error("repeated logins produced the same session id")
	}
}

func TestAuthorizeSuccess(t *testing.T) {
	svc := newTestAuthService(t, knownProfileRepo())

	result, err := svc.Login(context.Background(), authdomain.Credentials{Username: "alice", Password: "password123"})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	identity, err := svc.Authorize(context.Background(), result.SessionID)
	if err != nil {
		t.Fatalf("Authorize returned error: %v", err)
	}
	if identity != result.Identity {
		t.Errorf("Authorize identity = %+v, want %+v", identity, result.Identity)
	}
}

func TestAuthorizeUnknownSession(t *testing.T) {
	svc := newTestAuthService(t, knownProfileRepo())

	_, err := svc.Authorize(context.Background(), "bogus-token")
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("Authorize unknown session = %v, want ErrUnauthenticated", err)
	}
}

func TestAuthorizeVanishedProfile(t *testing.T) {
	profiles := knownProfileRepo()
	svc := newTestAuthService(t, profiles)

	result, err := svc.Login(context.Background(), authdomain.Credentials{Username: "alice", Password: "password123"})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	// User record deleted while the session is live.
	profiles.findByUsernameFunc = func(ctx context.Context, username string) (profilerepo.Profile, error) {
		return profilerepo.Profile{}, profilerepo.ErrProfileNotFound
	}

	_, err = svc.Authorize(context.Background(), result.SessionID)
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("Authorize with vanished profile = %v, want ErrUserNotFound", err)
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	svc := newTestAuthService(t, knownProfileRepo())

	result, err := svc.Login(context.Background(), authdomain.Credentials{Username: "alice", Password: "password123"})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	svc.Logout(context.Background(), result.SessionID)

	if _, err := svc.Authorize(context.Background(), result.SessionID); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("Authorize after logout = %v, want ErrUnauthenticated", err)
	}
}

func TestWhoAmIReturnsSubject(t *testing.T) {
	svc := newTestAuthService(t, knownProfileRepo())

	subject := svc.WhoAmI(Identity{UserID: "u-1", Username: "alice"})
	if subject != "u-1" {
		t.Errorf("WhoAmI = %q, want %q", subject, "u-1")
	}
}
