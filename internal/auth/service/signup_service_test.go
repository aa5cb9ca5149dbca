package service

import (
	"context"
	"errors"
	"testing"

	credrepo "github.com/kvolkov/session-gate/internal/credential/repository"
	profilerepo "github.com/kvolkov/session-gate/internal/profile/repository"
	userdomain "github.com/kvolkov/session-gate/internal/user/domain"
	userrepo "github.com/kvolkov/session-gate/internal/user/repository"
)

func newTestSignupService(
	t *testing.T,
	users userrepo.Repository,
	credentials credrepo.Repository,
	profiles profilerepo.Repository,
) *SignupService {
	t.Helper()
	return NewSignupService(
		users,
		credentials,
		profiles,
		&mockHasher{},
		&sequenceIDGenerator{prefix: "id-"},
		testClock(),
		testLogger(t),
	)
}

func validSignup() SignupInput {
	return SignupInput{Username: "alice", Email: "alice@example.com", Password: "password123"}
}

func TestSignUpSuccess(t *testing.T) {
	var createdUser userdomain.User
	var createdCredential credrepo.Credential
	var createdProfile profilerepo.Profile

	users := &mockUserRepo{
		createFunc: func(ctx context.Context, user userdomain.User) error {
			createdUser = user
			return nil
		},
	}
	credentials := &mockCredentialRepo{
		createFunc: func(ctx context.Context, credential credrepo.Credential) error {
			createdCredential = credential
			return nil
		},
	}
	profiles := &mockProfileRepo{
		createFunc: func(ctx context.Context, profile profilerepo.Profile) error {
			createdProfile = profile
			return nil
		},
	}

	svc := newTestSignupService(t, users, credentials, profiles)

	user, err := svc.SignUp(context.Background(), validSignup())
	if err != nil {
		t.Fatalf("SignUp returned error: %v", err)
	}

	if user.ID == "" {
		t.Error("SignUp returned empty user id")
	}
	if user.Username != "alice" || user.Email != "alice@example.com" {
		t.Errorf("SignUp returned user %+v", user)
	}
	if createdUser.ID != user.ID {
		t.Errorf("persisted user id %q differs from returned id %q", createdUser.ID, user.ID)
	}
	if createdCredential.UserID != string(user.ID) {
		t.Errorf("credential stored for user %q, want %q", createdCredential.UserID, user.ID)
	}
	if createdCredential.PasswordHash == "password123" {
		t.Error("credential stores the plaintext password")
	}
	if createdProfile.ID != string(user.ID) || createdProfile.Username != "alice" {
		t.Errorf("profile mirror = %+v", createdProfile)
	}
}

func TestSignUpValidation(t *testing.T) {
	tests := []struct {
		name  string
		input SignupInput
	}{
		{"short password", SignupInput{Username: "alice", Email: "alice@example.com", Password: "short"}},
		{"short username", SignupInput{Username: "al", Email: "alice@example.com", Password: "password123"}},
		{"bad email", SignupInput{Username: "alice", Email: "not-an-email", Password: "password123"}},
		{"missing username", SignupInput{Email: "alice@example.com", Password: "password123"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &mockUserRepo{
				createFunc: func(ctx context.Context, user userdomain.User) error {
					t.Error("Create called despite failed validation")
					return nil
				},
			}
			svc := newTestSignupService(t, users, &mockCredentialRepo{}, &mockProfileRepo{})

			_, err := svc.SignUp(context.Background(), tt.input)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("SignUp = %v, want ErrValidation", err)
			}
		})
	}
}

func TestSignUpDuplicateUsername(t *testing.T) {
	users := &mockUserRepo{
		createFunc: func(ctx context.Context, user userdomain.User) error {
			return userrepo.ErrUsernameAlreadyExists
		},
	}
	svc := newTestSignupService(t, users, &mockCredentialRepo{}, &mockProfileRepo{})

	_, err := svc.SignUp(context.Background(), validSignup())
	if !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("SignUp duplicate username = %v, want ErrUsernameTaken", err)
	}
}

func TestSignUpCredentialWriteFailureLeavesUser(t *testing.T) {
	userCreated := false
	users := &mockUserRepo{
		createFunc: func(ctx context.Context, user userdomain.User) error {
			userCreated = true
			return nil
		},
	}
	credentials := &mockCredentialRepo{
		createFunc: func(ctx context.Context, credential credrepo.Credential) error {
			return errors.New("disk full")
		},
	}
	svc := newTestSignupService(t, users, credentials, &mockProfileRepo{})

	_, err := svc.SignUp(context.Background(), validSignup())
	if err == nil {
		t.Fatal("SignUp did not surface credential write failure")
	}

	// There is no rollback: the user row stays behind.
	if !userCreated {
		t.Error("user row was not written before the failing credential write")
	}
}

func TestSignUpProfileWriteFailure(t *testing.T) {
	credentialCreated := false
	credentials := &mockCredentialRepo{
		createFunc: func(ctx context.Context, credential credrepo.Credential) error {
			credentialCreated = true
			return nil
		},
	}
	profiles := &mockProfileRepo{
		createFunc: func(ctx context.Context, profile profilerepo.Profile) error {
			return errors.New("disk full")
		},
	}
	svc := newTestSignupService(t, &mockUserRepo{}, credentials, profiles)

	_, err := svc.SignUp(context.Background(), validSignup())
	if err == nil {
		t.Fatal("SignUp did not surface profile write failure")
	}
	if !credentialCreated {
		t.Error("credential row was not written before the failing profile write")
	}
}

func TestSignUpHashFailure(t *testing.T) {
	hasher := &mockHasher{
		hashFunc: func(password string) (string, error) {
			return "", errors.New("cost out of range")
		},
	}
	users := &mockUserRepo{
		createFunc: func(ctx context.Context, user userdomain.User) error {
			t.Error("Create called despite hash failure")
			return nil
		},
	}

	svc := NewSignupService(
		users,
		&mockCredentialRepo{},
		&mockProfileRepo{},
		hasher,
		&sequenceIDGenerator{prefix: "id-"},
		testClock(),
		testLogger(t),
	)

	if _, err := svc.SignUp(context.Background(), validSignup()); err == nil {
		t.Fatal("SignUp did not surface hash failure")
	}
}
