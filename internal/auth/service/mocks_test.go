package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kvolkov/session-gate/internal/common/clock"
	"github.com/kvolkov/session-gate/internal/common/logger"
	credrepo "github.com/kvolkov/session-gate/internal/credential/repository"
	profilerepo "github.com/kvolkov/session-gate/internal/profile/repository"
	userdomain "github.com/kvolkov/session-gate/internal/user/domain"
	userrepo "github.com/kvolkov/session-gate/internal/user/repository"
)

type mockUserRepo struct {
	createFunc         func(ctx context.Context, user userdomain.User) error
	findByUsernameFunc func(ctx context.Context, username string) (userdomain.User, error)
	findByIDFunc       func(ctx context.Context, id userdomain.ID) (userdomain.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user userdomain.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (userdomain.User, error) {
	if m.findByUsernameFunc != nil {
		return m.findByUsernameFunc(ctx, username)
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

func (m *mockUserRepo) FindByID(ctx context.Context, id userdomain.ID) (userdomain.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

type mockCredentialRepo struct {
	createFunc       func(ctx context.Context, credential credrepo.Credential) error
	findByUserIDFunc func(ctx context.Context, userID string) (credrepo.Credential, error)
}

func (m *mockCredentialRepo) Create(ctx context.Context, credential credrepo.Credential) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, credential)
	}
	return nil
}

func (m *mockCredentialRepo) FindByUserID(ctx context.Context, userID string) (credrepo.Credential, error) {
	if m.findByUserIDFunc != nil {
		return m.findByUserIDFunc(ctx, userID)
	}
	return credrepo.Credential{}, credrepo.ErrCredentialNotFound
}

type mockProfileRepo struct {
	createFunc         func(ctx context.Context, profile profilerepo.Profile) error
	findByUsernameFunc func(ctx context.Context, username string) (profilerepo.Profile, error)
}

func (m *mockProfileRepo) Create(ctx context.Context, profile profilerepo.Profile) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, profile)
	}
	return nil
}

func (m *mockProfileRepo) FindByUsername(ctx context.Context, username string) (profilerepo.Profile, error) {
	if m.findByUsernameFunc != nil {
		return m.findByUsernameFunc(ctx, username)
	}
	return profilerepo.Profile{}, profilerepo.ErrProfileNotFound
}

type mockHasher struct {
	hashFunc    func(password string) (string, error)
	compareFunc func(digest string, password string) error
}

func (m *mockHasher) Hash(password string) (string, error) {
	if m.hashFunc != nil {
		return m.hashFunc(password)
	}
	return "digest:" + password, nil
}

func (m *mockHasher) Compare(digest string, password string) error {
	if m.compareFunc != nil {
		return m.compareFunc(digest, password)
	}
	if digest != "digest:"+password {
		return errors.New("password mismatch")
	}
	return nil
}

type sequenceIDGenerator struct {
	prefix string
	next   int
}

func (g *sequenceIDGenerator) NewID() (string, error) {
	g.next++
	return g.prefix + string(rune('0'+g.next%10)), nil
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("", "test", "error")
	if err != nil {
		t.Fatalf("failed to create test logger: %v", err)
	}
	return log
}

func testClock() *clock.MockClock {
	return clock.NewMockClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
}
