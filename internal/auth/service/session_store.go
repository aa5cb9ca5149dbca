package service

import (
	"context"
	"sync"
	"time"

	authdomain "github.com/kvolkov/session-gate/internal/auth/domain"
	"github.com/kvolkov/session-gate/internal/common/clock"
	"github.com/kvolkov/session-gate/internal/common/constants"
	commoncrypto "github.com/kvolkov/session-gate/internal/common/crypto"
	"github.com/kvolkov/session-gate/internal/common/logger"
)

type sessionEntry struct {
	info      authdomain.SessionInfo
	createdAt time.Time
}

// SessionStore maps opaque session tokens to authenticated-user
// summaries. It is safe for concurrent Create and Resolve.
//
// With ttl == 0 sessions live until the process exits, matching the
// legacy behavior; a positive ttl enables expiry on read plus a
// background sweep.
type SessionStore struct {
	sessions sync.Map
	ids      commoncrypto.IDGenerator
	clock    clock.Clock
	ttl      time.Duration
	log      *logger.Logger
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewSessionStore(
	ctx context.Context,
	ids commoncrypto.IDGenerator,
	clk clock.Clock,
	ttl time.Duration,
	log *logger.Logger,
) *SessionStore {
	storeCtx, cancel := context.WithCancel(ctx)
	s := &SessionStore{
		ids:    ids,
		clock:  clk,
		ttl:    ttl,
		log:    log,
		ctx:    storeCtx,
		cancel: cancel,
	}

	if ttl > 0 {
		go s.sweep()
	}

	return s
}

// Create mints a fresh token for info. Every call produces a new,
// independent session; repeated logins by the same user do not
// coalesce.
func (s *SessionStore) Create(info authdomain.SessionInfo) (string, error) {
	token, err := s.ids.NewID()
	if err != nil {
		return "", err
	}

	s.sessions.Store(token, &sessionEntry{
		info:      info,
		createdAt: s.clock.Now(),
	})

	incrementSessionsCreated()
	return token, nil
}

func (s *SessionStore) Resolve(token string) (authdomain.SessionInfo, bool) {
	val, ok := s.sessions.Load(token)
	if !ok {
		incrementSessionsRejected()
		return authdomain.SessionInfo{}, false
	}

	entry := val.(*sessionEntry)
	if s.expired(entry) {
		s.sessions.Delete(token)
		sessionRemoved(true)
		incrementSessionsRejected()
		return authdomain.SessionInfo{}, false
	}

	incrementSessionsResolved()
	return entry.info, true
}

func (s *SessionStore) Invalidate(token string) {
	if _, ok := s.sessions.LoadAndDelete(token); ok {
		sessionRemoved(false)
	}
}

func (s *SessionStore) Len() int {
	count := 0
	s.sessions.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}

func (s *SessionStore) expired(entry *sessionEntry) bool {
	return s.ttl > 0 && s.clock.Since(entry.createdAt) > s.ttl
}

func (s *SessionStore) sweep() {
	ticker := time.NewTicker(constants.SessionSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			removed := 0
			s.sessions.Range(func(key, value any) bool {
				if s.expired(value.(*sessionEntry)) {
					s.sessions.Delete(key)
					sessionRemoved(true)
					removed++
				}
				return true
			})
			if removed > 0 {
				s.log.Debugf("session sweep removed %d expired sessions", removed)
			}
		}
	}
}

func (s *SessionStore) Close() {
	s.cancel()
}
