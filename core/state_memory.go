package core

import (
	"context"
	"sync"
)

// MemoryStateStore keeps the persisted client state in process memory. It is
// the default when no SQL-backed store is wired, and the workhorse for tests.
type MemoryStateStore struct {
	mu            sync.RWMutex
	token         string
	hasToken      bool
	roleConfirmed bool
	identity      Identity
	hasIdentity   bool
}

func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{}
}

func (s *MemoryStateStore) SaveSessionToken(_ context.Context, token string) error {
	s.mu.Lock()
	s.token = token
	s.hasToken = token != ""
	s.mu.Unlock()
	return nil
}

func (s *MemoryStateStore) LoadSessionToken(context.Context) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.hasToken, nil
}

func (s *MemoryStateStore) ClearSessionToken(context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.hasToken = false
	s.mu.Unlock()
	return nil
}

func (s *MemoryStateStore) SaveRoleConfirmed(_ context.Context, confirmed bool) error {
	s.mu.Lock()
	s.roleConfirmed = confirmed
	s.mu.Unlock()
	return nil
}

func (s *MemoryStateStore) LoadRoleConfirmed(context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.roleConfirmed, nil
}

func (s *MemoryStateStore) SaveIdentity(_ context.Context, identity Identity) error {
	s.mu.Lock()
	s.identity = identity
	s.hasIdentity = !identity.IsZero()
	s.mu.Unlock()
	return nil
}

func (s *MemoryStateStore) LoadIdentity(context.Context) (Identity, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity, s.hasIdentity, nil
}

func (s *MemoryStateStore) Reset(context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.hasToken = false
	s.roleConfirmed = false
	s.identity = Identity{}
	s.hasIdentity = false
	s.mu.Unlock()
	return nil
}

