package sqlstore

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	repositorycache "github.com/goliatone/go-repository-cache/cache"

	"github.com/myp007/mz-hupu-h5-sdk/core"
)

const sessionStateCacheKeyPrefix = "mz-hupu-h5-sdk::session_state::v1"

// sessionStateSnapshot is the cached view of one installation's state.
type sessionStateSnapshot struct {
	Token         string
	HasToken      bool
	RoleConfirmed bool
	Identity      core.Identity
	HasIdentity   bool
}

// CachedSessionStateStore is a read-through cache over a base state store.
// Reads fetch one snapshot per installation; every write delegates to the
// base store and invalidates the snapshot.
type CachedSessionStateStore struct {
	base     core.StateStore
	cache    repositorycache.CacheService
	cacheKey string
}

func NewCachedSessionStateStore(
	base core.StateStore,
	cacheService repositorycache.CacheService,
	installID string,
) (*CachedSessionStateStore, error) {
	if base == nil {
		return nil, fmt.Errorf("sqlstore: base state store is required")
	}
	if cacheService == nil {
		return nil, fmt.Errorf("sqlstore: cache service is required")
	}
	key, err := SessionStateCacheKey(installID)
	if err != nil {
		return nil, err
	}
	return &CachedSessionStateStore{
		base:     base,
		cache:    cacheService,
		cacheKey: key,
	}, nil
}

// SessionStateCacheKey returns the deterministic cache key contract:
// mz-hupu-h5-sdk::session_state::v1::<install_id> with the id URL-path
// escaped.
func SessionStateCacheKey(installID string) (string, error) {
	installID = strings.TrimSpace(installID)
	if installID == "" {
		return "", fmt.Errorf("sqlstore: install id is required")
	}
	return sessionStateCacheKeyPrefix + "::" + url.PathEscape(installID), nil
}

func (s *CachedSessionStateStore) SaveSessionToken(ctx context.Context, token string) error {
	if err := s.base.SaveSessionToken(ctx, token); err != nil {
		return err
	}
	return s.invalidate(ctx)
}

func (s *CachedSessionStateStore) LoadSessionToken(ctx context.Context) (string, bool, error) {
	snapshot, err := s.snapshot(ctx)
	if err != nil {
		return "", false, err
	}
	return snapshot.Token, snapshot.HasToken, nil
}

func (s *CachedSessionStateStore) ClearSessionToken(ctx context.Context) error {
	if err := s.base.ClearSessionToken(ctx); err != nil {
		return err
	}
	return s.invalidate(ctx)
}

func (s *CachedSessionStateStore) SaveRoleConfirmed(ctx context.Context, confirmed bool) error {
	if err := s.base.SaveRoleConfirmed(ctx, confirmed); err != nil {
		return err
	}
	return s.invalidate(ctx)
}

func (s *CachedSessionStateStore) LoadRoleConfirmed(ctx context.Context) (bool, error) {
	snapshot, err := s.snapshot(ctx)
	if err != nil {
		return false, err
	}
	return snapshot.RoleConfirmed, nil
}

func (s *CachedSessionStateStore) SaveIdentity(ctx context.Context, identity core.Identity) error {
	if err := s.base.SaveIdentity(ctx, identity); err != nil {
		return err
	}
	return s.invalidate(ctx)
}

func (s *CachedSessionStateStore) LoadIdentity(ctx context.Context) (core.Identity, bool, error) {
	snapshot, err := s.snapshot(ctx)
	if err != nil {
		return core.Identity{}, false, err
	}
	return snapshot.Identity, snapshot.HasIdentity, nil
}

func (s *CachedSessionStateStore) Reset(ctx context.Context) error {
	if err := s.base.Reset(ctx); err != nil {
		return err
	}
	return s.invalidate(ctx)
}

func (s *CachedSessionStateStore) snapshot(ctx context.Context) (sessionStateSnapshot, error) {
	if s == nil || s.base == nil || s.cache == nil {
		return sessionStateSnapshot{}, fmt.Errorf("sqlstore: cached session state store is not configured")
	}
	return repositorycache.GetOrFetch(ctx, s.cache, s.cacheKey, func(ctx context.Context) (sessionStateSnapshot, error) {
		token, hasToken, err := s.base.LoadSessionToken(ctx)
		if err != nil {
			return sessionStateSnapshot{}, err
		}
		confirmed, err := s.base.LoadRoleConfirmed(ctx)
		if err != nil {
			return sessionStateSnapshot{}, err
		}
		identity, hasIdentity, err := s.base.LoadIdentity(ctx)
		if err != nil {
			return sessionStateSnapshot{}, err
		}
		return sessionStateSnapshot{
			Token:         token,
			HasToken:      hasToken,
			RoleConfirmed: confirmed,
			Identity:      identity,
			HasIdentity:   hasIdentity,
		}, nil
	})
}

func (s *CachedSessionStateStore) invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx, s.cacheKey)
}

