// Package sqlstore persists the SDK's per-installation client state in a
// relational database through bun repositories.
package sqlstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/myp007/mz-hupu-h5-sdk/core"
)

// SessionStateStore implements core.StateStore on top of a single
// client_session_states row keyed by installation id.
type SessionStateStore struct {
	db        *bun.DB
	repo      repository.Repository[*sessionStateRecord]
	installID string
	now       func() time.Time
}

func NewSessionStateStore(db *bun.DB, installID string) (*SessionStateStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	installID = strings.TrimSpace(installID)
	if installID == "" {
		return nil, fmt.Errorf("sqlstore: install id is required")
	}
	repo := repository.NewRepository[*sessionStateRecord](db, sessionStateHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid session state repository wiring: %w", err)
		}
	}
	return &SessionStateStore{
		db:        db,
		repo:      repo,
		installID: installID,
		now:       func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *SessionStateStore) SaveSessionToken(ctx context.Context, token string) error {
	return s.mutate(ctx, func(record *sessionStateRecord) {
		record.SessionToken = strings.TrimSpace(token)
	})
}

func (s *SessionStateStore) LoadSessionToken(ctx context.Context) (string, bool, error) {
	record, found, err := s.loadRecord(ctx)
	if err != nil || !found {
		return "", false, err
	}
	token := strings.TrimSpace(record.SessionToken)
	return token, token != "", nil
}

func (s *SessionStateStore) ClearSessionToken(ctx context.Context) error {
	record, found, err := s.loadRecord(ctx)
	if err != nil || !found {
		return err
	}
	record.SessionToken = ""
	record.UpdatedAt = s.now()
	_, err = s.repo.Update(ctx, record, repository.UpdateByID(record.ID))
	return err
}

func (s *SessionStateStore) SaveRoleConfirmed(ctx context.Context, confirmed bool) error {
	return s.mutate(ctx, func(record *sessionStateRecord) {
		record.RoleConfirmed = confirmed
	})
}

func (s *SessionStateStore) LoadRoleConfirmed(ctx context.Context) (bool, error) {
	record, found, err := s.loadRecord(ctx)
	if err != nil || !found {
		return false, err
	}
	return record.RoleConfirmed, nil
}

func (s *SessionStateStore) SaveIdentity(ctx context.Context, identity core.Identity) error {
	return s.mutate(ctx, func(record *sessionStateRecord) {
		record.Identity = identityToMap(identity)
		record.HasIdentity = !identity.IsZero()
	})
}

func (s *SessionStateStore) LoadIdentity(ctx context.Context) (core.Identity, bool, error) {
	record, found, err := s.loadRecord(ctx)
	if err != nil || !found {
		return core.Identity{}, false, err
	}
	if !record.HasIdentity {
		return core.Identity{}, false, nil
	}
	return identityFromMap(record.Identity), true, nil
}

func (s *SessionStateStore) Reset(ctx context.Context) error {
	record, found, err := s.loadRecord(ctx)
	if err != nil || !found {
		return err
	}
	record.SessionToken = ""
	record.RoleConfirmed = false
	record.HasIdentity = false
	record.Identity = map[string]any{}
	record.UpdatedAt = s.now()
	_, err = s.repo.Update(ctx, record, repository.UpdateByID(record.ID))
	return err
}

// loadRecord fetches the installation row; absence is not an error.
func (s *SessionStateStore) loadRecord(ctx context.Context) (*sessionStateRecord, bool, error) {
	if s == nil || s.repo == nil {
		return nil, false, fmt.Errorf("sqlstore: session state store is not configured")
	}
	records, _, err := s.repo.List(ctx,
		repository.SelectBy("install_id", "=", s.installID),
	)
	if err != nil {
		return nil, false, err
	}
	if len(records) == 0 {
		return nil, false, nil
	}
	return records[0], true, nil
}

// mutate applies fn to the installation row, creating it on first write.
func (s *SessionStateStore) mutate(ctx context.Context, fn func(*sessionStateRecord)) error {
	record, found, err := s.loadRecord(ctx)
	if err != nil {
		return err
	}
	now := s.now()
	if !found {
		record = &sessionStateRecord{
			ID:        uuid.NewString(),
			InstallID: s.installID,
			Identity:  map[string]any{},
			CreatedAt: now,
		}
		fn(record)
		record.UpdatedAt = now
		_, err = s.repo.Create(ctx, record)
		return err
	}
	fn(record)
	record.UpdatedAt = now
	_, err = s.repo.Update(ctx, record, repository.UpdateByID(record.ID))
	return err
}

