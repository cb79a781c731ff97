package sqlstore

import (
	"database/sql"
	"fmt"
	"strings"

	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// RepositoryFactory wires the bun-backed stores from a persistence client
// or a raw bun db.
type RepositoryFactory struct {
	db *bun.DB

	sessionStateStore *SessionStateStore
	installID         string
}

func NewRepositoryFactory(installID string) *RepositoryFactory {
	return &RepositoryFactory{installID: strings.TrimSpace(installID)}
}

func NewRepositoryFactoryFromPersistence(client *persistence.Client, installID string) (*RepositoryFactory, error) {
	factory := NewRepositoryFactory(installID)
	if err := factory.BuildStores(client); err != nil {
		return nil, err
	}
	return factory, nil
}

func NewRepositoryFactoryFromDB(db *bun.DB, installID string) (*RepositoryFactory, error) {
	factory := NewRepositoryFactory(installID)
	if err := factory.BuildStores(db); err != nil {
		return nil, err
	}
	return factory, nil
}

func (f *RepositoryFactory) BuildStores(persistenceClient any) error {
	if f == nil {
		return fmt.Errorf("sqlstore: repository factory is nil")
	}
	if f.db == nil {
		db, err := resolveBunDB(persistenceClient)
		if err != nil {
			return err
		}
		f.db = db
	}
	if f.sessionStateStore != nil {
		return nil
	}
	store, err := NewSessionStateStore(f.db, f.installID)
	if err != nil {
		return err
	}
	f.sessionStateStore = store
	return nil
}

func (f *RepositoryFactory) SessionStateStore() *SessionStateStore {
	if f == nil {
		return nil
	}
	return f.sessionStateStore
}

func (f *RepositoryFactory) DB() *bun.DB {
	if f == nil {
		return nil
	}
	return f.db
}

func resolveBunDB(candidate any) (*bun.DB, error) {
	switch typed := candidate.(type) {
	case nil:
		return nil, fmt.Errorf("sqlstore: persistence client is required")
	case *bun.DB:
		return typed, nil
	case interface{ DB() *bun.DB }:
		db := typed.DB()
		if db == nil {
			return nil, fmt.Errorf("sqlstore: persistence client returned nil bun db")
		}
		return db, nil
	default:
		return nil, fmt.Errorf("sqlstore: unsupported persistence client type %T", candidate)
	}
}

// OpenDB opens a bun db for one of the supported drivers: sqlite3 for
// embedded deployments, postgres for shared ones.
func OpenDB(driver string, dsn string) (*bun.DB, error) {
	switch strings.TrimSpace(strings.ToLower(driver)) {
	case "sqlite", "sqlite3":
		sqlDB, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, fmt.Errorf("sqlstore: open sqlite db: %w", err)
		}
		return bun.NewDB(sqlDB, sqlitedialect.New()), nil
	case "postgres", "pg":
		sqlDB, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("sqlstore: open postgres db: %w", err)
		}
		return bun.NewDB(sqlDB, pgdialect.New()), nil
	default:
		return nil, fmt.Errorf("sqlstore: unsupported driver %q", driver)
	}
}
