package sqlstore_test

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"testing"
	"time"

	persistence "github.com/goliatone/go-persistence-bun"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/myp007/mz-hupu-h5-sdk/core"
	sdkmigrations "github.com/myp007/mz-hupu-h5-sdk/migrations"
	sqlstore "github.com/myp007/mz-hupu-h5-sdk/store/sql"
)

type testPersistenceConfig struct {
	driver string
	server string
}

func (c testPersistenceConfig) GetDebug() bool {
	return false
}

func (c testPersistenceConfig) GetDriver() string {
	return c.driver
}

func (c testPersistenceConfig) GetServer() string {
	return c.server
}

func (c testPersistenceConfig) GetPingTimeout() time.Duration {
	return time.Second
}

func (c testPersistenceConfig) GetOtelIdentifier() string {
	return "mz-hupu-h5-sdk-tests"
}

func newSQLiteClient(t *testing.T) (*persistence.Client, func()) {
	t.Helper()

	dsn := fmt.Sprintf(
		"file:hupuh5-test-%d?mode=memory&cache=shared&_foreign_keys=on",
		time.Now().UnixNano(),
	)
	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		t.Fatalf("open sqlite db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	cfg := testPersistenceConfig{
		driver: "sqlite3",
		server: dsn,
	}
	client, err := persistence.New(cfg, sqlDB, sqlitedialect.New())
	if err != nil {
		_ = sqlDB.Close()
		t.Fatalf("new persistence client: %v", err)
	}

	ctx := context.Background()
	_, err = sdkmigrations.Register(ctx, func(_ context.Context, dialect string, _ string, fsys fs.FS) error {
		if dialect != sdkmigrations.DialectSQLite {
			return nil
		}
		client.RegisterSQLMigrations(fsys)
		return nil
	}, sdkmigrations.WithValidationTargets(sdkmigrations.DialectSQLite))
	if err != nil {
		_ = client.Close()
		t.Fatalf("register migrations: %v", err)
	}
	if err := client.Migrate(ctx); err != nil {
		_ = client.Close()
		t.Fatalf("migrate: %v", err)
	}

	return client, func() {
		_ = client.Close()
	}
}

func TestMigrationSmokeApplySQLite(t *testing.T) {
	client, cleanup := newSQLiteClient(t)
	defer cleanup()

	var tableName string
	if err := client.DB().NewRaw(
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?",
		"client_session_states",
	).Scan(context.Background(), &tableName); err != nil {
		t.Fatalf("query sqlite master: %v", err)
	}
	if tableName != "client_session_states" {
		t.Fatalf("expected client_session_states table, got %q", tableName)
	}
}

func TestSessionStateStore_RoundtripAndReset(t *testing.T) {
	ctx := context.Background()
	client, cleanup := newSQLiteClient(t)
	defer cleanup()

	factory, err := sqlstore.NewRepositoryFactoryFromPersistence(client, "install_1")
	if err != nil {
		t.Fatalf("new repository factory: %v", err)
	}
	store := factory.SessionStateStore()
	if store == nil {
		t.Fatalf("expected session state store from factory")
	}

	if _, ok, err := store.LoadSessionToken(ctx); err != nil || ok {
		t.Fatalf("cold start must have no token, ok=%v err=%v", ok, err)
	}
	if confirmed, err := store.LoadRoleConfirmed(ctx); err != nil || confirmed {
		t.Fatalf("cold start must have no role flag, confirmed=%v err=%v", confirmed, err)
	}

	if err := store.SaveSessionToken(ctx, "session_tk"); err != nil {
		t.Fatalf("save token: %v", err)
	}
	if err := store.SaveRoleConfirmed(ctx, true); err != nil {
		t.Fatalf("save role flag: %v", err)
	}
	if err := store.SaveIdentity(ctx, core.Identity{
		UserID:   "u_1",
		Nickname: "nick",
		Level:    7,
		Raw:      map[string]any{"userId": "u_1"},
	}); err != nil {
		t.Fatalf("save identity: %v", err)
	}

	token, ok, err := store.LoadSessionToken(ctx)
	if err != nil || !ok || token != "session_tk" {
		t.Fatalf("load token: %q ok=%v err=%v", token, ok, err)
	}
	confirmed, err := store.LoadRoleConfirmed(ctx)
	if err != nil || !confirmed {
		t.Fatalf("load role flag: %v err=%v", confirmed, err)
	}
	identity, ok, err := store.LoadIdentity(ctx)
	if err != nil || !ok {
		t.Fatalf("load identity: ok=%v err=%v", ok, err)
	}
	if identity.UserID != "u_1" || identity.Nickname != "nick" || identity.Level != 7 {
		t.Fatalf("unexpected identity %#v", identity)
	}

	if err := store.ClearSessionToken(ctx); err != nil {
		t.Fatalf("clear token: %v", err)
	}
	if _, ok, _ := store.LoadSessionToken(ctx); ok {
		t.Fatalf("token must be gone after clear")
	}
	if confirmed, _ := store.LoadRoleConfirmed(ctx); !confirmed {
		t.Fatalf("clear token must not touch the role flag")
	}

	if err := store.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if confirmed, _ := store.LoadRoleConfirmed(ctx); confirmed {
		t.Fatalf("role flag must be gone after reset")
	}
	if _, ok, _ := store.LoadIdentity(ctx); ok {
		t.Fatalf("identity must be gone after reset")
	}
}

func TestSessionStateStore_InstallationsAreIsolated(t *testing.T) {
	ctx := context.Background()
	client, cleanup := newSQLiteClient(t)
	defer cleanup()

	first, err := sqlstore.NewSessionStateStore(client.DB(), "install_a")
	if err != nil {
		t.Fatalf("new store a: %v", err)
	}
	second, err := sqlstore.NewSessionStateStore(client.DB(), "install_b")
	if err != nil {
		t.Fatalf("new store b: %v", err)
	}

	if err := first.SaveSessionToken(ctx, "tk_a"); err != nil {
		t.Fatalf("save token a: %v", err)
	}
	if err := second.SaveSessionToken(ctx, "tk_b"); err != nil {
		t.Fatalf("save token b: %v", err)
	}

	token, ok, err := first.LoadSessionToken(ctx)
	if err != nil || !ok || token != "tk_a" {
		t.Fatalf("load token a: %q ok=%v err=%v", token, ok, err)
	}
	token, ok, err = second.LoadSessionToken(ctx)
	if err != nil || !ok || token != "tk_b" {
		t.Fatalf("load token b: %q ok=%v err=%v", token, ok, err)
	}
}

func TestRepositoryFactory_RequiresInstallID(t *testing.T) {
	client, cleanup := newSQLiteClient(t)
	defer cleanup()

	if _, err := sqlstore.NewRepositoryFactoryFromPersistence(client, "  "); err == nil {
		t.Fatalf("expected blank install id to fail")
	}
}
