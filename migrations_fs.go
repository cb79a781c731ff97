package hupuh5

import (
	"embed"
	"io/fs"
)

// migrationsFS holds the SQL migration tree for the persisted client
// state, with the sqlite alternative under data/sql/migrations/sqlite.
//
//go:embed data/sql/migrations/*.sql data/sql/migrations/sqlite/*.sql
var migrationsFS embed.FS

// GetMigrationsFS returns the embedded migration tree.
func GetMigrationsFS() fs.FS {
	return migrationsFS
}
