package orders

import (
	"embed"
	"io/fs"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrations returns the order schema migrations compiled into the binary.
func Migrations() fs.FS {
	// Sub only fails on an invalid path.
	sub, _ := fs.Sub(migrationFiles, "migrations")
	return sub
}
