package migration

import "embed"

// Files holds the sql-migrate scripts applied by cmd/migration.
//
//go:embed *.sql
var Files embed.FS
