package migrations

import "embed"

// FS holds the goose migrations in version order.
//
//go:embed *.sql
var FS embed.FS
