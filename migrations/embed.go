// Package migrations embeds the goose SQL migration files
package migrations

import "embed"

// FS holds the versioned migration scripts
//
//go:embed *.sql
var FS embed.FS
