// Package migrations embeds the goose migrations of the on-device database.
// Migrations are additive only and safe to re-run.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
