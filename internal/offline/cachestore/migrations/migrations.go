// Package migrations embeds the schema of the offline cache database.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
