// Package migrations embeds the SQL migration files so the goose programmatic
// API can apply them at api boot and in tests without a filesystem path.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
