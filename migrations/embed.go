// Package migrations embeds the SQL schema migrations (golang-migrate naming).
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
