// Package migrations embeds the numbered SQL scripts that build the
// catalog database. Store applies every NNN_*.up.sql file in order and
// records each version once applied; .down.sql files are kept for manual
// rollback.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
