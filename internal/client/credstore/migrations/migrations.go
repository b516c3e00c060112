// Package migrations embeds the credential-store schema migrations applied
// by goose at startup.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
