// Package migrations embeds the goose migrations for the SQL record store.
package migrations

import "embed"

//go:embed postgres/*.sql sqlite/*.sql
var Migrations embed.FS
