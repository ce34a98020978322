// Package db embeds the goose SQL migrations so that the binary can migrate
// without the source tree.
package db

import "embed"

// MigrationsDir is the directory of Migrations holding the goose files.
const MigrationsDir = "migrations"

//go:embed migrations/*.sql
var Migrations embed.FS
