// Package db holds the SQL migrations for the export sink.
package db

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory of Migrations inside the embedded FS.
const MigrationsDir = "migrations"
