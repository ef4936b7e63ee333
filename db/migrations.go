// Package db ships the postgres schema migrations inside the binary.
package db

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsRoot is the directory inside Migrations holding the files.
const MigrationsRoot = "migrations"
