package database

import "embed"

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

const migrationsDir = "migrations"
