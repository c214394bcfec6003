package db

import "embed"

// MigrationFS embeds SQL migration files from internal/db/migrations.
// The migrate runner (cmd/migrate) applies them via golang-migrate.
//
//go:embed migrations/*.sql
var MigrationFS embed.FS
