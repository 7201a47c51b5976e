package db

import "embed"

// MigrationFS embeds SQL migration files from internal/db/migrations.
// Used by the migrate runner (cmd/migrate and session store startup) to bring
// the local database to the current schema.
//
//go:embed migrations/*.sql
var MigrationFS embed.FS
