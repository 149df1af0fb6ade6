// Package allowlistdb holds all the migrations for the allowlist database
package allowlistdb

import (
	"github.com/uptrace/bun/migrate"
)

// Migrations is the collection of all migrations for the allowlist database
var Migrations = migrate.NewMigrations()
