package migrations

import (
	"context"
	"testing"

	"github.com/uptrace/bun/migrate"

	"github.com/chainsafe/mint-permit-oracle/pkg/migrations/allowlistdb"
	"github.com/chainsafe/mint-permit-oracle/pkg/pgutil"
	mghelper "github.com/chainsafe/mint-permit-oracle/pkg/pgutil/migrations"
)

func TestAllowlistDBMigrations_Apply(t *testing.T) {
	db := pgutil.SetupTestDB(t)
	ctx := context.Background()

	migrator := migrate.NewMigrator(db, allowlistdb.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}

	group, err := migrator.Migrate(ctx)
	if err != nil {
		t.Fatalf("Migrate() failed: %v", err)
	}
	if group.IsZero() {
		t.Fatal("expected migrations to run, but none were applied")
	}

	pgutil.AssertTableExists(t, db, "creator_allowlist")
	pgutil.AssertTableExists(t, db, "bun_migrations")

	// second run is a no-op
	group, err = migrator.Migrate(ctx)
	if err != nil {
		t.Fatalf("second Migrate() failed: %v", err)
	}
	if !group.IsZero() {
		t.Fatal("expected no new migrations on second run")
	}
}

func TestAllowlistDBMigrations_Rollback(t *testing.T) {
	db := pgutil.SetupTestDB(t)
	ctx := context.Background()

	migrator := migrate.NewMigrator(db, allowlistdb.Migrations)
	for _, cmd := range []string{"init", "up", "status"} {
		if err := mghelper.RunMigrations(ctx, migrator, cmd); err != nil {
			t.Fatalf("RunMigrations(%q) failed: %v", cmd, err)
		}
	}
	pgutil.AssertTableExists(t, db, "creator_allowlist")

	if err := mghelper.RunMigrations(ctx, migrator, "down"); err != nil {
		t.Fatalf("RunMigrations(down) failed: %v", err)
	}
	pgutil.AssertTableNotExists(t, db, "creator_allowlist")

	if err := mghelper.RunMigrations(ctx, migrator, "sideways"); err == nil {
		t.Fatal("expected error for unknown command")
	}
	if err := mghelper.RunMigrations(ctx, migrator); err == nil {
		t.Fatal("expected error for missing command")
	}
}
