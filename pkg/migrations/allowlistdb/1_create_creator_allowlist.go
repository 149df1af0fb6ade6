package allowlistdb

import (
	"context"
	"log"

	"github.com/uptrace/bun"

	"github.com/chainsafe/mint-permit-oracle/pkg/allowlist/pg"
	mghelper "github.com/chainsafe/mint-permit-oracle/pkg/pgutil/migrations"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		log.Println("creating creator_allowlist table...")
		return mghelper.CreateSchema(ctx, db, &pg.CreatorDao{})
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping creator_allowlist table...")
		return mghelper.DropTables(ctx, db, &pg.CreatorDao{})
	})
}
