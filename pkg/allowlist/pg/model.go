package pg

import (
	"time"

	"github.com/uptrace/bun"
)

// CreatorDao maps directly to the 'creator_allowlist' table in PostgreSQL.
type CreatorDao struct {
	bun.BaseModel `bun:"table:creator_allowlist,alias:ca"`
	Address       string    `bun:"address,pk,type:varchar(42)"`
	Note          *string   `bun:"note,type:varchar(500)"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}
