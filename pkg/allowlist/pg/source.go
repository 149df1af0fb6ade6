// Package pg seeds the creator allowlist from PostgreSQL.
package pg

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/uptrace/bun"

	"github.com/chainsafe/mint-permit-oracle/pkg/permit"
)

// Source reads allowed creators from the creator_allowlist table. It is
// read once at startup; runtime allowlist changes are not written back.
type Source struct {
	db bun.IDB
}

// NewSource creates a Source over db
func NewSource(db bun.IDB) *Source {
	return &Source{db: db}
}

// Creators returns every row of creator_allowlist ordered by address
func (s *Source) Creators(ctx context.Context) ([]common.Address, error) {
	var rows []CreatorDao
	err := s.db.NewSelect().
		Model(&rows).
		Order("address ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query creator allowlist: %w", err)
	}

	out := make([]common.Address, 0, len(rows))
	for _, row := range rows {
		addr, err := permit.ParseAddress(row.Address)
		if err != nil {
			return nil, fmt.Errorf("creator_allowlist row: %w", err)
		}
		out = append(out, addr)
	}
	return out, nil
}
