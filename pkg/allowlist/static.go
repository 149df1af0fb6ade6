package allowlist

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/chainsafe/mint-permit-oracle/pkg/permit"
)

// StaticSource serves creators listed in config plus an optional
// comma-separated environment variable.
type StaticSource struct {
	addresses []string
	envVar    string
}

// NewStaticSource creates a StaticSource from configured addresses and the
// name of an environment variable holding more, comma-separated.
func NewStaticSource(creators []string, envVar string) *StaticSource {
	return &StaticSource{addresses: creators, envVar: envVar}
}

// Creators parses every configured entry. Empty entries are skipped; a
// malformed one fails the whole load.
func (s *StaticSource) Creators(_ context.Context) ([]common.Address, error) {
	entries := append([]string(nil), s.addresses...)
	if s.envVar != "" {
		if raw := os.Getenv(s.envVar); raw != "" {
			entries = append(entries, strings.Split(raw, ",")...)
		}
	}

	out := make([]common.Address, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		addr, err := permit.ParseAddress(entry)
		if err != nil {
			return nil, fmt.Errorf("allowlist entry: %w", err)
		}
		out = append(out, addr)
	}
	return out, nil
}
