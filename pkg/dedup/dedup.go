// Package dedup records content fingerprints that have already been admitted
// for signing. Entries are never removed for the lifetime of the process.
package dedup

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/puzpuzpuz/xsync/v3"
)

// Store is a concurrent set of admitted fingerprints
type Store struct {
	seen *xsync.MapOf[common.Hash, struct{}]
}

// New creates an empty Store
func New() *Store {
	return &Store{seen: xsync.NewMapOf[common.Hash, struct{}]()}
}

// Admit records h and reports whether it was not seen before. For any
// fingerprint, exactly one Admit call ever returns true, even under
// concurrent use.
func (s *Store) Admit(h common.Hash) bool {
	_, loaded := s.seen.LoadOrStore(h, struct{}{})
	return !loaded
}

// Seen reports whether h was admitted
func (s *Store) Seen(h common.Hash) bool {
	_, ok := s.seen.Load(h)
	return ok
}

// Len returns the number of admitted fingerprints
func (s *Store) Len() int {
	return s.seen.Size()
}
