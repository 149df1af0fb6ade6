// Package allowlist holds the set of creators permitted to request mint permits.
package allowlist

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/common"
)

// Source provides the initial allowlist contents
type Source interface {
	Creators(ctx context.Context) ([]common.Address, error)
}

// Store is a concurrency-safe set of creator addresses. Reads do not block
// each other; writes are expected to be rare.
type Store struct {
	// mu serializes writers so a membership check and the mutation that
	// follows it observe the same set
	mu  sync.Mutex
	set mapset.Set[common.Address]
}

// New creates a store holding creators
func New(creators ...common.Address) *Store {
	return &Store{set: mapset.NewSet(creators...)}
}

// Load builds a store from src
func Load(ctx context.Context, src Source) (*Store, error) {
	creators, err := src.Creators(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load allowlist: %w", err)
	}
	return New(creators...), nil
}

// IsAllowed reports whether creator may request permits
func (s *Store) IsAllowed(creator common.Address) bool {
	return s.set.Contains(creator)
}

// Add inserts creator and reports whether it was newly added
func (s *Store) Add(creator common.Address) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set.Add(creator)
}

// Remove deletes creator and reports whether it was present
func (s *Store) Remove(creator common.Address) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set.Contains(creator) {
		return false
	}
	s.set.Remove(creator)
	return true
}

// List returns the creators sorted by address bytes
func (s *Store) List() []common.Address {
	out := s.set.ToSlice()
	sort.Slice(out, func(i, j int) bool { return bytes.Compare(out[i][:], out[j][:]) < 0 })
	return out
}

// Len returns the number of allowed creators
func (s *Store) Len() int {
	return s.set.Cardinality()
}
