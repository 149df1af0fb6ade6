// Package nonce issues gap-free, strictly increasing permit nonces per
// recipient. State lives only for the lifetime of the process.
package nonce

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/puzpuzpuz/xsync/v3"
)

// Registry maps a recipient to the next nonce to issue. An absent recipient
// starts at zero.
type Registry struct {
	next *xsync.MapOf[common.Address, uint256.Int]
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{next: xsync.NewMapOf[common.Address, uint256.Int]()}
}

// Next returns the current counter for to and advances it by one. The
// read-increment is atomic per recipient.
func (r *Registry) Next(to common.Address) *uint256.Int {
	stored, _ := r.next.Compute(to, func(old uint256.Int, _ bool) (uint256.Int, bool) {
		var n uint256.Int
		n.AddUint64(&old, 1)
		return n, false
	})
	issued := new(uint256.Int)
	return issued.SubUint64(&stored, 1)
}

// Peek returns the nonce the next call to Next would issue for to, without
// consuming it.
func (r *Registry) Peek(to common.Address) *uint256.Int {
	v, _ := r.next.Load(to)
	return &v
}

// Len returns the number of recipients that have been issued a nonce
func (r *Registry) Len() int {
	return r.next.Size()
}
