package allowlist

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/chainsafe/mint-permit-oracle/pkg/permit"
)

var (
	creatorA = common.HexToAddress("0x2c7536E3605D9C16a7a3D7b1898e529396a65c23")
	creatorB = common.HexToAddress("0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf")
)

type errSource struct{ err error }

func (s errSource) Creators(context.Context) ([]common.Address, error) { return nil, s.err }

func TestStore_AddRemove(t *testing.T) {
	s := New(creatorA)

	if !s.IsAllowed(creatorA) {
		t.Fatal("expected seeded creator to be allowed")
	}
	if s.IsAllowed(creatorB) {
		t.Fatal("expected unknown creator to be rejected")
	}

	if !s.Add(creatorB) {
		t.Fatal("Add() of a new creator should return true")
	}
	if s.Add(creatorB) {
		t.Fatal("Add() of an existing creator should return false")
	}
	if !s.IsAllowed(creatorB) {
		t.Fatal("expected added creator to be allowed")
	}

	if !s.Remove(creatorA) {
		t.Fatal("Remove() of a present creator should return true")
	}
	if s.Remove(creatorA) {
		t.Fatal("Remove() of an absent creator should return false")
	}
	if s.IsAllowed(creatorA) {
		t.Fatal("expected removed creator to be rejected")
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 creator, got %d", s.Len())
	}
}

func TestStore_ListSorted(t *testing.T) {
	s := New(creatorB, creatorA)
	got := s.List()
	if len(got) != 2 || got[0] != creatorA || got[1] != creatorB {
		t.Fatalf("unexpected List() order: %v", got)
	}
}

func TestStore_ConcurrentReadersAndWriter(t *testing.T) {
	s := New(creatorA)

	var wg sync.WaitGroup
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				if !s.IsAllowed(creatorA) {
					t.Error("seeded creator unexpectedly rejected")
					return
				}
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for range 100 {
			s.Add(creatorB)
			s.Remove(creatorB)
		}
	}()
	wg.Wait()
}

func TestStore_ConcurrentRemoveReportsOnce(t *testing.T) {
	for range 50 {
		s := New(creatorA)

		var (
			wg      sync.WaitGroup
			removed atomic.Int32
		)
		for range 16 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if s.Remove(creatorA) {
					removed.Add(1)
				}
			}()
		}
		wg.Wait()

		if got := removed.Load(); got != 1 {
			t.Fatalf("expected exactly one successful removal, got %d", got)
		}
		if s.IsAllowed(creatorA) {
			t.Fatal("expected creator to be removed")
		}
	}
}

func TestLoad_StaticSource(t *testing.T) {
	t.Setenv("TEST_ALLOWLIST", " 0x7e5f4552091a69125d5dfcb7b8c2659029395bdf ,,")

	s, err := Load(context.Background(), NewStaticSource(
		[]string{"0x2c7536E3605D9C16a7a3D7b1898e529396a65c23"}, "TEST_ALLOWLIST"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !s.IsAllowed(creatorA) || !s.IsAllowed(creatorB) {
		t.Fatalf("expected both config and env creators, got %v", s.List())
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 creators, got %d", s.Len())
	}
}

func TestLoad_StaticSourceMalformed(t *testing.T) {
	t.Setenv("TEST_ALLOWLIST", "0x1234")

	_, err := Load(context.Background(), NewStaticSource(nil, "TEST_ALLOWLIST"))
	if !errors.Is(err, permit.ErrInvalidAddress) {
		t.Fatalf("expected ErrInvalidAddress, got %v", err)
	}
}

func TestLoad_SourceError(t *testing.T) {
	boom := errors.New("boom")
	if _, err := Load(context.Background(), errSource{err: boom}); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped source error, got %v", err)
	}
}
