// Package permit defines the mint permit that the oracle signs, the signing
// domain it is bound to, and the request/response shapes of the
// validate-and-sign operation.
package permit

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

var (
	ErrInvalidAddress = errors.New("invalid address")
	ErrInvalidHash    = errors.New("invalid hash")
	ErrInvalidNonce   = errors.New("invalid nonce")
)

// Domain is the EIP-712 signing domain. It is fixed at startup.
type Domain struct {
	Name              string
	Version           string
	ChainID           uint64
	VerifyingContract common.Address
}

// MintPermit is the message signed for one mint. ArtHash is the caller's
// content fingerprint; URIHash is always derived by the oracle.
type MintPermit struct {
	To       common.Address
	URIHash  common.Hash
	ArtHash  common.Hash
	Nonce    *uint256.Int
	Deadline uint64
}

// ValidateRequest is the validate-and-sign request body
type ValidateRequest struct {
	Creator     string `json:"creator" validate:"required"`
	To          string `json:"to" validate:"required"`
	URI         string `json:"uri"`
	ContentHash string `json:"contentHash,omitzero" validate:"required_without_all=SHA256 ContentCID"`
	// SHA256 is the legacy name of ContentHash
	SHA256 string `json:"sha256,omitzero"`
	// ContentCID carries the fingerprint as a sha2-256 CID
	ContentCID string  `json:"contentCid,omitzero"`
	Nonce      *string `json:"nonce,omitempty"`
	Deadline   *uint64 `json:"deadline" validate:"required"`
}

// Fingerprint returns the caller supplied content fingerprint as sent,
// preferring contentHash, then sha256, then contentCid.
func (r *ValidateRequest) Fingerprint() string {
	switch {
	case r.ContentHash != "":
		return r.ContentHash
	case r.SHA256 != "":
		return r.SHA256
	default:
		return r.ContentCID
	}
}

// ParseFingerprint decodes the fingerprint chosen by Fingerprint
func (r *ValidateRequest) ParseFingerprint() (common.Hash, error) {
	if r.ContentHash == "" && r.SHA256 == "" && r.ContentCID != "" {
		return ParseCID(r.ContentCID)
	}
	return ParseHash(r.Fingerprint())
}

// PermitJSON is the permit echoed back to the caller
type PermitJSON struct {
	To       string `json:"to"`
	URIHash  string `json:"uriHash"`
	ArtHash  string `json:"artHash"`
	Nonce    string `json:"nonce"`
	Deadline string `json:"deadline"`
}

// ValidateResponse is returned for a signed permit
type ValidateResponse struct {
	Permit    PermitJSON `json:"permit"`
	Signature string     `json:"signature"`
	Validator string     `json:"validator"`
}

// JSON renders the permit with checksummed addresses, 0x-prefixed hashes and
// decimal integers.
func (p *MintPermit) JSON() PermitJSON {
	nonce := "0"
	if p.Nonce != nil {
		nonce = p.Nonce.Dec()
	}
	return PermitJSON{
		To:       p.To.Hex(),
		URIHash:  p.URIHash.Hex(),
		ArtHash:  p.ArtHash.Hex(),
		Nonce:    nonce,
		Deadline: strconv.FormatUint(p.Deadline, 10),
	}
}

// URIHash hashes the raw metadata URI with keccak256
func URIHash(uri string) common.Hash {
	return crypto.Keccak256Hash([]byte(uri))
}

// ParseAddress parses a 20-byte hex account identity, with or without 0x
func ParseAddress(s string) (common.Address, error) {
	s = strings.TrimSpace(s)
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	return common.HexToAddress(s), nil
}

// ParseHash parses exactly 32 bytes of hex, with or without 0x
func ParseHash(s string) (common.Hash, error) {
	raw := strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "0x"), "0X")
	b, err := hex.DecodeString(raw)
	if err != nil {
		return common.Hash{}, fmt.Errorf("%w: %v", ErrInvalidHash, err)
	}
	if len(b) != common.HashLength {
		return common.Hash{}, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidHash, common.HashLength, len(b))
	}
	return common.BytesToHash(b), nil
}

// ParseNonce parses a decimal nonce in the uint256 range. Only ASCII digits
// are accepted.
func ParseNonce(s string) (*uint256.Int, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidNonce)
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return nil, fmt.Errorf("%w: %q is not a decimal integer", ErrInvalidNonce, s)
		}
	}
	n, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidNonce, err)
	}
	return n, nil
}
