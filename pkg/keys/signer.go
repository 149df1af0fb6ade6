// Package keys loads the validator signing key and produces recoverable
// secp256k1 signatures over EIP-712 digests.
package keys

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// recoveryOffset converts the 0/1 recovery id to the 27/28 form ecrecover expects
const recoveryOffset = 27

var ErrInvalidSignature = errors.New("invalid signature")

// Signer holds the validator key for the lifetime of the process. It is safe
// for concurrent use.
type Signer struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

// NewSigner wraps key
func NewSigner(key *ecdsa.PrivateKey) *Signer {
	return &Signer{key: key, address: crypto.PubkeyToAddress(key.PublicKey)}
}

// ParsePrivateKey parses a hex-encoded secp256k1 private key, with or without 0x
func ParsePrivateKey(s string) (*ecdsa.PrivateKey, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	key, err := crypto.HexToECDSA(s)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return key, nil
}

// Address returns the signer's account address
func (s *Signer) Address() common.Address {
	return s.address
}

// SignHash signs digest and returns r ‖ s ‖ v with v in {27, 28}.
// Signatures are deterministic (RFC 6979) and low-S.
func (s *Signer) SignHash(digest common.Hash) ([]byte, error) {
	sig, err := crypto.Sign(digest.Bytes(), s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign digest: %w", err)
	}
	sig[crypto.RecoveryIDOffset] += recoveryOffset
	return sig, nil
}

// String prints only the address so the key never reaches logs
func (s *Signer) String() string {
	return "signer(" + s.address.Hex() + ")"
}

// GoString keeps %#v from dumping the key
func (s *Signer) GoString() string {
	return s.String()
}

// RecoverAddress returns the address that produced sig over digest. Both the
// 27/28 and 0/1 recovery id forms are accepted.
func RecoverAddress(digest common.Hash, sig []byte) (common.Address, error) {
	if len(sig) != crypto.SignatureLength {
		return common.Address{}, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidSignature, crypto.SignatureLength, len(sig))
	}
	normalized := make([]byte, crypto.SignatureLength)
	copy(normalized, sig)
	if normalized[crypto.RecoveryIDOffset] >= recoveryOffset {
		normalized[crypto.RecoveryIDOffset] -= recoveryOffset
	}
	if normalized[crypto.RecoveryIDOffset] > 1 {
		return common.Address{}, fmt.Errorf("%w: bad recovery id %d", ErrInvalidSignature, sig[crypto.RecoveryIDOffset])
	}

	pub, err := crypto.SigToPub(digest.Bytes(), normalized)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}
