package keys

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/hkdf"
)

// MinSeedLength is the shortest seed DeriveKey accepts
const MinSeedLength = 32

const deriveInfoPrefix = "mint-permit-validator-"

// DeriveKey deterministically derives a secp256k1 key from seed using
// HKDF-SHA256. Different labels yield independent keys from one seed.
func DeriveKey(seed []byte, label string) (*ecdsa.PrivateKey, error) {
	if len(seed) < MinSeedLength {
		return nil, fmt.Errorf("seed must be at least %d bytes", MinSeedLength)
	}

	reader := hkdf.New(sha256.New, seed, nil, []byte(deriveInfoPrefix+label))

	// a 32-byte draw falls outside [1, n) with negligible probability;
	// keep drawing rather than fail
	for range 4 {
		raw := make([]byte, 32)
		if _, err := io.ReadFull(reader, raw); err != nil {
			return nil, fmt.Errorf("failed to derive key seed: %w", err)
		}
		if key, err := crypto.ToECDSA(raw); err == nil {
			return key, nil
		}
	}
	return nil, fmt.Errorf("failed to derive a valid secp256k1 key")
}
