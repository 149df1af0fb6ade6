package permit

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// ParseCID extracts the content fingerprint from a CID. Only sha2-256
// multihashes are accepted, so the fingerprint equals the sha256 digest a
// caller would otherwise send as contentHash.
func ParseCID(s string) (common.Hash, error) {
	c, err := cid.Decode(strings.TrimSpace(s))
	if err != nil {
		return common.Hash{}, fmt.Errorf("%w: %v", ErrInvalidHash, err)
	}
	decoded, err := multihash.Decode(c.Hash())
	if err != nil {
		return common.Hash{}, fmt.Errorf("%w: %v", ErrInvalidHash, err)
	}
	if decoded.Code != multihash.SHA2_256 {
		return common.Hash{}, fmt.Errorf("%w: unsupported multihash %s", ErrInvalidHash, multihash.Codes[decoded.Code])
	}
	if len(decoded.Digest) != common.HashLength {
		return common.Hash{}, fmt.Errorf("%w: truncated sha2-256 digest (%d bytes)", ErrInvalidHash, len(decoded.Digest))
	}
	return common.BytesToHash(decoded.Digest), nil
}

// ContentCID renders a fingerprint as a CIDv1 with the raw codec
func ContentCID(fingerprint common.Hash) (string, error) {
	mh, err := multihash.Encode(fingerprint.Bytes(), multihash.SHA2_256)
	if err != nil {
		return "", err
	}
	return cid.NewCidV1(cid.Raw, mh).String(), nil
}
