package permit

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

// Type names of the EIP-712 schema. The field lists below are a wire
// contract with the verifying contract: order, names and types must not change.
const (
	DomainType  = "EIP712Domain"
	PrimaryType = "MintPermit"
)

// Types is the EIP-712 type set for MintPermit:
//
//	EIP712Domain(string name,string version,uint256 chainId,address verifyingContract)
//	MintPermit(address to,bytes32 uriHash,bytes32 artHash,uint256 nonce,uint256 deadline)
var Types = apitypes.Types{
	DomainType: {
		{Name: "name", Type: "string"},
		{Name: "version", Type: "string"},
		{Name: "chainId", Type: "uint256"},
		{Name: "verifyingContract", Type: "address"},
	},
	PrimaryType: {
		{Name: "to", Type: "address"},
		{Name: "uriHash", Type: "bytes32"},
		{Name: "artHash", Type: "bytes32"},
		{Name: "nonce", Type: "uint256"},
		{Name: "deadline", Type: "uint256"},
	},
}

var errNilNonce = errors.New("permit nonce is nil")

// TypedData assembles the EIP-712 typed data for p under domain d
func TypedData(p *MintPermit, d Domain) (apitypes.TypedData, error) {
	if p.Nonce == nil {
		return apitypes.TypedData{}, errNilNonce
	}
	return apitypes.TypedData{
		Types:       Types,
		PrimaryType: PrimaryType,
		Domain: apitypes.TypedDataDomain{
			Name:              d.Name,
			Version:           d.Version,
			ChainId:           uint256Value(new(big.Int).SetUint64(d.ChainID)),
			VerifyingContract: d.VerifyingContract.Hex(),
		},
		Message: apitypes.TypedDataMessage{
			"to":       p.To.Hex(),
			"uriHash":  p.URIHash.Bytes(),
			"artHash":  p.ArtHash.Bytes(),
			"nonce":    uint256Value(p.Nonce.ToBig()),
			"deadline": uint256Value(new(big.Int).SetUint64(p.Deadline)),
		},
	}, nil
}

// Digest returns keccak256(0x19 0x01 ‖ domainSeparator ‖ hashStruct(permit)),
// the value the verifying contract recovers the signer from.
func Digest(p *MintPermit, d Domain) (common.Hash, error) {
	td, err := TypedData(p, d)
	if err != nil {
		return common.Hash{}, err
	}
	digest, _, err := apitypes.TypedDataAndHash(td)
	if err != nil {
		return common.Hash{}, fmt.Errorf("eip712 digest: %w", err)
	}
	return common.BytesToHash(digest), nil
}

// DomainSeparator returns hashStruct(EIP712Domain) for d
func DomainSeparator(d Domain) (common.Hash, error) {
	dom := apitypes.TypedDataDomain{
		Name:              d.Name,
		Version:           d.Version,
		ChainId:           uint256Value(new(big.Int).SetUint64(d.ChainID)),
		VerifyingContract: d.VerifyingContract.Hex(),
	}
	// HashStruct validates the typed data, which requires a domain
	td := apitypes.TypedData{Types: Types, Domain: dom}
	h, err := td.HashStruct(DomainType, dom.Map())
	if err != nil {
		return common.Hash{}, fmt.Errorf("eip712 domain separator: %w", err)
	}
	return common.BytesToHash(h), nil
}

// StructHash returns hashStruct(MintPermit) for p
func StructHash(p *MintPermit) (common.Hash, error) {
	td, err := TypedData(p, Domain{})
	if err != nil {
		return common.Hash{}, err
	}
	h, err := td.HashStruct(PrimaryType, td.Message)
	if err != nil {
		return common.Hash{}, fmt.Errorf("eip712 struct hash: %w", err)
	}
	return common.BytesToHash(h), nil
}

// TypeHash returns keccak256 of the encoded MintPermit type
func TypeHash() common.Hash {
	td := apitypes.TypedData{Types: Types}
	return common.BytesToHash(td.TypeHash(PrimaryType))
}

func uint256Value(b *big.Int) *math.HexOrDecimal256 {
	return (*math.HexOrDecimal256)(b)
}
