package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chainsafe/mint-permit-oracle/pkg/permit"
)

// DigestOptions holds the permit fields for the digest command
type DigestOptions struct {
	To          string
	URI         string
	ContentHash string
	Nonce       string
	Deadline    uint64
	// domain overrides; empty values fall back to the config file
	Name              string
	Version           string
	ChainID           uint64
	VerifyingContract string
}

// DigestResult is the JSON output of the digest command
type DigestResult struct {
	DomainSeparator string            `json:"domainSeparator"`
	StructHash      string            `json:"structHash"`
	Digest          string            `json:"digest"`
	Permit          permit.PermitJSON `json:"permit"`
}

// NewDigestCommand creates the digest command.
func NewDigestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DigestOptions{}

	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Compute the EIP-712 digest for a mint permit",
		Long: `Compute the EIP-712 digest the verifying contract will recompute for a permit.

Domain fields come from the oracle config unless every domain flag is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			domain, err := resolveDomain(rootOpts, opts)
			if err != nil {
				return err
			}
			res, err := computeDigest(opts, domain)
			if err != nil {
				return err
			}
			return rootOpts.write(cmd.OutOrStdout(), res, func() string {
				return fmt.Sprintf("domainSeparator: %s\nstructHash:      %s\ndigest:          %s",
					res.DomainSeparator, res.StructHash, res.Digest)
			})
		},
	}

	cmd.Flags().StringVar(&opts.To, "to", "", "recipient address")
	cmd.Flags().StringVar(&opts.URI, "uri", "", "token URI")
	cmd.Flags().StringVar(&opts.ContentHash, "content-hash", "", "32-byte content fingerprint (hex)")
	cmd.Flags().StringVar(&opts.Nonce, "nonce", "0", "permit nonce (decimal)")
	cmd.Flags().Uint64Var(&opts.Deadline, "deadline", 0, "permit deadline (unix seconds)")
	cmd.Flags().StringVar(&opts.Name, "domain-name", "", "EIP-712 domain name")
	cmd.Flags().StringVar(&opts.Version, "domain-version", "", "EIP-712 domain version")
	cmd.Flags().Uint64Var(&opts.ChainID, "chain-id", 0, "EIP-712 domain chain id")
	cmd.Flags().StringVar(&opts.VerifyingContract, "verifying-contract", "", "EIP-712 verifying contract")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("content-hash")

	return cmd
}

func resolveDomain(rootOpts *RootOptions, opts *DigestOptions) (permit.Domain, error) {
	if opts.Name != "" && opts.Version != "" && opts.ChainID != 0 && opts.VerifyingContract != "" {
		vc, err := permit.ParseAddress(opts.VerifyingContract)
		if err != nil {
			return permit.Domain{}, fmt.Errorf("verifying contract: %w", err)
		}
		return permit.Domain{Name: opts.Name, Version: opts.Version, ChainID: opts.ChainID, VerifyingContract: vc}, nil
	}

	cfg, err := rootOpts.loadConfig()
	if err != nil {
		return permit.Domain{}, err
	}
	return permit.Domain{
		Name:              cfg.Domain.Name,
		Version:           cfg.Domain.Version,
		ChainID:           cfg.Domain.ChainID,
		VerifyingContract: cfg.Domain.VerifyingContractAddress(),
	}, nil
}

func computeDigest(opts *DigestOptions, domain permit.Domain) (*DigestResult, error) {
	to, err := permit.ParseAddress(opts.To)
	if err != nil {
		return nil, fmt.Errorf("to: %w", err)
	}
	artHash, err := permit.ParseHash(opts.ContentHash)
	if err != nil {
		return nil, fmt.Errorf("content hash: %w", err)
	}
	nonce, err := permit.ParseNonce(opts.Nonce)
	if err != nil {
		return nil, fmt.Errorf("nonce: %w", err)
	}

	p := &permit.MintPermit{
		To:       to,
		URIHash:  permit.URIHash(opts.URI),
		ArtHash:  artHash,
		Nonce:    nonce,
		Deadline: opts.Deadline,
	}

	digest, err := permit.Digest(p, domain)
	if err != nil {
		return nil, err
	}
	sep, err := permit.DomainSeparator(domain)
	if err != nil {
		return nil, err
	}
	structHash, err := permit.StructHash(p)
	if err != nil {
		return nil, err
	}

	return &DigestResult{
		DomainSeparator: sep.Hex(),
		StructHash:      structHash.Hex(),
		Digest:          digest.Hex(),
		Permit:          p.JSON(),
	}, nil
}
