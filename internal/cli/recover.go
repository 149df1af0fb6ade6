package cli

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"

	"github.com/chainsafe/mint-permit-oracle/pkg/keys"
	"github.com/chainsafe/mint-permit-oracle/pkg/permit"
)

// RecoverResult is the JSON output of the recover command
type RecoverResult struct {
	Digest  string `json:"digest"`
	Address string `json:"address"`
}

// NewRecoverCommand creates the recover command.
func NewRecoverCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "recover <digest> <signature>",
		Short: "Recover the signer address from a digest and a 65-byte signature",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			digest, err := permit.ParseHash(args[0])
			if err != nil {
				return fmt.Errorf("digest: %w", err)
			}
			sig, err := hexutil.Decode(args[1])
			if err != nil {
				return fmt.Errorf("signature: %w", err)
			}

			addr, err := keys.RecoverAddress(digest, sig)
			if err != nil {
				return err
			}

			res := RecoverResult{Digest: digest.Hex(), Address: addr.Hex()}
			return rootOpts.write(cmd.OutOrStdout(), res, func() string { return res.Address })
		},
	}
}
