package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/chainsafe/mint-permit-oracle/pkg/keys"
)

// AddressResult is the JSON output of the address command
type AddressResult struct {
	Source  string `json:"source"`
	Address string `json:"address"`
}

// NewAddressCommand creates the address command.
func NewAddressCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "address",
		Short: "Print the validator address for the configured signer key",
		Long: `Load the validator key from the configured source and print its address.

The address must be registered as the validator on the verifying contract.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := rootOpts.loadConfig()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			src, err := keys.NewSource(ctx, &cfg.Signer)
			if err != nil {
				return err
			}
			if c, ok := src.(io.Closer); ok {
				defer func() { _ = c.Close() }()
			}

			signer, err := keys.LoadSigner(ctx, src)
			if err != nil {
				return err
			}

			res := AddressResult{Source: cfg.Signer.Source, Address: signer.Address().Hex()}
			return rootOpts.write(cmd.OutOrStdout(), res, func() string {
				return fmt.Sprintf("%s (%s)", res.Address, res.Source)
			})
		},
	}
}
