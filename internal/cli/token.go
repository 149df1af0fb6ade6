package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/chainsafe/mint-permit-oracle/pkg/auth"
)

// AdminTokenOptions holds flags for the admin-token command
type AdminTokenOptions struct {
	Subject string
	TTL     time.Duration
}

// AdminTokenResult is the JSON output of the admin-token command
type AdminTokenResult struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
}

// NewAdminTokenCommand creates the admin-token command.
func NewAdminTokenCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AdminTokenOptions{}

	cmd := &cobra.Command{
		Use:   "admin-token",
		Short: "Mint a bearer token for the /admin endpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := rootOpts.loadConfig()
			if err != nil {
				return err
			}
			secret := os.Getenv(cfg.Admin.JWTSecretEnv)
			if secret == "" {
				return fmt.Errorf("environment variable %s is not set", cfg.Admin.JWTSecretEnv)
			}

			tok, err := auth.IssueToken([]byte(secret), cfg.Admin.Issuer, opts.Subject, opts.TTL)
			if err != nil {
				return err
			}

			res := AdminTokenResult{
				Token:     tok,
				ExpiresAt: time.Now().Add(opts.TTL).UTC().Format(time.RFC3339),
			}
			return rootOpts.write(cmd.OutOrStdout(), res, func() string { return res.Token })
		},
	}

	cmd.Flags().StringVar(&opts.Subject, "subject", "operator", "token subject recorded in admin logs")
	cmd.Flags().DurationVar(&opts.TTL, "ttl", time.Hour, "token lifetime")

	return cmd
}
