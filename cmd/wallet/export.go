package wallet

import (
	"context"

	"github.com/spf13/cobra"
	"github/chapool/multichain-wallet/internal/app"
	"github/chapool/multichain-wallet/internal/config"
	"github/chapool/multichain-wallet/internal/util/command"
)

func newExportKey() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export-key",
		Short: "Prints the session's private key for one network",
		Long: `Prints the private key of --chain in the format that chain's wallets import:
0x-prefixed hex for EVM networks, base58 for Solana.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			chainID, err := chainFromFlags(cmd)
			if err != nil {
				return err
			}

			return command.WithOrchestrator(cmd.Context(), config.DefaultServiceConfigFromEnv(), func(ctx context.Context, a *app.App) error {
				key, err := a.Orchestrator.ExportKey(ctx, chainID)
				if err != nil {
					return err //nolint:wrapcheck
				}

				return command.PrintJSON(cmd.OutOrStdout(), key)
			})
		},
	}

	addChainFlag(cmd)

	return cmd
}

func newExportRoot() *cobra.Command {
	return &cobra.Command{
		Use:   "export-root",
		Short: "Prints the session's root secret",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return command.WithOrchestrator(cmd.Context(), config.DefaultServiceConfigFromEnv(), func(ctx context.Context, a *app.App) error {
				secret, err := a.Orchestrator.ExportRootSecret(ctx)
				if err != nil {
					return err //nolint:wrapcheck
				}

				return command.PrintJSON(cmd.OutOrStdout(), map[string]string{"rootSecret": secret})
			})
		},
	}
}
