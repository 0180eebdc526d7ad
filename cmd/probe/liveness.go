package probe

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github/chapool/multichain-wallet/internal/app"
	"github/chapool/multichain-wallet/internal/config"
	"github/chapool/multichain-wallet/internal/util"
	"github/chapool/multichain-wallet/internal/util/command"
)

func newLiveness() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "liveness",
		Short: "Checks the configuration",
		Long: `Assembles the wallet from the current env and initializes the session provider.
No RPC node is contacted.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			verbose, err := cmd.Flags().GetBool(verboseFlag)
			if err != nil {
				return err //nolint:wrapcheck
			}

			return runLiveness(cmd, verbose)
		},
	}

	cmd.Flags().BoolP(verboseFlag, "v", false, "Show verbose output.")

	return cmd
}

func runLiveness(cmd *cobra.Command, verbose bool) error {
	cfg := config.DefaultServiceConfigFromEnv()

	return command.WithApp(cmd.Context(), cfg, func(ctx context.Context, a *app.App) error {
		if verbose {
			for _, n := range a.Networks.ListNetworks(ctx) {
				log.Info().
					Str("chain", n.ID.String()).
					Str("kind", string(n.Kind)).
					Strs("rpc_urls", n.RPCURLs).
					Bool("disabled", util.FalseIfNil(n.Disabled)).
					Msg("Network configured")
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "ok: %d active networks, session %s\n", len(a.Orchestrator.Networks()), a.Orchestrator.State())

		return nil
	})
}
