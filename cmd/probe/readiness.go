package probe

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github/chapool/multichain-wallet/internal/app"
	"github/chapool/multichain-wallet/internal/config"
	"github/chapool/multichain-wallet/internal/util/command"
)

var errNotReady = errors.New("not all networks are reachable")

func newReadiness() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "readiness",
		Short: "Checks the RPC nodes of every network",
		Long: `Pings the RPC transport of every configured network concurrently.
Exits non-zero if any of them is unreachable.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			verbose, err := cmd.Flags().GetBool(verboseFlag)
			if err != nil {
				return err //nolint:wrapcheck
			}
			dumpMetrics, err := cmd.Flags().GetBool(metricsFlag)
			if err != nil {
				return err //nolint:wrapcheck
			}

			return runReadiness(cmd, verbose, dumpMetrics)
		},
	}

	cmd.Flags().BoolP(verboseFlag, "v", false, "Show verbose output.")
	cmd.Flags().Bool(metricsFlag, false, "Print the collected metrics in text format afterwards.")

	return cmd
}

func runReadiness(cmd *cobra.Command, verbose bool, dumpMetrics bool) error {
	cfg := config.DefaultServiceConfigFromEnv()

	return command.WithApp(cmd.Context(), cfg, func(ctx context.Context, a *app.App) error {
		out := cmd.OutOrStdout()

		failed := 0
		for _, result := range a.Orchestrator.Ping(ctx) {
			switch {
			case result.Err != nil:
				failed++
				fmt.Fprintf(out, "%s: unreachable: %v\n", result.Chain, result.Err)
			case verbose:
				fmt.Fprintf(out, "%s: ok\n", result.Chain)
			}
		}

		if dumpMetrics {
			if err := a.Metrics.WriteText(out); err != nil {
				return errors.Wrap(err, "failed to write metrics")
			}
		}

		if failed > 0 {
			return errors.Wrapf(errNotReady, "%d unreachable", failed)
		}

		return nil
	})
}
