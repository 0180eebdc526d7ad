package session

import (
	"context"

	"github.com/spf13/cobra"
	"github/chapool/multichain-wallet/internal/app"
	"github/chapool/multichain-wallet/internal/config"
	"github/chapool/multichain-wallet/internal/util/command"
)

func New() *cobra.Command {
	return command.NewSubcommandGroup("session",
		newUserInfo(),
		newIDToken(),
	)
}

func newUserInfo() *cobra.Command {
	return &cobra.Command{
		Use:   "user-info",
		Short: "Logs in and prints the session's user info",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return command.WithOrchestrator(cmd.Context(), config.DefaultServiceConfigFromEnv(), func(ctx context.Context, a *app.App) error {
				info, err := a.Orchestrator.UserInfo(ctx)
				if err != nil {
					return err //nolint:wrapcheck
				}

				return command.PrintJSON(cmd.OutOrStdout(), info)
			})
		},
	}
}

func newIDToken() *cobra.Command {
	return &cobra.Command{
		Use:   "id-token",
		Short: "Logs in and prints the session's id token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return command.WithOrchestrator(cmd.Context(), config.DefaultServiceConfigFromEnv(), func(ctx context.Context, a *app.App) error {
				token, err := a.Orchestrator.IDToken(ctx)
				if err != nil {
					return err //nolint:wrapcheck
				}

				return command.PrintJSON(cmd.OutOrStdout(), map[string]string{"idToken": token})
			})
		},
	}
}
