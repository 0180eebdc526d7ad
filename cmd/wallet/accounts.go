package wallet

import (
	"context"

	"github.com/spf13/cobra"
	"github/chapool/multichain-wallet/internal/app"
	"github/chapool/multichain-wallet/internal/config"
	"github/chapool/multichain-wallet/internal/util/command"
	"github/chapool/multichain-wallet/internal/wallet/adapter"
	"github/chapool/multichain-wallet/internal/wallet/errs"
)

type failureOutput struct {
	Chain string `json:"chain"`
	Kind  string `json:"kind"`
	Error string `json:"error"`
}

type accountsOutput struct {
	Accounts []adapter.Account `json:"accounts"`
	Failures []failureOutput   `json:"failures,omitempty"`
}

type balanceOutput struct {
	*adapter.BalanceQuote
	Formatted string `json:"formatted"`
}

type balancesOutput struct {
	Balances []balanceOutput `json:"balances"`
	Failures []failureOutput `json:"failures,omitempty"`
}

func newAccounts() *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "Prints the session's address on every network",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return command.WithOrchestrator(cmd.Context(), config.DefaultServiceConfigFromEnv(), func(ctx context.Context, a *app.App) error {
				result, err := a.Orchestrator.GetAllAccounts(ctx)
				if result == nil {
					return err //nolint:wrapcheck
				}

				out := accountsOutput{Accounts: result.Accounts, Failures: failuresOf(result.Failures)}
				if printErr := command.PrintJSON(cmd.OutOrStdout(), out); printErr != nil {
					return printErr
				}

				return err //nolint:wrapcheck
			})
		},
	}
}

func newBalances() *cobra.Command {
	return &cobra.Command{
		Use:   "balances",
		Short: "Prints the session's native balance on every network",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return command.WithOrchestrator(cmd.Context(), config.DefaultServiceConfigFromEnv(), func(ctx context.Context, a *app.App) error {
				result, err := a.Orchestrator.GetAllBalances(ctx)
				if result == nil {
					return err //nolint:wrapcheck
				}

				out := balancesOutput{Failures: failuresOf(result.Failures)}
				for _, b := range result.Balances {
					out.Balances = append(out.Balances, balanceOutput{BalanceQuote: b, Formatted: b.Formatted()})
				}

				if printErr := command.PrintJSON(cmd.OutOrStdout(), out); printErr != nil {
					return printErr
				}

				return err //nolint:wrapcheck
			})
		},
	}
}

func newAccount() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Prints the session's address on one network",
		RunE: func(cmd *cobra.Command, _ []string) error {
			chainID, err := chainFromFlags(cmd)
			if err != nil {
				return err
			}

			return command.WithOrchestrator(cmd.Context(), config.DefaultServiceConfigFromEnv(), func(ctx context.Context, a *app.App) error {
				account, err := a.Orchestrator.GetAccount(ctx, chainID)
				if err != nil {
					return err //nolint:wrapcheck
				}

				return command.PrintJSON(cmd.OutOrStdout(), account)
			})
		},
	}

	addChainFlag(cmd)

	return cmd
}

func newBalance() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Prints the session's native balance on one network",
		RunE: func(cmd *cobra.Command, _ []string) error {
			chainID, err := chainFromFlags(cmd)
			if err != nil {
				return err
			}

			return command.WithOrchestrator(cmd.Context(), config.DefaultServiceConfigFromEnv(), func(ctx context.Context, a *app.App) error {
				quote, err := a.Orchestrator.GetBalance(ctx, chainID)
				if err != nil {
					return err //nolint:wrapcheck
				}

				return command.PrintJSON(cmd.OutOrStdout(), balanceOutput{BalanceQuote: quote, Formatted: quote.Formatted()})
			})
		},
	}

	addChainFlag(cmd)

	return cmd
}

func failuresOf(failures []*errs.PartialChainFailure) []failureOutput {
	result := make([]failureOutput, 0, len(failures))
	for _, f := range failures {
		kind := ""
		if k := errs.KindOf(f.Cause); k != nil {
			kind = k.Error()
		}
		result = append(result, failureOutput{
			Chain: f.Chain.String(),
			Kind:  kind,
			Error: f.Cause.Error(),
		})
	}

	return result
}
