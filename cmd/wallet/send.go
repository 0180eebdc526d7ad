package wallet

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github/chapool/multichain-wallet/internal/app"
	"github/chapool/multichain-wallet/internal/config"
	"github/chapool/multichain-wallet/internal/util/command"
	"github/chapool/multichain-wallet/internal/wallet/adapter"
	"github/chapool/multichain-wallet/internal/wallet/chain"
)

type sendArgs struct {
	chainID  chain.ID
	to       string
	amount   string
	gasLimit uint64
}

func newSend() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Sends a native transfer and waits for its confirmation",
		Long: `Sends --amount (in major units, e.g. 0.01) to --to on --chain.
Without --to the transfer goes to the session's own address.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			args, err := sendArgsFromFlags(cmd)
			if err != nil {
				return err
			}

			return command.WithOrchestrator(cmd.Context(), config.DefaultServiceConfigFromEnv(), func(ctx context.Context, a *app.App) error {
				return runSend(ctx, cmd, a, args)
			})
		},
	}

	addChainFlag(cmd)
	cmd.Flags().String(toFlag, "", "Recipient address, defaults to the session's own address.")
	cmd.Flags().String(amountFlag, "", "Amount in major units (ETH, SOL).")
	cmd.Flags().Uint64(gasLimitFlag, 0, "EVM gas limit, 0 uses the default for plain transfers.")

	if err := cmd.MarkFlagRequired(amountFlag); err != nil {
		panic(err)
	}

	return cmd
}

func sendArgsFromFlags(cmd *cobra.Command) (sendArgs, error) {
	var (
		args sendArgs
		err  error
	)

	if args.chainID, err = chainFromFlags(cmd); err != nil {
		return args, err
	}
	if args.to, err = cmd.Flags().GetString(toFlag); err != nil {
		return args, err //nolint:wrapcheck
	}
	if args.amount, err = cmd.Flags().GetString(amountFlag); err != nil {
		return args, err //nolint:wrapcheck
	}
	if args.gasLimit, err = cmd.Flags().GetUint64(gasLimitFlag); err != nil {
		return args, err //nolint:wrapcheck
	}

	return args, nil
}

func runSend(ctx context.Context, cmd *cobra.Command, a *app.App, args sendArgs) error {
	network, err := a.Networks.GetNetwork(ctx, args.chainID)
	if err != nil {
		return errors.Wrap(err, "failed to resolve network")
	}

	amount, err := adapter.ParseAmount(args.amount, network.Decimals)
	if err != nil {
		return err //nolint:wrapcheck
	}

	receipt, err := a.Orchestrator.SendTransaction(ctx, &adapter.TransactionRequest{
		Chain:    args.chainID,
		To:       args.to,
		Amount:   amount,
		GasLimit: args.gasLimit,
	})
	if err != nil {
		return err //nolint:wrapcheck
	}

	return command.PrintJSON(cmd.OutOrStdout(), receipt)
}
