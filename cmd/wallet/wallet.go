package wallet

import (
	"github.com/spf13/cobra"
	"github/chapool/multichain-wallet/internal/util/command"
	"github/chapool/multichain-wallet/internal/wallet/chain"
)

const (
	chainFlag    string = "chain"
	toFlag       string = "to"
	amountFlag   string = "amount"
	gasLimitFlag string = "gas-limit"
	fileFlag     string = "file"
)

func New() *cobra.Command {
	return command.NewSubcommandGroup("wallet",
		newAccounts(),
		newBalances(),
		newAccount(),
		newBalance(),
		newSend(),
		newExportKey(),
		newExportRoot(),
		command.NewSubcommandGroup("keystore",
			newKeystoreExport(),
			newKeystoreVerify(),
		),
	)
}

func addChainFlag(cmd *cobra.Command) {
	cmd.Flags().StringP(chainFlag, "c", chain.Ethereum.String(), "Network id as configured, e.g. ethereum or solana.")
}

func chainFromFlags(cmd *cobra.Command) (chain.ID, error) {
	id, err := cmd.Flags().GetString(chainFlag)
	if err != nil {
		return "", err //nolint:wrapcheck
	}

	return chain.ID(id), nil
}
