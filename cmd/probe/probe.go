package probe

import (
	"github.com/spf13/cobra"
	"github/chapool/multichain-wallet/internal/util/command"
)

const (
	verboseFlag string = "verbose"
	metricsFlag string = "metrics"
)

func New() *cobra.Command {
	return command.NewSubcommandGroup("probe",
		newLiveness(),
		newReadiness(),
	)
}
