package wallet

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github/chapool/multichain-wallet/internal/app"
	"github/chapool/multichain-wallet/internal/config"
	"github/chapool/multichain-wallet/internal/util/command"
	"github/chapool/multichain-wallet/internal/wallet/keystore"
)

const keystoreFileMode = 0o600

func newKeystoreExport() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Writes the key of one network as a password-encrypted keystore file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			chainID, err := chainFromFlags(cmd)
			if err != nil {
				return err
			}
			path, err := cmd.Flags().GetString(fileFlag)
			if err != nil {
				return err //nolint:wrapcheck
			}

			password, err := promptNewPassword()
			if err != nil {
				return err
			}

			return command.WithOrchestrator(cmd.Context(), config.DefaultServiceConfigFromEnv(), func(ctx context.Context, a *app.App) error {
				ks, err := a.Orchestrator.ExportKeystore(ctx, chainID, password)
				if err != nil {
					return err //nolint:wrapcheck
				}

				data, err := ks.Marshal()
				if err != nil {
					return err //nolint:wrapcheck
				}

				if path == "" {
					fmt.Fprintln(cmd.OutOrStdout(), string(data))
					return nil
				}

				if err := os.WriteFile(path, data, keystoreFileMode); err != nil {
					return errors.Wrapf(err, "failed to write keystore to %s", path)
				}

				fmt.Fprintf(cmd.OutOrStdout(), "keystore for %s (%s) written to %s\n", ks.Chain, ks.Address, path)

				return nil
			})
		},
	}

	addChainFlag(cmd)
	cmd.Flags().StringP(fileFlag, "f", "", "Output file, stdout if empty.")

	return cmd
}

func newKeystoreVerify() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Checks that a keystore file holds the session's key",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := cmd.Flags().GetString(fileFlag)
			if err != nil {
				return err //nolint:wrapcheck
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return errors.Wrapf(err, "failed to read keystore %s", path)
			}

			ks, err := keystore.Parse(data)
			if err != nil {
				return err //nolint:wrapcheck
			}

			password, err := promptPassword("Enter keystore password: ")
			if err != nil {
				return err
			}

			return command.WithOrchestrator(cmd.Context(), config.DefaultServiceConfigFromEnv(), func(ctx context.Context, a *app.App) error {
				if err := a.Orchestrator.VerifyKeystore(ctx, ks, password); err != nil {
					return err //nolint:wrapcheck
				}

				fmt.Fprintf(cmd.OutOrStdout(), "keystore matches the session's %s address %s\n", ks.Chain, ks.Address)

				return nil
			})
		},
	}

	cmd.Flags().StringP(fileFlag, "f", "", "Keystore file to verify.")

	if err := cmd.MarkFlagRequired(fileFlag); err != nil {
		panic(err)
	}

	return cmd
}
