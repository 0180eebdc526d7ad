package command_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/multichain-wallet/internal/app"
	"github/chapool/multichain-wallet/internal/config"
	"github/chapool/multichain-wallet/internal/util/command"
	"github/chapool/multichain-wallet/internal/wallet/session"
)

func testConfig() config.Config {
	return config.Config{
		Session: config.SessionConfig{
			LoginMethod: config.LoginMethodPrivateKey,
			PrivateKey:  "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318",
		},
		Wallet: config.WalletConfig{
			EthereumRPCURLs: []string{"http://127.0.0.1:1"},
			SolanaRPCURLs:   []string{"http://127.0.0.1:1"},
		},
		Metrics: config.MetricsConfig{Namespace: "wallet_test"},
	}
}

func TestWithOrchestrator(t *testing.T) {
	testError := errors.New("test error")

	var assembled *app.App
	resultErr := command.WithOrchestrator(t.Context(), testConfig(), func(ctx context.Context, a *app.App) error {
		assembled = a
		assert.Equal(t, session.StateAuthenticated, a.Orchestrator.State())

		account, err := a.Orchestrator.GetEthAccount(ctx)
		require.NoError(t, err)
		assert.NotEmpty(t, account.Address)

		return testError
	})

	assert.Equal(t, testError, resultErr)
	require.NotNil(t, assembled)
	assert.Equal(t, session.StateLoggedOut, assembled.Orchestrator.State())
}

func TestWithOrchestratorLoginFailure(t *testing.T) {
	cfg := testConfig()
	cfg.Session.PrivateKey = "not-hex"

	called := false
	err := command.WithOrchestrator(t.Context(), cfg, func(_ context.Context, _ *app.App) error {
		called = true
		return nil
	})

	require.Error(t, err)
	assert.False(t, called)
}

func TestWithApp(t *testing.T) {
	err := command.WithApp(t.Context(), testConfig(), func(_ context.Context, a *app.App) error {
		assert.Equal(t, session.StateReady, a.Orchestrator.State())
		return nil
	})

	require.NoError(t, err)
}

func TestNewSubcommandGroup(t *testing.T) {
	sub := &cobra.Command{Use: "child"}
	group := command.NewSubcommandGroup("parent", sub)

	assert.Equal(t, "parent <subcommand>", group.Use)
	assert.Equal(t, "parent related subcommands", group.Short)
	assert.Len(t, group.Commands(), 1)
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, command.PrintJSON(&buf, map[string]string{"chain": "ethereum"}))
	assert.Equal(t, "{\n  \"chain\": \"ethereum\"\n}\n", buf.String())
}
