package solana_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/multichain-wallet/internal/wallet/solana"
)

func TestNewRPCClientRequiresURL(t *testing.T) {
	t.Parallel()

	_, err := solana.NewRPCClient(nil)
	require.Error(t, err)
}

func TestRPCClientClose(t *testing.T) {
	t.Parallel()

	client, err := solana.NewRPCClient([]string{"http://127.0.0.1:1", "http://127.0.0.1:2"})
	require.NoError(t, err)

	assert.NotPanics(t, client.Close)
	assert.NotPanics(t, client.Close)
}
