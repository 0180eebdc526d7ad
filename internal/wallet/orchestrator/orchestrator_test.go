package orchestrator_test

import (
	"context"
	"math/big"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/multichain-wallet/internal/wallet/adapter"
	"github/chapool/multichain-wallet/internal/wallet/chain"
	"github/chapool/multichain-wallet/internal/wallet/errs"
	"github/chapool/multichain-wallet/internal/wallet/keystore"
	"github/chapool/multichain-wallet/internal/wallet/localauth"
	"github/chapool/multichain-wallet/internal/wallet/orchestrator"
	"github/chapool/multichain-wallet/internal/wallet/session"
)

var (
	evmAddressPattern    = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
	solanaAddressPattern = regexp.MustCompile(`^[1-9A-HJ-NP-Za-km-z]{32,44}$`)
)

func login(t *testing.T, f *fixture) {
	t.Helper()

	ctx := context.Background()
	require.NoError(t, f.orch.Init(ctx))
	require.Equal(t, session.StateReady, f.orch.State())
	require.NoError(t, f.orch.Login(ctx, session.LoginMethodPrivateKey))
	require.Equal(t, session.StateAuthenticated, f.orch.State())
}

func TestGetAllAccountsTwoChains(t *testing.T) {
	t.Parallel()

	f := newFixture()
	login(t, f)

	result, err := f.orch.GetAllAccounts(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Accounts, 2)
	assert.Empty(t, result.Failures)

	eth, ok := result.Account(chain.Ethereum)
	require.True(t, ok)
	assert.Regexp(t, evmAddressPattern, eth.Address)

	sol, ok := result.Account(chain.Solana)
	require.True(t, ok)
	assert.Regexp(t, solanaAddressPattern, sol.Address)

	// deriving addresses needs no RPC
	assert.Zero(t, f.evm.calls.Load())
	assert.Zero(t, f.solana.calls.Load())
}

func TestDerivationStableAcrossOrchestrators(t *testing.T) {
	t.Parallel()

	first := newFixture()
	second := newFixture()
	login(t, first)
	login(t, second)

	a, err := first.orch.GetAllAccounts(context.Background())
	require.NoError(t, err)
	b, err := second.orch.GetAllAccounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, a.Accounts, b.Accounts)

	// and within one session
	again, err := first.orch.GetAllAccounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, a.Accounts, again.Accounts)

	root1, err := first.orch.ExportRootSecret(context.Background())
	require.NoError(t, err)
	root2, err := first.orch.ExportRootSecret(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0x"+rootSecretAA, root1)
	assert.Equal(t, root1, root2)
}

func TestDifferentSecretsDifferentAddresses(t *testing.T) {
	t.Parallel()

	aa := newFixture()
	bb := newFixture(withPrivateKey("bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"))
	login(t, aa)
	login(t, bb)

	a, err := aa.orch.GetEthAccount(context.Background())
	require.NoError(t, err)
	b, err := bb.orch.GetEthAccount(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, a.Address, b.Address)

	sa, err := aa.orch.GetSolanaAccount(context.Background())
	require.NoError(t, err)
	sb, err := bb.orch.GetSolanaAccount(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, sa.Address, sb.Address)
}

func TestGetAllBalancesPartialFailure(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.evm.down = true
	f.solana.lamports = 1_250_000_000
	login(t, f)

	result, err := f.orch.GetAllBalances(context.Background())
	require.Error(t, err)
	require.NotNil(t, result)

	require.ErrorIs(t, err, errs.ErrPartialChainFailure)
	require.ErrorIs(t, err, errs.ErrRPCUnavailable)

	require.Len(t, result.Failures, 1)
	assert.Equal(t, chain.Ethereum, result.Failures[0].Chain)
	require.ErrorIs(t, result.Failures[0].Cause, errs.ErrRPCUnavailable)
	assert.Equal(t, chain.Ethereum, errs.ChainOf(result.Failures[0]))

	require.Len(t, result.Balances, 1)
	sol, ok := result.Balance(chain.Solana)
	require.True(t, ok)
	assert.Equal(t, "1.25", sol.Formatted())
	assert.Equal(t, "SOL", sol.Denom)

	_, ok = result.Balance(chain.Ethereum)
	assert.False(t, ok)

	assert.Equal(t, 1, f.observer.partials["get all balances"])
}

func TestGetAllBalancesAllSucceed(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.evm.balance = big.NewInt(2_000_000_000_000_000_000)
	login(t, f)

	result, err := f.orch.GetAllBalances(context.Background())
	require.NoError(t, err)
	require.NoError(t, result.Err())
	require.Len(t, result.Balances, 2)

	eth, ok := result.Balance(chain.Ethereum)
	require.True(t, ok)
	assert.Equal(t, "2", eth.Formatted())

	assert.Equal(t, 1, f.observer.calls["ethereum/get balance"])
	assert.Equal(t, 1, f.observer.calls["solana/get balance"])
}

func TestStubChainReportedAsPartialFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(withExtraAdapter(adapter.NewStub(chain.Network{ID: chain.Tezos, Kind: chain.KindStub, DisplayName: "Tezos"})))
	login(t, f)

	result, err := f.orch.GetAllAccounts(context.Background())
	require.ErrorIs(t, err, errs.ErrUnsupportedOperation)
	require.Len(t, result.Accounts, 2)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, chain.Tezos, result.Failures[0].Chain)
}

func TestCompositeWaitsForEveryChain(t *testing.T) {
	t.Parallel()

	slow := newBlockingAdapter(chain.Near)
	f := newFixture(withExtraAdapter(slow))
	login(t, f)

	done := make(chan *orchestrator.AccountsResult, 1)
	go func() {
		result, _ := f.orch.GetAllAccounts(context.Background())
		done <- result
	}()

	select {
	case <-slow.started:
	case <-time.After(5 * time.Second):
		t.Fatal("slow adapter was never called")
	}

	select {
	case <-done:
		t.Fatal("composite call resolved before every chain finished")
	case <-time.After(20 * time.Millisecond):
	}

	close(slow.release)

	select {
	case result := <-done:
		require.Len(t, result.Accounts, 3)
		assert.Equal(t, chain.Ethereum, result.Accounts[0].Chain)
		assert.Equal(t, chain.Solana, result.Accounts[1].Chain)
		assert.Equal(t, "blocked-near", result.Accounts[2].Address)
	case <-time.After(5 * time.Second):
		t.Fatal("composite call did not resolve")
	}
}

func TestCompositeRunsChainsConcurrently(t *testing.T) {
	t.Parallel()

	first := newBlockingAdapter(chain.Near)
	second := newBlockingAdapter(chain.StarkNet)
	f := newFixture(withExtraAdapter(first), withExtraAdapter(second))
	login(t, f)

	done := make(chan error, 1)
	go func() {
		_, err := f.orch.GetAllAccounts(context.Background())
		done <- err
	}()

	// both must be in flight at the same time
	for _, b := range []*blockingAdapter{first, second} {
		select {
		case <-b.started:
		case <-time.After(5 * time.Second):
			t.Fatal("chains were not queried concurrently")
		}
	}

	close(first.release)
	close(second.release)
	require.NoError(t, <-done)
}

func TestFanOutLimitStillCompletes(t *testing.T) {
	t.Parallel()

	f := newFixture(withFanOutLimit(1))
	login(t, f)

	result, err := f.orch.GetAllAccounts(context.Background())
	require.NoError(t, err)
	assert.Len(t, result.Accounts, 2)
}

func TestOperationsBeforeAuthentication(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ks := &keystore.Key{Chain: chain.Ethereum}

	ops := map[string]func(o *orchestrator.Orchestrator) error{
		"GetAllAccounts": func(o *orchestrator.Orchestrator) error { _, err := o.GetAllAccounts(ctx); return err },
		"GetAllBalances": func(o *orchestrator.Orchestrator) error { _, err := o.GetAllBalances(ctx); return err },
		"GetEthAccount":  func(o *orchestrator.Orchestrator) error { _, err := o.GetEthAccount(ctx); return err },
		"GetSolanaBalance": func(o *orchestrator.Orchestrator) error {
			_, err := o.GetSolanaBalance(ctx)
			return err
		},
		"SendTransaction": func(o *orchestrator.Orchestrator) error {
			_, err := o.SendTransaction(ctx, &adapter.TransactionRequest{Chain: chain.Ethereum, Amount: big.NewInt(1)})
			return err
		},
		"ExportKey":        func(o *orchestrator.Orchestrator) error { _, err := o.ExportKey(ctx, chain.Solana); return err },
		"ExportRootSecret": func(o *orchestrator.Orchestrator) error { _, err := o.ExportRootSecret(ctx); return err },
		"ExportKeystore": func(o *orchestrator.Orchestrator) error {
			_, err := o.ExportKeystore(ctx, chain.Ethereum, "pw")
			return err
		},
		"VerifyKeystore": func(o *orchestrator.Orchestrator) error { return o.VerifyKeystore(ctx, ks, "pw") },
		"UserInfo":       func(o *orchestrator.Orchestrator) error { _, err := o.UserInfo(ctx); return err },
		"IDToken":        func(o *orchestrator.Orchestrator) error { _, err := o.IDToken(ctx); return err },
	}

	states := map[session.State]func(t *testing.T, f *fixture){
		session.StateUninitialized: func(_ *testing.T, _ *fixture) {},
		session.StateReady: func(t *testing.T, f *fixture) {
			t.Helper()
			require.NoError(t, f.orch.Init(ctx))
		},
		session.StateLoggedOut: func(t *testing.T, f *fixture) {
			t.Helper()
			login(t, f)
			require.NoError(t, f.orch.Logout(ctx))
		},
	}

	for state, setup := range states {
		for name, op := range ops {
			t.Run(string(state)+"/"+name, func(t *testing.T) {
				t.Parallel()

				f := newFixture()
				setup(t, f)
				require.Equal(t, state, f.orch.State())

				err := op(f.orch)
				require.ErrorIs(t, err, errs.ErrInvalidSessionState)
				assert.Zero(t, f.evm.calls.Load())
				assert.Zero(t, f.solana.calls.Load())
			})
		}
	}
}

func TestPassthroughWithoutProvider(t *testing.T) {
	t.Parallel()

	registry, err := adapter.NewRegistry()
	require.NoError(t, err)
	o := orchestrator.New(session.New(nil), registry, orchestrator.Options{})

	_, err = o.GetEthAccount(context.Background())
	require.ErrorIs(t, err, errs.ErrProviderNotInitialized)

	_, err = o.GetAllAccounts(context.Background())
	require.ErrorIs(t, err, errs.ErrProviderNotInitialized)

	require.ErrorIs(t, o.Init(context.Background()), errs.ErrProviderNotInitialized)
}

func TestUnknownChain(t *testing.T) {
	t.Parallel()

	f := newFixture()
	login(t, f)

	_, err := f.orch.GetBalance(context.Background(), chain.Polygon)
	require.ErrorIs(t, err, errs.ErrUnknownChain)
	assert.Equal(t, chain.Polygon, errs.ChainOf(err))
}

func TestEthPassthroughUsesFirstEVMNetwork(t *testing.T) {
	t.Parallel()

	ethereum := newFixture()
	login(t, ethereum)
	polygon := newFixture(withEVMNetworkID(chain.Polygon))
	login(t, polygon)

	want, err := ethereum.orch.GetEthAccount(context.Background())
	require.NoError(t, err)

	got, err := polygon.orch.GetEthAccount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, chain.Polygon, got.Chain)
	assert.Equal(t, want.Address, got.Address)

	quote, err := polygon.orch.GetEthBalance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, chain.Polygon, quote.Chain)
}

func TestEthPassthroughWithoutEVMNetwork(t *testing.T) {
	t.Parallel()

	registry, err := adapter.NewRegistry()
	require.NoError(t, err)
	provider := localauth.NewProvider(localauth.Options{PrivateKey: rootSecretAA})
	o := orchestrator.New(session.New(provider), registry, orchestrator.Options{})

	_, err = o.GetEthAccount(context.Background())
	require.ErrorIs(t, err, errs.ErrInvalidSessionState)

	require.NoError(t, o.Init(context.Background()))
	require.NoError(t, o.Login(context.Background(), session.LoginMethodPrivateKey))

	_, err = o.GetEthAccount(context.Background())
	require.ErrorIs(t, err, errs.ErrUnknownChain)
	assert.Equal(t, chain.Ethereum, errs.ChainOf(err))

	_, err = o.GetSolanaBalance(context.Background())
	require.ErrorIs(t, err, errs.ErrUnknownChain)
	assert.Equal(t, chain.Solana, errs.ChainOf(err))
}

func TestSendTransactionInsufficientFunds(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.evm.balance = big.NewInt(1000)
	f.solana.lamports = 1000
	login(t, f)

	_, err := f.orch.SendTransaction(context.Background(), &adapter.TransactionRequest{Chain: chain.Ethereum, Amount: big.NewInt(1_000_000)})
	require.ErrorIs(t, err, errs.ErrInsufficientFunds)
	assert.Equal(t, chain.Ethereum, errs.ChainOf(err))
	assert.Empty(t, f.evm.sent)

	_, err = f.orch.SendTransaction(context.Background(), &adapter.TransactionRequest{Chain: chain.Solana, Amount: big.NewInt(1_000_000)})
	require.ErrorIs(t, err, errs.ErrInsufficientFunds)
	assert.Empty(t, f.solana.sent)
}

func TestSendTransactionSelfTransfer(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.evm.balance = big.NewInt(1_000_000_000_000_000_000)
	f.solana.lamports = 1_000_000_000
	login(t, f)

	eth, err := f.orch.GetEthAccount(context.Background())
	require.NoError(t, err)

	receipt, err := f.orch.SendTransaction(context.Background(), &adapter.TransactionRequest{Chain: chain.Ethereum, Amount: big.NewInt(1)})
	require.NoError(t, err)
	assert.Equal(t, adapter.TxStatusConfirmed, receipt.Status)
	require.Len(t, f.evm.sent, 1)
	assert.Equal(t, eth.Address, f.evm.sent[0].To().Hex())

	receipt, err = f.orch.SendTransaction(context.Background(), &adapter.TransactionRequest{Chain: chain.Solana, Amount: big.NewInt(1)})
	require.NoError(t, err)
	assert.Equal(t, uint64(7), receipt.Block)
	require.Len(t, f.solana.sent, 1)

	assert.Equal(t, 1, f.observer.calls["ethereum/send transaction"])
	assert.Equal(t, 1, f.observer.calls["solana/send transaction"])
}

func TestExportKeys(t *testing.T) {
	t.Parallel()

	f := newFixture()
	login(t, f)

	eth, err := f.orch.ExportKey(context.Background(), chain.Ethereum)
	require.NoError(t, err)
	assert.Equal(t, "0x"+rootSecretAA, eth.PrivateKey)
	assert.Regexp(t, evmAddressPattern, eth.Address)

	sol, err := f.orch.ExportKey(context.Background(), chain.Solana)
	require.NoError(t, err)
	assert.Regexp(t, `^[1-9A-HJ-NP-Za-km-z]{86,88}$`, sol.PrivateKey)

	account, err := f.orch.GetSolanaAccount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, account.Address, sol.Address)
}

func TestKeystoreExportAndVerify(t *testing.T) {
	t.Parallel()

	f := newFixture()
	login(t, f)
	ctx := context.Background()

	ks, err := f.orch.ExportKeystore(ctx, chain.Solana, "hunter2")
	require.NoError(t, err)
	assert.Equal(t, chain.Solana, ks.Chain)

	require.NoError(t, f.orch.VerifyKeystore(ctx, ks, "hunter2"))
	require.ErrorIs(t, f.orch.VerifyKeystore(ctx, ks, "wrong"), keystore.ErrInvalidPassword)

	other := newFixture(withPrivateKey("bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"))
	login(t, other)
	require.ErrorIs(t, other.orch.VerifyKeystore(ctx, ks, "hunter2"), orchestrator.ErrKeystoreMismatch)
}

func TestUserInfoAndIDToken(t *testing.T) {
	t.Parallel()

	f := newFixture()
	login(t, f)

	info, err := f.orch.UserInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", info.Email)
	assert.Equal(t, "Alice", info.Name)
	assert.Equal(t, "private_key", info.TypeOfLogin)

	token, err := f.orch.IDToken(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestReloginAfterLogout(t *testing.T) {
	t.Parallel()

	f := newFixture()
	login(t, f)
	ctx := context.Background()

	before, err := f.orch.GetEthAccount(ctx)
	require.NoError(t, err)

	require.NoError(t, f.orch.Logout(ctx))
	require.Equal(t, session.StateLoggedOut, f.orch.State())

	require.NoError(t, f.orch.Login(ctx, session.LoginMethodPrivateKey))
	after, err := f.orch.GetEthAccount(ctx)
	require.NoError(t, err)
	assert.Equal(t, before.Address, after.Address)
}

func TestPing(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.solana.down = true

	results := f.orch.Ping(context.Background())
	require.Len(t, results, 2)
	assert.Equal(t, chain.Ethereum, results[0].Chain)
	require.NoError(t, results[0].Err)
	assert.Equal(t, chain.Solana, results[1].Chain)
	require.ErrorIs(t, results[1].Err, errs.ErrRPCUnavailable)
}

func TestNetworks(t *testing.T) {
	t.Parallel()

	networks := newFixture().orch.Networks()
	require.Len(t, networks, 2)
	assert.Equal(t, chain.Ethereum, networks[0].ID)
	assert.Equal(t, chain.Solana, networks[1].ID)
}
