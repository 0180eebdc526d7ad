package orchestrator_test

import (
	"context"
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	solanago "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/pkg/errors"
	"github/chapool/multichain-wallet/internal/wallet/adapter"
	"github/chapool/multichain-wallet/internal/wallet/chain"
	"github/chapool/multichain-wallet/internal/wallet/evm"
	"github/chapool/multichain-wallet/internal/wallet/keystore"
	"github/chapool/multichain-wallet/internal/wallet/localauth"
	"github/chapool/multichain-wallet/internal/wallet/orchestrator"
	"github/chapool/multichain-wallet/internal/wallet/seed"
	"github/chapool/multichain-wallet/internal/wallet/session"
	walletsolana "github/chapool/multichain-wallet/internal/wallet/solana"
)

var errUnreachable = errors.New("dial tcp 127.0.0.1:8545: connect: connection refused")

// evmClient answers like an empty dev chain. Every call is counted.
type evmClient struct {
	calls   atomic.Int64
	down    bool
	balance *big.Int

	mu   sync.Mutex
	sent []*types.Transaction
}

func (c *evmClient) hit() error {
	c.calls.Add(1)
	if c.down {
		return errUnreachable
	}
	return nil
}

func (c *evmClient) ChainID(_ context.Context) (*big.Int, error) {
	if err := c.hit(); err != nil {
		return nil, err
	}
	return big.NewInt(11155111), nil
}

func (c *evmClient) BalanceAt(_ context.Context, _ common.Address) (*big.Int, error) {
	if err := c.hit(); err != nil {
		return nil, err
	}
	if c.balance == nil {
		return big.NewInt(0), nil
	}
	return c.balance, nil
}

func (c *evmClient) PendingNonceAt(_ context.Context, _ common.Address) (uint64, error) {
	return 0, c.hit()
}

func (c *evmClient) SuggestGasTipCap(_ context.Context) (*big.Int, error) {
	if err := c.hit(); err != nil {
		return nil, err
	}
	return big.NewInt(1_000_000_000), nil
}

func (c *evmClient) LatestBaseFee(_ context.Context) (*big.Int, error) {
	if err := c.hit(); err != nil {
		return nil, err
	}
	return big.NewInt(1_000_000_000), nil
}

func (c *evmClient) SendTransaction(_ context.Context, tx *types.Transaction) error {
	if err := c.hit(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, tx)
	return nil
}

func (c *evmClient) TransactionReceipt(_ context.Context, _ common.Hash) (*types.Receipt, error) {
	if err := c.hit(); err != nil {
		return nil, err
	}
	return &types.Receipt{Status: types.ReceiptStatusSuccessful, BlockNumber: big.NewInt(1), EffectiveGasPrice: big.NewInt(1)}, nil
}

func (c *evmClient) Close() {}

type solanaClient struct {
	calls    atomic.Int64
	down     bool
	lamports uint64

	mu   sync.Mutex
	sent []*solanago.Transaction
}

func (c *solanaClient) hit() error {
	c.calls.Add(1)
	if c.down {
		return errUnreachable
	}
	return nil
}

func (c *solanaClient) GetBalance(_ context.Context, _ solanago.PublicKey) (uint64, error) {
	return c.lamports, c.hit()
}

func (c *solanaClient) GetLatestBlockhash(_ context.Context) (solanago.Hash, error) {
	return solanago.Hash{9}, c.hit()
}

func (c *solanaClient) SendTransaction(_ context.Context, tx *solanago.Transaction) (solanago.Signature, error) {
	if err := c.hit(); err != nil {
		return solanago.Signature{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, tx)
	return tx.Signatures[0], nil
}

func (c *solanaClient) GetSignatureStatus(_ context.Context, _ solanago.Signature) (*rpc.SignatureStatusesResult, error) {
	if err := c.hit(); err != nil {
		return nil, err
	}
	return &rpc.SignatureStatusesResult{Slot: 7, ConfirmationStatus: rpc.ConfirmationStatusFinalized}, nil
}

func (c *solanaClient) GetVersion(_ context.Context) (string, error) {
	return "2.1.0", c.hit()
}

type observer struct {
	mu       sync.Mutex
	calls    map[string]int
	partials map[string]int
}

func newObserver() *observer {
	return &observer{calls: map[string]int{}, partials: map[string]int{}}
}

func (o *observer) ObserveAdapterCall(chainID string, op string, _ error, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls[chainID+"/"+op]++
}

func (o *observer) ObservePartialFailure(op string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.partials[op]++
}

type fixture struct {
	evm      *evmClient
	solana   *solanaClient
	observer *observer
	orch     *orchestrator.Orchestrator
}

type fixtureOption func(*fixtureConfig)

type fixtureConfig struct {
	privateKey string
	evmID      chain.ID
	extra      []adapter.Adapter
	fanOut     int
}

func withPrivateKey(hexKey string) fixtureOption {
	return func(c *fixtureConfig) { c.privateKey = hexKey }
}

func withExtraAdapter(a adapter.Adapter) fixtureOption {
	return func(c *fixtureConfig) { c.extra = append(c.extra, a) }
}

func withEVMNetworkID(id chain.ID) fixtureOption {
	return func(c *fixtureConfig) { c.evmID = id }
}

func withFanOutLimit(n int) fixtureOption {
	return func(c *fixtureConfig) { c.fanOut = n }
}

const rootSecretAA = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"

func newFixture(opts ...fixtureOption) *fixture {
	cfg := &fixtureConfig{privateKey: rootSecretAA, evmID: chain.Ethereum}
	for _, opt := range opts {
		opt(cfg)
	}

	f := &fixture{
		evm:      &evmClient{},
		solana:   &solanaClient{},
		observer: newObserver(),
	}

	evmAdapter := evm.NewAdapter(chain.Network{
		ID: cfg.evmID, Kind: chain.KindEVM, DisplayName: "Ethereum Sepolia",
		ChainID: 11155111, RPCURLs: []string{"http://localhost:8545"}, Ticker: "ETH", Decimals: 18,
	}, f.evm, evm.Options{PollInterval: time.Millisecond, ConfirmationTimeout: time.Second})

	solanaAdapter := walletsolana.NewAdapter(chain.Network{
		ID: chain.Solana, Kind: chain.KindSolana, DisplayName: "Solana Devnet",
		RPCURLs: []string{"http://localhost:8899"}, Ticker: "SOL", Decimals: 9,
	}, f.solana, walletsolana.Options{PollInterval: time.Millisecond, ConfirmationTimeout: time.Second})

	adapters := append([]adapter.Adapter{evmAdapter, solanaAdapter}, cfg.extra...)
	registry, err := adapter.NewRegistry(adapters...)
	if err != nil {
		panic(err)
	}

	provider := localauth.NewProvider(localauth.Options{PrivateKey: cfg.privateKey, Email: "alice@example.com", Name: "Alice"})
	sess := session.New(provider)

	f.orch = orchestrator.New(sess, registry, orchestrator.Options{
		FanOutLimit:    cfg.fanOut,
		KeystoreParams: keystore.LightScryptParams(),
		Observer:       f.observer,
	})

	return f
}

// blockingAdapter holds every Accounts call until release is closed.
type blockingAdapter struct {
	adapter.Adapter

	started chan struct{}
	release chan struct{}
}

func newBlockingAdapter(id chain.ID) *blockingAdapter {
	return &blockingAdapter{
		Adapter: adapter.NewStub(chain.Network{ID: id, Kind: chain.KindStub, DisplayName: string(id)}),
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
}

func (b *blockingAdapter) Accounts(ctx context.Context, _ seed.RootSecret) ([]string, error) {
	b.started <- struct{}{}
	select {
	case <-b.release:
		return []string{"blocked-" + string(b.Network().ID)}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
