package solana

import (
	"context"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// ErrNoClientAvailable is returned when none of the configured RPC endpoints reports healthy.
var ErrNoClientAvailable = errors.New("all RPC clients are unavailable")

// Client is the RPC surface the adapter needs from a Solana cluster.
type Client interface {
	GetBalance(ctx context.Context, account solana.PublicKey) (uint64, error)
	GetLatestBlockhash(ctx context.Context) (solana.Hash, error)
	SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)
	// GetSignatureStatus returns nil while the cluster has not seen the signature
	GetSignatureStatus(ctx context.Context, signature solana.Signature) (*rpc.SignatureStatusesResult, error)
	GetVersion(ctx context.Context) (string, error)
}

// RPCClient wraps one solana-go client per URL and moves to the next endpoint when getHealth fails.
type RPCClient struct {
	urls    []string
	clients []*rpc.Client
	mu      sync.Mutex
	current int
}

var _ Client = (*RPCClient)(nil)

func NewRPCClient(urls []string) (*RPCClient, error) {
	if len(urls) == 0 {
		return nil, errors.New("at least one RPC URL is required")
	}

	clients := make([]*rpc.Client, 0, len(urls))
	for _, url := range urls {
		clients = append(clients, rpc.New(url))
	}

	return &RPCClient{
		urls:    urls,
		clients: clients,
	}, nil
}

// Close releases the connections of every endpoint.
func (c *RPCClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, client := range c.clients {
		if err := client.Close(); err != nil {
			log.Warn().Str("url", c.urls[i]).Err(err).Msg("Failed to close RPC client")
		}
	}
}

// GetBalance returns the confirmed lamport balance of account.
func (c *RPCClient) GetBalance(ctx context.Context, account solana.PublicKey) (uint64, error) {
	client, err := c.getClient(ctx)
	if err != nil {
		return 0, err
	}

	out, err := client.GetBalance(ctx, account, rpc.CommitmentConfirmed)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get balance")
	}

	return out.Value, nil
}

func (c *RPCClient) GetLatestBlockhash(ctx context.Context) (solana.Hash, error) {
	client, err := c.getClient(ctx)
	if err != nil {
		return solana.Hash{}, err
	}

	block, err := client.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Hash{}, errors.Wrap(err, "failed to get recent blockhash")
	}

	return block.Value.Blockhash, nil
}

// SendTransaction submits a signed transaction with preflight simulation enabled.
func (c *RPCClient) SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	client, err := c.getClient(ctx)
	if err != nil {
		return solana.Signature{}, err
	}

	sig, err := client.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		PreflightCommitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		return solana.Signature{}, errors.Wrap(err, "failed to send transaction")
	}

	return sig, nil
}

func (c *RPCClient) GetSignatureStatus(ctx context.Context, signature solana.Signature) (*rpc.SignatureStatusesResult, error) {
	client, err := c.getClient(ctx)
	if err != nil {
		return nil, err
	}

	out, err := client.GetSignatureStatuses(ctx, false, signature)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get signature status")
	}

	if out == nil || len(out.Value) == 0 {
		return nil, nil
	}

	return out.Value[0], nil
}

// GetVersion returns the solana-core version of the node.
func (c *RPCClient) GetVersion(ctx context.Context) (string, error) {
	client, err := c.getClient(ctx)
	if err != nil {
		return "", err
	}

	out, err := client.GetVersion(ctx)
	if err != nil {
		return "", errors.Wrap(err, "failed to get version")
	}

	return out.SolanaCore, nil
}

func (c *RPCClient) getClient(ctx context.Context) (*rpc.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.clients {
		idx := (c.current + i) % len(c.clients)

		if _, err := c.clients[idx].GetHealth(ctx); err != nil {
			log.Warn().Str("url", c.urls[idx]).Err(err).Msg("RPC client health check failed, trying next endpoint")
			continue
		}

		c.current = idx
		return c.clients[idx], nil
	}

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, ErrNoClientAvailable.Error())
	}

	return nil, ErrNoClientAvailable
}
