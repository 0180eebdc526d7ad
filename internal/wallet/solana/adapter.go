// Package solana implements the chain adapter for Solana clusters.
//
// The signing key is the ed25519 key whose 32-byte seed is the root secret. Transfers are single
// system-program instructions paid by the derived account; SendTransaction waits until the cluster
// reports the signature at confirmed commitment or better.
package solana

import (
	"context"
	"math/big"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github/chapool/multichain-wallet/internal/util"
	"github/chapool/multichain-wallet/internal/wallet/adapter"
	"github/chapool/multichain-wallet/internal/wallet/chain"
	"github/chapool/multichain-wallet/internal/wallet/errs"
	"github/chapool/multichain-wallet/internal/wallet/seed"
)

const (
	DefaultFeeLamports         uint64 = 5000
	DefaultPollInterval               = time.Second
	DefaultConfirmationTimeout        = time.Minute

	publicKeyLength         = 32
	ed25519PrivateKeyLength = 64
)

type Options struct {
	PollInterval        time.Duration
	ConfirmationTimeout time.Duration
}

// Adapter serves one Solana cluster.
type Adapter struct {
	network chain.Network
	client  Client
	opts    Options
}

var _ adapter.Adapter = (*Adapter)(nil)

func NewAdapter(network chain.Network, client Client, opts Options) *Adapter {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.ConfirmationTimeout <= 0 {
		opts.ConfirmationTimeout = DefaultConfirmationTimeout
	}

	return &Adapter{
		network: network,
		client:  client,
		opts:    opts,
	}
}

func (a *Adapter) Network() chain.Network {
	return a.network
}

//nolint:ireturn
func (a *Adapter) DeriveSigningKey(secret seed.RootSecret) (adapter.SigningKey, error) {
	return a.deriveKey(secret)
}

func (a *Adapter) deriveKey(secret seed.RootSecret) (*SigningKey, error) {
	if len(secret) != seed.RootSecretLength {
		return nil, errs.Newf(errs.ErrKeyDerivation, a.network.ID, "derive signing key", "root secret must be %d bytes, got %d", seed.RootSecretLength, len(secret))
	}

	return newSigningKey(a.network.ID, secret), nil
}

func (a *Adapter) Address(key adapter.SigningKey) (string, error) {
	k, err := a.ownKey(key, "get address")
	if err != nil {
		return "", err
	}

	return k.PublicKey().String(), nil
}

func (a *Adapter) Accounts(_ context.Context, secret seed.RootSecret) ([]string, error) {
	key, err := a.deriveKey(secret)
	if err != nil {
		return nil, err
	}
	defer key.Zero()

	return []string{key.PublicKey().String()}, nil
}

func (a *Adapter) Balance(ctx context.Context, address string) (*adapter.BalanceQuote, error) {
	const op = "get balance"

	account, err := parsePublicKey(address)
	if err != nil {
		return nil, errs.Wrap(errs.ErrInvalidAddress, a.network.ID, op, err)
	}

	lamports, err := a.client.GetBalance(ctx, account)
	if err != nil {
		return nil, errs.Wrap(errs.ErrRPCUnavailable, a.network.ID, op, err)
	}

	return &adapter.BalanceQuote{
		Chain:    a.network.ID,
		Address:  account.String(),
		Amount:   new(big.Int).SetUint64(lamports),
		Decimals: a.network.Decimals,
		Denom:    a.network.Ticker,
	}, nil
}

// SendTransaction transfers req.Amount lamports to req.To (the key's own account if empty) and waits
// for confirmation. If waiting is cut short the transaction stays submitted and
// ErrConfirmationTimeout carries its signature.
func (a *Adapter) SendTransaction(ctx context.Context, key adapter.SigningKey, req *adapter.TransactionRequest) (*adapter.TransactionReceipt, error) {
	const op = "send transaction"

	k, err := a.ownKey(key, op)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, errs.New(errs.ErrInvalidAmount, a.network.ID, op, "missing transaction request")
	}
	if req.Amount == nil || req.Amount.Sign() < 0 || !req.Amount.IsUint64() {
		return nil, errs.New(errs.ErrInvalidAmount, a.network.ID, op, "amount must be a non-negative 64-bit lamport value")
	}
	amount := req.Amount.Uint64()

	from := k.PublicKey()
	to := from
	if req.To != "" {
		to, err = parsePublicKey(req.To)
		if err != nil {
			return nil, errs.Wrap(errs.ErrInvalidAddress, a.network.ID, op, err)
		}
	}

	log := util.LogFromContext(ctx).With().
		Str("chain", a.network.ID.String()).
		Str("from", from.String()).
		Str("to", to.String()).
		Logger()

	fee := req.FeeLamports
	if fee == 0 {
		fee = a.network.FeeLamports
	}
	if fee == 0 {
		fee = DefaultFeeLamports
	}

	balance, err := a.client.GetBalance(ctx, from)
	if err != nil {
		return nil, errs.Wrap(errs.ErrRPCUnavailable, a.network.ID, op, err)
	}
	if amount > balance || balance-amount < fee {
		return nil, errs.Newf(errs.ErrInsufficientFunds, a.network.ID, op,
			"balance %d lamports is below amount %d plus fee %d", balance, amount, fee)
	}

	blockhash, err := a.client.GetLatestBlockhash(ctx)
	if err != nil {
		return nil, errs.Wrap(errs.ErrRPCUnavailable, a.network.ID, op, err)
	}

	//nolint:varnamelen // tx is a common abbreviation for transaction
	tx, err := buildTransfer(k, to, amount, blockhash)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKeyDerivation, a.network.ID, op, err)
	}

	sig, err := a.client.SendTransaction(ctx, tx)
	if err != nil {
		return nil, classifyBroadcastError(a.network.ID, op, err)
	}

	log.Info().Str("tx_hash", sig.String()).Uint64("lamports", amount).Msg("Transaction submitted, awaiting confirmation")

	status, err := a.waitForConfirmation(ctx, sig)
	if err != nil {
		return nil, err
	}

	receipt := &adapter.TransactionReceipt{
		Chain:       a.network.ID,
		TxHash:      sig.String(),
		Status:      adapter.TxStatusConfirmed,
		Block:       status.Slot,
		Fee:         new(big.Int).SetUint64(fee),
		ExplorerURL: a.network.ExplorerTxURL(sig.String()),
	}
	if status.Err != nil {
		receipt.Status = adapter.TxStatusFailed
	}

	log.Info().Str("tx_hash", receipt.TxHash).Uint64("slot", receipt.Block).Str("status", string(receipt.Status)).Msg("Transaction confirmed")

	return receipt, nil
}

// ExportRawKey returns the 64-byte seed||pubkey key.
func (a *Adapter) ExportRawKey(key adapter.SigningKey) ([]byte, error) {
	k, err := a.ownKey(key, "export raw key")
	if err != nil {
		return nil, err
	}

	raw := make([]byte, len(k.key))
	copy(raw, k.key)

	return raw, nil
}

// EncodeRawKey renders the key as base58, the format Phantom and solana-keygen import.
func (a *Adapter) EncodeRawKey(raw []byte) string {
	return base58.Encode(raw)
}

func (a *Adapter) Ping(ctx context.Context) error {
	if _, err := a.client.GetVersion(ctx); err != nil {
		return errs.Wrap(errs.ErrRPCUnavailable, a.network.ID, "ping", err)
	}

	return nil
}

func (a *Adapter) ownKey(key adapter.SigningKey, op string) (*SigningKey, error) {
	k, ok := key.(*SigningKey)
	if !ok || k == nil || len(k.key) != ed25519PrivateKeyLength {
		return nil, errs.New(errs.ErrKeyDerivation, a.network.ID, op, "signing key was not derived by the Solana adapter")
	}

	return k, nil
}

func (a *Adapter) waitForConfirmation(ctx context.Context, sig solana.Signature) (*rpc.SignatureStatusesResult, error) {
	const op = "await confirmation"

	localCtx, cancel := context.WithTimeout(ctx, a.opts.ConfirmationTimeout)
	defer cancel()

	ticker := time.NewTicker(a.opts.PollInterval)
	defer ticker.Stop()

	for {
		status, err := a.client.GetSignatureStatus(localCtx, sig)
		if err != nil && localCtx.Err() == nil {
			return nil, errs.Wrap(errs.ErrRPCUnavailable, a.network.ID, op, errors.Wrapf(err, "transaction %s", sig))
		}

		if err == nil && status != nil {
			if status.Err != nil {
				return status, nil
			}
			switch status.ConfirmationStatus {
			case rpc.ConfirmationStatusConfirmed, rpc.ConfirmationStatusFinalized:
				return status, nil
			case rpc.ConfirmationStatusProcessed:
			}
		}

		select {
		case <-localCtx.Done():
			return nil, errs.Newf(errs.ErrConfirmationTimeout, a.network.ID, op, "transaction %s submitted but not confirmed: %v", sig, localCtx.Err())
		case <-ticker.C:
		}
	}
}

func buildTransfer(key *SigningKey, to solana.PublicKey, lamports uint64, blockhash solana.Hash) (*solana.Transaction, error) {
	from := key.PublicKey()

	transferInst := system.NewTransferInstruction(lamports, from, to).Build()

	tx, err := solana.NewTransaction(
		[]solana.Instruction{transferInst},
		blockhash,
		solana.TransactionPayer(from),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create transaction")
	}

	_, err = tx.Sign(func(pub solana.PublicKey) *solana.PrivateKey {
		if pub.Equals(from) {
			return &key.key
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign transaction")
	}

	return tx, nil
}

// parsePublicKey accepts a base58 encoded 32-byte account address.
func parsePublicKey(address string) (solana.PublicKey, error) {
	raw, err := base58.Decode(address)
	if err != nil {
		return solana.PublicKey{}, errors.Wrapf(err, "%q is not base58", address)
	}
	if len(raw) != publicKeyLength {
		return solana.PublicKey{}, errors.Errorf("%q decodes to %d bytes, expected %d", address, len(raw), publicKeyLength)
	}

	return solana.PublicKeyFromBytes(raw), nil
}

// classifyBroadcastError maps a submission failure to its kind. A JSON-RPC error object means the
// cluster rejected the payload, usually during preflight simulation.
func classifyBroadcastError(chainID chain.ID, op string, err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "insufficient funds") || strings.Contains(msg, "no record of a prior credit") {
		return errs.Wrap(errs.ErrInsufficientFunds, chainID, op, err)
	}

	var rpcErr *jsonrpc.RPCError
	if errors.As(err, &rpcErr) {
		return errs.Wrap(errs.ErrBroadcastRejected, chainID, op, err)
	}

	return errs.Wrap(errs.ErrRPCUnavailable, chainID, op, err)
}
