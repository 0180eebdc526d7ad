// Package evm implements the chain adapter for Ethereum-compatible networks.
//
// The signing key is the root secret itself interpreted as a secp256k1 scalar, so every EVM network
// configured in the wallet shares one address. Transfers are EIP-1559 transactions signed with the
// London signer and the call blocks until the receipt is available.
package evm

import (
	"context"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"
	"github/chapool/multichain-wallet/internal/util"
	"github/chapool/multichain-wallet/internal/wallet/adapter"
	"github/chapool/multichain-wallet/internal/wallet/chain"
	"github/chapool/multichain-wallet/internal/wallet/errs"
	"github/chapool/multichain-wallet/internal/wallet/seed"
)

const (
	DefaultGasLimit            uint64 = 21000
	DefaultPollInterval               = 2 * time.Second
	DefaultConfirmationTimeout        = 2 * time.Minute

	eip1559FeeMultiplier = 2
	privateKeyLength     = 32
)

// Options tune confirmation polling.
type Options struct {
	PollInterval        time.Duration
	ConfirmationTimeout time.Duration
}

// Adapter serves one EVM network.
type Adapter struct {
	network chain.Network
	client  Client
	opts    Options
}

var _ adapter.Adapter = (*Adapter)(nil)

// NewAdapter creates an adapter for network talking to client. Zero options fall back to defaults.
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

	key, err := crypto.ToECDSA(secret)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKeyDerivation, a.network.ID, "derive signing key", err)
	}

	return &SigningKey{chainID: a.network.ID, key: key}, nil
}

func (a *Adapter) Address(key adapter.SigningKey) (string, error) {
	k, err := a.ownKey(key, "get address")
	if err != nil {
		return "", err
	}

	return k.Address().Hex(), nil
}

func (a *Adapter) Accounts(_ context.Context, secret seed.RootSecret) ([]string, error) {
	key, err := a.deriveKey(secret)
	if err != nil {
		return nil, err
	}
	defer key.Zero()

	return []string{key.Address().Hex()}, nil
}

func (a *Adapter) Balance(ctx context.Context, address string) (*adapter.BalanceQuote, error) {
	const op = "get balance"

	if !common.IsHexAddress(address) {
		return nil, errs.Newf(errs.ErrInvalidAddress, a.network.ID, op, "%q is not a hex address", address)
	}
	account := common.HexToAddress(address)

	balance, err := a.client.BalanceAt(ctx, account)
	if err != nil {
		return nil, errs.Wrap(errs.ErrRPCUnavailable, a.network.ID, op, err)
	}

	return &adapter.BalanceQuote{
		Chain:    a.network.ID,
		Address:  account.Hex(),
		Amount:   balance,
		Decimals: a.network.Decimals,
		Denom:    a.network.Ticker,
	}, nil
}

// SendTransaction transfers req.Amount wei to req.To (the key's own address if empty) and waits for
// the receipt. If waiting is cut short the transaction stays broadcast and ErrConfirmationTimeout
// carries its hash.
func (a *Adapter) SendTransaction(ctx context.Context, key adapter.SigningKey, req *adapter.TransactionRequest) (*adapter.TransactionReceipt, error) {
	const op = "send transaction"

	k, err := a.ownKey(key, op)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, errs.New(errs.ErrInvalidAmount, a.network.ID, op, "missing transaction request")
	}
	if req.Amount == nil || req.Amount.Sign() < 0 {
		return nil, errs.New(errs.ErrInvalidAmount, a.network.ID, op, "amount must be a non-negative integer of wei")
	}

	from := k.Address()
	to := from
	if req.To != "" {
		if !common.IsHexAddress(req.To) {
			return nil, errs.Newf(errs.ErrInvalidAddress, a.network.ID, op, "%q is not a hex address", req.To)
		}
		to = common.HexToAddress(req.To)
	}

	log := util.LogFromContext(ctx).With().
		Str("chain", a.network.ID.String()).
		Str("from", from.Hex()).
		Str("to", to.Hex()).
		Logger()

	gasLimit := req.GasLimit
	if gasLimit == 0 {
		gasLimit = DefaultGasLimit
	}

	tipCap, maxFee, err := a.fees(ctx, req)
	if err != nil {
		return nil, errs.Wrap(errs.ErrRPCUnavailable, a.network.ID, op, err)
	}

	balance, err := a.client.BalanceAt(ctx, from)
	if err != nil {
		return nil, errs.Wrap(errs.ErrRPCUnavailable, a.network.ID, op, err)
	}

	maxGasCost := new(big.Int).Mul(maxFee, new(big.Int).SetUint64(gasLimit))
	required := new(big.Int).Add(req.Amount, maxGasCost)
	if required.Cmp(balance) > 0 {
		return nil, errs.Newf(errs.ErrInsufficientFunds, a.network.ID, op,
			"balance %s wei is below amount plus max gas cost %s wei", balance, required)
	}

	nonce, err := a.client.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, errs.Wrap(errs.ErrRPCUnavailable, a.network.ID, op, err)
	}

	//nolint:varnamelen // tx is a common abbreviation for transaction
	tx, err := signTransfer(k, transferParams{
		ChainID:              new(big.Int).SetUint64(a.network.ChainID),
		Nonce:                nonce,
		To:                   to,
		Value:                req.Amount,
		GasLimit:             gasLimit,
		MaxFeePerGas:         maxFee,
		MaxPriorityFeePerGas: tipCap,
	})
	if err != nil {
		return nil, errs.Wrap(errs.ErrKeyDerivation, a.network.ID, op, err)
	}

	if err := a.client.SendTransaction(ctx, tx); err != nil {
		return nil, classifyBroadcastError(a.network.ID, op, err)
	}

	txHash := tx.Hash().Hex()
	log.Info().Str("tx_hash", txHash).Uint64("nonce", nonce).Str("value_wei", req.Amount.String()).Msg("Transaction broadcast, awaiting receipt")

	receipt, err := a.waitForReceipt(ctx, tx.Hash())
	if err != nil {
		return nil, err
	}

	status := adapter.TxStatusConfirmed
	if receipt.Status != types.ReceiptStatusSuccessful {
		status = adapter.TxStatusFailed
	}

	var fee *big.Int
	if receipt.EffectiveGasPrice != nil {
		fee = new(big.Int).Mul(receipt.EffectiveGasPrice, new(big.Int).SetUint64(receipt.GasUsed))
	}

	var block uint64
	if receipt.BlockNumber != nil {
		block = receipt.BlockNumber.Uint64()
	}

	log.Info().Str("tx_hash", txHash).Uint64("block", block).Str("status", string(status)).Msg("Transaction included")

	return &adapter.TransactionReceipt{
		Chain:       a.network.ID,
		TxHash:      txHash,
		Status:      status,
		Block:       block,
		Fee:         fee,
		ExplorerURL: a.network.ExplorerTxURL(txHash),
	}, nil
}

// ExportRawKey returns the 32-byte big-endian private scalar.
func (a *Adapter) ExportRawKey(key adapter.SigningKey) ([]byte, error) {
	k, err := a.ownKey(key, "export raw key")
	if err != nil {
		return nil, err
	}

	return crypto.FromECDSA(k.key), nil
}

// EncodeRawKey renders the key as 0x-prefixed hex, the format wallets import.
func (a *Adapter) EncodeRawKey(raw []byte) string {
	if len(raw) != privateKeyLength {
		return ""
	}

	return hexutil.Encode(raw)
}

// Ping checks that the endpoint answers and serves the configured chain id.
func (a *Adapter) Ping(ctx context.Context) error {
	chainID, err := a.client.ChainID(ctx)
	if err != nil {
		return errs.Wrap(errs.ErrRPCUnavailable, a.network.ID, "ping", err)
	}

	if a.network.ChainID != 0 && chainID.Uint64() != a.network.ChainID {
		return errs.Newf(errs.ErrRPCUnavailable, a.network.ID, "ping", "endpoint serves chain id %s, expected %d", chainID, a.network.ChainID)
	}

	return nil
}

func (a *Adapter) ownKey(key adapter.SigningKey, op string) (*SigningKey, error) {
	k, ok := key.(*SigningKey)
	if !ok || k == nil || k.key == nil {
		return nil, errs.New(errs.ErrKeyDerivation, a.network.ID, op, "signing key was not derived by the EVM adapter")
	}

	return k, nil
}

// fees returns tip cap and max fee. MaxFee = BaseFee * 2 + TipCap unless the request sets them.
func (a *Adapter) fees(ctx context.Context, req *adapter.TransactionRequest) (*big.Int, *big.Int, error) {
	tipCap := req.MaxPriorityFeePerGas
	if tipCap == nil {
		suggested, err := a.client.SuggestGasTipCap(ctx)
		if err != nil {
			return nil, nil, err
		}
		tipCap = suggested
	}

	if req.MaxFeePerGas != nil {
		return tipCap, req.MaxFeePerGas, nil
	}

	baseFee, err := a.client.LatestBaseFee(ctx)
	if err != nil {
		return nil, nil, err
	}

	maxFee := new(big.Int).Add(new(big.Int).Mul(baseFee, big.NewInt(eip1559FeeMultiplier)), tipCap)

	return tipCap, maxFee, nil
}

func (a *Adapter) waitForReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	const op = "await confirmation"

	localCtx, cancel := context.WithTimeout(ctx, a.opts.ConfirmationTimeout)
	defer cancel()

	ticker := time.NewTicker(a.opts.PollInterval)
	defer ticker.Stop()

	for {
		receipt, err := a.client.TransactionReceipt(localCtx, txHash)
		if err == nil {
			return receipt, nil
		}

		if localCtx.Err() != nil {
			return nil, errs.Newf(errs.ErrConfirmationTimeout, a.network.ID, op, "transaction %s broadcast but not confirmed: %v", txHash.Hex(), localCtx.Err())
		}

		if !errors.Is(err, ethereum.NotFound) {
			return nil, errs.Wrap(errs.ErrRPCUnavailable, a.network.ID, op, errors.Wrapf(err, "transaction %s", txHash.Hex()))
		}

		select {
		case <-localCtx.Done():
			return nil, errs.Newf(errs.ErrConfirmationTimeout, a.network.ID, op, "transaction %s broadcast but not confirmed: %v", txHash.Hex(), localCtx.Err())
		case <-ticker.C:
		}
	}
}

// classifyBroadcastError maps a SendTransaction failure to its kind. A JSON-RPC error response means
// the node reached a verdict and rejected the payload, anything else is a transport failure.
func classifyBroadcastError(chainID chain.ID, op string, err error) error {
	if strings.Contains(strings.ToLower(err.Error()), "insufficient funds") {
		return errs.Wrap(errs.ErrInsufficientFunds, chainID, op, err)
	}

	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		return errs.Wrap(errs.ErrBroadcastRejected, chainID, op, err)
	}

	return errs.Wrap(errs.ErrRPCUnavailable, chainID, op, err)
}
