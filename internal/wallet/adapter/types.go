package adapter

import (
	"context"
	"math/big"

	"github.com/shopspring/decimal"
	"github/chapool/multichain-wallet/internal/wallet/chain"
	"github/chapool/multichain-wallet/internal/wallet/seed"
)

// Adapter is the per-chain capability set. Implementations own every chain specific encoding and
// talk to one RPC transport. Signing keys are passed in per call and never retained.
type Adapter interface {
	// Network returns the network this adapter serves
	Network() chain.Network

	// DeriveSigningKey deterministically maps the root secret to the chain's native key
	DeriveSigningKey(secret seed.RootSecret) (SigningKey, error)

	// Address renders the chain-native address of key
	Address(key SigningKey) (string, error)

	// Accounts returns the single address derived from secret
	Accounts(ctx context.Context, secret seed.RootSecret) ([]string, error)

	// Balance queries the native balance of address; unseen addresses report zero
	Balance(ctx context.Context, address string) (*BalanceQuote, error)

	// SendTransaction builds, signs and submits req and waits for confirmation
	SendTransaction(ctx context.Context, key SigningKey, req *TransactionRequest) (*TransactionReceipt, error)

	// ExportRawKey returns the raw key bytes in chain-native layout
	ExportRawKey(key SigningKey) ([]byte, error)

	// EncodeRawKey renders raw key bytes the way wallets of this chain import them
	EncodeRawKey(raw []byte) string

	// Ping checks that the RPC transport answers
	Ping(ctx context.Context) error
}

// SigningKey is a chain-native private key derived for one operation.
type SigningKey interface {
	// Chain returns the network the key was derived for
	Chain() chain.ID

	// Zero wipes the key material
	Zero()
}

// Account is a derived address on one chain.
type Account struct {
	Chain   chain.ID `json:"chain"`
	Address string   `json:"address"`
}

// BalanceQuote is a native balance in minor units (wei, lamports).
type BalanceQuote struct {
	Chain    chain.ID `json:"chain"`
	Address  string   `json:"address"`
	Amount   *big.Int `json:"amount"`
	Decimals int32    `json:"decimals"`
	Denom    string   `json:"denom"`
}

// Formatted renders the amount in major units, e.g. "0.0125".
func (b *BalanceQuote) Formatted() string {
	if b == nil || b.Amount == nil {
		return "0"
	}

	return decimal.NewFromBigInt(b.Amount, -b.Decimals).String()
}

// TransactionRequest describes a native transfer. Fee fields are optional; zero values pick the
// adapter's defaults.
type TransactionRequest struct {
	Chain  chain.ID `json:"chain"`
	To     string   `json:"to"`
	Amount *big.Int `json:"amount"`

	// EVM
	GasLimit             uint64   `json:"gasLimit,omitempty"`
	MaxFeePerGas         *big.Int `json:"maxFeePerGas,omitempty"`
	MaxPriorityFeePerGas *big.Int `json:"maxPriorityFeePerGas,omitempty"`

	// Solana
	FeeLamports uint64 `json:"feeLamports,omitempty"`
}

// TxStatus is the terminal state of a submitted transaction.
type TxStatus string

const (
	TxStatusConfirmed TxStatus = "confirmed"
	TxStatusFailed    TxStatus = "failed"
)

// TransactionReceipt is returned once a transaction is included on chain.
type TransactionReceipt struct {
	Chain       chain.ID `json:"chain"`
	TxHash      string   `json:"txHash"`
	Status      TxStatus `json:"status"`
	Block       uint64   `json:"block"` // block number (EVM) or slot (Solana)
	Fee         *big.Int `json:"fee,omitempty"`
	ExplorerURL string   `json:"explorerUrl,omitempty"`
}
