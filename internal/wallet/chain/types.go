package chain

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

// ID identifies one configured network (e.g. "ethereum", "solana").
type ID string

// Kind selects the adapter implementation serving a network.
type Kind string

const (
	KindEVM    Kind = "evm"
	KindSolana Kind = "solana"
	KindStub   Kind = "stub"
)

// Well-known network identifiers used by the default configuration.
const (
	Ethereum ID = "ethereum"
	Solana   ID = "solana"
	Polygon  ID = "polygon"
	BNB      ID = "bnb"
	Tezos    ID = "tezos"
	Polkadot ID = "polkadot"
	Near     ID = "near"
	StarkNet ID = "starknet"
)

func (id ID) String() string {
	return string(id)
}

// IsValid reports whether k names an adapter implementation.
func (k Kind) IsValid() bool {
	switch k {
	case KindEVM, KindSolana, KindStub:
		return true
	default:
		return false
	}
}

// Network describes one chain a session can act on. It is supplied at construction time
// and treated as an opaque lookup record by the adapters.
type Network struct {
	ID          ID       `json:"id" mapstructure:"id"`
	Kind        Kind     `json:"kind" mapstructure:"kind"`
	DisplayName string   `json:"displayName" mapstructure:"display_name"`
	ChainID     uint64   `json:"chainId" mapstructure:"chain_id"` // EVM only, 0 asks the node
	RPCURLs     []string `json:"rpcUrls" mapstructure:"rpc_urls"`
	Ticker      string   `json:"ticker" mapstructure:"ticker"`
	Decimals    int32    `json:"decimals" mapstructure:"decimals"`
	ExplorerTx  string   `json:"explorerTx,omitempty" mapstructure:"explorer_tx"` // fmt template taking the tx id
	FeeLamports uint64   `json:"feeLamports,omitempty" mapstructure:"fee_lamports"`
	Disabled    *bool    `json:"disabled,omitempty" mapstructure:"disabled"`
}

// ExplorerTxURL renders the explorer link for txID or "" if no template is configured.
func (n Network) ExplorerTxURL(txID string) string {
	if n.ExplorerTx == "" || txID == "" {
		return ""
	}

	return fmt.Sprintf(n.ExplorerTx, txID)
}

// Validate checks the fields every adapter relies on.
func (n Network) Validate() error {
	if n.ID == "" {
		return errors.New("network id is required")
	}
	if !n.Kind.IsValid() {
		return errors.Errorf("network %s: unsupported kind %q", n.ID, n.Kind)
	}
	if n.Kind != KindStub && len(n.RPCURLs) == 0 {
		return errors.Errorf("network %s: at least one RPC URL is required", n.ID)
	}
	if n.Decimals < 0 {
		return errors.Errorf("network %s: decimals must not be negative", n.ID)
	}

	return nil
}

// Service provides lookup over the configured networks.
type Service interface {
	// GetNetwork returns the network registered under id
	GetNetwork(ctx context.Context, id ID) (*Network, error)

	// ListNetworks returns every configured network in configuration order
	ListNetworks(ctx context.Context) []Network

	// GetActiveNetworks returns the networks that are not disabled
	GetActiveNetworks(ctx context.Context) []Network
}
