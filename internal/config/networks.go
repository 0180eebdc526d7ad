package config

import (
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"github/chapool/multichain-wallet/internal/util"
	"github/chapool/multichain-wallet/internal/wallet/chain"
)

// DefaultNetworks returns the testnet setup: Ethereum Sepolia and Solana devnet active, Polygon Amoy
// and BNB Smart Chain testnet configured but disabled, and the chains without an adapter as stubs.
func DefaultNetworks() []chain.Network {
	return []chain.Network{
		{
			ID:          chain.Ethereum,
			Kind:        chain.KindEVM,
			DisplayName: "Ethereum Sepolia",
			ChainID:     11155111, //nolint:mnd
			RPCURLs:     []string{"https://rpc.ankr.com/eth_sepolia", "https://ethereum-sepolia-rpc.publicnode.com"},
			Ticker:      "ETH",
			Decimals:    18, //nolint:mnd
			ExplorerTx:  "https://sepolia.etherscan.io/tx/%s",
		},
		{
			ID:          chain.Solana,
			Kind:        chain.KindSolana,
			DisplayName: "Solana Devnet",
			RPCURLs:     []string{"https://api.devnet.solana.com"},
			Ticker:      "SOL",
			Decimals:    9, //nolint:mnd
			ExplorerTx:  "https://explorer.solana.com/tx/%s?cluster=devnet",
			FeeLamports: 5000, //nolint:mnd
		},
		{
			ID:          chain.Polygon,
			Kind:        chain.KindEVM,
			DisplayName: "Polygon Amoy",
			ChainID:     80002, //nolint:mnd
			RPCURLs:     []string{"https://rpc-amoy.polygon.technology"},
			Ticker:      "POL",
			Decimals:    18, //nolint:mnd
			ExplorerTx:  "https://amoy.polygonscan.com/tx/%s",
			Disabled:    util.BoolPtr(true),
		},
		{
			ID:          chain.BNB,
			Kind:        chain.KindEVM,
			DisplayName: "BNB Smart Chain Testnet",
			ChainID:     97, //nolint:mnd
			RPCURLs:     []string{"https://data-seed-prebsc-1-s1.bnbchain.org:8545"},
			Ticker:      "tBNB",
			Decimals:    18, //nolint:mnd
			ExplorerTx:  "https://testnet.bscscan.com/tx/%s",
			Disabled:    util.BoolPtr(true),
		},
		{ID: chain.Tezos, Kind: chain.KindStub, DisplayName: "Tezos", Ticker: "XTZ", Decimals: 6, Disabled: util.BoolPtr(true)},     //nolint:mnd
		{ID: chain.Polkadot, Kind: chain.KindStub, DisplayName: "Polkadot", Ticker: "DOT", Decimals: 10, Disabled: util.BoolPtr(true)}, //nolint:mnd
		{ID: chain.Near, Kind: chain.KindStub, DisplayName: "NEAR", Ticker: "NEAR", Decimals: 24, Disabled: util.BoolPtr(true)},      //nolint:mnd
		{ID: chain.StarkNet, Kind: chain.KindStub, DisplayName: "StarkNet", Ticker: "ETH", Decimals: 18, Disabled: util.BoolPtr(true)}, //nolint:mnd
	}
}

type networksFile struct {
	Networks []chain.Network `mapstructure:"networks"`
}

// LoadNetworksFile reads the networks list from a TOML, YAML or JSON file; the format follows the
// file extension.
func LoadNetworksFile(path string) ([]chain.Network, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read networks file %s", path)
	}

	var file networksFile
	if err := v.Unmarshal(&file); err != nil {
		return nil, errors.Wrapf(err, "failed to decode networks file %s", path)
	}

	if len(file.Networks) == 0 {
		return nil, errors.Errorf("networks file %s lists no networks", path)
	}

	return file.Networks, nil
}
