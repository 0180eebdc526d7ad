package config

import (
	"time"

	"github.com/rs/zerolog"
	"github/chapool/multichain-wallet/internal/util"
	"github/chapool/multichain-wallet/internal/wallet/chain"
	"github/chapool/multichain-wallet/internal/wallet/hdkey"
)

type LoggerConfig struct {
	Level              zerolog.Level `json:"level"`
	PrettyPrintConsole bool          `json:"prettyPrintConsole"`
}

// SessionConfig feeds the local session provider. Secrets are never serialized.
type SessionConfig struct {
	LoginMethod        string `json:"loginMethod"`
	Mnemonic           string `json:"-"`
	MnemonicPassphrase string `json:"-"`
	DerivationPath     string `json:"derivationPath"`
	PrivateKey         string `json:"-"`
	UserEmail          string `json:"userEmail"`
	UserName           string `json:"userName"`
	UserProfileImage   string `json:"userProfileImage"`
}

type WalletConfig struct {
	// NetworksFile points to a TOML, YAML or JSON file with a top level "networks" list.
	// Empty selects the built-in defaults.
	NetworksFile        string        `json:"networksFile"`
	EthereumRPCURLs     []string      `json:"ethereumRpcUrls"`
	SolanaRPCURLs       []string      `json:"solanaRpcUrls"`
	PollInterval        time.Duration `json:"pollInterval"`
	ConfirmationTimeout time.Duration `json:"confirmationTimeout"`
	RPCTimeout          time.Duration `json:"rpcTimeout"`
	// FanOutLimit caps concurrent adapter calls of composite operations, 0 means one per chain.
	FanOutLimit int  `json:"fanOutLimit"`
	LightKDF    bool `json:"lightKdf"`
}

type MetricsConfig struct {
	Namespace string `json:"namespace"`
}

// Config holds everything the CLI needs to assemble an orchestrator.
type Config struct {
	Logger  LoggerConfig  `json:"logger"`
	Session SessionConfig `json:"session"`
	Wallet  WalletConfig  `json:"wallet"`
	Metrics MetricsConfig `json:"metrics"`
}

const (
	LoginMethodMnemonic   = "mnemonic"
	LoginMethodPrivateKey = "private_key"
)

// DefaultServiceConfigFromEnv returns the config built from ENV variables, after applying .env
// overrides if WALLET_DOTENV_FILE (default ".env") exists.
func DefaultServiceConfigFromEnv() Config {
	DotEnvTryLoad(util.GetEnv("WALLET_DOTENV_FILE", ".env"), nil)

	return Config{
		Logger: LoggerConfig{
			Level:              util.LogLevelFromString(util.GetEnv("WALLET_LOGGER_LEVEL", zerolog.InfoLevel.String())),
			PrettyPrintConsole: util.GetEnvAsBool("WALLET_LOGGER_PRETTY_PRINT_CONSOLE", false),
		},
		Session: SessionConfig{
			LoginMethod:        util.GetEnvEnum("WALLET_LOGIN_METHOD", LoginMethodMnemonic, []string{LoginMethodMnemonic, LoginMethodPrivateKey}),
			Mnemonic:           util.GetEnv("WALLET_MNEMONIC", ""),
			MnemonicPassphrase: util.GetEnv("WALLET_MNEMONIC_PASSPHRASE", ""),
			DerivationPath:     util.GetEnv("WALLET_DERIVATION_PATH", hdkey.DefaultEVMPath),
			PrivateKey:         util.GetEnv("WALLET_PRIVATE_KEY", ""),
			UserEmail:          util.GetEnv("WALLET_USER_EMAIL", ""),
			UserName:           util.GetEnv("WALLET_USER_NAME", ""),
			UserProfileImage:   util.GetEnv("WALLET_USER_PROFILE_IMAGE", ""),
		},
		Wallet: WalletConfig{
			NetworksFile:        util.GetEnv("WALLET_NETWORKS_FILE", ""),
			EthereumRPCURLs:     util.GetEnvAsStringArrTrimmed("WALLET_ETHEREUM_RPC_URLS", nil),
			SolanaRPCURLs:       util.GetEnvAsStringArrTrimmed("WALLET_SOLANA_RPC_URLS", nil),
			PollInterval:        util.GetEnvAsDuration("WALLET_CONFIRMATION_POLL_INTERVAL", 2*time.Second),  //nolint:mnd
			ConfirmationTimeout: util.GetEnvAsDuration("WALLET_CONFIRMATION_TIMEOUT", 2*time.Minute),       //nolint:mnd
			RPCTimeout:          util.GetEnvAsDuration("WALLET_RPC_TIMEOUT", 30*time.Second),               //nolint:mnd
			FanOutLimit:         util.GetEnvAsInt("WALLET_FAN_OUT_LIMIT", 0),
			LightKDF:            util.GetEnvAsBool("WALLET_KEYSTORE_LIGHT_KDF", false),
		},
		Metrics: MetricsConfig{
			Namespace: util.GetEnv("WALLET_METRICS_NAMESPACE", "wallet"),
		},
	}
}

// Networks resolves the network list: the networks file if configured, the built-in defaults
// otherwise, with the ENV RPC overrides applied on top.
func (c WalletConfig) Networks() ([]chain.Network, error) {
	networks := DefaultNetworks()
	if c.NetworksFile != "" {
		loaded, err := LoadNetworksFile(c.NetworksFile)
		if err != nil {
			return nil, err
		}
		networks = loaded
	}

	for i := range networks {
		switch {
		case networks[i].ID == chain.Ethereum && len(c.EthereumRPCURLs) > 0:
			networks[i].RPCURLs = c.EthereumRPCURLs
		case networks[i].ID == chain.Solana && len(c.SolanaRPCURLs) > 0:
			networks[i].RPCURLs = c.SolanaRPCURLs
		}
	}

	return networks, nil
}
