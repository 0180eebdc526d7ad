package app

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github/chapool/multichain-wallet/internal/config"
	"github/chapool/multichain-wallet/internal/metrics"
	"github/chapool/multichain-wallet/internal/wallet/adapter"
	"github/chapool/multichain-wallet/internal/wallet/chain"
	"github/chapool/multichain-wallet/internal/wallet/evm"
	"github/chapool/multichain-wallet/internal/wallet/keystore"
	"github/chapool/multichain-wallet/internal/wallet/localauth"
	"github/chapool/multichain-wallet/internal/wallet/orchestrator"
	"github/chapool/multichain-wallet/internal/wallet/session"
	"github/chapool/multichain-wallet/internal/wallet/solana"
)

// App keeps the assembled components. It is initialized with wire, see wire.go.
type App struct {
	Config       config.Config
	Metrics      *metrics.Service
	Networks     chain.Service
	Orchestrator *orchestrator.Orchestrator
}

func newAppWithComponents(cfg config.Config, m *metrics.Service, networks chain.Service, orch *orchestrator.Orchestrator) *App {
	return &App{
		Config:       cfg,
		Metrics:      m,
		Networks:     networks,
		Orchestrator: orch,
	}
}

// LoginMethod returns the configured login method.
func (a *App) LoginMethod() session.LoginMethod {
	return session.LoginMethod(a.Config.Session.LoginMethod)
}

// NewNetworkService resolves and validates the configured networks.
//
//nolint:ireturn
func NewNetworkService(cfg config.Config) (chain.Service, error) {
	networks, err := cfg.Wallet.Networks()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load networks")
	}

	return chain.NewService(networks) //nolint:wrapcheck
}

// NewProvider builds the local session provider from the session config.
func NewProvider(cfg config.Config) *localauth.Provider {
	return localauth.NewProvider(localauth.Options{
		Mnemonic:       cfg.Session.Mnemonic,
		Passphrase:     cfg.Session.MnemonicPassphrase,
		DerivationPath: cfg.Session.DerivationPath,
		PrivateKey:     cfg.Session.PrivateKey,
		Email:          cfg.Session.UserEmail,
		Name:           cfg.Session.UserName,
		ProfileImage:   cfg.Session.UserProfileImage,
	})
}

// NewSession wraps provider in a session whose transitions are counted.
func NewSession(provider session.Provider, m *metrics.Service) *session.Session {
	return session.New(provider, session.WithTransitionObserver(func(from session.State, to session.State) {
		m.ObserveSessionTransition(from.String(), to.String())
	}))
}

// NewRegistry creates one adapter per active network, in configuration order. The cleanup
// closes the RPC connections.
func NewRegistry(cfg config.Config, networks chain.Service) (*adapter.Registry, func(), error) {
	var closers []func()
	cleanup := func() {
		for _, c := range closers {
			c()
		}
	}

	active := networks.GetActiveNetworks(context.Background())
	adapters := make([]adapter.Adapter, 0, len(active))

	for _, network := range active {
		switch network.Kind {
		case chain.KindEVM:
			client, err := evm.NewRPCClient(network.RPCURLs)
			if err != nil {
				cleanup()
				return nil, nil, errors.Wrapf(err, "failed to create RPC client for %s", network.ID)
			}
			closers = append(closers, client.Close)
			adapters = append(adapters, evm.NewAdapter(network, client, evm.Options{
				PollInterval:        cfg.Wallet.PollInterval,
				ConfirmationTimeout: cfg.Wallet.ConfirmationTimeout,
			}))

		case chain.KindSolana:
			client, err := solana.NewRPCClient(network.RPCURLs)
			if err != nil {
				cleanup()
				return nil, nil, errors.Wrapf(err, "failed to create RPC client for %s", network.ID)
			}
			closers = append(closers, client.Close)
			adapters = append(adapters, solana.NewAdapter(network, client, solana.Options{
				PollInterval:        cfg.Wallet.PollInterval,
				ConfirmationTimeout: cfg.Wallet.ConfirmationTimeout,
			}))

		case chain.KindStub:
			adapters = append(adapters, adapter.NewStub(network))
		}

		log.Debug().Str("chain", network.ID.String()).Str("kind", string(network.Kind)).Msg("Registered chain adapter")
	}

	registry, err := adapter.NewRegistry(adapters...)
	if err != nil {
		cleanup()
		return nil, nil, errors.Wrap(err, "failed to build adapter registry")
	}

	return registry, cleanup, nil
}

func NewOrchestrator(cfg config.Config, sess *session.Session, registry *adapter.Registry, m *metrics.Service) *orchestrator.Orchestrator {
	params := keystore.DefaultScryptParams()
	if cfg.Wallet.LightKDF {
		params = keystore.LightScryptParams()
	}

	return orchestrator.New(sess, registry, orchestrator.Options{
		FanOutLimit:    cfg.Wallet.FanOutLimit,
		RPCTimeout:     cfg.Wallet.RPCTimeout,
		KeystoreParams: params,
		Observer:       m,
	})
}
