//go:build wireinject

package app

import (
	"github.com/google/wire"
	"github/chapool/multichain-wallet/internal/config"
	"github/chapool/multichain-wallet/internal/metrics"
	"github/chapool/multichain-wallet/internal/wallet/localauth"
	"github/chapool/multichain-wallet/internal/wallet/session"
)

// INJECTORS - https://github.com/google/wire/blob/main/docs/guide.md#injectors

// appSet groups the providers required to assemble an App.
var appSet = wire.NewSet(
	newAppWithComponents,
	metrics.New,
	NewNetworkService,
	providerSet,
	NewSession,
	NewRegistry,
	NewOrchestrator,
)

var providerSet = wire.NewSet(
	NewProvider,
	wire.Bind(new(session.Provider), new(*localauth.Provider)),
)

// InitNewApp returns a new App. The cleanup releases the RPC connections.
func InitNewApp(
	_ config.Config,
) (*App, func(), error) {
	wire.Build(appSet)
	return new(App), nil, nil
}
