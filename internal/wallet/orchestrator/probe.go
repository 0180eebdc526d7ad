package orchestrator

import (
	"context"

	"github/chapool/multichain-wallet/internal/wallet/adapter"
	"github/chapool/multichain-wallet/internal/wallet/chain"
)

// PingResult is the reachability of one network's RPC transport.
type PingResult struct {
	Chain chain.ID
	Err   error
}

// Ping checks every configured network's RPC transport concurrently. It needs no session.
func (o *Orchestrator) Ping(ctx context.Context) []PingResult {
	return fanOut(o, func(a adapter.Adapter) PingResult {
		ctx, cancel := o.readContext(ctx)
		defer cancel()

		err := o.observe(ctx, a, "ping", func() error {
			return a.Ping(ctx)
		})

		return PingResult{Chain: a.Network().ID, Err: err}
	})
}
