// Package orchestrator is the caller-facing wallet façade. It owns the session context, selects
// chain adapters from the registry and fans composite operations out across every configured chain.
//
// Every operation other than the lifecycle calls requires an authenticated session; outside that
// state it fails with errs.ErrInvalidSessionState before any RPC is issued. The root secret is
// extracted per operation and signing keys are derived per call and wiped afterwards.
package orchestrator

import (
	"context"
	"time"

	"github/chapool/multichain-wallet/internal/util"
	"github/chapool/multichain-wallet/internal/wallet/adapter"
	"github/chapool/multichain-wallet/internal/wallet/chain"
	"github/chapool/multichain-wallet/internal/wallet/keystore"
	"github/chapool/multichain-wallet/internal/wallet/seed"
	"github/chapool/multichain-wallet/internal/wallet/session"
)

// Observer receives per-call instrumentation. *metrics.Service implements it.
type Observer interface {
	ObserveAdapterCall(chainID string, op string, err error, took time.Duration)
	ObservePartialFailure(op string)
}

type Options struct {
	// FanOutLimit caps concurrent adapter calls in composite operations, <= 0 means one per chain
	FanOutLimit int
	// RPCTimeout bounds read calls (accounts, balances, ping), 0 disables it
	RPCTimeout     time.Duration
	KeystoreParams keystore.ScryptParams
	Observer       Observer
}

type Orchestrator struct {
	session  *session.Session
	registry *adapter.Registry
	opts     Options
}

func New(sess *session.Session, registry *adapter.Registry, opts Options) *Orchestrator {
	if opts.KeystoreParams.N == 0 {
		opts.KeystoreParams = keystore.DefaultScryptParams()
	}

	return &Orchestrator{
		session:  sess,
		registry: registry,
		opts:     opts,
	}
}

// Init initializes the session provider.
func (o *Orchestrator) Init(ctx context.Context) error {
	return o.session.Init(ctx)
}

// Login authenticates through the session provider. Allowed after Init and after Logout.
func (o *Orchestrator) Login(ctx context.Context, method session.LoginMethod) error {
	return o.session.Login(ctx, method)
}

// Logout ends the login. Previously derived addresses stay valid, keys do not survive.
func (o *Orchestrator) Logout(ctx context.Context) error {
	return o.session.Logout(ctx)
}

func (o *Orchestrator) State() session.State {
	return o.session.State()
}

// Networks returns the networks served, in configuration order.
func (o *Orchestrator) Networks() []chain.Network {
	adapters := o.registry.All()
	result := make([]chain.Network, 0, len(adapters))
	for _, a := range adapters {
		result = append(result, a.Network())
	}

	return result
}

// UserInfo returns the profile of the logged in user.
func (o *Orchestrator) UserInfo(ctx context.Context) (*session.UserInfo, error) {
	if _, err := o.session.Require("get user info"); err != nil {
		return nil, err
	}

	return o.session.Provider().UserInfo(ctx) //nolint:wrapcheck
}

// IDToken returns the provider's identity token for the current login.
func (o *Orchestrator) IDToken(ctx context.Context) (string, error) {
	if _, err := o.session.Require("get id token"); err != nil {
		return "", err
	}

	return o.session.Provider().IDToken(ctx) //nolint:wrapcheck
}

// rootSecret validates the session for op and extracts the root secret. Callers zero it.
func (o *Orchestrator) rootSecret(ctx context.Context, op string) (seed.RootSecret, error) {
	handle, err := o.session.Require(op)
	if err != nil {
		return nil, err
	}

	return session.ExtractRootSecret(ctx, o.session.Provider(), handle)
}

// observe runs fn against a and reports the call.
func (o *Orchestrator) observe(ctx context.Context, a adapter.Adapter, op string, fn func() error) error {
	start := time.Now()
	err := fn()
	took := time.Since(start)

	if o.opts.Observer != nil {
		o.opts.Observer.ObserveAdapterCall(a.Network().ID.String(), op, err, took)
	}

	if err != nil {
		util.LogFromContext(ctx).Debug().
			Err(err).
			Str("chain", a.Network().ID.String()).
			Str("op", op).
			Dur("took", took).
			Msg("Adapter call failed")
	}

	return err
}

func (o *Orchestrator) readContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.opts.RPCTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, o.opts.RPCTimeout)
}
