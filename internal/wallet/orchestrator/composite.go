package orchestrator

import (
	"context"
	stderrors "errors"

	"github/chapool/multichain-wallet/internal/util"
	"github/chapool/multichain-wallet/internal/wallet/adapter"
	"github/chapool/multichain-wallet/internal/wallet/chain"
	"github/chapool/multichain-wallet/internal/wallet/errs"
	"github/chapool/multichain-wallet/internal/wallet/seed"
	"golang.org/x/sync/errgroup"
)

const (
	opGetAllAccounts = "get all accounts"
	opGetAllBalances = "get all balances"
)

// AccountsResult holds the per-chain outcome of GetAllAccounts in configuration order.
type AccountsResult struct {
	Accounts []adapter.Account
	Failures []*errs.PartialChainFailure
}

// Account returns the account derived on chainID, if that chain succeeded.
func (r *AccountsResult) Account(chainID chain.ID) (adapter.Account, bool) {
	for _, a := range r.Accounts {
		if a.Chain == chainID {
			return a, true
		}
	}

	return adapter.Account{}, false
}

// Err joins the failures, nil if every chain succeeded.
func (r *AccountsResult) Err() error {
	return joinFailures(r.Failures)
}

// BalancesResult holds the per-chain outcome of GetAllBalances in configuration order.
type BalancesResult struct {
	Balances []*adapter.BalanceQuote
	Failures []*errs.PartialChainFailure
}

// Balance returns the quote for chainID, if that chain succeeded.
func (r *BalancesResult) Balance(chainID chain.ID) (*adapter.BalanceQuote, bool) {
	for _, b := range r.Balances {
		if b.Chain == chainID {
			return b, true
		}
	}

	return nil, false
}

func (r *BalancesResult) Err() error {
	return joinFailures(r.Failures)
}

// GetAllAccounts derives the address on every configured chain. Chains are queried concurrently
// and a failing chain never hides the others: its cause is reported as a PartialChainFailure in
// the result and in the returned error.
func (o *Orchestrator) GetAllAccounts(ctx context.Context) (*AccountsResult, error) {
	secret, err := o.rootSecret(ctx, opGetAllAccounts)
	if err != nil {
		return nil, err
	}
	defer secret.Zero()

	type outcome struct {
		account adapter.Account
		err     error
	}

	outcomes := fanOut(o, func(a adapter.Adapter) outcome {
		address, err := o.accountOf(ctx, a, secret)
		return outcome{account: adapter.Account{Chain: a.Network().ID, Address: address}, err: err}
	})

	result := &AccountsResult{}
	for i, a := range o.registry.All() {
		if outcomes[i].err != nil {
			result.Failures = append(result.Failures, o.partial(ctx, opGetAllAccounts, a, outcomes[i].err))
			continue
		}
		result.Accounts = append(result.Accounts, outcomes[i].account)
	}

	return result, result.Err()
}

// GetAllBalances queries the native balance of the derived address on every configured chain,
// with the same partial failure semantics as GetAllAccounts.
func (o *Orchestrator) GetAllBalances(ctx context.Context) (*BalancesResult, error) {
	secret, err := o.rootSecret(ctx, opGetAllBalances)
	if err != nil {
		return nil, err
	}
	defer secret.Zero()

	type outcome struct {
		quote *adapter.BalanceQuote
		err   error
	}

	outcomes := fanOut(o, func(a adapter.Adapter) outcome {
		address, err := o.accountOf(ctx, a, secret)
		if err != nil {
			return outcome{err: err}
		}

		quote, err := o.balanceOf(ctx, a, address)
		return outcome{quote: quote, err: err}
	})

	result := &BalancesResult{}
	for i, a := range o.registry.All() {
		if outcomes[i].err != nil {
			result.Failures = append(result.Failures, o.partial(ctx, opGetAllBalances, a, outcomes[i].err))
			continue
		}
		result.Balances = append(result.Balances, outcomes[i].quote)
	}

	return result, result.Err()
}

// fanOut runs fn once per registered adapter and waits for all of them. Results keep registry order.
func fanOut[T any](o *Orchestrator, fn func(a adapter.Adapter) T) []T {
	adapters := o.registry.All()
	results := make([]T, len(adapters))

	var g errgroup.Group
	if o.opts.FanOutLimit > 0 {
		g.SetLimit(o.opts.FanOutLimit)
	}

	for i, a := range adapters {
		g.Go(func() error {
			results[i] = fn(a)
			return nil
		})
	}

	_ = g.Wait()

	return results
}

func (o *Orchestrator) accountOf(ctx context.Context, a adapter.Adapter, secret seed.RootSecret) (string, error) {
	ctx, cancel := o.readContext(ctx)
	defer cancel()

	var address string
	err := o.observe(ctx, a, "get accounts", func() error {
		accounts, err := a.Accounts(ctx, secret)
		if err != nil {
			return err
		}
		if len(accounts) == 0 {
			return errs.New(errs.ErrKeyDerivation, a.Network().ID, "get accounts", "adapter derived no account")
		}
		address = accounts[0]
		return nil
	})

	return address, err
}

func (o *Orchestrator) balanceOf(ctx context.Context, a adapter.Adapter, address string) (*adapter.BalanceQuote, error) {
	ctx, cancel := o.readContext(ctx)
	defer cancel()

	var quote *adapter.BalanceQuote
	err := o.observe(ctx, a, "get balance", func() error {
		var err error
		quote, err = a.Balance(ctx, address)
		return err
	})

	return quote, err
}

func (o *Orchestrator) partial(ctx context.Context, op string, a adapter.Adapter, cause error) *errs.PartialChainFailure {
	if o.opts.Observer != nil {
		o.opts.Observer.ObservePartialFailure(op)
	}

	util.LogFromContext(ctx).Warn().
		Err(cause).
		Str("chain", a.Network().ID.String()).
		Str("op", op).
		Msg("Chain failed in composite operation")

	return &errs.PartialChainFailure{Chain: a.Network().ID, Cause: cause}
}

func joinFailures(failures []*errs.PartialChainFailure) error {
	if len(failures) == 0 {
		return nil
	}

	joined := make([]error, 0, len(failures))
	for _, f := range failures {
		joined = append(joined, f)
	}

	return stderrors.Join(joined...)
}
