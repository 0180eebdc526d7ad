package orchestrator

import (
	"context"

	"github/chapool/multichain-wallet/internal/util"
	"github/chapool/multichain-wallet/internal/wallet/adapter"
	"github/chapool/multichain-wallet/internal/wallet/chain"
	"github/chapool/multichain-wallet/internal/wallet/errs"
)

// GetAccount returns the address derived on chainID.
func (o *Orchestrator) GetAccount(ctx context.Context, chainID chain.ID) (*adapter.Account, error) {
	const op = "get account"

	secret, err := o.rootSecret(ctx, op)
	if err != nil {
		return nil, err
	}
	defer secret.Zero()

	a, err := o.registry.Get(chainID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	address, err := o.accountOf(ctx, a, secret)
	if err != nil {
		return nil, err
	}

	return &adapter.Account{Chain: chainID, Address: address}, nil
}

// GetEthAccount returns the address on the first configured EVM network.
func (o *Orchestrator) GetEthAccount(ctx context.Context) (*adapter.Account, error) {
	return o.GetAccount(ctx, o.primary(chain.KindEVM, chain.Ethereum))
}

// GetSolanaAccount returns the address on the first configured Solana network.
func (o *Orchestrator) GetSolanaAccount(ctx context.Context) (*adapter.Account, error) {
	return o.GetAccount(ctx, o.primary(chain.KindSolana, chain.Solana))
}

// GetBalance returns the native balance of the session's address on chainID.
func (o *Orchestrator) GetBalance(ctx context.Context, chainID chain.ID) (*adapter.BalanceQuote, error) {
	const op = "get balance"

	secret, err := o.rootSecret(ctx, op)
	if err != nil {
		return nil, err
	}
	defer secret.Zero()

	a, err := o.registry.Get(chainID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	address, err := o.accountOf(ctx, a, secret)
	if err != nil {
		return nil, err
	}

	return o.balanceOf(ctx, a, address)
}

func (o *Orchestrator) GetEthBalance(ctx context.Context) (*adapter.BalanceQuote, error) {
	return o.GetBalance(ctx, o.primary(chain.KindEVM, chain.Ethereum))
}

func (o *Orchestrator) GetSolanaBalance(ctx context.Context) (*adapter.BalanceQuote, error) {
	return o.GetBalance(ctx, o.primary(chain.KindSolana, chain.Solana))
}

// primary returns the id of the first network of kind, or fallback when none is configured so the
// lookup fails with ErrUnknownChain after the session check.
func (o *Orchestrator) primary(kind chain.Kind, fallback chain.ID) chain.ID {
	a, err := o.registry.FirstOfKind(kind)
	if err != nil {
		return fallback
	}

	return a.Network().ID
}

// SendTransaction signs req on req.Chain with a freshly derived key and blocks until the adapter
// reports inclusion. An empty destination sends to the session's own address on that chain.
func (o *Orchestrator) SendTransaction(ctx context.Context, req *adapter.TransactionRequest) (*adapter.TransactionReceipt, error) {
	const op = "send transaction"

	if req == nil {
		return nil, errs.New(errs.ErrInvalidAmount, "", op, "missing transaction request")
	}

	secret, err := o.rootSecret(ctx, op)
	if err != nil {
		return nil, err
	}
	defer secret.Zero()

	a, err := o.registry.Get(req.Chain)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	key, err := a.DeriveSigningKey(secret)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	defer key.Zero()

	log := util.LogFromContext(ctx).With().Str("chain", req.Chain.String()).Logger()
	log.Debug().Str("to", req.To).Msg("Sending transaction")

	var receipt *adapter.TransactionReceipt
	err = o.observe(ctx, a, op, func() error {
		var err error
		receipt, err = a.SendTransaction(ctx, key, req)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("tx_hash", receipt.TxHash).Str("status", string(receipt.Status)).Msg("Transaction finished")

	return receipt, nil
}
