package adapter

import (
	"context"
	"encoding/hex"

	"github/chapool/multichain-wallet/internal/wallet/chain"
	"github/chapool/multichain-wallet/internal/wallet/errs"
	"github/chapool/multichain-wallet/internal/wallet/seed"
)

// stubAdapter stands in for chains whose adapter is not implemented (Tezos, Polkadot, NEAR,
// StarkNet). Every operation fails with errs.ErrUnsupportedOperation.
type stubAdapter struct {
	network chain.Network
}

// NewStub returns an adapter that rejects every operation for network.
//
//nolint:ireturn
func NewStub(network chain.Network) Adapter {
	return &stubAdapter{network: network}
}

func (s *stubAdapter) Network() chain.Network {
	return s.network
}

//nolint:ireturn
func (s *stubAdapter) DeriveSigningKey(_ seed.RootSecret) (SigningKey, error) {
	return nil, s.unsupported("derive signing key")
}

func (s *stubAdapter) Address(_ SigningKey) (string, error) {
	return "", s.unsupported("get address")
}

func (s *stubAdapter) Accounts(_ context.Context, _ seed.RootSecret) ([]string, error) {
	return nil, s.unsupported("get accounts")
}

func (s *stubAdapter) Balance(_ context.Context, _ string) (*BalanceQuote, error) {
	return nil, s.unsupported("get balance")
}

func (s *stubAdapter) SendTransaction(_ context.Context, _ SigningKey, _ *TransactionRequest) (*TransactionReceipt, error) {
	return nil, s.unsupported("send transaction")
}

func (s *stubAdapter) ExportRawKey(_ SigningKey) ([]byte, error) {
	return nil, s.unsupported("export raw key")
}

func (s *stubAdapter) EncodeRawKey(raw []byte) string {
	return hex.EncodeToString(raw)
}

func (s *stubAdapter) Ping(_ context.Context) error {
	return nil
}

func (s *stubAdapter) unsupported(op string) error {
	return errs.Newf(errs.ErrUnsupportedOperation, s.network.ID, op, "%s adapter is not implemented", s.network.DisplayName)
}
