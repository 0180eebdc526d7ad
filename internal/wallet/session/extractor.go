package session

import (
	"context"

	"github/chapool/multichain-wallet/internal/wallet/errs"
	"github/chapool/multichain-wallet/internal/wallet/seed"
)

// ExtractRootSecret asks handle for the root secret and returns it in canonical form.
// It performs no writes; the same handle yields the same secret for the life of the login.
func ExtractRootSecret(ctx context.Context, provider Provider, handle Handle) (seed.RootSecret, error) {
	const op = "extract root secret"

	if provider == nil || !provider.Ready() {
		return nil, errs.New(errs.ErrUninitializedSession, "", op, "session provider has not completed initialization")
	}
	if handle == nil || !provider.Connected() {
		return nil, errs.New(errs.ErrNotAuthenticated, "", op, "no user is logged in")
	}

	encoded, err := handle.PrivateKey(ctx)
	if err != nil {
		if errs.KindOf(err) != nil {
			return nil, err
		}
		return nil, errs.Wrap(errs.ErrRPCUnavailable, "", op, err)
	}

	secret, err := seed.ParseRootSecret(encoded)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKeyDerivation, "", op, err)
	}

	return secret, nil
}
