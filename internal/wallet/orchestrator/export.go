package orchestrator

import (
	"context"
	"crypto/subtle"

	"github.com/pkg/errors"
	"github/chapool/multichain-wallet/internal/util"
	"github/chapool/multichain-wallet/internal/wallet/chain"
	"github/chapool/multichain-wallet/internal/wallet/errs"
	"github/chapool/multichain-wallet/internal/wallet/keystore"
)

// ErrKeystoreMismatch is returned by VerifyKeystore when the file holds a different key than the session derives.
var ErrKeystoreMismatch = errors.New("keystore does not hold the session's key")

// ExportedKey is a chain key rendered the way that chain's wallets import it.
type ExportedKey struct {
	Chain      chain.ID `json:"chain"`
	Address    string   `json:"address"`
	PrivateKey string   `json:"privateKey"`
}

// ExportKey returns the signing key of chainID (hex for EVM, base58 for Solana).
func (o *Orchestrator) ExportKey(ctx context.Context, chainID chain.ID) (*ExportedKey, error) {
	const op = "export key"

	raw, address, err := o.rawKey(ctx, op, chainID)
	if err != nil {
		return nil, err
	}
	defer util.Zero(raw)

	a, err := o.registry.Get(chainID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	util.LogFromContext(ctx).Warn().Str("chain", chainID.String()).Msg("Exporting private key")

	return &ExportedKey{
		Chain:      chainID,
		Address:    address,
		PrivateKey: a.EncodeRawKey(raw),
	}, nil
}

// ExportRootSecret returns the session's root secret as 0x-prefixed hex.
func (o *Orchestrator) ExportRootSecret(ctx context.Context) (string, error) {
	secret, err := o.rootSecret(ctx, "export root secret")
	if err != nil {
		return "", err
	}
	defer secret.Zero()

	util.LogFromContext(ctx).Warn().Msg("Exporting root secret")

	return secret.Hex(), nil
}

// ExportKeystore seals the signing key of chainID under password.
func (o *Orchestrator) ExportKeystore(ctx context.Context, chainID chain.ID, password string) (*keystore.Key, error) {
	const op = "export keystore"

	raw, address, err := o.rawKey(ctx, op, chainID)
	if err != nil {
		return nil, err
	}
	defer util.Zero(raw)

	ks, err := keystore.Encrypt(raw, password, chainID, address, o.opts.KeystoreParams)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKeyDerivation, chainID, op, err)
	}

	util.LogFromContext(ctx).Info().Str("chain", chainID.String()).Str("keystore_id", ks.ID).Msg("Exported keystore")

	return ks, nil
}

// VerifyKeystore checks that ks decrypts with password to the key the session derives on ks.Chain.
func (o *Orchestrator) VerifyKeystore(ctx context.Context, ks *keystore.Key, password string) error {
	const op = "verify keystore"

	if ks == nil {
		return errors.New("keystore is nil")
	}

	expected, address, err := o.rawKey(ctx, op, ks.Chain)
	if err != nil {
		return err
	}
	defer util.Zero(expected)

	decrypted, err := keystore.Decrypt(ks, password)
	if err != nil {
		return errors.Wrap(err, "failed to decrypt keystore")
	}
	defer util.Zero(decrypted)

	if subtle.ConstantTimeCompare(expected, decrypted) != 1 {
		return ErrKeystoreMismatch
	}
	if ks.Address != "" && ks.Address != address {
		return errors.Wrapf(ErrKeystoreMismatch, "address %s, session derives %s", ks.Address, address)
	}

	util.LogFromContext(ctx).Info().Str("chain", ks.Chain.String()).Str("address", address).Msg("Keystore verified")

	return nil
}

// rawKey derives the signing key of chainID and returns its raw bytes and address.
func (o *Orchestrator) rawKey(ctx context.Context, op string, chainID chain.ID) ([]byte, string, error) {
	secret, err := o.rootSecret(ctx, op)
	if err != nil {
		return nil, "", err
	}
	defer secret.Zero()

	a, err := o.registry.Get(chainID)
	if err != nil {
		return nil, "", err //nolint:wrapcheck
	}

	key, err := a.DeriveSigningKey(secret)
	if err != nil {
		return nil, "", err //nolint:wrapcheck
	}
	defer key.Zero()

	address, err := a.Address(key)
	if err != nil {
		return nil, "", err //nolint:wrapcheck
	}

	raw, err := a.ExportRawKey(key)
	if err != nil {
		return nil, "", err //nolint:wrapcheck
	}

	return raw, address, nil
}
