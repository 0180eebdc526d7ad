package solana

import (
	"crypto/ed25519"

	"github.com/gagliardetto/solana-go"
	"github/chapool/multichain-wallet/internal/util"
	"github/chapool/multichain-wallet/internal/wallet/chain"
)

// SigningKey is an ed25519 key derived for a single operation.
type SigningKey struct {
	chainID chain.ID
	key     solana.PrivateKey
}

// newSigningKey expands a 32-byte seed into the 64-byte seed||pubkey layout Solana wallets use.
func newSigningKey(chainID chain.ID, seed []byte) *SigningKey {
	return &SigningKey{
		chainID: chainID,
		key:     solana.PrivateKey(ed25519.NewKeyFromSeed(seed)),
	}
}

func (k *SigningKey) Chain() chain.ID {
	return k.chainID
}

// PublicKey returns the account address.
func (k *SigningKey) PublicKey() solana.PublicKey {
	return k.key.PublicKey()
}

// Zero wipes the key bytes.
func (k *SigningKey) Zero() {
	if k == nil {
		return
	}

	util.Zero(k.key)
}
