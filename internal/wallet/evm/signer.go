package evm

import (
	"crypto/ecdsa"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github/chapool/multichain-wallet/internal/util"
	"github/chapool/multichain-wallet/internal/wallet/chain"
)

// SigningKey is a secp256k1 key derived for a single operation.
type SigningKey struct {
	chainID chain.ID
	key     *ecdsa.PrivateKey
}

// Chain returns the network the key was derived for.
func (k *SigningKey) Chain() chain.ID {
	return k.chainID
}

// Address returns the key's checksummed address.
func (k *SigningKey) Address() common.Address {
	return crypto.PubkeyToAddress(k.key.PublicKey)
}

// Zero wipes the private scalar.
func (k *SigningKey) Zero() {
	if k == nil || k.key == nil {
		return
	}

	util.ZeroBigInt(k.key.D)
}

// transferParams describes a native value transfer before signing.
type transferParams struct {
	ChainID              *big.Int
	Nonce                uint64
	To                   common.Address
	Value                *big.Int
	GasLimit             uint64
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
}

// signTransfer builds and signs an EIP-1559 transfer.
func signTransfer(key *SigningKey, p transferParams) (*types.Transaction, error) {
	to := p.To

	//nolint:varnamelen // tx is a common abbreviation for transaction
	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   p.ChainID,
		Nonce:     p.Nonce,
		GasTipCap: p.MaxPriorityFeePerGas,
		GasFeeCap: p.MaxFeePerGas,
		Gas:       p.GasLimit,
		To:        &to,
		Value:     p.Value,
	})

	signedTx, err := types.SignTx(tx, types.NewLondonSigner(p.ChainID), key.key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign transaction")
	}

	return signedTx, nil
}
