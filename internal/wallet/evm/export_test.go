package evm

import "math/big"

// PrivateScalar exposes the scalar of key to the external tests.
func PrivateScalar(key *SigningKey) *big.Int {
	return key.key.D
}
