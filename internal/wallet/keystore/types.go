package keystore

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github/chapool/multichain-wallet/internal/wallet/chain"
)

const (
	version     = 3
	cipherName  = "aes-128-ctr"
	kdfName     = "scrypt"
	saltLength  = 32
	ivLength    = 16
	aesKeyBytes = 16
)

// ErrInvalidPassword is returned when the MAC does not match, which almost always means a wrong password.
var ErrInvalidPassword = errors.New("invalid password: MAC mismatch")

// Key is a password-encrypted chain key in Ethereum keystore v3 layout. Chain and Address are
// extensions so a file exported for Solana can be told apart from an EVM one.
type Key struct {
	Version int      `json:"version"`
	ID      string   `json:"id"`
	Chain   chain.ID `json:"chain,omitempty"`
	Address string   `json:"address,omitempty"`
	Crypto  struct {
		Ciphertext   string `json:"ciphertext"`
		CipherParams struct {
			IV string `json:"iv"`
		} `json:"cipherparams"`
		Cipher    string `json:"cipher"`
		KDF       string `json:"kdf"`
		KDFParams struct {
			DKLen int    `json:"dklen"`
			Salt  string `json:"salt"`
			N     int    `json:"n"`
			R     int    `json:"r"`
			P     int    `json:"p"`
		} `json:"kdfparams"`
		MAC string `json:"mac"`
	} `json:"crypto"`
}

// Marshal renders the key as indented JSON.
func (k *Key) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(k, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal keystore JSON")
	}

	return data, nil
}

// Parse reads a keystore JSON document.
func Parse(data []byte) (*Key, error) {
	var key Key
	if err := json.Unmarshal(data, &key); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal keystore JSON")
	}

	if key.Version != version {
		return nil, errors.Errorf("unsupported keystore version %d", key.Version)
	}
	if key.Crypto.Cipher != cipherName || key.Crypto.KDF != kdfName {
		return nil, errors.Errorf("unsupported keystore cipher %q / kdf %q", key.Crypto.Cipher, key.Crypto.KDF)
	}

	return &key, nil
}

// ScryptParams defines scrypt KDF parameters
type ScryptParams struct {
	DKLen int // Derived key length (32 bytes)
	N     int // CPU/memory cost parameter
	R     int // Block size parameter
	P     int // Parallelization parameter
}

// DefaultScryptParams returns the standard keystore v3 parameters (N = 2^18).
func DefaultScryptParams() ScryptParams {
	const (
		scryptDKLen = 32
		scryptN     = 262144
		scryptR     = 8
		scryptP     = 1
	)

	return ScryptParams{DKLen: scryptDKLen, N: scryptN, R: scryptR, P: scryptP}
}

// LightScryptParams trade strength for speed (N = 2^12), as geth's --lightkdf does.
func LightScryptParams() ScryptParams {
	const (
		scryptDKLen = 32
		scryptN     = 4096
		scryptR     = 8
		scryptP     = 6
	)

	return ScryptParams{DKLen: scryptDKLen, N: scryptN, R: scryptR, P: scryptP}
}
