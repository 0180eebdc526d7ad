package keystore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github/chapool/multichain-wallet/internal/util"
	"github/chapool/multichain-wallet/internal/wallet/chain"
	"golang.org/x/crypto/scrypt"
)

// Encrypt seals raw key bytes under password.
//
//nolint:varnamelen // iv is a common abbreviation for initialization vector
func Encrypt(raw []byte, password string, chainID chain.ID, address string, params ScryptParams) (*Key, error) {
	if len(raw) == 0 {
		return nil, errors.New("key material is empty")
	}
	if password == "" {
		return nil, errors.New("password must not be empty")
	}

	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, errors.Wrap(err, "failed to generate salt")
	}

	iv := make([]byte, ivLength)
	if _, err := rand.Read(iv); err != nil {
		return nil, errors.Wrap(err, "failed to generate IV")
	}

	derivedKey, err := scrypt.Key([]byte(password), salt, params.N, params.R, params.P, params.DKLen)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive key")
	}
	defer util.Zero(derivedKey)

	ciphertext, err := aes128CTR(derivedKey[:aesKeyBytes], iv, raw)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encrypt key")
	}

	key := &Key{
		Version: version,
		ID:      uuid.New().String(),
		Chain:   chainID,
		Address: address,
	}

	key.Crypto.Ciphertext = hex.EncodeToString(ciphertext)
	key.Crypto.CipherParams.IV = hex.EncodeToString(iv)
	key.Crypto.Cipher = cipherName
	key.Crypto.KDF = kdfName
	key.Crypto.KDFParams.DKLen = params.DKLen
	key.Crypto.KDFParams.Salt = hex.EncodeToString(salt)
	key.Crypto.KDFParams.N = params.N
	key.Crypto.KDFParams.R = params.R
	key.Crypto.KDFParams.P = params.P
	key.Crypto.MAC = hex.EncodeToString(calculateMAC(derivedKey[aesKeyBytes:2*aesKeyBytes], ciphertext))

	return key, nil
}

// aes128CTR is its own inverse.
//
//nolint:varnamelen // iv is a common abbreviation for initialization vector
func aes128CTR(key []byte, iv []byte, in []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create cipher")
	}

	out := make([]byte, len(in))
	cipher.NewCTR(block, iv).XORKeyStream(out, in)

	return out, nil
}

// calculateMAC is Keccak-256(derivedKey[16:32] || ciphertext).
func calculateMAC(key []byte, ciphertext []byte) []byte {
	return crypto.Keccak256(key, ciphertext)
}
