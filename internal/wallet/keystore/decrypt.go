package keystore

import (
	"crypto/subtle"
	"encoding/hex"

	"github.com/pkg/errors"
	"github/chapool/multichain-wallet/internal/util"
	"golang.org/x/crypto/scrypt"
)

// Decrypt returns the raw key bytes sealed in key. A wrong password yields ErrInvalidPassword.
func Decrypt(key *Key, password string) ([]byte, error) {
	if key == nil {
		return nil, errors.New("keystore is nil")
	}

	salt, err := hex.DecodeString(key.Crypto.KDFParams.Salt)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode salt")
	}

	//nolint:varnamelen // iv is a common abbreviation for initialization vector
	iv, err := hex.DecodeString(key.Crypto.CipherParams.IV)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode IV")
	}
	if len(iv) != ivLength {
		return nil, errors.Errorf("IV must be %d bytes, got %d", ivLength, len(iv))
	}

	ciphertext, err := hex.DecodeString(key.Crypto.Ciphertext)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode ciphertext")
	}

	expectedMAC, err := hex.DecodeString(key.Crypto.MAC)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode MAC")
	}

	params := key.Crypto.KDFParams
	if params.DKLen < 2*aesKeyBytes {
		return nil, errors.Errorf("derived key length %d is too short", params.DKLen)
	}

	derivedKey, err := scrypt.Key([]byte(password), salt, params.N, params.R, params.P, params.DKLen)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive key")
	}
	defer util.Zero(derivedKey)

	mac := calculateMAC(derivedKey[aesKeyBytes:2*aesKeyBytes], ciphertext)
	if subtle.ConstantTimeCompare(mac, expectedMAC) != 1 {
		return nil, ErrInvalidPassword
	}

	plaintext, err := aes128CTR(derivedKey[:aesKeyBytes], iv, ciphertext)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decrypt key")
	}

	return plaintext, nil
}
