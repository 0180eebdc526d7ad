package seed

import (
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github/chapool/multichain-wallet/internal/util"
)

// RootSecretLength is the length of the canonical root secret (a 256-bit private scalar).
const RootSecretLength = 32

// minRootSecretLength accepts a single dropped leading zero byte, shorter values are truncated output.
const minRootSecretLength = RootSecretLength - 1

// RootSecret is the chain-agnostic private scalar of an authenticated session.
// Its String and log renderings are redacted.
type RootSecret []byte

// ErrInvalidRootSecret is returned when a value cannot be mapped to a canonical root secret.
var ErrInvalidRootSecret = errors.New("invalid root secret")

// ParseRootSecret decodes a hex encoded secret (with or without 0x prefix) into canonical form.
// A 31 byte value is left padded with one zero byte, providers commonly drop a leading zero.
func ParseRootSecret(encoded string) (RootSecret, error) {
	encoded = strings.TrimSpace(encoded)
	encoded = strings.TrimPrefix(strings.TrimPrefix(encoded, "0x"), "0X")
	if encoded == "" {
		return nil, errors.Wrap(ErrInvalidRootSecret, "empty value")
	}
	if len(encoded)%2 == 1 {
		encoded = "0" + encoded
	}

	raw, err := hex.DecodeString(encoded)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidRootSecret, "not hex encoded")
	}
	defer util.Zero(raw)

	return NewRootSecret(raw)
}

// NewRootSecret copies raw into a canonical 32 byte root secret.
func NewRootSecret(raw []byte) (RootSecret, error) {
	if len(raw) == 0 {
		return nil, errors.Wrap(ErrInvalidRootSecret, "empty value")
	}
	if len(raw) > RootSecretLength {
		return nil, errors.Wrapf(ErrInvalidRootSecret, "length %d exceeds %d bytes", len(raw), RootSecretLength)
	}
	if len(raw) < minRootSecretLength {
		return nil, errors.Wrapf(ErrInvalidRootSecret, "length %d is shorter than %d bytes", len(raw), minRootSecretLength)
	}

	secret := make(RootSecret, RootSecretLength)
	copy(secret[RootSecretLength-len(raw):], raw)

	if secret.IsZero() {
		secret.Zero()
		return nil, errors.Wrap(ErrInvalidRootSecret, "all zero value")
	}

	return secret, nil
}

// Clone returns an independent copy of s.
func (s RootSecret) Clone() RootSecret {
	if s == nil {
		return nil
	}

	c := make(RootSecret, len(s))
	copy(c, s)
	return c
}

// Hex returns the 0x prefixed hex encoding. Diagnostic use only.
func (s RootSecret) Hex() string {
	return "0x" + hex.EncodeToString(s)
}

// IsZero reports whether s is empty or all zero bytes.
func (s RootSecret) IsZero() bool {
	for _, b := range s {
		if b != 0 {
			return false
		}
	}

	return true
}

// Zero overwrites s in place.
func (s RootSecret) Zero() {
	util.Zero(s)
}

func (s RootSecret) String() string {
	if len(s) == 0 {
		return "RootSecret(empty)"
	}

	return "RootSecret(redacted)"
}

// MarshalZerologObject keeps root secrets out of logs.
func (s RootSecret) MarshalZerologObject(e *zerolog.Event) {
	e.Int("length", len(s)).Bool("redacted", true)
}

// Manager holds the root secret of the current session in memory.
type Manager interface {
	// Set stores a copy of secret, replacing (and zeroing) any previous value
	Set(secret RootSecret)

	// Get returns a copy of the secret or nil if none is held
	Get() RootSecret

	// IsInitialized checks if a secret is held
	IsInitialized() bool

	// Clear zeroes the secret and forgets it
	Clear()
}
