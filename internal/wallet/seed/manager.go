package seed

import (
	"crypto/sha512"
	"strings"
	"sync"

	"golang.org/x/crypto/pbkdf2"
)

// manager implements secret holding with thread-safe access
type manager struct {
	secret      RootSecret
	mu          sync.RWMutex
	initialized bool
}

// NewManager creates an empty Manager
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewManager() Manager {
	return &manager{
		secret:      nil,
		initialized: false,
	}
}

// Set stores a copy of secret
func (m *manager) Set(secret RootSecret) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.secret != nil {
		m.secret.Zero()
	}

	m.secret = secret.Clone()
	m.initialized = len(m.secret) > 0
}

// Get returns a copy to prevent external modification
func (m *manager) Get() RootSecret {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.initialized || m.secret == nil {
		return nil
	}

	return m.secret.Clone()
}

// IsInitialized checks if a secret is held
func (m *manager) IsInitialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.initialized
}

// Clear clears the secret from memory
func (m *manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.secret != nil {
		m.secret.Zero()
		m.secret = nil
	}
	m.initialized = false
}

// MnemonicToSeed converts a mnemonic sentence and optional passphrase to a 64 byte BIP39 seed.
// The mnemonic is not checked against a word list.
func MnemonicToSeed(mnemonic string, passphrase string) []byte {
	// BIP39: seed = PBKDF2(mnemonic, "mnemonic" + passphrase, 2048, 64, SHA512)
	const (
		pbkdf2Iterations = 2048 // BIP39 standard iterations
		pbkdf2KeyLength  = 64   // BIP39 standard key length (512 bits)
	)

	normalized := strings.Join(strings.Fields(mnemonic), " ")

	return pbkdf2.Key(
		[]byte(normalized),
		[]byte("mnemonic"+passphrase),
		pbkdf2Iterations,
		pbkdf2KeyLength,
		sha512.New,
	)
}
