// Package localauth is a session provider that authenticates locally from a mnemonic or a
// raw private key instead of a remote login service.
package localauth

import (
	"context"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github/chapool/multichain-wallet/internal/util"
	"github/chapool/multichain-wallet/internal/wallet/errs"
	"github/chapool/multichain-wallet/internal/wallet/hdkey"
	"github/chapool/multichain-wallet/internal/wallet/seed"
	"github/chapool/multichain-wallet/internal/wallet/session"
)

// Verifier is reported in UserInfo for every local login.
const Verifier = "local"

var validMnemonicLengths = map[int]struct{}{12: {}, 15: {}, 18: {}, 21: {}, 24: {}}

// Options carries the credentials and profile a Provider logs in with.
type Options struct {
	Mnemonic       string
	Passphrase     string
	DerivationPath string
	PrivateKey     string

	Email        string
	Name         string
	ProfileImage string
}

// Provider implements session.Provider.
type Provider struct {
	opts Options

	mu         sync.RWMutex
	ready      bool
	connected  bool
	generation uint64
	method     session.LoginMethod
	idToken    string
	loggedInAt time.Time
	secret     seed.Manager
}

type handle struct {
	provider   *Provider
	generation uint64
}

// NewProvider creates a provider for opts. Init must be called before Connect.
func NewProvider(opts Options) *Provider {
	if opts.DerivationPath == "" {
		opts.DerivationPath = hdkey.DefaultEVMPath
	}

	return &Provider{
		opts:   opts,
		secret: seed.NewManager(),
	}
}

// Init validates the configured derivation path.
func (p *Provider) Init(ctx context.Context) error {
	if _, err := hdkey.ParsePath(p.opts.DerivationPath); err != nil {
		return errors.Wrap(err, "invalid derivation path")
	}

	p.mu.Lock()
	p.ready = true
	p.mu.Unlock()

	util.LogFromContext(ctx).Debug().Str("derivation_path", p.opts.DerivationPath).Msg("Local session provider ready")

	return nil
}

// Ready reports whether Init completed.
func (p *Provider) Ready() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.ready
}

// Connect logs in with method and returns a handle valid until the next Logout.
//
//nolint:ireturn
func (p *Provider) Connect(ctx context.Context, method session.LoginMethod) (session.Handle, error) {
	const op = "connect"

	if !p.Ready() {
		return nil, errs.New(errs.ErrUninitializedSession, "", op, "local provider not initialized")
	}

	var (
		secret seed.RootSecret
		err    error
	)

	switch method {
	case session.LoginMethodMnemonic:
		secret, err = p.secretFromMnemonic()
	case session.LoginMethodPrivateKey:
		secret, err = seed.ParseRootSecret(p.opts.PrivateKey)
	default:
		return nil, errs.Newf(errs.ErrNotAuthenticated, "", op, "unsupported login method %q", method)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrNotAuthenticated, "", op, err)
	}
	defer secret.Zero()

	p.mu.Lock()
	defer p.mu.Unlock()

	p.secret.Set(secret)
	p.connected = true
	p.generation++
	p.method = method
	p.idToken = uuid.NewString()
	p.loggedInAt = time.Now()

	util.LogFromContext(ctx).Debug().Str("login_method", string(method)).Msg("Local login succeeded")

	return &handle{provider: p, generation: p.generation}, nil
}

func (p *Provider) secretFromMnemonic() (seed.RootSecret, error) {
	words := strings.Fields(p.opts.Mnemonic)
	if _, ok := validMnemonicLengths[len(words)]; !ok {
		return nil, errors.Errorf("mnemonic must have 12, 15, 18, 21 or 24 words, got %d", len(words))
	}

	seedBytes := seed.MnemonicToSeed(p.opts.Mnemonic, p.opts.Passphrase)
	defer util.Zero(seedBytes)

	key, err := hdkey.DerivePrivateKey(seedBytes, p.opts.DerivationPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive private key")
	}
	defer util.Zero(key)

	return seed.NewRootSecret(key)
}

// Connected reports whether a user is logged in.
func (p *Provider) Connected() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.connected
}

// Handle returns the handle of the current login or nil.
//
//nolint:ireturn
func (p *Provider) Handle() session.Handle {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.connected {
		return nil
	}

	return &handle{provider: p, generation: p.generation}
}

// UserInfo returns the configured profile of the logged in user.
func (p *Provider) UserInfo(_ context.Context) (*session.UserInfo, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.connected {
		return nil, errs.New(errs.ErrNotAuthenticated, "", "get user info", "no user is logged in")
	}

	verifierID := p.opts.Email
	if verifierID == "" {
		verifierID = p.idToken
	}

	return &session.UserInfo{
		Email:        p.opts.Email,
		Name:         p.opts.Name,
		ProfileImage: p.opts.ProfileImage,
		Verifier:     Verifier,
		VerifierID:   verifierID,
		TypeOfLogin:  string(p.method),
	}, nil
}

// IDToken returns the opaque token issued at login.
func (p *Provider) IDToken(_ context.Context) (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.connected {
		return "", errs.New(errs.ErrNotAuthenticated, "", "get id token", "no user is logged in")
	}

	return p.idToken, nil
}

// Logout forgets the secret; handles issued before become invalid.
func (p *Provider) Logout(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.secret.Clear()
	p.connected = false
	p.idToken = ""

	util.LogFromContext(ctx).Debug().Dur("session_duration", time.Since(p.loggedInAt)).Msg("Local logout")

	return nil
}

// PrivateKey returns the hex encoded root secret while the login that issued h is active.
func (h *handle) PrivateKey(_ context.Context) (string, error) {
	p := h.provider

	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.connected || p.generation != h.generation {
		return "", errs.New(errs.ErrNotAuthenticated, "", "get private key", "session handle is no longer valid")
	}

	secret := p.secret.Get()
	defer secret.Zero()

	return hex.EncodeToString(secret), nil
}
