package session

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github/chapool/multichain-wallet/internal/util"
	"github/chapool/multichain-wallet/internal/wallet/errs"
	"github/chapool/multichain-wallet/internal/wallet/seed"
)

// TransitionObserver is notified after every state change.
type TransitionObserver func(from State, to State)

// Session is the explicit session context: the provider, the handle of the current login and
// the lifecycle state. Only an authenticated session hands out its root secret.
type Session struct {
	mu       sync.RWMutex
	provider Provider
	handle   Handle
	state    State
	observer TransitionObserver
}

// Option configures a Session.
type Option func(*Session)

// WithTransitionObserver registers fn to be called after every state change.
func WithTransitionObserver(fn TransitionObserver) Option {
	return func(s *Session) {
		s.observer = fn
	}
}

// New creates an uninitialized session around provider.
func New(provider Provider, opts ...Option) *Session {
	s := &Session{
		provider: provider,
		state:    StateUninitialized,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state
}

// Provider returns the session provider (may be nil).
func (s *Session) Provider() Provider {
	if s == nil {
		return nil
	}

	return s.provider
}

// Handle returns the handle of the current login or nil.
func (s *Session) Handle() Handle {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.handle
}

// Init initializes the provider. A login the provider restored during Init makes the session
// authenticated right away.
func (s *Session) Init(ctx context.Context) error {
	const op = "init session"

	if s.Provider() == nil {
		return errs.New(errs.ErrProviderNotInitialized, "", op, "no session provider configured")
	}

	if err := s.transition(StateUninitialized, StateInitializing, nil); err != nil {
		return errs.Wrap(errs.ErrInvalidSessionState, "", op, err)
	}

	if err := s.provider.Init(ctx); err != nil {
		_ = s.transition(StateInitializing, StateUninitialized, nil)
		return errs.Wrap(errs.ErrUninitializedSession, "", op, err)
	}

	if s.provider.Connected() && s.provider.Handle() != nil {
		util.LogFromContext(ctx).Debug().Msg("Session provider restored a previous login")
		return s.transition(StateInitializing, StateAuthenticated, s.provider.Handle())
	}

	return s.transition(StateInitializing, StateReady, nil)
}

// Login connects the provider with method. Allowed from ready and logged out.
func (s *Session) Login(ctx context.Context, method LoginMethod) error {
	const op = "login"

	if s.Provider() == nil {
		return errs.New(errs.ErrProviderNotInitialized, "", op, "no session provider configured")
	}

	current := s.State()
	if !CanTransition(current, StateAuthenticated) || current == StateInitializing {
		return errs.Newf(errs.ErrInvalidSessionState, "", op, "cannot log in from state %s", current)
	}

	handle, err := s.provider.Connect(ctx, method)
	if err != nil {
		if errs.KindOf(err) != nil {
			return err
		}
		return errs.Wrap(errs.ErrNotAuthenticated, "", op, err)
	}
	if handle == nil {
		return errs.New(errs.ErrNotAuthenticated, "", op, "provider returned no handle")
	}

	if err := s.transition(current, StateAuthenticated, handle); err != nil {
		return errs.Wrap(errs.ErrInvalidSessionState, "", op, err)
	}

	util.LogFromContext(ctx).Info().Str("login_method", string(method)).Msg("Logged in")

	return nil
}

// Logout invalidates the handle. Derived material held by callers must be discarded.
func (s *Session) Logout(ctx context.Context) error {
	const op = "logout"

	if s.Provider() == nil {
		return errs.New(errs.ErrProviderNotInitialized, "", op, "no session provider configured")
	}

	if state := s.State(); state != StateAuthenticated {
		return errs.Newf(errs.ErrInvalidSessionState, "", op, "cannot log out from state %s", state)
	}

	if err := s.provider.Logout(ctx); err != nil {
		return errors.Wrap(err, "failed to log out of session provider")
	}

	if err := s.transition(StateAuthenticated, StateLoggedOut, nil); err != nil {
		return errs.Wrap(errs.ErrInvalidSessionState, "", op, err)
	}

	util.LogFromContext(ctx).Info().Msg("Logged out")

	return nil
}

// Require validates that operation op may run: a provider is configured, the session is
// authenticated and holds a handle.
func (s *Session) Require(op string) (Handle, error) {
	if s == nil || s.provider == nil {
		return nil, errs.New(errs.ErrProviderNotInitialized, "", op, "no session provider configured")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state != StateAuthenticated {
		return nil, errs.Newf(errs.ErrInvalidSessionState, "", op, "session is %s, not %s", s.state, StateAuthenticated)
	}
	if s.handle == nil {
		return nil, errs.New(errs.ErrProviderNotInitialized, "", op, "session holds no provider handle")
	}

	return s.handle, nil
}

// RootSecret extracts the root secret of the authenticated session.
func (s *Session) RootSecret(ctx context.Context) (seed.RootSecret, error) {
	handle, err := s.Require("extract root secret")
	if err != nil {
		return nil, err
	}

	return ExtractRootSecret(ctx, s.provider, handle)
}

func (s *Session) transition(from State, to State, handle Handle) error {
	s.mu.Lock()

	if s.state != from {
		current := s.state
		s.mu.Unlock()
		return errors.Errorf("session is %s, expected %s", current, from)
	}
	if !CanTransition(from, to) {
		s.mu.Unlock()
		return errors.Errorf("illegal transition %s -> %s", from, to)
	}

	s.state = to
	s.handle = handle
	observer := s.observer
	s.mu.Unlock()

	if observer != nil {
		observer(from, to)
	}

	return nil
}
