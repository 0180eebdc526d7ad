package session_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/multichain-wallet/internal/wallet/errs"
	"github/chapool/multichain-wallet/internal/wallet/session"
)

const testKey = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"

type fakeHandle struct {
	key   string
	err   error
	calls int
}

func (h *fakeHandle) PrivateKey(_ context.Context) (string, error) {
	h.calls++
	return h.key, h.err
}

type fakeProvider struct {
	ready     bool
	connected bool
	restore   bool
	initErr   error
	handle    *fakeHandle
}

func (p *fakeProvider) Init(_ context.Context) error {
	if p.initErr != nil {
		return p.initErr
	}
	p.ready = true
	if p.restore {
		p.connected = true
	}
	return nil
}

func (p *fakeProvider) Ready() bool { return p.ready }

func (p *fakeProvider) Connect(_ context.Context, _ session.LoginMethod) (session.Handle, error) {
	p.connected = true
	return p.handle, nil
}

func (p *fakeProvider) Connected() bool { return p.connected }

func (p *fakeProvider) Handle() session.Handle {
	if !p.connected {
		return nil
	}
	return p.handle
}

func (p *fakeProvider) UserInfo(_ context.Context) (*session.UserInfo, error) {
	return &session.UserInfo{Verifier: "fake"}, nil
}

func (p *fakeProvider) IDToken(_ context.Context) (string, error) { return "token", nil }

func (p *fakeProvider) Logout(_ context.Context) error {
	p.connected = false
	return nil
}

func TestSessionLifecycle(t *testing.T) {
	ctx := t.Context()
	provider := &fakeProvider{handle: &fakeHandle{key: testKey}}

	var transitions []string
	sess := session.New(provider, session.WithTransitionObserver(func(from, to session.State) {
		transitions = append(transitions, from.String()+"->"+to.String())
	}))
	assert.Equal(t, session.StateUninitialized, sess.State())

	_, err := sess.RootSecret(ctx)
	assert.True(t, errors.Is(err, errs.ErrInvalidSessionState))

	require.NoError(t, sess.Init(ctx))
	assert.Equal(t, session.StateReady, sess.State())

	_, err = sess.Require("get balance")
	assert.True(t, errors.Is(err, errs.ErrInvalidSessionState))
	assert.Equal(t, 0, provider.handle.calls)

	err = sess.Init(ctx)
	assert.True(t, errors.Is(err, errs.ErrInvalidSessionState))

	require.NoError(t, sess.Login(ctx, session.LoginMethodPrivateKey))
	assert.Equal(t, session.StateAuthenticated, sess.State())

	first, err := sess.RootSecret(ctx)
	require.NoError(t, err)
	second, err := sess.RootSecret(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	require.NoError(t, sess.Logout(ctx))
	assert.Equal(t, session.StateLoggedOut, sess.State())
	assert.Nil(t, sess.Handle())

	_, err = sess.RootSecret(ctx)
	assert.True(t, errors.Is(err, errs.ErrInvalidSessionState))

	err = sess.Logout(ctx)
	assert.True(t, errors.Is(err, errs.ErrInvalidSessionState))

	require.NoError(t, sess.Login(ctx, session.LoginMethodPrivateKey))
	assert.Equal(t, session.StateAuthenticated, sess.State())

	assert.Equal(t, []string{
		"uninitialized->initializing",
		"initializing->ready",
		"ready->authenticated",
		"authenticated->logged_out",
		"logged_out->authenticated",
	}, transitions)
}

func TestSessionInitRestoresLogin(t *testing.T) {
	provider := &fakeProvider{restore: true, handle: &fakeHandle{key: testKey}}
	sess := session.New(provider)

	require.NoError(t, sess.Init(t.Context()))
	assert.Equal(t, session.StateAuthenticated, sess.State())
	assert.NotNil(t, sess.Handle())
}

func TestSessionInitFailure(t *testing.T) {
	provider := &fakeProvider{initErr: errors.New("boom")}
	sess := session.New(provider)

	err := sess.Init(t.Context())
	assert.True(t, errors.Is(err, errs.ErrUninitializedSession))
	assert.Equal(t, session.StateUninitialized, sess.State())

	err = sess.Login(t.Context(), session.LoginMethodPrivateKey)
	assert.True(t, errors.Is(err, errs.ErrInvalidSessionState))
}

func TestSessionWithoutProvider(t *testing.T) {
	sess := session.New(nil)

	_, err := sess.Require("get account")
	assert.True(t, errors.Is(err, errs.ErrProviderNotInitialized))

	err = sess.Init(t.Context())
	assert.True(t, errors.Is(err, errs.ErrProviderNotInitialized))

	var nilSession *session.Session
	_, err = nilSession.Require("get account")
	assert.True(t, errors.Is(err, errs.ErrProviderNotInitialized))
}

func TestExtractRootSecret(t *testing.T) {
	ctx := t.Context()
	handle := &fakeHandle{key: testKey}

	_, err := session.ExtractRootSecret(ctx, nil, handle)
	assert.True(t, errors.Is(err, errs.ErrUninitializedSession))

	provider := &fakeProvider{handle: handle}
	_, err = session.ExtractRootSecret(ctx, provider, handle)
	assert.True(t, errors.Is(err, errs.ErrUninitializedSession))

	provider.ready = true
	_, err = session.ExtractRootSecret(ctx, provider, handle)
	assert.True(t, errors.Is(err, errs.ErrNotAuthenticated))

	provider.connected = true
	secret, err := session.ExtractRootSecret(ctx, provider, handle)
	require.NoError(t, err)
	assert.Equal(t, testKey, secret.Hex())

	again, err := session.ExtractRootSecret(ctx, provider, handle)
	require.NoError(t, err)
	assert.Equal(t, secret, again)

	handle.key = "0xnothex"
	_, err = session.ExtractRootSecret(ctx, provider, handle)
	assert.True(t, errors.Is(err, errs.ErrKeyDerivation))

	handle.key = "0xaa"
	_, err = session.ExtractRootSecret(ctx, provider, handle)
	assert.True(t, errors.Is(err, errs.ErrKeyDerivation))

	handle.err = errors.New("provider unreachable")
	_, err = session.ExtractRootSecret(ctx, provider, handle)
	assert.True(t, errors.Is(err, errs.ErrRPCUnavailable))
}

func TestCanTransition(t *testing.T) {
	assert.True(t, session.CanTransition(session.StateReady, session.StateAuthenticated))
	assert.False(t, session.CanTransition(session.StateUninitialized, session.StateAuthenticated))
	assert.False(t, session.CanTransition(session.StateReady, session.StateLoggedOut))
	assert.True(t, session.CanTransition(session.StateLoggedOut, session.StateAuthenticated))
}
