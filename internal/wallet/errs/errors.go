// Package errs defines the error kinds surfaced by session, adapter and orchestrator operations.
//
// Every failure is reported as an *Error carrying its kind, the chain it concerns (if any) and
// a message, so callers can render a specific diagnostic. Kinds are sentinels matched with errors.Is.
package errs

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github/chapool/multichain-wallet/internal/wallet/chain"
)

var (
	ErrNotAuthenticated       = errors.New("not authenticated")
	ErrUninitializedSession   = errors.New("session provider not initialized")
	ErrInvalidSessionState    = errors.New("invalid session state")
	ErrProviderNotInitialized = errors.New("provider not initialized")
	ErrKeyDerivation          = errors.New("key derivation failed")
	ErrRPCUnavailable         = errors.New("rpc unavailable")
	ErrInsufficientFunds      = errors.New("insufficient funds")
	ErrBroadcastRejected      = errors.New("broadcast rejected")
	ErrPartialChainFailure    = errors.New("partial chain failure")
	ErrConfirmationTimeout    = errors.New("confirmation timeout")
	ErrUnknownChain           = errors.New("unknown chain")
	ErrInvalidAddress         = errors.New("invalid address")
	ErrInvalidAmount          = errors.New("invalid amount")
	ErrUnsupportedOperation   = errors.New("unsupported operation")
)

var kinds = []error{
	ErrNotAuthenticated,
	ErrUninitializedSession,
	ErrInvalidSessionState,
	ErrProviderNotInitialized,
	ErrKeyDerivation,
	ErrRPCUnavailable,
	ErrInsufficientFunds,
	ErrBroadcastRejected,
	ErrPartialChainFailure,
	ErrConfirmationTimeout,
	ErrUnknownChain,
	ErrInvalidAddress,
	ErrInvalidAmount,
	ErrUnsupportedOperation,
}

// Error is a classified failure.
type Error struct {
	Kind    error
	Chain   chain.ID
	Op      string
	Message string
	Err     error
}

// New creates a classified error without an underlying cause.
func New(kind error, chainID chain.ID, op string, message string) *Error {
	return &Error{Kind: kind, Chain: chainID, Op: op, Message: message}
}

// Newf is New with a formatted message.
func Newf(kind error, chainID chain.ID, op string, format string, args ...any) *Error {
	return New(kind, chainID, op, fmt.Sprintf(format, args...))
}

// Wrap classifies err as kind. The cause stays reachable through errors.Is / errors.As.
func Wrap(kind error, chainID chain.ID, op string, err error) *Error {
	return &Error{Kind: kind, Chain: chainID, Op: op, Err: err}
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Chain != "" {
		b.WriteString("chain ")
		b.WriteString(e.Chain.String())
		b.WriteString(": ")
	}
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	if e.Kind != nil {
		b.WriteString(e.Kind.Error())
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}

	return b.String()
}

func (e *Error) Unwrap() []error {
	result := make([]error, 0, 2) //nolint:mnd
	if e.Kind != nil {
		result = append(result, e.Kind)
	}
	if e.Err != nil {
		result = append(result, e.Err)
	}

	return result
}

// PartialChainFailure reports that one chain of a composite operation failed while the others
// were still evaluated.
type PartialChainFailure struct {
	Chain chain.ID
	Cause error
}

func (p *PartialChainFailure) Error() string {
	return fmt.Sprintf("chain %s failed: %v", p.Chain, p.Cause)
}

func (p *PartialChainFailure) Unwrap() []error {
	return []error{ErrPartialChainFailure, p.Cause}
}

// KindOf returns the most specific kind err matches, or nil if it is unclassified.
// A PartialChainFailure reports the kind of its cause when it has one.
func KindOf(err error) error {
	if err == nil {
		return nil
	}

	var partial *PartialChainFailure
	if stderrors.As(err, &partial) {
		if kind := KindOf(partial.Cause); kind != nil {
			return kind
		}
		return ErrPartialChainFailure
	}

	for _, kind := range kinds {
		if stderrors.Is(err, kind) {
			return kind
		}
	}

	return nil
}

// ChainOf returns the chain an error concerns, or "" if it carries none.
func ChainOf(err error) chain.ID {
	var partial *PartialChainFailure
	if stderrors.As(err, &partial) {
		return partial.Chain
	}

	var classified *Error
	if stderrors.As(err, &classified) {
		return classified.Chain
	}

	return ""
}
