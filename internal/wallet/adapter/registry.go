package adapter

import (
	"github/chapool/multichain-wallet/internal/wallet/chain"
	"github/chapool/multichain-wallet/internal/wallet/errs"
)

// Registry maps chain identifiers to adapters. It is resolved once at construction and
// keeps configuration order.
type Registry struct {
	order    []chain.ID
	adapters map[chain.ID]Adapter
}

// NewRegistry registers adapters in the given order. Duplicate ids are rejected.
func NewRegistry(adapters ...Adapter) (*Registry, error) {
	r := &Registry{
		order:    make([]chain.ID, 0, len(adapters)),
		adapters: make(map[chain.ID]Adapter, len(adapters)),
	}

	for _, a := range adapters {
		id := a.Network().ID
		if _, ok := r.adapters[id]; ok {
			return nil, errs.Newf(errs.ErrUnknownChain, id, "register adapter", "duplicate chain id %q", id)
		}
		r.order = append(r.order, id)
		r.adapters[id] = a
	}

	return r, nil
}

// Get returns the adapter for id.
//
//nolint:ireturn
func (r *Registry) Get(id chain.ID) (Adapter, error) {
	a, ok := r.adapters[id]
	if !ok {
		return nil, errs.Newf(errs.ErrUnknownChain, id, "select adapter", "no adapter configured for %q", id)
	}

	return a, nil
}

// FirstOfKind returns the first registered adapter of kind.
//
//nolint:ireturn
func (r *Registry) FirstOfKind(kind chain.Kind) (Adapter, error) {
	for _, id := range r.order {
		if a := r.adapters[id]; a.Network().Kind == kind {
			return a, nil
		}
	}

	return nil, errs.Newf(errs.ErrUnknownChain, "", "select adapter", "no %s adapter configured", kind)
}

// All returns the registered adapters in registration order.
func (r *Registry) All() []Adapter {
	result := make([]Adapter, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, r.adapters[id])
	}

	return result
}
