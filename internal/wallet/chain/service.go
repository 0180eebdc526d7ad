package chain

import (
	"context"

	"github.com/pkg/errors"
	"github/chapool/multichain-wallet/internal/util"
)

// ErrNetworkNotFound is returned by GetNetwork for an unknown id.
var ErrNetworkNotFound = errors.New("network not found")

type service struct {
	networks []Network
}

// NewService validates networks and returns a lookup service over them.
//
//nolint:ireturn
func NewService(networks []Network) (Service, error) {
	seen := make(map[ID]struct{}, len(networks))
	for i := range networks {
		if err := networks[i].Validate(); err != nil {
			return nil, errors.Wrap(err, "invalid network configuration")
		}
		if _, ok := seen[networks[i].ID]; ok {
			return nil, errors.Errorf("duplicate network id %q", networks[i].ID)
		}
		seen[networks[i].ID] = struct{}{}
	}

	return &service{networks: networks}, nil
}

// GetNetwork returns the network registered under id.
func (s *service) GetNetwork(_ context.Context, id ID) (*Network, error) {
	for i := range s.networks {
		if s.networks[i].ID == id {
			network := s.networks[i]
			return &network, nil
		}
	}

	return nil, errors.Wrapf(ErrNetworkNotFound, "network %q", id)
}

// ListNetworks returns every configured network.
func (s *service) ListNetworks(_ context.Context) []Network {
	result := make([]Network, len(s.networks))
	copy(result, s.networks)
	return result
}

// GetActiveNetworks returns the networks that are not disabled.
func (s *service) GetActiveNetworks(_ context.Context) []Network {
	result := make([]Network, 0, len(s.networks))
	for _, network := range s.networks {
		if util.FalseIfNil(network.Disabled) {
			continue
		}
		result = append(result, network)
	}

	return result
}
