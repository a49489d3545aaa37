package usecase

import (
	"context"

	"github.com/trebuchet-org/token-farm/internal/config"
)

// ListNetworksParams contains parameters for listing networks
type ListNetworksParams struct {
	// SkipChainID skips the RPC round trip for networks without a pinned chain id
	SkipChainID bool
}

// ListNetworksResult contains the result of listing networks
type ListNetworksResult struct {
	Networks []NetworkStatus
	Active   string
}

// NetworkStatus represents the status of a network
type NetworkStatus struct {
	Name    string
	ChainID uint64
	RPCURL  string
	Local   bool
	Forked  bool
	Managed bool
	Error   error
}

// ListNetworks is a use case for listing available networks
type ListNetworks struct {
	resolver NetworkResolver
	active   string
}

// NewListNetworks creates a new ListNetworks use case
func NewListNetworks(resolver NetworkResolver, cfg *config.RuntimeConfig) *ListNetworks {
	return &ListNetworks{
		resolver: resolver,
		active:   cfg.Network.Name,
	}
}

// Run executes the use case
func (uc *ListNetworks) Run(ctx context.Context, params ListNetworksParams) (*ListNetworksResult, error) {
	networkNames := uc.resolver.GetNetworks(ctx)

	networks := make([]NetworkStatus, 0, len(networkNames))
	for _, name := range networkNames {
		status := NetworkStatus{
			Name: name,
		}

		info, err := uc.resolver.ResolveNetwork(ctx, name)
		if err != nil {
			status.Error = err
			networks = append(networks, status)
			continue
		}
		status.RPCURL = info.RPCURL
		status.Local = info.Local
		status.Forked = info.Forked
		status.Managed = info.Managed()
		status.ChainID = info.ChainID

		// managed nodes are not running yet, asking them would only time out
		if status.ChainID == 0 && !params.SkipChainID && !status.Managed {
			status.ChainID, status.Error = uc.resolver.ChainID(ctx, info)
		}

		networks = append(networks, status)
	}

	return &ListNetworksResult{
		Networks: networks,
		Active:   uc.active,
	}, nil
}
