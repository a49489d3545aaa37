package config

import (
	"context"

	"github.com/trebuchet-org/token-farm/internal/config"
	"github.com/trebuchet-org/token-farm/internal/domain"
	"github.com/trebuchet-org/token-farm/internal/usecase"
)

// NetworkResolverAdapter adapts the config.NetworkResolver to the usecase.NetworkResolver interface
type NetworkResolverAdapter struct {
	resolver *config.NetworkResolver
}

// NewNetworkResolverAdapter creates a new adapter over the project's network catalogue
func NewNetworkResolverAdapter(cfg *config.RuntimeConfig) *NetworkResolverAdapter {
	return &NetworkResolverAdapter{
		resolver: config.NewNetworkResolver(cfg.ProjectRoot, cfg.Project, cfg.FoundryConfig),
	}
}

// GetNetworks returns all known network names
func (a *NetworkResolverAdapter) GetNetworks(ctx context.Context) []string {
	return a.resolver.GetNetworks()
}

// ResolveNetwork resolves a network name to its configuration
func (a *NetworkResolverAdapter) ResolveNetwork(ctx context.Context, networkName string) (*domain.Network, error) {
	return a.resolver.Resolve(networkName)
}

// ChainID returns the chain id of a network, asking its RPC when the id is not configured
func (a *NetworkResolverAdapter) ChainID(ctx context.Context, network *domain.Network) (uint64, error) {
	return a.resolver.ChainID(ctx, network)
}

// Ensure the adapter implements the interface
var _ usecase.NetworkResolver = (*NetworkResolverAdapter)(nil)
