package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
	"github.com/trebuchet-org/token-farm/internal/config"
	"github.com/trebuchet-org/token-farm/internal/domain"
	"github.com/trebuchet-org/token-farm/internal/domain/models"
)

// ContractToMock maps the contract names used in configuration to their mock types
var ContractToMock = map[string]string{
	"eth_usd_price_feed": MockV3Aggregator,
	"dai_usd_price_feed": MockV3Aggregator,
	"fau_token":          MockDAI,
	"weth_token":         MockWETH,
}

// SupportedContracts returns the resolvable contract names, sorted
func SupportedContracts() []string {
	names := lo.Keys(ContractToMock)
	sort.Strings(names)
	return names
}

// ResolveContract returns a handle to a dependency contract of the farm. Local networks
// get the most recent mock, deploying the mocks first if none exist; other networks read
// the address from networks.<network>.<name>.
type ResolveContract struct {
	config      *config.RuntimeConfig
	deployer    *contractDeployer
	deployMocks *DeployMocks
	sink        ProgressSink
}

// NewResolveContract creates a new ResolveContract use case
func NewResolveContract(
	cfg *config.RuntimeConfig,
	client ContractClient,
	artifacts ArtifactRepository,
	registry DeploymentRegistry,
	deployMocks *DeployMocks,
	sink ProgressSink,
) *ResolveContract {
	return &ResolveContract{
		config: cfg,
		deployer: &contractDeployer{
			config:    cfg,
			client:    client,
			artifacts: artifacts,
			registry:  registry,
		},
		deployMocks: deployMocks,
		sink:        sink,
	}
}

// Run resolves a contract by its configuration name
func (uc *ResolveContract) Run(ctx context.Context, name string) (*models.Contract, error) {
	mockType, ok := ContractToMock[name]
	if !ok {
		return nil, domain.UnknownContractErr{Name: name, Suggestions: suggestContracts(name)}
	}

	network := uc.config.Network
	if network.Local {
		return uc.resolveMock(ctx, name, mockType)
	}

	addr, ok := uc.config.Project.ContractAddress(network.Name, name)
	if !ok {
		return nil, fmt.Errorf("%w: networks.%s.%s is not set", domain.ErrMissingConfig, network.Name, name)
	}
	if !common.IsHexAddress(addr) {
		return nil, fmt.Errorf("invalid address %q for networks.%s.%s", addr, network.Name, name)
	}

	artifact, err := uc.deployer.artifacts.GetArtifact(ctx, mockType)
	if err != nil {
		return nil, fmt.Errorf("failed to load artifact %s: %w", mockType, err)
	}
	return models.NewContract(name, artifact, common.HexToAddress(addr)), nil
}

func (uc *ResolveContract) resolveMock(ctx context.Context, name, mockType string) (*models.Contract, error) {
	contract, err := uc.deployer.latest(ctx, mockType)
	if err != nil {
		return nil, err
	}

	if contract == nil {
		if _, err := uc.deployMocks.Run(ctx, DefaultDeployMocksParams()); err != nil {
			return nil, fmt.Errorf("failed to deploy mocks: %w", err)
		}
		if contract, err = uc.deployer.latest(ctx, mockType); err != nil {
			return nil, err
		}
		if contract == nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotDeployed, mockType)
		}
	}

	contract.Name = name
	return contract, nil
}

// suggestContracts returns up to three supported names closest to name
func suggestContracts(name string) []string {
	matches := fuzzy.Find(name, SupportedContracts())
	suggestions := lo.Map(matches, func(m fuzzy.Match, _ int) string { return m.Str })
	if len(suggestions) > 3 {
		suggestions = suggestions[:3]
	}
	return suggestions
}
