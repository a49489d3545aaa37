package usecase

import (
	"context"
	"fmt"
	"math/big"

	"github.com/trebuchet-org/token-farm/internal/config"
	"github.com/trebuchet-org/token-farm/internal/domain/models"
)

const (
	// Decimals of the mock price feed
	Decimals uint8 = 18
)

// InitialValue is the mock price feed answer, 2000 with 18 decimals
var InitialValue = new(big.Int).Mul(big.NewInt(2000), big.NewInt(1e18))

// Mock contract types
const (
	MockV3Aggregator = "MockV3Aggregator"
	MockDAI          = "MockDAI"
	MockWETH         = "MockWETH"
)

// DeployMocksParams configures the mock price feed
type DeployMocksParams struct {
	Decimals     uint8
	InitialValue *big.Int
}

// DefaultDeployMocksParams returns the parameters used when mocks are deployed on demand
func DefaultDeployMocksParams() DeployMocksParams {
	return DeployMocksParams{
		Decimals:     Decimals,
		InitialValue: new(big.Int).Set(InitialValue),
	}
}

// DeployMocksResult contains the deployed mocks in deployment order
type DeployMocksResult struct {
	Network   string
	Deployer  *models.Account
	Contracts []*models.Contract
}

// DeployMocks deploys the price feed and token mocks used on local networks
type DeployMocks struct {
	config         *config.RuntimeConfig
	resolveAccount *ResolveAccount
	deployer       *contractDeployer
	sink           ProgressSink
}

// NewDeployMocks creates a new DeployMocks use case
func NewDeployMocks(
	cfg *config.RuntimeConfig,
	resolveAccount *ResolveAccount,
	client ContractClient,
	artifacts ArtifactRepository,
	registry DeploymentRegistry,
	sink ProgressSink,
) *DeployMocks {
	return &DeployMocks{
		config:         cfg,
		resolveAccount: resolveAccount,
		deployer: &contractDeployer{
			config:    cfg,
			client:    client,
			artifacts: artifacts,
			registry:  registry,
		},
		sink: sink,
	}
}

// Run deploys MockV3Aggregator, MockDAI and MockWETH, in that order. Every call
// deploys a fresh set.
func (uc *DeployMocks) Run(ctx context.Context, params DeployMocksParams) (*DeployMocksResult, error) {
	if params.InitialValue == nil {
		params.InitialValue = new(big.Int).Set(InitialValue)
	}

	uc.sink.Info(fmt.Sprintf("The active network is %s", uc.config.Network.Name))
	uc.sink.Info("Deploying Mocks...")

	account, err := uc.resolveAccount.Run(ctx, ResolveAccountParams{})
	if err != nil {
		return nil, err
	}

	mocks := []struct {
		name  string
		label string
		args  []any
	}{
		{MockV3Aggregator, "Mock Price Feed", []any{params.Decimals, params.InitialValue}},
		{MockDAI, "Mock DAI", nil},
		{MockWETH, "Mock WETH", nil},
	}

	result := &DeployMocksResult{
		Network:  uc.config.Network.Name,
		Deployer: account,
	}
	for i, mock := range mocks {
		uc.sink.OnProgress(ctx, ProgressEvent{
			Stage:   "deploying",
			Current: i + 1,
			Total:   len(mocks),
			Message: fmt.Sprintf("Deploying %s...", mock.label),
			Spinner: true,
		})

		contract, err := uc.deployer.deploy(ctx, account, mock.name, mock.args...)
		if err != nil {
			uc.sink.OnProgress(ctx, ProgressEvent{Stage: "failed"})
			return nil, err
		}
		uc.sink.OnProgress(ctx, ProgressEvent{Stage: "deployed"})
		uc.sink.Info(fmt.Sprintf("Deployed %s to %s", mock.name, contract.Address.Hex()))
		result.Contracts = append(result.Contracts, contract)
	}

	uc.sink.Info("Mocks Deployed!")
	return result, nil
}
