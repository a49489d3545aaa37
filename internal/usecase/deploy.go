package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/trebuchet-org/token-farm/internal/config"
	"github.com/trebuchet-org/token-farm/internal/domain/models"
)

// contractDeployer deploys artifacts and records them in the registry
type contractDeployer struct {
	config    *config.RuntimeConfig
	client    ContractClient
	artifacts ArtifactRepository
	registry  DeploymentRegistry
}

func (d *contractDeployer) deploy(ctx context.Context, from *models.Account, contractName string, args ...any) (*models.Contract, error) {
	artifact, err := d.artifacts.GetArtifact(ctx, contractName)
	if err != nil {
		return nil, fmt.Errorf("failed to load artifact %s: %w", contractName, err)
	}

	contract, receipt, err := d.client.Deploy(ctx, from, artifact, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to deploy %s: %w", contractName, err)
	}

	chainID, err := d.client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}

	deployment := &models.Deployment{
		ChainID:      chainID,
		Network:      d.config.Network.Name,
		ContractName: artifact.Name,
		Address:      contract.Address,
		Deployer:     from.Address,
		CreatedAt:    time.Now(),
	}
	if receipt != nil {
		deployment.TxHash = receipt.TxHash
	}
	if err := d.registry.Record(ctx, deployment); err != nil {
		return nil, fmt.Errorf("failed to record %s deployment: %w", contractName, err)
	}

	return contract, nil
}

// latest returns a handle to the most recent deployment of a contract type on the active chain
func (d *contractDeployer) latest(ctx context.Context, contractName string) (*models.Contract, error) {
	chainID, err := d.client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}

	deployments, err := d.registry.List(ctx, chainID, contractName)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s deployments: %w", contractName, err)
	}
	if len(deployments) == 0 {
		return nil, nil
	}

	artifact, err := d.artifacts.GetArtifact(ctx, contractName)
	if err != nil {
		return nil, fmt.Errorf("failed to load artifact %s: %w", contractName, err)
	}
	return models.NewContract("", artifact, deployments[len(deployments)-1].Address), nil
}
