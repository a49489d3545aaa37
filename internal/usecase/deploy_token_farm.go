package usecase

import (
	"context"
	"fmt"
	"math/big"

	"github.com/trebuchet-org/token-farm/internal/config"
	"github.com/trebuchet-org/token-farm/internal/domain/models"
)

// Farm contract types
const (
	DappToken = "DappToken"
	TokenFarm = "TokenFarm"
)

// DappTokenName is the configuration name of the reward token
const DappTokenName = "dapp_token"

// KeptBalance is the DappToken amount the deployer keeps, 100 with 18 decimals.
// Everything else is moved to the farm to pay rewards.
var KeptBalance = new(big.Int).Mul(big.NewInt(100), big.NewInt(1e18))

// AllowedToken pairs a stakeable token with the price feed used to value it
type AllowedToken struct {
	Name      string
	FeedName  string
	Token     *models.Contract
	PriceFeed *models.Contract
}

// allowedTokenFeeds lists the stakeable tokens and their price feeds, in registration order
var allowedTokenFeeds = []struct{ token, feed string }{
	{DappTokenName, "dai_usd_price_feed"},
	{"fau_token", "dai_usd_price_feed"},
	{"weth_token", "eth_usd_price_feed"},
}

// DeployTokenFarmParams contains parameters for deploying the farm
type DeployTokenFarmParams struct {
	Account ResolveAccountParams
	// UpdateFrontEnd exports addresses, ABIs and the project config for the web front end
	UpdateFrontEnd bool
}

// DeployTokenFarmResult contains the deployed farm
type DeployTokenFarmResult struct {
	Network       string
	ChainID       uint64
	Deployer      *models.Account
	DappToken     *models.Contract
	TokenFarm     *models.Contract
	FarmBalance   *big.Int
	AllowedTokens []AllowedToken
	FrontEndPath  string
}

// DeployTokenFarm deploys DappToken and TokenFarm, funds the farm and registers the allowed tokens
type DeployTokenFarm struct {
	config          *config.RuntimeConfig
	resolveAccount  *ResolveAccount
	resolveContract *ResolveContract
	deployer        *contractDeployer
	exporter        FrontEndExporter
	sink            ProgressSink
}

// NewDeployTokenFarm creates a new DeployTokenFarm use case
func NewDeployTokenFarm(
	cfg *config.RuntimeConfig,
	resolveAccount *ResolveAccount,
	resolveContract *ResolveContract,
	client ContractClient,
	artifacts ArtifactRepository,
	registry DeploymentRegistry,
	exporter FrontEndExporter,
	sink ProgressSink,
) *DeployTokenFarm {
	return &DeployTokenFarm{
		config:          cfg,
		resolveAccount:  resolveAccount,
		resolveContract: resolveContract,
		deployer: &contractDeployer{
			config:    cfg,
			client:    client,
			artifacts: artifacts,
			registry:  registry,
		},
		exporter: exporter,
		sink:     sink,
	}
}

// Run executes the deployment
func (uc *DeployTokenFarm) Run(ctx context.Context, params DeployTokenFarmParams) (*DeployTokenFarmResult, error) {
	client := uc.deployer.client

	account, err := uc.resolveAccount.Run(ctx, params.Account)
	if err != nil {
		return nil, err
	}

	uc.progress(ctx, "Deploying DappToken...")
	dappToken, err := uc.deployer.deploy(ctx, account, DappToken)
	if err != nil {
		return nil, uc.fail(ctx, err)
	}

	uc.progress(ctx, "Deploying TokenFarm...")
	tokenFarm, err := uc.deployer.deploy(ctx, account, TokenFarm, dappToken.Address)
	if err != nil {
		return nil, uc.fail(ctx, err)
	}

	totalSupply, err := callBig(ctx, client, dappToken, "totalSupply")
	if err != nil {
		return nil, uc.fail(ctx, err)
	}
	farmBalance := new(big.Int).Sub(totalSupply, KeptBalance)
	if farmBalance.Sign() < 0 {
		farmBalance.SetInt64(0)
	}

	uc.progress(ctx, "Funding TokenFarm...")
	if _, err := client.Transact(ctx, account, dappToken, "transfer", tokenFarm.Address, farmBalance); err != nil {
		return nil, uc.fail(ctx, fmt.Errorf("failed to fund the farm: %w", err))
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return nil, uc.fail(ctx, err)
	}

	result := &DeployTokenFarmResult{
		Network:     uc.config.Network.Name,
		ChainID:     chainID,
		Deployer:    account,
		DappToken:   dappToken,
		TokenFarm:   tokenFarm,
		FarmBalance: farmBalance,
	}

	for _, entry := range allowedTokenFeeds {
		allowed, err := uc.allowToken(ctx, account, tokenFarm, dappToken, entry.token, entry.feed)
		if err != nil {
			return nil, uc.fail(ctx, err)
		}
		result.AllowedTokens = append(result.AllowedTokens, *allowed)
	}
	uc.sink.OnProgress(ctx, ProgressEvent{Stage: "completed"})

	if params.UpdateFrontEnd {
		path, err := uc.exporter.Export(ctx, result)
		if err != nil {
			return nil, fmt.Errorf("failed to update front end: %w", err)
		}
		result.FrontEndPath = path
	}

	return result, nil
}

func (uc *DeployTokenFarm) allowToken(ctx context.Context, account *models.Account, farm, dappToken *models.Contract, tokenName, feedName string) (*AllowedToken, error) {
	token := dappToken
	if tokenName != DappTokenName {
		var err error
		if token, err = uc.resolveContract.Run(ctx, tokenName); err != nil {
			return nil, err
		}
	}
	feed, err := uc.resolveContract.Run(ctx, feedName)
	if err != nil {
		return nil, err
	}

	uc.progress(ctx, fmt.Sprintf("Allowing %s...", tokenName))
	client := uc.deployer.client
	if _, err := client.Transact(ctx, account, farm, "addAllowedTokens", token.Address); err != nil {
		return nil, fmt.Errorf("failed to allow %s: %w", tokenName, err)
	}
	if _, err := client.Transact(ctx, account, farm, "setPriceFeedContract", token.Address, feed.Address); err != nil {
		return nil, fmt.Errorf("failed to set the %s price feed: %w", tokenName, err)
	}

	return &AllowedToken{Name: tokenName, FeedName: feedName, Token: token, PriceFeed: feed}, nil
}

func (uc *DeployTokenFarm) progress(ctx context.Context, message string) {
	uc.sink.OnProgress(ctx, ProgressEvent{Stage: "deploying", Message: message, Spinner: true})
}

func (uc *DeployTokenFarm) fail(ctx context.Context, err error) error {
	uc.sink.OnProgress(ctx, ProgressEvent{Stage: "failed"})
	return err
}
