package app

import (
	"context"
	"log/slog"

	"github.com/trebuchet-org/token-farm/internal/adapters/chain"
	"github.com/trebuchet-org/token-farm/internal/config"
	"github.com/trebuchet-org/token-farm/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig
	Log    *slog.Logger

	// Use cases
	ResolveAccount  *usecase.ResolveAccount
	ResolveContract *usecase.ResolveContract
	DeployMocks     *usecase.DeployMocks
	DeployTokenFarm *usecase.DeployTokenFarm
	StakeTokens     *usecase.StakeTokens
	UnstakeTokens   *usecase.UnstakeTokens
	IssueTokens     *usecase.IssueTokens
	FarmStatus      *usecase.FarmStatus
	ListNetworks    *usecase.ListNetworks
	ListAccounts    *usecase.ListAccounts
	ImportAccount   *usecase.ImportAccount
	ShowConfig      *usecase.ShowConfig

	connector *chain.Connector
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	log *slog.Logger,
	connector *chain.Connector,
	resolveAccount *usecase.ResolveAccount,
	resolveContract *usecase.ResolveContract,
	deployMocks *usecase.DeployMocks,
	deployTokenFarm *usecase.DeployTokenFarm,
	stakeTokens *usecase.StakeTokens,
	unstakeTokens *usecase.UnstakeTokens,
	issueTokens *usecase.IssueTokens,
	farmStatus *usecase.FarmStatus,
	listNetworks *usecase.ListNetworks,
	listAccounts *usecase.ListAccounts,
	importAccount *usecase.ImportAccount,
	showConfig *usecase.ShowConfig,
) (*App, error) {
	return &App{
		Config:          cfg,
		Log:             log,
		ResolveAccount:  resolveAccount,
		ResolveContract: resolveContract,
		DeployMocks:     deployMocks,
		DeployTokenFarm: deployTokenFarm,
		StakeTokens:     stakeTokens,
		UnstakeTokens:   unstakeTokens,
		IssueTokens:     issueTokens,
		FarmStatus:      farmStatus,
		ListNetworks:    listNetworks,
		ListAccounts:    listAccounts,
		ImportAccount:   importAccount,
		ShowConfig:      showConfig,
		connector:       connector,
	}, nil
}

// Close releases the chain connection and stops local nodes the app started
func (a *App) Close(ctx context.Context) error {
	return a.connector.Close(ctx)
}
