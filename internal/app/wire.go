//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/token-farm/internal/adapters"
	"github.com/trebuchet-org/token-farm/internal/config"
	"github.com/trebuchet-org/token-farm/internal/logging"
	"github.com/trebuchet-org/token-farm/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewResolveAccount,
		usecase.NewDeployMocks,
		usecase.NewResolveContract,
		usecase.NewDeployTokenFarm,
		usecase.NewStakeTokens,
		usecase.NewUnstakeTokens,
		usecase.NewIssueTokens,
		usecase.NewFarmStatus,
		usecase.NewListNetworks,
		usecase.NewListAccounts,
		usecase.NewImportAccount,
		usecase.NewShowConfig,

		// App
		NewApp,
	)
	return nil, nil
}
