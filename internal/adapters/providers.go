package adapters

import (
	"log/slog"

	"github.com/google/wire"
	"github.com/trebuchet-org/token-farm/internal/adapters/accounts"
	"github.com/trebuchet-org/token-farm/internal/adapters/anvil"
	"github.com/trebuchet-org/token-farm/internal/adapters/chain"
	internalconfig "github.com/trebuchet-org/token-farm/internal/adapters/config"
	"github.com/trebuchet-org/token-farm/internal/adapters/fs"
	"github.com/trebuchet-org/token-farm/internal/adapters/interactive"
	"github.com/trebuchet-org/token-farm/internal/adapters/progress"
	"github.com/trebuchet-org/token-farm/internal/adapters/repository/contracts"
	"github.com/trebuchet-org/token-farm/internal/adapters/repository/deployments"
	"github.com/trebuchet-org/token-farm/internal/config"
	"github.com/trebuchet-org/token-farm/internal/usecase"
)

// ProvideArtifactRepository provides the artifact repository of the project
func ProvideArtifactRepository(cfg *config.RuntimeConfig, log *slog.Logger) *contracts.Repository {
	return contracts.NewRepository(cfg.ProjectRoot, log)
}

// AccountsSet provides the keyring and the keystore
var AccountsSet = wire.NewSet(
	accounts.NewKeyring,
	wire.Bind(new(usecase.Keyring), new(*accounts.Keyring)),

	interactive.NewPasswordPrompt,
	wire.Bind(new(accounts.PasswordSource), new(*interactive.PasswordPrompt)),

	accounts.NewKeystore,
	wire.Bind(new(usecase.AccountStore), new(*accounts.Keystore)),
)

// RepositorySet provides artifact and deployment storage
var RepositorySet = wire.NewSet(
	ProvideArtifactRepository,
	wire.Bind(new(usecase.ArtifactRepository), new(*contracts.Repository)),

	deployments.NewRegistry,
)

// ChainSet provides the chain connection and the contract client
var ChainSet = wire.NewSet(
	anvil.NewManager,
	chain.NewConnector,
	chain.NewClient,
	wire.Bind(new(usecase.ContractClient), new(*chain.Client)),
)

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	fs.NewFrontEndExporter,
	wire.Bind(new(usecase.FrontEndExporter), new(*fs.FrontEndExporter)),
)

// ConfigSet provides configuration-based implementations
var ConfigSet = wire.NewSet(
	internalconfig.NewNetworkResolverAdapter,
	wire.Bind(new(usecase.NetworkResolver), new(*internalconfig.NetworkResolverAdapter)),
)

// ProgressSet provides the progress sink
var ProgressSet = wire.NewSet(
	progress.NewSink,
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	AccountsSet,
	RepositorySet,
	ChainSet,
	FSSet,
	ConfigSet,
	ProgressSet,
)
