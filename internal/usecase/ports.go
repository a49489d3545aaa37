package usecase

import (
	"context"
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/token-farm/internal/domain"
	"github.com/trebuchet-org/token-farm/internal/domain/models"
)

// NetworkResolver resolves network names to network configurations
type NetworkResolver interface {
	GetNetworks(ctx context.Context) []string
	ResolveNetwork(ctx context.Context, name string) (*domain.Network, error)
	// ChainID returns the chain id, asking the node when the configuration does not pin it
	ChainID(ctx context.Context, network *domain.Network) (uint64, error)
}

// Keyring exposes the local development accounts and raw private keys
type Keyring interface {
	// DevAccount returns the development account at index
	DevAccount(index int) (*models.Account, error)
	DevAccounts() []*models.Account
	// FromKey builds an account from a hex-encoded private key
	FromKey(hexKey string) (*models.Account, error)
}

// AccountStore persists named, password-protected accounts
type AccountStore interface {
	Load(ctx context.Context, id string) (*models.Account, error)
	Import(ctx context.Context, id string, key *ecdsa.PrivateKey) (*models.Account, error)
	List(ctx context.Context) ([]AccountEntry, error)
}

// AccountEntry is a stored account as listed without unlocking it
type AccountEntry struct {
	ID      string
	Address string
	Path    string
}

// ArtifactRepository provides compiled contract artifacts by contract name
type ArtifactRepository interface {
	GetArtifact(ctx context.Context, name string) (*models.Artifact, error)
	ListArtifacts(ctx context.Context) []*models.Artifact
}

// ContractClient deploys and calls contracts on the active network
type ContractClient interface {
	ChainID(ctx context.Context) (uint64, error)
	Deploy(ctx context.Context, from *models.Account, artifact *models.Artifact, args ...any) (*models.Contract, *types.Receipt, error)
	// Call executes a read-only method and returns its unpacked outputs
	Call(ctx context.Context, contract *models.Contract, method string, args ...any) ([]any, error)
	// Transact sends a state-changing method call and waits for it to be mined
	Transact(ctx context.Context, from *models.Account, contract *models.Contract, method string, args ...any) (*types.Receipt, error)
}

// DeploymentRegistry records deployments per chain and contract type
type DeploymentRegistry interface {
	// List returns the deployments of a contract type on a chain, oldest first
	List(ctx context.Context, chainID uint64, contractName string) ([]*models.Deployment, error)
	Record(ctx context.Context, deployment *models.Deployment) error
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    string
	Current  int
	Total    int
	Message  string
	Spinner  bool
	Metadata interface{}
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}

// FrontEndExporter publishes a deployed farm to the web front end
type FrontEndExporter interface {
	// Export writes the deployment and returns the directory it was written to
	Export(ctx context.Context, result *DeployTokenFarmResult) (string, error)
}
