package usecase_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/token-farm/internal/adapters/accounts"
	"github.com/trebuchet-org/token-farm/internal/adapters/anvil"
	"github.com/trebuchet-org/token-farm/internal/adapters/chain"
	"github.com/trebuchet-org/token-farm/internal/adapters/repository/contracts"
	"github.com/trebuchet-org/token-farm/internal/adapters/repository/deployments"
	"github.com/trebuchet-org/token-farm/internal/config"
	"github.com/trebuchet-org/token-farm/internal/domain"
	"github.com/trebuchet-org/token-farm/internal/domain/models"
	"github.com/trebuchet-org/token-farm/internal/usecase"
)

// staticPassword unlocks every stored account with the same password
type staticPassword string

func (p staticPassword) Password(context.Context, string, bool) (string, error) {
	return string(p), nil
}

// recordingSink keeps every message it receives
type recordingSink struct {
	mu     sync.Mutex
	events []usecase.ProgressEvent
	infos  []string
	errors []string
}

func (s *recordingSink) OnProgress(_ context.Context, event usecase.ProgressEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *recordingSink) Info(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.infos = append(s.infos, message)
}

func (s *recordingSink) Error(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = append(s.errors, message)
}

// stack wires the use cases against the in-process development chain, the way
// the app container does
type stack struct {
	cfg       *config.RuntimeConfig
	keyring   *accounts.Keyring
	artifacts *contracts.Repository
	client    *chain.Client
	registry  usecase.DeploymentRegistry
	sink      *recordingSink

	resolveAccount  *usecase.ResolveAccount
	deployMocks     *usecase.DeployMocks
	resolveContract *usecase.ResolveContract
	deployTokenFarm *usecase.DeployTokenFarm
	stake           *usecase.StakeTokens
	unstake         *usecase.UnstakeTokens
	issue           *usecase.IssueTokens
	status          *usecase.FarmStatus
}

func developmentNetwork() *domain.Network {
	return &domain.Network{Name: domain.DevelopmentNetwork, ChainID: config.DevelopmentChainID, Local: true}
}

func newStack(t *testing.T, network *domain.Network, project *config.ProjectConfig) *stack {
	t.Helper()
	if project == nil {
		project = &config.ProjectConfig{}
	}
	root := t.TempDir()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.RuntimeConfig{
		ProjectRoot:    root,
		BuildDir:       filepath.Join(root, "build"),
		KeystoreDir:    filepath.Join(root, "keystore"),
		Network:        network,
		NonInteractive: true,
		Project:        project,
		FoundryConfig:  &config.FoundryConfig{},
	}

	s := &stack{
		cfg:       cfg,
		keyring:   accounts.NewKeyring(),
		artifacts: contracts.NewRepository(root, log),
		registry:  deployments.NewRegistry(cfg, log),
		sink:      &recordingSink{},
	}
	connector := chain.NewConnector(cfg, s.keyring, anvil.NewManager(log), log)
	t.Cleanup(func() { _ = connector.Close(context.Background()) })
	s.client = chain.NewClient(connector, log)

	store := accounts.NewKeystore(cfg, staticPassword("test"), log)
	s.resolveAccount = usecase.NewResolveAccount(cfg, s.keyring, store)
	s.deployMocks = usecase.NewDeployMocks(cfg, s.resolveAccount, s.client, s.artifacts, s.registry, s.sink)
	s.resolveContract = usecase.NewResolveContract(cfg, s.client, s.artifacts, s.registry, s.deployMocks, s.sink)
	s.deployTokenFarm = usecase.NewDeployTokenFarm(cfg, s.resolveAccount, s.resolveContract, s.client, s.artifacts, s.registry, nopExporter{}, s.sink)
	s.stake = usecase.NewStakeTokens(cfg, s.resolveAccount, s.resolveContract, s.client, s.artifacts, s.registry, s.sink)
	s.unstake = usecase.NewUnstakeTokens(cfg, s.resolveAccount, s.resolveContract, s.client, s.artifacts, s.registry, s.sink)
	s.issue = usecase.NewIssueTokens(cfg, s.resolveAccount, s.resolveContract, s.client, s.artifacts, s.registry, s.sink)
	s.status = usecase.NewFarmStatus(cfg, s.resolveAccount, s.resolveContract, s.client, s.artifacts, s.registry)
	return s
}

// nopExporter accepts every export without writing anything
type nopExporter struct{}

func (nopExporter) Export(context.Context, *usecase.DeployTokenFarmResult) (string, error) {
	return "", nil
}

func (s *stack) account(t *testing.T, index int) *models.Account {
	t.Helper()
	account, err := s.keyring.DevAccount(index)
	require.NoError(t, err)
	return account
}

// callBig calls a method returning a single integer
func (s *stack) callBig(t *testing.T, contract *models.Contract, method string, args ...any) *big.Int {
	t.Helper()
	out, err := s.client.Call(context.Background(), contract, method, args...)
	require.NoError(t, err)
	require.Len(t, out, 1)
	value, ok := out[0].(*big.Int)
	require.True(t, ok, "%s returned %T", method, out[0])
	return value
}

// latest returns the newest recorded deployment of a contract type
func (s *stack) latest(t *testing.T, contractName string) *models.Deployment {
	t.Helper()
	list, err := s.registry.List(context.Background(), config.DevelopmentChainID, contractName)
	require.NoError(t, err)
	require.NotEmpty(t, list, "no %s deployments", contractName)
	return list[len(list)-1]
}

func ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e18))
}

func intPtr(i int) *int {
	return &i
}

func assertAmount(t *testing.T, want, got *big.Int, msgAndArgs ...any) {
	t.Helper()
	require.NotNil(t, got)
	require.Zero(t, want.Cmp(got), fmt.Sprintf("want %s, got %s %v", want, got, msgAndArgs))
}
