package usecase_test

import (
	"context"
	"crypto/ecdsa"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/token-farm/internal/adapters/accounts"
	"github.com/trebuchet-org/token-farm/internal/config"
	"github.com/trebuchet-org/token-farm/internal/domain"
	"github.com/trebuchet-org/token-farm/internal/domain/models"
	"github.com/trebuchet-org/token-farm/internal/usecase"
)

type mockKeyring struct {
	mock.Mock
}

func (m *mockKeyring) DevAccount(index int) (*models.Account, error) {
	args := m.Called(index)
	account, _ := args.Get(0).(*models.Account)
	return account, args.Error(1)
}

func (m *mockKeyring) DevAccounts() []*models.Account {
	args := m.Called()
	list, _ := args.Get(0).([]*models.Account)
	return list
}

func (m *mockKeyring) FromKey(hexKey string) (*models.Account, error) {
	args := m.Called(hexKey)
	account, _ := args.Get(0).(*models.Account)
	return account, args.Error(1)
}

type mockAccountStore struct {
	mock.Mock
}

func (m *mockAccountStore) Load(ctx context.Context, id string) (*models.Account, error) {
	args := m.Called(ctx, id)
	account, _ := args.Get(0).(*models.Account)
	return account, args.Error(1)
}

func (m *mockAccountStore) Import(ctx context.Context, id string, key *ecdsa.PrivateKey) (*models.Account, error) {
	args := m.Called(ctx, id, key)
	account, _ := args.Get(0).(*models.Account)
	return account, args.Error(1)
}

func (m *mockAccountStore) List(ctx context.Context) ([]usecase.AccountEntry, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]usecase.AccountEntry)
	return list, args.Error(1)
}

func newAccount(t *testing.T, source models.AccountSource, alias string) *models.Account {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return models.NewAccount(key, source, alias)
}

func resolveConfig(network string, fromKey string) *config.RuntimeConfig {
	return &config.RuntimeConfig{
		Network: &domain.Network{Name: network, Local: domain.IsLocalNetwork(network), Forked: domain.IsForkedNetwork(network)},
		Project: &config.ProjectConfig{Wallets: config.WalletsConfig{FromKey: fromKey}},
	}
}

func TestResolveAccount_LocalNetworksUseFirstDevAccount(t *testing.T) {
	keyring := accounts.NewKeyring()
	for _, network := range domain.LocalBlockchainEnvironments {
		t.Run(network, func(t *testing.T) {
			uc := usecase.NewResolveAccount(resolveConfig(network, ""), keyring, &mockAccountStore{})

			account, err := uc.Run(context.Background(), usecase.ResolveAccountParams{})
			require.NoError(t, err)
			assert.Equal(t, common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"), account.Address)
			assert.Equal(t, models.AccountSourceDev, account.Source)
		})
	}
}

func TestResolveAccount_Precedence(t *testing.T) {
	ctx := context.Background()

	t.Run("index wins over id", func(t *testing.T) {
		keyring := &mockKeyring{}
		store := &mockAccountStore{}
		dev := newAccount(t, models.AccountSourceDev, "2")
		keyring.On("DevAccount", 2).Return(dev, nil)

		uc := usecase.NewResolveAccount(resolveConfig("kovan", "0xabc"), keyring, store)
		account, err := uc.Run(ctx, usecase.ResolveAccountParams{Index: intPtr(2), ID: "deployer"})
		require.NoError(t, err)
		assert.Same(t, dev, account)
		store.AssertNotCalled(t, "Load", mock.Anything, mock.Anything)
		keyring.AssertExpectations(t)
	})

	t.Run("explicit index zero is honoured on live networks", func(t *testing.T) {
		keyring := &mockKeyring{}
		dev := newAccount(t, models.AccountSourceDev, "0")
		keyring.On("DevAccount", 0).Return(dev, nil)

		uc := usecase.NewResolveAccount(resolveConfig("kovan", "0xabc"), keyring, &mockAccountStore{})
		account, err := uc.Run(ctx, usecase.ResolveAccountParams{Index: intPtr(0)})
		require.NoError(t, err)
		assert.Same(t, dev, account)
		keyring.AssertNotCalled(t, "FromKey", mock.Anything)
	})

	t.Run("id loads from the keystore", func(t *testing.T) {
		keyring := &mockKeyring{}
		store := &mockAccountStore{}
		stored := newAccount(t, models.AccountSourceKeystore, "deployer")
		store.On("Load", mock.Anything, "deployer").Return(stored, nil)

		uc := usecase.NewResolveAccount(resolveConfig(domain.DevelopmentNetwork, ""), keyring, store)
		account, err := uc.Run(ctx, usecase.ResolveAccountParams{ID: "deployer"})
		require.NoError(t, err)
		assert.Same(t, stored, account)
		keyring.AssertNotCalled(t, "DevAccount", mock.Anything)
	})

	t.Run("live network uses wallets.from_key", func(t *testing.T) {
		keyring := &mockKeyring{}
		fromKey := newAccount(t, models.AccountSourceConfig, "")
		keyring.On("FromKey", "0xabc").Return(fromKey, nil)

		uc := usecase.NewResolveAccount(resolveConfig("kovan", "0xabc"), keyring, &mockAccountStore{})
		account, err := uc.Run(ctx, usecase.ResolveAccountParams{})
		require.NoError(t, err)
		assert.Same(t, fromKey, account)
		keyring.AssertNotCalled(t, "DevAccount", mock.Anything)
	})
}

func TestResolveAccount_Errors(t *testing.T) {
	ctx := context.Background()
	keyring := accounts.NewKeyring()

	t.Run("index out of range", func(t *testing.T) {
		uc := usecase.NewResolveAccount(resolveConfig(domain.DevelopmentNetwork, ""), keyring, &mockAccountStore{})
		_, err := uc.Run(ctx, usecase.ResolveAccountParams{Index: intPtr(10)})
		assert.ErrorIs(t, err, domain.ErrAccountIndex)
	})

	t.Run("unknown keystore id", func(t *testing.T) {
		store := &mockAccountStore{}
		store.On("Load", mock.Anything, "ghost").Return(nil, domain.ErrAccountNotFound)

		uc := usecase.NewResolveAccount(resolveConfig(domain.DevelopmentNetwork, ""), keyring, store)
		_, err := uc.Run(ctx, usecase.ResolveAccountParams{ID: "ghost"})
		assert.ErrorIs(t, err, domain.ErrAccountNotFound)
		assert.ErrorContains(t, err, "ghost")
	})

	t.Run("missing from_key", func(t *testing.T) {
		uc := usecase.NewResolveAccount(resolveConfig("kovan", ""), keyring, &mockAccountStore{})
		_, err := uc.Run(ctx, usecase.ResolveAccountParams{})
		assert.ErrorIs(t, err, domain.ErrMissingConfig)
		assert.ErrorContains(t, err, "kovan")
	})

	t.Run("invalid from_key", func(t *testing.T) {
		uc := usecase.NewResolveAccount(resolveConfig("kovan", "0xnothex"), keyring, &mockAccountStore{})
		_, err := uc.Run(ctx, usecase.ResolveAccountParams{})
		assert.ErrorContains(t, err, "invalid private key")
	})
}

func TestResolveAccount_DefaultParams(t *testing.T) {
	cfg := resolveConfig(domain.DevelopmentNetwork, "")
	cfg.AccountIndex = intPtr(3)
	cfg.AccountID = "deployer"

	params := usecase.NewResolveAccount(cfg, accounts.NewKeyring(), &mockAccountStore{}).DefaultParams()
	require.NotNil(t, params.Index)
	assert.Equal(t, 3, *params.Index)
	assert.Equal(t, "deployer", params.ID)
}

func TestListAccounts(t *testing.T) {
	store := &mockAccountStore{}
	store.On("List", mock.Anything).Return([]usecase.AccountEntry{{ID: "deployer", Address: "0x70997970c51812dc3a010c7d01b50e0d17dc79c8"}}, nil)
	keyring := accounts.NewKeyring()
	resolve := usecase.NewResolveAccount(resolveConfig(domain.DevelopmentNetwork, ""), keyring, store)

	result, err := usecase.NewListAccounts(keyring, store, resolve).Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, result.Dev, 10)
	assert.Len(t, result.Stored, 1)
	require.NotNil(t, result.Default)
	assert.Equal(t, result.Dev[0].Address, result.Default.Address)
}

func TestImportAccount(t *testing.T) {
	const devKey1 = "0x59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d"
	ctx := context.Background()
	keyring := accounts.NewKeyring()

	t.Run("stores the key under the id", func(t *testing.T) {
		store := &mockAccountStore{}
		imported := newAccount(t, models.AccountSourceKeystore, "deployer")
		store.On("Import", mock.Anything, "deployer", mock.MatchedBy(func(key *ecdsa.PrivateKey) bool {
			return crypto.PubkeyToAddress(key.PublicKey) == common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
		})).Return(imported, nil)

		account, err := usecase.NewImportAccount(keyring, store).Run(ctx, usecase.ImportAccountParams{ID: " deployer ", PrivateKey: devKey1})
		require.NoError(t, err)
		assert.Same(t, imported, account)
		store.AssertExpectations(t)
	})

	t.Run("rejects bad input", func(t *testing.T) {
		uc := usecase.NewImportAccount(keyring, &mockAccountStore{})

		_, err := uc.Run(ctx, usecase.ImportAccountParams{ID: "", PrivateKey: devKey1})
		assert.ErrorContains(t, err, "account id is required")

		_, err = uc.Run(ctx, usecase.ImportAccountParams{ID: "a/b", PrivateKey: devKey1})
		assert.ErrorContains(t, err, "invalid account id")

		_, err = uc.Run(ctx, usecase.ImportAccountParams{ID: "deployer", PrivateKey: "zz"})
		assert.ErrorContains(t, err, "invalid private key")
	})
}
