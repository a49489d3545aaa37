package usecase

import (
	"context"
	"fmt"

	"github.com/trebuchet-org/token-farm/internal/config"
	"github.com/trebuchet-org/token-farm/internal/domain"
	"github.com/trebuchet-org/token-farm/internal/domain/models"
)

// ResolveAccountParams selects a signer. The zero value asks for the network default.
type ResolveAccountParams struct {
	// Index selects a development account. nil means unset. An explicit 0
	// selects dev account 0 on every network, including live ones where it
	// takes precedence over wallets.from_key; older brownie helper scripts
	// treated 0 as unset and fell through to the configured key instead.
	Index *int
	// ID names an account in the keystore
	ID string
}

// ResolveAccount picks the signing account for the active network
type ResolveAccount struct {
	config  *config.RuntimeConfig
	keyring Keyring
	store   AccountStore
}

// NewResolveAccount creates a new ResolveAccount use case
func NewResolveAccount(cfg *config.RuntimeConfig, keyring Keyring, store AccountStore) *ResolveAccount {
	return &ResolveAccount{
		config:  cfg,
		keyring: keyring,
		store:   store,
	}
}

// Run resolves an account: explicit index, then keystore id, then the local
// development account, then wallets.from_key.
func (uc *ResolveAccount) Run(ctx context.Context, params ResolveAccountParams) (*models.Account, error) {
	if params.Index != nil {
		account, err := uc.keyring.DevAccount(*params.Index)
		if err != nil {
			return nil, fmt.Errorf("failed to get development account %d: %w", *params.Index, err)
		}
		return account, nil
	}

	if params.ID != "" {
		account, err := uc.store.Load(ctx, params.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load account %s: %w", params.ID, err)
		}
		return account, nil
	}

	network := uc.networkName()
	if domain.IsLocalNetwork(network) || domain.IsForkedNetwork(network) {
		return uc.keyring.DevAccount(0)
	}

	var fromKey string
	if uc.config.Project != nil {
		fromKey = uc.config.Project.Wallets.FromKey
	}
	if fromKey == "" {
		return nil, fmt.Errorf("%w: wallets.from_key is required on network %s", domain.ErrMissingConfig, network)
	}

	account, err := uc.keyring.FromKey(fromKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load wallets.from_key: %w", err)
	}
	return account, nil
}

// DefaultParams returns the account hints set by flags or environment
func (uc *ResolveAccount) DefaultParams() ResolveAccountParams {
	return ResolveAccountParams{
		Index: uc.config.AccountIndex,
		ID:    uc.config.AccountID,
	}
}

func (uc *ResolveAccount) networkName() string {
	if uc.config.Network == nil {
		return domain.DevelopmentNetwork
	}
	return uc.config.Network.Name
}
