package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/trebuchet-org/token-farm/internal/domain/models"
)

// ListAccountsResult contains the development and stored accounts
type ListAccountsResult struct {
	Dev    []*models.Account
	Stored []AccountEntry
	// Default is the account commands use without hints, nil when it cannot be resolved
	Default    *models.Account
	DefaultErr error
}

// ListAccounts is a use case for listing available accounts
type ListAccounts struct {
	keyring        Keyring
	store          AccountStore
	resolveAccount *ResolveAccount
}

// NewListAccounts creates a new ListAccounts use case
func NewListAccounts(keyring Keyring, store AccountStore, resolveAccount *ResolveAccount) *ListAccounts {
	return &ListAccounts{
		keyring:        keyring,
		store:          store,
		resolveAccount: resolveAccount,
	}
}

// Run executes the use case
func (uc *ListAccounts) Run(ctx context.Context) (*ListAccountsResult, error) {
	stored, err := uc.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list stored accounts: %w", err)
	}

	result := &ListAccountsResult{
		Dev:    uc.keyring.DevAccounts(),
		Stored: stored,
	}
	// keystore accounts are not unlocked just to list them
	params := uc.resolveAccount.DefaultParams()
	if params.ID == "" {
		result.Default, result.DefaultErr = uc.resolveAccount.Run(ctx, params)
	}
	return result, nil
}

// ImportAccountParams contains parameters for importing a key
type ImportAccountParams struct {
	ID         string
	PrivateKey string
}

// ImportAccount stores a private key in the keystore under an id
type ImportAccount struct {
	keyring Keyring
	store   AccountStore
}

// NewImportAccount creates a new ImportAccount use case
func NewImportAccount(keyring Keyring, store AccountStore) *ImportAccount {
	return &ImportAccount{
		keyring: keyring,
		store:   store,
	}
}

// Run executes the import
func (uc *ImportAccount) Run(ctx context.Context, params ImportAccountParams) (*models.Account, error) {
	id := strings.TrimSpace(params.ID)
	if id == "" {
		return nil, fmt.Errorf("account id is required")
	}
	if strings.ContainsAny(id, `/\`) {
		return nil, fmt.Errorf("invalid account id %q", id)
	}

	key, err := uc.keyring.FromKey(params.PrivateKey)
	if err != nil {
		return nil, err
	}

	account, err := uc.store.Import(ctx, id, key.PrivateKey())
	if err != nil {
		return nil, fmt.Errorf("failed to import account %s: %w", id, err)
	}
	return account, nil
}
