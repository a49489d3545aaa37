package accounts

import (
	"crypto/ecdsa"
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/trebuchet-org/token-farm/internal/domain"
	"github.com/trebuchet-org/token-farm/internal/domain/models"
	"github.com/trebuchet-org/token-farm/internal/usecase"
)

// devKeys are the deterministic test keys of the "test test ... junk" mnemonic used by
// anvil and hardhat
var devKeys = []string{
	"ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80",
	"59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d",
	"5de4111afa1a4b94908f83103eb1f1706367c2e68ca870fc3fb9a804cdab365a",
	"7c852118294e51e653712a81e05800f419141751be58f605c371e15141b007a6",
	"47e179ec197488593b187f80a00eb0da91f1b9d0b13f8733639f19c30a34926a",
	"8b3a350cf5c34c9194ca85829a2df0ec3153be0318b5e2d3348e872092edffba",
	"92db14e403b83dfe3df233f83dfa3a0d7096f21ca9b0d6d6b8d88b2b4ec1564e",
	"4bbbf85ce3377467afe5d46f804f221813b2bb87f24d81f60f1fcdbf7cbf4356",
	"dbda1821b80551c9d65939329250298aa3472ba22feea921c0cf5d620ea67b97",
	"2a871d0798f97d79848a013d4936a73bf4cc922c825d33c1cf7073dff6d409c6",
}

// Keyring holds the development accounts
type Keyring struct {
	dev []*models.Account
}

var _ usecase.Keyring = (*Keyring)(nil)

// NewKeyring creates the keyring of development accounts
func NewKeyring() *Keyring {
	dev := make([]*models.Account, len(devKeys))
	for i, hexKey := range devKeys {
		key, err := crypto.HexToECDSA(hexKey)
		if err != nil {
			panic(fmt.Sprintf("invalid development key %d: %v", i, err))
		}
		dev[i] = models.NewAccount(key, models.AccountSourceDev, strconv.Itoa(i))
	}
	return &Keyring{dev: dev}
}

// DevAccount returns the development account at index
func (k *Keyring) DevAccount(index int) (*models.Account, error) {
	if index < 0 || index >= len(k.dev) {
		return nil, fmt.Errorf("%w: %d (have %d development accounts)", domain.ErrAccountIndex, index, len(k.dev))
	}
	return k.dev[index], nil
}

// DevAccounts returns all development accounts in index order
func (k *Keyring) DevAccounts() []*models.Account {
	out := make([]*models.Account, len(k.dev))
	copy(out, k.dev)
	return out
}

// FromKey loads an account from a hex private key, with or without 0x prefix
func (k *Keyring) FromKey(hexKey string) (*models.Account, error) {
	key, err := parsePrivateKey(hexKey)
	if err != nil {
		return nil, err
	}
	return models.NewAccount(key, models.AccountSourceConfig, ""), nil
}

// parsePrivateKey parses a hex private key
func parsePrivateKey(privateKeyHex string) (*ecdsa.PrivateKey, error) {
	privateKeyHex = strings.TrimSpace(privateKeyHex)
	if privateKeyHex == "" {
		return nil, fmt.Errorf("%w: empty private key", domain.ErrMissingConfig)
	}
	privateKeyHex = strings.TrimPrefix(strings.TrimPrefix(privateKeyHex, "0x"), "0X")
	key, err := crypto.HexToECDSA(privateKeyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return key, nil
}
