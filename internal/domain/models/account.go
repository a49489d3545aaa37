package models

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// AccountSource records where a signing key came from
type AccountSource string

const (
	AccountSourceDev      AccountSource = "dev"
	AccountSourceKeystore AccountSource = "keystore"
	AccountSourceConfig   AccountSource = "config"
)

// Account is a signing account. The key never leaves the process.
type Account struct {
	Address common.Address `json:"address"`
	Source  AccountSource  `json:"source"`
	// Alias is the keyring index ("0", "1", ...) or the keystore id
	Alias string `json:"alias,omitempty"`

	key *ecdsa.PrivateKey
}

// NewAccount creates an account from a private key
func NewAccount(key *ecdsa.PrivateKey, source AccountSource, alias string) *Account {
	return &Account{
		Address: crypto.PubkeyToAddress(key.PublicKey),
		Source:  source,
		Alias:   alias,
		key:     key,
	}
}

// PrivateKey returns the signing key
func (a *Account) PrivateKey() *ecdsa.PrivateKey {
	return a.key
}

func (a *Account) String() string {
	if a.Alias == "" {
		return fmt.Sprintf("%s (%s)", a.Address.Hex(), a.Source)
	}
	return fmt.Sprintf("%s (%s:%s)", a.Address.Hex(), a.Source, a.Alias)
}
