package accounts

import (
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/trebuchet-org/token-farm/internal/config"
	"github.com/trebuchet-org/token-farm/internal/domain"
	"github.com/trebuchet-org/token-farm/internal/domain/models"
	"github.com/trebuchet-org/token-farm/internal/usecase"
)

// PasswordSource supplies keystore passwords
type PasswordSource interface {
	Password(ctx context.Context, account string, confirm bool) (string, error)
}

// Keystore stores encrypted keys as <dir>/<id>.json in the web3 secret storage format
type Keystore struct {
	dir       string
	passwords PasswordSource
	log       *slog.Logger

	scryptN int
	scryptP int
}

var _ usecase.AccountStore = (*Keystore)(nil)

// NewKeystore creates a keystore in the configured keystore directory
func NewKeystore(cfg *config.RuntimeConfig, passwords PasswordSource, log *slog.Logger) *Keystore {
	return &Keystore{
		dir:       cfg.KeystoreDir,
		passwords: passwords,
		log:       log.With("component", "keystore"),
		scryptN:   keystore.StandardScryptN,
		scryptP:   keystore.StandardScryptP,
	}
}

// Load decrypts the key stored under id
func (s *Keystore) Load(ctx context.Context, id string) (*models.Account, error) {
	path, err := s.path(id)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s (looked in %s)", domain.ErrAccountNotFound, id, s.dir)
		}
		return nil, fmt.Errorf("failed to read keystore file: %w", err)
	}

	password, err := s.passwords.Password(ctx, id, false)
	if err != nil {
		return nil, err
	}
	key, err := keystore.DecryptKey(data, password)
	if err != nil {
		return nil, fmt.Errorf("failed to unlock account %s: %w", id, err)
	}

	s.log.Debug("unlocked keystore account", "id", id, "address", key.Address.Hex())
	return models.NewAccount(key.PrivateKey, models.AccountSourceKeystore, id), nil
}

// Import encrypts key and stores it under id. Existing ids are not overwritten.
func (s *Keystore) Import(ctx context.Context, id string, key *ecdsa.PrivateKey) (*models.Account, error) {
	path, err := s.path(id)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("account %s already exists at %s", id, path)
	}

	password, err := s.passwords.Password(ctx, id, true)
	if err != nil {
		return nil, err
	}

	keyID, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("failed to generate key id: %w", err)
	}
	data, err := keystore.EncryptKey(&keystore.Key{
		Id:         keyID,
		Address:    crypto.PubkeyToAddress(key.PublicKey),
		PrivateKey: key,
	}, password, s.scryptN, s.scryptP)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt key: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create keystore directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return nil, fmt.Errorf("failed to write keystore file: %w", err)
	}

	s.log.Debug("imported keystore account", "id", id, "path", path)
	return models.NewAccount(key, models.AccountSourceKeystore, id), nil
}

// List returns the stored accounts without decrypting them, sorted by id
func (s *Keystore) List(ctx context.Context) ([]usecase.AccountEntry, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read keystore directory: %w", err)
	}

	var out []usecase.AccountEntry
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())
		address, err := readAddress(path)
		if err != nil {
			s.log.Warn("skipping unreadable keystore file", "path", path, "error", err)
			continue
		}
		out = append(out, usecase.AccountEntry{
			ID:      strings.TrimSuffix(entry.Name(), ".json"),
			Address: address,
			Path:    path,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Keystore) path(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", fmt.Errorf("invalid account id %q", id)
	}
	return filepath.Join(s.dir, id+".json"), nil
}

// readAddress reads the plaintext address field of a keystore file
func readAddress(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	var header struct {
		Address string `json:"address"`
	}
	if err := json.Unmarshal(data, &header); err != nil {
		return "", err
	}
	if !common.IsHexAddress(header.Address) {
		return "", fmt.Errorf("invalid address %q", header.Address)
	}
	return common.HexToAddress(header.Address).Hex(), nil
}
