package deployments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/token-farm/internal/domain/models"
)

// deploymentMap is the map.json layout: chain id -> contract name -> addresses, newest first
type deploymentMap map[string]map[string][]string

// FileStore persists deployments under <build>/deployments. map.json indexes addresses and
// <chainId>/<address>.json holds each deployment record.
type FileStore struct {
	dir string
	log *slog.Logger
	mu  sync.Mutex
}

// NewFileStore creates a store rooted at dir
func NewFileStore(dir string, log *slog.Logger) *FileStore {
	return &FileStore{dir: dir, log: log.With("component", "deployments")}
}

// List returns the deployments of a contract on a chain, oldest first
func (s *FileStore) List(ctx context.Context, chainID uint64, contractName string) ([]*models.Deployment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load()
	if err != nil {
		return nil, err
	}
	addresses := m[strconv.FormatUint(chainID, 10)][contractName]

	out := make([]*models.Deployment, 0, len(addresses))
	for i := len(addresses) - 1; i >= 0; i-- {
		addr := addresses[i]
		if !common.IsHexAddress(addr) {
			s.log.Warn("skipping invalid address in deployment map", "contract", contractName, "address", addr)
			continue
		}
		out = append(out, s.readRecord(chainID, contractName, common.HexToAddress(addr)))
	}
	return out, nil
}

// Record adds a deployment as the newest entry of its contract
func (s *FileStore) Record(ctx context.Context, deployment *models.Deployment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.load()
	if err != nil {
		return err
	}
	chainKey := strconv.FormatUint(deployment.ChainID, 10)
	if m[chainKey] == nil {
		m[chainKey] = make(map[string][]string)
	}
	address := deployment.Address.Hex()
	m[chainKey][deployment.ContractName] = append([]string{address}, m[chainKey][deployment.ContractName]...)

	if err := s.writeJSON(s.recordPath(deployment.ChainID, deployment.Address), deployment); err != nil {
		return err
	}
	if err := s.writeJSON(s.mapPath(), m); err != nil {
		return err
	}
	s.log.Debug("recorded deployment", "contract", deployment.ContractName, "chainId", deployment.ChainID, "address", address)
	return nil
}

func (s *FileStore) mapPath() string {
	return filepath.Join(s.dir, "map.json")
}

func (s *FileStore) recordPath(chainID uint64, address common.Address) string {
	return filepath.Join(s.dir, strconv.FormatUint(chainID, 10), address.Hex()+".json")
}

func (s *FileStore) load() (deploymentMap, error) {
	data, err := os.ReadFile(s.mapPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return make(deploymentMap), nil
		}
		return nil, fmt.Errorf("failed to read deployment map: %w", err)
	}
	m := make(deploymentMap)
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse deployment map %s: %w", s.mapPath(), err)
	}
	return m, nil
}

// readRecord returns the stored record of a deployment, or a bare one when the map
// references an address without a record
func (s *FileStore) readRecord(chainID uint64, contractName string, address common.Address) *models.Deployment {
	bare := &models.Deployment{ChainID: chainID, ContractName: contractName, Address: address}

	data, err := os.ReadFile(s.recordPath(chainID, address))
	if err != nil {
		return bare
	}
	var record models.Deployment
	if err := json.Unmarshal(data, &record); err != nil {
		s.log.Warn("ignoring unreadable deployment record", "address", address.Hex(), "error", err)
		return bare
	}
	return &record
}

func (s *FileStore) writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create deployments directory: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
