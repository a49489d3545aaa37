package deployments

import (
	"context"
	"sync"

	"github.com/trebuchet-org/token-farm/internal/domain/models"
)

// MemoryStore keeps deployments for the lifetime of the process, like a throwaway dev chain
type MemoryStore struct {
	mu      sync.RWMutex
	byChain map[uint64]map[string][]*models.Deployment
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byChain: make(map[uint64]map[string][]*models.Deployment)}
}

// List returns the deployments of a contract on a chain, oldest first
func (s *MemoryStore) List(ctx context.Context, chainID uint64, contractName string) ([]*models.Deployment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	deployments := s.byChain[chainID][contractName]
	out := make([]*models.Deployment, len(deployments))
	copy(out, deployments)
	return out, nil
}

// Record appends a deployment
func (s *MemoryStore) Record(ctx context.Context, deployment *models.Deployment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	contracts, ok := s.byChain[deployment.ChainID]
	if !ok {
		contracts = make(map[string][]*models.Deployment)
		s.byChain[deployment.ChainID] = contracts
	}
	contracts[deployment.ContractName] = append(contracts[deployment.ContractName], deployment)
	return nil
}
