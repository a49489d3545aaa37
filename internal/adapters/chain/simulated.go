package chain

import (
	"context"
	"log/slog"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
	"github.com/trebuchet-org/token-farm/internal/domain/models"
)

// simulatedGasLimit is the block gas limit of the in-process development chain
const simulatedGasLimit = 30_000_000

// simulatedChain is the in-process development chain. It runs go-ethereum's simulated
// backend and mines every accepted transaction in its own block.
type simulatedChain struct {
	simulated.Client

	backend *simulated.Backend
	log     *slog.Logger
	mu      sync.Mutex
}

var _ Backend = (*simulatedChain)(nil)

// newSimulatedChain starts a chain whose genesis funds accounts with balance
func newSimulatedChain(accounts []*models.Account, balance *big.Int, log *slog.Logger) *simulatedChain {
	alloc := make(types.GenesisAlloc, len(accounts))
	for _, account := range accounts {
		alloc[account.Address] = types.Account{Balance: new(big.Int).Set(balance)}
	}

	backend := simulated.NewBackend(alloc, simulated.WithBlockGasLimit(simulatedGasLimit))
	return &simulatedChain{
		Client:  backend.Client(),
		backend: backend,
		log:     log,
	}
}

// SendTransaction submits tx and mines it before returning
func (s *simulatedChain) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.Client.SendTransaction(ctx, tx); err != nil {
		return err
	}
	s.backend.Commit()
	return nil
}

// Close stops the chain
func (s *simulatedChain) Close() {
	if err := s.backend.Close(); err != nil {
		s.log.Warn("failed to stop development chain", "error", err)
	}
}
