package chain

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/trebuchet-org/token-farm/internal/adapters/anvil"
	"github.com/trebuchet-org/token-farm/internal/config"
	"github.com/trebuchet-org/token-farm/internal/usecase"
)

// devBalance is the ether balance of every development account on the in-process chain
var devBalance = new(big.Int).Mul(big.NewInt(10_000), big.NewInt(1e18))

// Backend is a connection to a chain: an ethclient or the in-process development chain
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	ChainID(ctx context.Context) (*big.Int, error)
	Close()
}

var _ Backend = (*ethclient.Client)(nil)

// Connector opens the backend of the active network on first use
type Connector struct {
	config  *config.RuntimeConfig
	keyring usecase.Keyring
	nodes   *anvil.Manager
	log     *slog.Logger

	mu      sync.Mutex
	backend Backend
}

// NewConnector creates a new connector for the active network
func NewConnector(cfg *config.RuntimeConfig, keyring usecase.Keyring, nodes *anvil.Manager, log *slog.Logger) *Connector {
	return &Connector{
		config:  cfg,
		keyring: keyring,
		nodes:   nodes,
		log:     log.With("component", "chain"),
	}
}

// Backend returns the connection to the active network, connecting on the first call
func (c *Connector) Backend(ctx context.Context) (Backend, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.backend != nil {
		return c.backend, nil
	}

	network := c.config.Network
	var (
		backend Backend
		err     error
	)
	switch {
	case network.InProcess():
		backend = newSimulatedChain(c.keyring.DevAccounts(), devBalance, c.log)
		c.log.Debug("started in-process development chain", "accounts", len(c.keyring.DevAccounts()))
	default:
		if network.Managed() {
			if err := c.nodes.Start(ctx, network); err != nil {
				return nil, fmt.Errorf("failed to start node for %s: %w", network.Name, err)
			}
		}
		c.log.Debug("dialing rpc", "network", network.Name, "rpc", network.RPCURL)
		backend, err = ethclient.DialContext(ctx, network.RPCURL)
		if err != nil {
			err = fmt.Errorf("failed to connect to %s: %w", network.Name, err)
		}
	}
	if err != nil {
		return nil, err
	}

	c.backend = backend
	return backend, nil
}

// Close closes the connection and stops any node the connector started
func (c *Connector) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.backend != nil {
		c.backend.Close()
		c.backend = nil
	}
	return c.nodes.StopAll(ctx)
}
