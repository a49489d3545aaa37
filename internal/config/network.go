package config

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/samber/lo"
	"github.com/trebuchet-org/token-farm/internal/domain"
)

// DevelopmentChainID is the chain id of the in-process development chain
const DevelopmentChainID uint64 = 1337

// builtinNetworks are the local environments every project knows about
var builtinNetworks = map[string]NetworkSettings{
	"development":   {ChainID: DevelopmentChainID},
	"ganache-local": {Host: "http://127.0.0.1:8545"},
	"ganache":       {Cmd: "anvil", Port: 8545, ChainID: DevelopmentChainID},
	"mainnet-fork":  {Cmd: "anvil", Port: 8545, Fork: "${MAINNET_RPC_URL}"},
}

// NetworkResolver resolves network names to configurations with caching
type NetworkResolver struct {
	projectRoot   string
	project       *ProjectConfig
	foundryConfig *FoundryConfig
	cache         *NetworkCache
	dial          func(ctx context.Context, rpcURL string) (chainIDFetcher, error)
	mu            sync.RWMutex
}

// NetworkCache caches chain ID lookups of live networks
type NetworkCache struct {
	Networks  map[string]uint64 `json:"networks"` // name -> chainID
	RPCs      map[string]uint64 `json:"rpcs"`     // rpcURL -> chainID
	UpdatedAt time.Time         `json:"updatedAt"`
}

type chainIDFetcher interface {
	ChainID(ctx context.Context) (*big.Int, error)
	Close()
}

// NewNetworkResolver creates a new network resolver
func NewNetworkResolver(projectRoot string, project *ProjectConfig, foundryConfig *FoundryConfig) *NetworkResolver {
	if project == nil {
		project = &ProjectConfig{}
	}
	if foundryConfig == nil {
		foundryConfig = &FoundryConfig{}
	}
	r := &NetworkResolver{
		projectRoot:   projectRoot,
		project:       project,
		foundryConfig: foundryConfig,
		dial: func(ctx context.Context, rpcURL string) (chainIDFetcher, error) {
			return ethclient.DialContext(ctx, rpcURL)
		},
	}

	// Load cache
	r.loadCache()

	return r
}

// GetNetworks returns every known network name, sorted
func (r *NetworkResolver) GetNetworks() []string {
	names := lo.Keys(builtinNetworks)
	names = append(names, lo.Keys(r.project.Networks)...)
	names = append(names, lo.Keys(r.foundryConfig.RpcEndpoints)...)
	names = lo.Uniq(names)
	sort.Strings(names)
	return names
}

// Resolve resolves a network name to its configuration
func (r *NetworkResolver) Resolve(networkName string) (*domain.Network, error) {
	if networkName == "" {
		networkName = domain.DevelopmentNetwork
	}

	builtin, isBuiltin := builtinNetworks[networkName]
	configured, isConfigured := r.project.Networks[networkName]
	foundryURL, inFoundry := r.foundryConfig.RpcEndpoints[networkName]
	if !isBuiltin && !isConfigured && !inFoundry {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownNetwork, networkName)
	}

	settings := mergeNetworkSettings(builtin, configured)

	network := &domain.Network{
		Name:    networkName,
		ChainID: settings.ChainID,
		Local:   domain.IsLocalNetwork(networkName),
		Forked:  domain.IsForkedNetwork(networkName),
		Cmd:     settings.Cmd,
		Port:    settings.Port,
		ForkURL: os.ExpandEnv(settings.Fork),
	}

	switch {
	case settings.Host != "":
		network.RPCURL = settings.Host
	case network.Managed():
		network.RPCURL = fmt.Sprintf("http://127.0.0.1:%d", settings.Port)
	case inFoundry:
		network.RPCURL = foundryURL
	case networkName != domain.DevelopmentNetwork:
		network.RPCURL = os.Getenv(GenerateEnvVarName(networkName))
	}

	if network.ChainID == 0 && !network.Local {
		r.mu.RLock()
		network.ChainID = r.cache.Networks[networkName]
		r.mu.RUnlock()
	}

	return network, nil
}

// ChainID returns the chain id of a network, asking its RPC endpoint when it is not known
func (r *NetworkResolver) ChainID(ctx context.Context, network *domain.Network) (uint64, error) {
	if network.ChainID != 0 {
		return network.ChainID, nil
	}
	if network.RPCURL == "" {
		return 0, fmt.Errorf("%w: no RPC URL for network %s (set networks.%s.host or %s)",
			domain.ErrMissingConfig, network.Name, network.Name, GenerateEnvVarName(network.Name))
	}

	chainID, err := r.fetchChainID(ctx, network.RPCURL)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch chain ID for network %s: %w", network.Name, err)
	}

	// local nodes get restarted with other chain ids, only remember live networks
	if !network.Local {
		r.updateCache(network.Name, network.RPCURL, chainID)
	}
	return chainID, nil
}

// fetchChainID fetches the chain ID from an RPC endpoint
func (r *NetworkResolver) fetchChainID(ctx context.Context, rpcURL string) (uint64, error) {
	// Check RPC cache first
	r.mu.RLock()
	if chainID, exists := r.cache.RPCs[rpcURL]; exists {
		r.mu.RUnlock()
		return chainID, nil
	}
	r.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := r.dial(ctx, rpcURL)
	if err != nil {
		return 0, fmt.Errorf("failed to connect to RPC: %w", err)
	}
	defer client.Close()

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get chain ID: %w", err)
	}
	return chainID.Uint64(), nil
}

// mergeNetworkSettings overlays the non-empty project settings on a built-in entry
func mergeNetworkSettings(base, overlay NetworkSettings) NetworkSettings {
	merged := base
	if overlay.Host != "" {
		merged.Host = overlay.Host
		// an explicit host means the node is already running
		merged.Cmd = ""
	}
	if overlay.Cmd != "" {
		merged.Cmd = overlay.Cmd
	}
	if overlay.Port != 0 {
		merged.Port = overlay.Port
	}
	if overlay.Fork != "" {
		merged.Fork = overlay.Fork
	}
	if overlay.ChainID != 0 {
		merged.ChainID = overlay.ChainID
	}
	merged.Verify = overlay.Verify
	merged.Contracts = overlay.Contracts
	return merged
}

func (r *NetworkResolver) cachePath() string {
	return filepath.Join(r.projectRoot, "build", "cache", "chainIds.json")
}

// loadCache loads the chain ID cache from disk
func (r *NetworkResolver) loadCache() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cache = newNetworkCache()

	data, err := os.ReadFile(r.cachePath())
	if err != nil {
		// Cache doesn't exist yet, that's fine
		return
	}

	if err := json.Unmarshal(data, r.cache); err != nil {
		// Invalid cache, start fresh
		r.cache = newNetworkCache()
	}
	if r.cache.Networks == nil || r.cache.RPCs == nil {
		r.cache = newNetworkCache()
	}
}

// updateCache updates the cache with new chain ID information
func (r *NetworkResolver) updateCache(networkName, rpcURL string, chainID uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cache.Networks[networkName] = chainID
	r.cache.RPCs[rpcURL] = chainID
	r.cache.UpdatedAt = time.Now()

	// Save to disk (ignore errors, cache is just for performance)
	_ = r.saveCache()
}

// saveCache saves the cache to disk
func (r *NetworkResolver) saveCache() error {
	if err := os.MkdirAll(filepath.Dir(r.cachePath()), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(r.cache, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(r.cachePath(), data, 0644)
}

func newNetworkCache() *NetworkCache {
	return &NetworkCache{
		Networks:  make(map[string]uint64),
		RPCs:      make(map[string]uint64),
		UpdatedAt: time.Now(),
	}
}
