package config

import (
	"time"

	"github.com/trebuchet-org/token-farm/internal/domain"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	BuildDir    string
	KeystoreDir string

	// Active network, always resolved (development when nothing is selected)
	Network *domain.Network

	// Execution settings
	Debug          bool
	NonInteractive bool
	Timeout        time.Duration

	// Default signer hints applied when a command does not pass its own
	AccountIndex *int
	AccountID    string

	// Resolved configurations
	Project       *ProjectConfig
	FoundryConfig *FoundryConfig
}

// ProjectConfig is the parsed brownie-config.yaml
type ProjectConfig struct {
	// Path of the config file, empty when the project has none
	Path           string                     `yaml:"-"`
	Dotenv         string                     `yaml:"dotenv,omitempty"`
	DefaultNetwork string                     `yaml:"default_network,omitempty"`
	Networks       map[string]NetworkSettings `yaml:"networks,omitempty"`
	Wallets        WalletsConfig              `yaml:"wallets,omitempty"`
}

// NetworkSettings holds the per-network section of the project config
type NetworkSettings struct {
	Host    string `yaml:"host,omitempty"`
	Cmd     string `yaml:"cmd,omitempty"`
	Port    int    `yaml:"port,omitempty"`
	Fork    string `yaml:"fork,omitempty"`
	ChainID uint64 `yaml:"chain_id,omitempty"`
	Verify  bool   `yaml:"verify,omitempty"`

	// Contracts maps contract names (eth_usd_price_feed, ...) to addresses
	Contracts map[string]string `yaml:"contracts,omitempty"`
}

// WalletsConfig holds the wallets section of the project config
type WalletsConfig struct {
	FromKey string `yaml:"from_key,omitempty"`
	// FromKeyEnv is the variable name when from_key is a ${VAR} reference
	FromKeyEnv string `yaml:"-"`
}

// ContractAddress returns the configured address of a contract on a network
func (p *ProjectConfig) ContractAddress(network, name string) (string, bool) {
	if p == nil {
		return "", false
	}
	settings, ok := p.Networks[network]
	if !ok {
		return "", false
	}
	addr, ok := settings.Contracts[name]
	return addr, ok && addr != ""
}

// FoundryConfig holds the parts of foundry.toml farm reads
type FoundryConfig struct {
	RpcEndpoints map[string]string `toml:"rpc_endpoints"`
}
