package domain

import "github.com/samber/lo"

// DevelopmentNetwork is the in-process chain used when no network is selected.
const DevelopmentNetwork = "development"

var (
	// LocalBlockchainEnvironments are networks whose contracts are mocked on first use
	LocalBlockchainEnvironments = []string{"development", "ganache-local", "ganache", "mainnet-fork"}

	// ForkedLocalEnvironments are local networks forked from a live chain
	ForkedLocalEnvironments = []string{"mainnet-fork"}
)

// IsLocalNetwork reports whether name is a local blockchain environment.
func IsLocalNetwork(name string) bool {
	return lo.Contains(LocalBlockchainEnvironments, name)
}

// IsForkedNetwork reports whether name is a forked local environment.
func IsForkedNetwork(name string) bool {
	return lo.Contains(ForkedLocalEnvironments, name)
}

// Network represents a resolved network
type Network struct {
	Name    string `json:"name" yaml:"name"`
	ChainID uint64 `json:"chainId,omitempty" yaml:"chain_id,omitempty"`
	RPCURL  string `json:"rpcUrl,omitempty" yaml:"rpc_url,omitempty"`
	Local   bool   `json:"local" yaml:"local"`
	Forked  bool   `json:"forked" yaml:"forked"`

	// Local node settings, empty unless the network is started by farm
	Cmd     string `json:"cmd,omitempty" yaml:"cmd,omitempty"`
	Port    int    `json:"port,omitempty" yaml:"port,omitempty"`
	ForkURL string `json:"forkUrl,omitempty" yaml:"fork,omitempty"`
}

// InProcess reports whether the network runs inside the current process.
func (n *Network) InProcess() bool {
	return n.Name == DevelopmentNetwork && n.RPCURL == ""
}

// Managed reports whether farm starts the node process itself.
func (n *Network) Managed() bool {
	return n.Cmd != ""
}
