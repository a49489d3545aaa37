package deployments

import (
	"log/slog"
	"path/filepath"

	"github.com/trebuchet-org/token-farm/internal/config"
	"github.com/trebuchet-org/token-farm/internal/usecase"
)

var (
	_ usecase.DeploymentRegistry = (*MemoryStore)(nil)
	_ usecase.DeploymentRegistry = (*FileStore)(nil)
)

// NewRegistry returns the deployment registry for the active network. Chains that live only
// as long as the command (the in-process chain and nodes farm starts) are tracked in memory,
// every other network in build/deployments keyed by chain id.
func NewRegistry(cfg *config.RuntimeConfig, log *slog.Logger) usecase.DeploymentRegistry {
	if cfg.Network.InProcess() || cfg.Network.Managed() {
		return NewMemoryStore()
	}
	return NewFileStore(filepath.Join(cfg.BuildDir, "deployments"), log)
}
