package usecase

import (
	"context"

	"github.com/trebuchet-org/token-farm/internal/config"
	"github.com/trebuchet-org/token-farm/internal/domain"
)

// ShowConfigResult contains the result of showing configuration
type ShowConfigResult struct {
	ProjectRoot string
	ConfigPath  string
	Exists      bool
	KeystoreDir string
	Network     *domain.Network
	Project     *config.ProjectConfig
}

// ShowConfig is a use case for showing configuration
type ShowConfig struct {
	config *config.RuntimeConfig
}

// NewShowConfig creates a new ShowConfig use case
func NewShowConfig(cfg *config.RuntimeConfig) *ShowConfig {
	return &ShowConfig{
		config: cfg,
	}
}

// Run executes the show config use case
func (uc *ShowConfig) Run(ctx context.Context) (*ShowConfigResult, error) {
	project := uc.config.Project
	if project == nil {
		project = &config.ProjectConfig{}
	}

	return &ShowConfigResult{
		ProjectRoot: uc.config.ProjectRoot,
		ConfigPath:  project.Path,
		Exists:      project.Path != "",
		KeystoreDir: uc.config.KeystoreDir,
		Network:     uc.config.Network,
		Project:     project,
	}, nil
}
