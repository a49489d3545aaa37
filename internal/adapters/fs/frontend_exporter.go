package fs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/trebuchet-org/token-farm/internal/config"
	"github.com/trebuchet-org/token-farm/internal/domain/models"
	"github.com/trebuchet-org/token-farm/internal/usecase"
	"gopkg.in/yaml.v3"
)

// FrontEndExporter writes deployed addresses, ABIs and the project config where the web
// front end reads them: front_end/src/chain-info and front_end/src/brownie-config.json
type FrontEndExporter struct {
	root      string
	project   *config.ProjectConfig
	artifacts usecase.ArtifactRepository
	log       *slog.Logger
}

// NewFrontEndExporter creates a new front end exporter
func NewFrontEndExporter(cfg *config.RuntimeConfig, artifacts usecase.ArtifactRepository, log *slog.Logger) *FrontEndExporter {
	return &FrontEndExporter{
		root:      filepath.Join(cfg.ProjectRoot, "front_end", "src"),
		project:   cfg.Project,
		artifacts: artifacts,
		log:       log.With("component", "frontend"),
	}
}

// Export writes the deployment and returns the chain-info directory
func (e *FrontEndExporter) Export(ctx context.Context, result *usecase.DeployTokenFarmResult) (string, error) {
	dir := filepath.Join(e.root, "chain-info")

	contracts := []*models.Contract{result.DappToken, result.TokenFarm}
	for _, allowed := range result.AllowedTokens {
		contracts = append(contracts, allowed.Token, allowed.PriceFeed)
	}

	if err := e.updateMap(filepath.Join(dir, "map.json"), result.ChainID, result.DappToken, result.TokenFarm); err != nil {
		return "", err
	}

	written := make(map[string]bool)
	for _, contract := range contracts {
		if written[contract.ContractName] {
			continue
		}
		artifact, err := e.artifacts.GetArtifact(ctx, contract.ContractName)
		if err != nil {
			return "", err
		}
		if err := writeJSON(filepath.Join(dir, "contracts", artifact.Name+".json"), map[string]any{
			"contractName": artifact.Name,
			"abi":          artifact.RawABI,
		}); err != nil {
			return "", err
		}
		written[contract.ContractName] = true
	}

	if err := e.exportProjectConfig(); err != nil {
		return "", err
	}

	e.log.Debug("exported deployment to front end", "dir", dir, "contracts", len(written))
	return dir, nil
}

// updateMap merges the deployed addresses into the front end's map.json, newest first
func (e *FrontEndExporter) updateMap(path string, chainID uint64, deployed ...*models.Contract) error {
	m := make(map[string]map[string][]string)
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &m); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	chainKey := strconv.FormatUint(chainID, 10)
	if m[chainKey] == nil {
		m[chainKey] = make(map[string][]string)
	}
	for _, contract := range deployed {
		m[chainKey][contract.ContractName] = append([]string{contract.Address.Hex()}, m[chainKey][contract.ContractName]...)
	}
	return writeJSON(path, m)
}

// exportProjectConfig converts brownie-config.yaml to JSON for the front end
func (e *FrontEndExporter) exportProjectConfig() error {
	if e.project == nil || e.project.Path == "" {
		return nil
	}
	data, err := os.ReadFile(e.project.Path)
	if err != nil {
		return fmt.Errorf("failed to read project config: %w", err)
	}
	var content map[string]any
	if err := yaml.Unmarshal(data, &content); err != nil {
		return fmt.Errorf("failed to parse project config: %w", err)
	}
	return writeJSON(filepath.Join(e.root, "brownie-config.json"), content)
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
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

// Ensure the exporter implements the interface
var _ usecase.FrontEndExporter = (*FrontEndExporter)(nil)
