package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// loadEnvFiles loads .env files from the project root. Variables already set in the
// environment win over file values.
func loadEnvFiles(projectRoot string, extra ...string) {
	envFiles := []string{
		filepath.Join(projectRoot, ".env"),
		filepath.Join(projectRoot, ".env.local"),
	}
	for _, f := range extra {
		if f == "" {
			continue
		}
		if !filepath.IsAbs(f) {
			f = filepath.Join(projectRoot, f)
		}
		envFiles = append(envFiles, f)
	}

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			// Log warning but don't fail
			slog.Warn("failed to load env file", "path", envFile, "error", err)
		}
	}
}

// loadFoundryConfig reads [rpc_endpoints] from foundry.toml when the project has one
func loadFoundryConfig(projectRoot string) (*FoundryConfig, error) {
	cfg := &FoundryConfig{RpcEndpoints: make(map[string]string)}

	foundryPath := filepath.Join(projectRoot, "foundry.toml")
	var raw FoundryConfig
	if _, err := toml.DecodeFile(foundryPath, &raw); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to parse foundry.toml: %w", err)
	}

	for name, url := range raw.RpcEndpoints {
		cfg.RpcEndpoints[name] = os.ExpandEnv(url)
	}

	return cfg, nil
}
