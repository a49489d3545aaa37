package fs

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/token-farm/internal/adapters/repository/contracts"
	"github.com/trebuchet-org/token-farm/internal/config"
	"github.com/trebuchet-org/token-farm/internal/domain/models"
	"github.com/trebuchet-org/token-farm/internal/usecase"
)

func TestFrontEndExporter_Export(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	configPath := filepath.Join(root, "brownie-config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("networks:\n  kovan:\n    weth_token: '0x01'\n"), 0644))

	repo := contracts.NewRepository(root, log)
	artifact := func(name string) *models.Artifact {
		a, err := repo.GetArtifact(ctx, name)
		require.NoError(t, err)
		return a
	}
	contract := func(name, contractName string, addr string) *models.Contract {
		return models.NewContract(name, artifact(contractName), common.HexToAddress(addr))
	}

	cfg := &config.RuntimeConfig{ProjectRoot: root, Project: &config.ProjectConfig{Path: configPath}}
	exporter := NewFrontEndExporter(cfg, repo, log)

	dapp := contract("", "DappToken", "0x0000000000000000000000000000000000000001")
	farm := contract("", "TokenFarm", "0x0000000000000000000000000000000000000002")
	result := &usecase.DeployTokenFarmResult{
		ChainID:   42,
		DappToken: dapp,
		TokenFarm: farm,
		AllowedTokens: []usecase.AllowedToken{
			{Name: "dapp_token", Token: dapp, PriceFeed: contract("dai_usd_price_feed", "MockV3Aggregator", "0x03")},
			{Name: "weth_token", Token: contract("weth_token", "MockWETH", "0x04"), PriceFeed: contract("eth_usd_price_feed", "MockV3Aggregator", "0x05")},
		},
	}

	dir, err := exporter.Export(ctx, result)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "front_end", "src", "chain-info"), dir)

	for _, name := range []string{"DappToken", "TokenFarm", "MockV3Aggregator", "MockWETH"} {
		data, err := os.ReadFile(filepath.Join(dir, "contracts", name+".json"))
		require.NoError(t, err, name)
		var exported struct {
			ContractName string            `json:"contractName"`
			ABI          []json.RawMessage `json:"abi"`
		}
		require.NoError(t, json.Unmarshal(data, &exported))
		assert.Equal(t, name, exported.ContractName)
		assert.NotEmpty(t, exported.ABI)
	}

	// a second deployment is prepended
	result.TokenFarm = contract("", "TokenFarm", "0x0000000000000000000000000000000000000009")
	_, err = exporter.Export(ctx, result)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "map.json"))
	require.NoError(t, err)
	var m map[string]map[string][]string
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, []string{
		common.HexToAddress("0x09").Hex(),
		common.HexToAddress("0x02").Hex(),
	}, m["42"]["TokenFarm"])
	assert.Len(t, m["42"]["DappToken"], 2)

	data, err = os.ReadFile(filepath.Join(root, "front_end", "src", "brownie-config.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"networks": {"kovan": {"weth_token": "0x01"}}}`, string(data))
}

func TestFrontEndExporter_NoProjectConfig(t *testing.T) {
	root := t.TempDir()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	exporter := NewFrontEndExporter(&config.RuntimeConfig{ProjectRoot: root, Project: &config.ProjectConfig{}}, contracts.NewRepository(root, log), log)

	require.NoError(t, exporter.exportProjectConfig())
	_, err := os.Stat(filepath.Join(root, "front_end", "src", "brownie-config.json"))
	assert.True(t, os.IsNotExist(err))
}
