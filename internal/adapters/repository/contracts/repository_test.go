package contracts

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/token-farm/internal/domain"
	"github.com/trebuchet-org/token-farm/internal/domain/models"
)

const minimalABI = `[{"inputs":[],"name":"totalSupply","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"}]`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestRepository_Embedded(t *testing.T) {
	repo := NewRepository(t.TempDir(), slog.Default())
	ctx := context.Background()

	for _, name := range []string{"DappToken", "TokenFarm", "MockV3Aggregator", "MockDAI", "MockWETH"} {
		t.Run(name, func(t *testing.T) {
			artifact, err := repo.GetArtifact(ctx, name)
			require.NoError(t, err)
			assert.Equal(t, name, artifact.Name)
			assert.Equal(t, models.ArtifactSourceEmbedded, artifact.Source)
			assert.True(t, artifact.Deployable())
			assert.NotEmpty(t, artifact.ABI.Methods)
		})
	}

	farm, err := repo.GetArtifact(ctx, "TokenFarm")
	require.NoError(t, err)
	assert.Contains(t, farm.ABI.Methods, "tokenPriceFeed")
	assert.Contains(t, farm.ABI.Methods, "stakeToken")
	assert.Len(t, farm.ABI.Constructor.Inputs, 1)

	assert.Len(t, repo.ListArtifacts(ctx), 5)
}

func TestEmbeddedArtifacts_ParseIndividually(t *testing.T) {
	entries, err := embedded.ReadDir("embedded")
	require.NoError(t, err)
	require.Len(t, entries, 5)

	for _, entry := range entries {
		t.Run(entry.Name(), func(t *testing.T) {
			data, err := embedded.ReadFile("embedded/" + entry.Name())
			require.NoError(t, err)

			artifact, err := parseArtifact(data, "")
			require.NoError(t, err)
			assert.Equal(t, strings.TrimSuffix(entry.Name(), ".json"), artifact.Name)
			require.True(t, artifact.Deployable())
			// creation code, not a placeholder starting with INVALID
			assert.NotEqual(t, byte(0xfe), artifact.Bytecode[0])

			var raw struct {
				DeployedBytecode string `json:"deployedBytecode"`
			}
			require.NoError(t, json.Unmarshal(data, &raw))
			runtime, err := hexutil.Decode(raw.DeployedBytecode)
			require.NoError(t, err)
			assert.True(t, bytes.Contains(artifact.Bytecode, runtime), "creation code must carry the runtime code")
		})
	}
}

func TestRepository_ProjectArtifactsOverride(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "build", "contracts", "DappToken.json"),
		`{"contractName":"DappToken","abi":`+minimalABI+`,"bytecode":"6080604052"}`)
	writeFile(t, filepath.Join(root, "build", "contracts", "IERC20.json"),
		`{"contractName":"IERC20","abi":`+minimalABI+`,"bytecode":""}`)
	writeFile(t, filepath.Join(root, "build", "contracts", "dependencies", "ERC20.json"),
		`{"contractName":"ERC20","abi":`+minimalABI+`,"bytecode":"0x60"}`)
	writeFile(t, filepath.Join(root, "out", "Counter.sol", "Counter.json"),
		`{"abi":`+minimalABI+`,"bytecode":{"object":"0x6080"}}`)
	writeFile(t, filepath.Join(root, "out", "build-info", "abc.json"), `{"id":"abc"}`)

	repo := NewRepository(root, slog.Default())
	ctx := context.Background()

	dapp, err := repo.GetArtifact(ctx, "DappToken")
	require.NoError(t, err)
	assert.Equal(t, models.ArtifactSourceBrownie, dapp.Source)
	assert.Equal(t, []byte{0x60, 0x80, 0x60, 0x40, 0x52}, dapp.Bytecode)
	assert.Equal(t, filepath.Join("build", "contracts", "DappToken.json"), dapp.Path)

	counter, err := repo.GetArtifact(ctx, "Counter")
	require.NoError(t, err)
	assert.Equal(t, models.ArtifactSourceFoundry, counter.Source)
	assert.Equal(t, []byte{0x60, 0x80}, counter.Bytecode)

	_, err = repo.GetArtifact(ctx, "IERC20")
	assert.ErrorIs(t, err, domain.ErrUnknownContract)

	_, err = repo.GetArtifact(ctx, "ERC20")
	assert.ErrorIs(t, err, domain.ErrUnknownContract)
}

func TestRepository_UnknownSuggests(t *testing.T) {
	repo := NewRepository(t.TempDir(), slog.Default())

	_, err := repo.GetArtifact(context.Background(), "TokenFrm")
	require.Error(t, err)

	var unknown domain.UnknownContractErr
	require.ErrorAs(t, err, &unknown)
	assert.Contains(t, unknown.Suggestions, "TokenFarm")
}

func TestParseBytecode(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []byte
		wantErr bool
	}{
		{"brownie", `"0x6001"`, []byte{0x60, 0x01}, false},
		{"no prefix", `"6001"`, []byte{0x60, 0x01}, false},
		{"foundry", `{"object":"0x6001"}`, []byte{0x60, 0x01}, false},
		{"empty", `"0x"`, nil, false},
		{"unlinked", `"0x60__$abc$__"`, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseBytecode([]byte(tt.raw))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
