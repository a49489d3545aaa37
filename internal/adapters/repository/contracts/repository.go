package contracts

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
	"github.com/trebuchet-org/token-farm/internal/domain"
	"github.com/trebuchet-org/token-farm/internal/domain/models"
	"github.com/trebuchet-org/token-farm/internal/usecase"
)

//go:embed embedded/*.json
var embedded embed.FS

// Repository indexes contract artifacts: the embedded ones, overridden by compiled
// project artifacts (Brownie build/contracts or Foundry out) of the same name
type Repository struct {
	projectRoot string
	artifacts   map[string]*models.Artifact
	log         *slog.Logger
	mu          sync.RWMutex
	indexed     bool
}

// NewRepository creates a new artifact repository
func NewRepository(projectRoot string, log *slog.Logger) *Repository {
	return &Repository{
		projectRoot: projectRoot,
		log:         log,
		artifacts:   make(map[string]*models.Artifact),
	}
}

// rawArtifact covers both the Brownie and Foundry artifact layouts
type rawArtifact struct {
	ContractName string          `json:"contractName"`
	ABI          json.RawMessage `json:"abi"`
	Bytecode     json.RawMessage `json:"bytecode"`
}

// Index loads every artifact. It runs once; later calls are no-ops.
func (r *Repository) Index() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexed {
		return nil
	}
	r.artifacts = make(map[string]*models.Artifact)

	if err := r.indexEmbedded(); err != nil {
		return fmt.Errorf("failed to load embedded artifacts: %w", err)
	}

	buildDir := filepath.Join(r.projectRoot, "build", "contracts")
	if err := r.indexDir(buildDir, models.ArtifactSourceBrownie, false); err != nil {
		return fmt.Errorf("failed to index %s: %w", buildDir, err)
	}

	outDir := filepath.Join(r.projectRoot, "out")
	if err := r.indexDir(outDir, models.ArtifactSourceFoundry, true); err != nil {
		return fmt.Errorf("failed to index %s: %w", outDir, err)
	}

	r.indexed = true
	return nil
}

func (r *Repository) indexEmbedded() error {
	entries, err := embedded.ReadDir("embedded")
	if err != nil {
		return err
	}
	for _, entry := range entries {
		path := "embedded/" + entry.Name()
		data, err := embedded.ReadFile(path)
		if err != nil {
			return err
		}
		artifact, err := parseArtifact(data, strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		artifact.Source = models.ArtifactSourceEmbedded
		artifact.Path = path
		r.artifacts[artifact.Name] = artifact
	}
	return nil
}

// indexDir loads the artifacts in dir, walking subdirectories when recursive is set
func (r *Repository) indexDir(dir string, source models.ArtifactSource, recursive bool) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil
	}

	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && (!recursive || d.Name() == "build-info") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".json" {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		artifact, err := parseArtifact(data, strings.TrimSuffix(d.Name(), ".json"))
		if err != nil {
			// Skip files that are not artifacts
			r.log.Debug("skipping artifact", "path", path, "error", err)
			return nil
		}
		if !artifact.Deployable() {
			return nil
		}

		relPath, _ := filepath.Rel(r.projectRoot, path)
		artifact.Source = source
		artifact.Path = relPath
		if existing, ok := r.artifacts[artifact.Name]; ok && existing.Source != models.ArtifactSourceEmbedded {
			r.log.Warn("duplicate artifact, keeping the first", "contract", artifact.Name, "kept", existing.Path, "skipped", relPath)
			return nil
		}
		r.log.Debug("indexed artifact", "contract", artifact.Name, "source", source, "path", relPath)
		r.artifacts[artifact.Name] = artifact
		return nil
	})
}

// parseArtifact decodes a Brownie or Foundry artifact; fallbackName is used when
// the artifact does not carry its contract name
func parseArtifact(data []byte, fallbackName string) (*models.Artifact, error) {
	var raw rawArtifact
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if len(raw.ABI) == 0 {
		return nil, fmt.Errorf("no abi")
	}

	parsed, err := abi.JSON(bytes.NewReader(raw.ABI))
	if err != nil {
		return nil, fmt.Errorf("invalid abi: %w", err)
	}

	bytecode, err := parseBytecode(raw.Bytecode)
	if err != nil {
		return nil, err
	}

	name := raw.ContractName
	if name == "" {
		name = fallbackName
	}
	return &models.Artifact{
		Name:     name,
		ABI:      parsed,
		RawABI:   raw.ABI,
		Bytecode: bytecode,
	}, nil
}

// parseBytecode accepts "0x.." (Brownie) and {"object": "0x.."} (Foundry)
func parseBytecode(raw json.RawMessage) ([]byte, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var hex string
	if err := json.Unmarshal(raw, &hex); err != nil {
		var object struct {
			Object string `json:"object"`
		}
		if err := json.Unmarshal(raw, &object); err != nil {
			return nil, fmt.Errorf("invalid bytecode: %w", err)
		}
		hex = object.Object
	}

	hex = strings.TrimSpace(hex)
	if hex == "" || hex == "0x" {
		return nil, nil
	}
	if !strings.HasPrefix(hex, "0x") {
		hex = "0x" + hex
	}
	if strings.Contains(hex, "__") {
		return nil, fmt.Errorf("bytecode has unlinked libraries")
	}
	return hexutil.Decode(hex)
}

// GetArtifact returns the artifact of a contract by name
func (r *Repository) GetArtifact(ctx context.Context, name string) (*models.Artifact, error) {
	if err := r.Index(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	if artifact, ok := r.artifacts[name]; ok {
		return artifact, nil
	}

	names := lo.Keys(r.artifacts)
	sort.Strings(names)
	suggestions := lo.Map(fuzzy.Find(name, names), func(m fuzzy.Match, _ int) string { return m.Str })
	return nil, domain.UnknownContractErr{Name: name, Suggestions: suggestions}
}

// ListArtifacts returns every indexed artifact, sorted by name
func (r *Repository) ListArtifacts(ctx context.Context) []*models.Artifact {
	if err := r.Index(); err != nil {
		r.log.Error("failed to index artifacts", "error", err)
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	artifacts := lo.Values(r.artifacts)
	sort.Slice(artifacts, func(i, j int) bool { return artifacts[i].Name < artifacts[j].Name })
	return artifacts
}

var _ usecase.ArtifactRepository = (*Repository)(nil)
