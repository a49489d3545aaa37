package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/trebuchet-org/token-farm/internal/usecase"
	"gopkg.in/yaml.v3"
)

// ConfigRenderer renders config-related output
type ConfigRenderer struct {
	out io.Writer
}

// NewConfigRenderer creates a new config renderer
func NewConfigRenderer(out io.Writer) *ConfigRenderer {
	return &ConfigRenderer{
		out: out,
	}
}

// getRelativePath returns the relative path from current directory
func getRelativePath(path string) string {
	cwd, err := os.Getwd()
	if err != nil {
		return path
	}

	relPath, err := filepath.Rel(cwd, path)
	if err != nil {
		return path
	}

	return relPath
}

// RenderConfig renders the resolved configuration
func (r *ConfigRenderer) RenderConfig(result *usecase.ShowConfigResult) error {
	if !result.Exists {
		fmt.Fprintln(r.out, FormatWarning("No brownie-config.yaml found, using built-in networks only"))
	} else {
		fmt.Fprintf(r.out, "📁 config file: %s\n", getRelativePath(result.ConfigPath))
	}
	fmt.Fprintf(r.out, "📂 project root: %s\n", result.ProjectRoot)
	fmt.Fprintf(r.out, "🔐 keystore: %s\n\n", result.KeystoreDir)

	fmt.Fprintln(r.out, sectionHeaderStyle.Sprint("Active network:"))
	if err := r.writeYAML(result.Network); err != nil {
		return err
	}

	if result.Exists {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, sectionHeaderStyle.Sprint("Project config:"))
		project := *result.Project
		// keys are never printed
		if project.Wallets.FromKey != "" {
			project.Wallets.FromKey = "<redacted>"
		}
		if err := r.writeYAML(project); err != nil {
			return err
		}
	}
	return nil
}

func (r *ConfigRenderer) writeYAML(v any) error {
	enc := yaml.NewEncoder(r.out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return enc.Close()
}
