package interactive

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/trebuchet-org/token-farm/internal/config"
	"github.com/trebuchet-org/token-farm/internal/domain"
)

// PasswordEnv overrides the keystore password prompt
const PasswordEnv = "FARM_ACCOUNT_PASSWORD"

// PasswordPrompt reads keystore passwords from the environment or the terminal
type PasswordPrompt struct {
	config *config.RuntimeConfig
	getenv func(string) string
	prompt func(label string) (string, error)
}

// NewPasswordPrompt creates a new password prompt
func NewPasswordPrompt(cfg *config.RuntimeConfig) *PasswordPrompt {
	return &PasswordPrompt{
		config: cfg,
		getenv: os.Getenv,
		prompt: runMaskedPrompt,
	}
}

// Password returns the keystore password for an account. With confirm set the password
// is asked twice and both entries must match.
func (p *PasswordPrompt) Password(ctx context.Context, account string, confirm bool) (string, error) {
	if password := p.getenv(PasswordEnv); password != "" {
		return password, nil
	}
	if p.config.NonInteractive {
		return "", fmt.Errorf("%w: set %s to unlock %s in non-interactive mode", domain.ErrMissingConfig, PasswordEnv, account)
	}

	password, err := p.prompt(fmt.Sprintf("Password for %s", account))
	if err != nil {
		return "", fmt.Errorf("password prompt cancelled: %w", err)
	}
	if !confirm {
		return password, nil
	}

	again, err := p.prompt("Repeat password")
	if err != nil {
		return "", fmt.Errorf("password prompt cancelled: %w", err)
	}
	if again != password {
		return "", errors.New("passwords do not match")
	}
	return password, nil
}

func runMaskedPrompt(label string) (string, error) {
	prompt := promptui.Prompt{
		Label: color.New(color.FgCyan).Sprint(label),
		Mask:  '*',
		Validate: func(input string) error {
			if input == "" {
				return errors.New("password cannot be empty")
			}
			return nil
		},
	}
	return prompt.Run()
}
