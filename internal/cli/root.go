package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/token-farm/internal/app"
	"github.com/trebuchet-org/token-farm/internal/config"
	"github.com/trebuchet-org/token-farm/internal/usecase"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// shutdownTimeout bounds how long stopping local nodes may take
const shutdownTimeout = 10 * time.Second

// session owns the app created for one command invocation
type session struct {
	app    *app.App
	cancel context.CancelFunc
}

// close releases the app. Safe to call more than once.
func (s *session) close(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.app == nil {
		return nil
	}
	a := s.app
	s.app = nil

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	return a.Close(ctx)
}

// Execute runs the farm CLI and releases everything the command started,
// including when the command fails
func Execute(ctx context.Context) error {
	rootCmd, s := newRootCmd()
	err := rootCmd.ExecuteContext(ctx)
	if closeErr := s.close(ctx); closeErr != nil {
		err = errors.Join(err, fmt.Errorf("failed to shut down: %w", closeErr))
	}
	return err
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd, _ := newRootCmd()
	return rootCmd
}

func newRootCmd() (*cobra.Command, *session) {
	s := &session{}

	rootCmd := &cobra.Command{
		Use:   "farm",
		Short: "Deploy and operate the token farm",
		Long: `farm deploys the TokenFarm staking contract with its DappToken reward token,
deploys mocks for local networks and stakes, unstakes and issues rewards.

Networks come from brownie-config.yaml, foundry.toml [rpc_endpoints] and the
built-in local networks. Without a network the in-process development chain is used.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			// The project config is optional, the built-in networks work without it
			projectRoot, err := config.FindProjectRoot()
			if err != nil {
				if projectRoot, err = os.Getwd(); err != nil {
					return err
				}
			}

			v := config.SetupViper(projectRoot, cmd)

			appInstance, err := app.InitApp(v)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}
			s.app = appInstance

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)
			if appInstance.Config.Timeout > 0 {
				ctx, s.cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
			}
			cmd.SetContext(ctx)

			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return s.close(cmd.Context())
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringP("network", "n", "", "Network to use (defaults to networks.default, then development)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")
	rootCmd.PersistentFlags().Duration("timeout", 5*time.Minute, "Timeout for the whole command")
	rootCmd.PersistentFlags().Int("account-index", -1, "Development account index to sign with")
	rootCmd.PersistentFlags().String("account-id", "", "Stored account id to sign with")

	// Add command groups
	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Farm Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "deployment",
		Title: "Deployment Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	// Farm commands
	for _, cmd := range []*cobra.Command{NewStakeCmd(), NewUnstakeCmd(), NewIssueCmd(), NewStatusCmd()} {
		cmd.GroupID = "main"
		rootCmd.AddCommand(cmd)
	}

	// Deployment commands
	for _, cmd := range []*cobra.Command{NewDeployCmd(), NewMocksCmd(), NewContractCmd()} {
		cmd.GroupID = "deployment"
		rootCmd.AddCommand(cmd)
	}

	// Management commands
	for _, cmd := range []*cobra.Command{NewNetworksCmd(), NewAccountsCmd(), NewConfigCmd()} {
		cmd.GroupID = "management"
		rootCmd.AddCommand(cmd)
	}

	// Version command
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd, s
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}

// accountParams returns the signer selected by --account-index and --account-id
func accountParams(app *app.App) usecase.ResolveAccountParams {
	return app.ResolveAccount.DefaultParams()
}
