package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/token-farm/internal/cli/render"
	"github.com/trebuchet-org/token-farm/internal/usecase"
)

// NewAccountsCmd creates the accounts command group
func NewAccountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage signing accounts",
		Long: `Manage the accounts farm signs with.

Local networks use the development accounts. Other networks use
wallets.from_key from brownie-config.yaml, or a stored account selected
with --account-id.

When run without subcommands, lists the accounts.`,
		Args: cobra.NoArgs,
		RunE: runListAccounts,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List development and stored accounts",
		Args:  cobra.NoArgs,
		RunE:  runListAccounts,
	})
	cmd.AddCommand(NewAccountsImportCmd())

	return cmd
}

// NewAccountsImportCmd creates the accounts import subcommand
func NewAccountsImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <id> <private-key>",
		Short: "Import a private key into the keystore",
		Long: `Encrypt a hex private key with a password and store it under <id>.

The password is read from FARM_ACCOUNT_PASSWORD or prompted for.

Examples:
  farm accounts import deployer 0x59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d
  farm --account-id deployer deploy -n kovan`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			account, err := app.ImportAccount.Run(cmd.Context(), usecase.ImportAccountParams{
				ID:         args[0],
				PrivateKey: args[1],
			})
			if err != nil {
				return err
			}

			return render.NewAccountsRenderer(cmd.OutOrStdout()).RenderImported(account)
		},
	}
}

func runListAccounts(cmd *cobra.Command, args []string) error {
	app, err := getApp(cmd)
	if err != nil {
		return err
	}

	result, err := app.ListAccounts.Run(cmd.Context())
	if err != nil {
		return err
	}

	return render.NewAccountsRenderer(cmd.OutOrStdout()).RenderList(result)
}
