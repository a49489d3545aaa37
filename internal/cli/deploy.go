package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/token-farm/internal/cli/render"
	"github.com/trebuchet-org/token-farm/internal/usecase"
)

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	var updateFrontEnd bool

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy the token farm",
		Long: `Deploy DappToken and TokenFarm, fund the farm with DappToken and register
the allowed tokens with their price feeds.

On local networks missing mocks are deployed first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.DeployTokenFarm.Run(cmd.Context(), usecase.DeployTokenFarmParams{
				Account:        accountParams(app),
				UpdateFrontEnd: updateFrontEnd,
			})
			if err != nil {
				return err
			}

			return render.NewDeployRenderer(cmd.OutOrStdout()).RenderTokenFarm(result)
		},
	}

	cmd.Flags().BoolVar(&updateFrontEnd, "update-front-end", false, "Export addresses and ABIs to front_end/src")

	return cmd
}

// NewMocksCmd creates the mocks command group
func NewMocksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mocks",
		Short: "Manage mock contracts",
	}
	cmd.AddCommand(NewMocksDeployCmd())
	return cmd
}

// NewMocksDeployCmd creates the mocks deploy subcommand
func NewMocksDeployCmd() *cobra.Command {
	var (
		decimals     uint8
		initialValue string
	)

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy the price feed and token mocks",
		Long: `Deploy MockV3Aggregator, MockDAI and MockWETH with the active account.

--initial-value is the raw feed answer, scaled by --decimals.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.DefaultDeployMocksParams()
			params.Decimals = decimals
			if initialValue != "" {
				if params.InitialValue, err = parseUnits(initialValue, 0); err != nil {
					return fmt.Errorf("invalid --initial-value: %w", err)
				}
			}

			result, err := app.DeployMocks.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			return render.NewDeployRenderer(cmd.OutOrStdout()).RenderMocks(result)
		},
	}

	cmd.Flags().Uint8Var(&decimals, "decimals", usecase.Decimals, "Price feed decimals")
	cmd.Flags().StringVar(&initialValue, "initial-value", "", "Price feed initial answer (default 2000e18)")

	return cmd
}

// NewContractCmd creates the contract command
func NewContractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "contract <name>",
		Short: "Resolve a dependency contract",
		Long: fmt.Sprintf(`Resolve a contract by its configuration name and print its address.

On local networks this is the latest mock, deployed on first use. On other
networks the address is read from networks.<network>.<name>.

Supported names: %s`, strings.Join(usecase.SupportedContracts(), ", ")),
		Args:      cobra.ExactArgs(1),
		ValidArgs: usecase.SupportedContracts(),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			contract, err := app.ResolveContract.Run(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return render.NewDeployRenderer(cmd.OutOrStdout()).RenderContract(contract)
		},
	}
}
