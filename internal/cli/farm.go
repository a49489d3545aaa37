package cli

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/token-farm/internal/cli/render"
	"github.com/trebuchet-org/token-farm/internal/usecase"
)

// NewStakeCmd creates the stake command
func NewStakeCmd() *cobra.Command {
	var wei bool

	cmd := &cobra.Command{
		Use:   "stake <token> <amount>",
		Short: "Stake an allowed token in the farm",
		Long: `Approve the farm and stake <amount> of <token>.

<token> is dapp_token or a configured token name (fau_token, weth_token).
<amount> is in whole tokens with up to 18 decimals, or wei with --wei.

Examples:
  farm stake dapp_token 1
  farm stake weth_token 0.5 -n kovan`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			decimals := 18
			if wei {
				decimals = 0
			}
			amount, err := parseUnits(args[1], decimals)
			if err != nil {
				return fmt.Errorf("invalid amount: %w", err)
			}

			result, err := app.StakeTokens.Run(cmd.Context(), usecase.StakeTokensParams{
				Token:   args[0],
				Amount:  amount,
				Account: accountParams(app),
			})
			if err != nil {
				return err
			}

			return render.NewFarmRenderer(cmd.OutOrStdout()).RenderStake(result)
		},
	}

	cmd.Flags().BoolVar(&wei, "wei", false, "Amount is in wei")

	return cmd
}

// NewUnstakeCmd creates the unstake command
func NewUnstakeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unstake <token>",
		Short: "Withdraw the whole staked balance of a token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.UnstakeTokens.Run(cmd.Context(), usecase.UnstakeTokensParams{
				Token:   args[0],
				Account: accountParams(app),
			})
			if err != nil {
				return err
			}

			return render.NewFarmRenderer(cmd.OutOrStdout()).RenderUnstake(result)
		},
	}
}

// NewIssueCmd creates the issue command
func NewIssueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "issue",
		Short: "Issue DappToken rewards to every staker",
		Long:  `Pay each staker DappToken equal to the USD value of their stake. Owner only.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.IssueTokens.Run(cmd.Context(), usecase.IssueTokensParams{
				Account: accountParams(app),
			})
			if err != nil {
				return err
			}

			return render.NewFarmRenderer(cmd.OutOrStdout()).RenderIssue(result)
		},
	}
}

// NewStatusCmd creates the status command
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status [address]",
		Short: "Show staked balances and rewards of an account",
		Long: `Show the staked balance and USD value per allowed token, the number of
unique tokens staked and the DappToken balance. Defaults to the active account.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.FarmStatusParams{
				Account: accountParams(app),
			}
			if len(args) == 1 {
				if !common.IsHexAddress(args[0]) {
					return fmt.Errorf("invalid address %q", args[0])
				}
				addr := common.HexToAddress(args[0])
				params.Address = &addr
			}

			result, err := app.FarmStatus.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			return render.NewFarmRenderer(cmd.OutOrStdout()).RenderStatus(result)
		},
	}
}
