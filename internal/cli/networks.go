package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/token-farm/internal/cli/render"
	"github.com/trebuchet-org/token-farm/internal/usecase"
)

// NewNetworksCmd creates the networks command
func NewNetworksCmd() *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "networks",
		Short: "List available networks",
		Long: `List the built-in local networks and every network configured in
brownie-config.yaml or foundry.toml [rpc_endpoints].

Chain ids that are not pinned in the configuration are fetched from the node.
The active network is marked with *.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListNetworks.Run(cmd.Context(), usecase.ListNetworksParams{
				SkipChainID: offline,
			})
			if err != nil {
				return err
			}

			return render.NewNetworksRenderer(cmd.OutOrStdout()).RenderNetworksList(result)
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "Do not query nodes for chain ids")

	return cmd
}
