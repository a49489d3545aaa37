package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/token-farm/internal/domain/models"
	"github.com/trebuchet-org/token-farm/internal/usecase"
)

// DeployRenderer renders deployment results
type DeployRenderer struct {
	out io.Writer
}

// NewDeployRenderer creates a new deploy renderer
func NewDeployRenderer(out io.Writer) *DeployRenderer {
	return &DeployRenderer{
		out: out,
	}
}

// RenderContract renders a resolved contract
func (r *DeployRenderer) RenderContract(contract *models.Contract) error {
	fmt.Fprintf(r.out, "%s %s\n", nameStyle.Sprint(contract.Name), faintStyle.Sprintf("(%s)", contract.ContractName))
	fmt.Fprintf(r.out, "Address: %s\n", addressStyle.Sprint(contract.Address.Hex()))
	return nil
}

// RenderMocks renders the deployed mocks
func (r *DeployRenderer) RenderMocks(result *usecase.DeployMocksResult) error {
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Deployed %d mocks on %s", len(result.Contracts), result.Network)))
	fmt.Fprintf(r.out, "Deployer: %s\n\n", addressStyle.Sprint(result.Deployer.Address.Hex()))

	t := newTable()
	t.AppendHeader(table.Row{"CONTRACT", "ADDRESS"})
	for _, contract := range result.Contracts {
		t.AppendRow(table.Row{nameStyle.Sprint(contract.ContractName), addressStyle.Sprint(contract.Address.Hex())})
	}
	fmt.Fprintln(r.out, t.Render())
	return nil
}

// RenderTokenFarm renders a deployed farm with its allowed tokens
func (r *DeployRenderer) RenderTokenFarm(result *usecase.DeployTokenFarmResult) error {
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Token farm deployed on %s (chain %d)", result.Network, result.ChainID)))
	fmt.Fprintf(r.out, "Deployer:   %s\n", addressStyle.Sprint(result.Deployer.Address.Hex()))
	fmt.Fprintf(r.out, "DappToken:  %s\n", addressStyle.Sprint(result.DappToken.Address.Hex()))
	fmt.Fprintf(r.out, "TokenFarm:  %s\n", addressStyle.Sprint(result.TokenFarm.Address.Hex()))
	fmt.Fprintf(r.out, "Farm funds: %s DAPP\n\n", FormatEther(result.FarmBalance))

	fmt.Fprintln(r.out, sectionHeaderStyle.Sprint("Allowed Tokens:"))
	t := newTable()
	t.AppendHeader(table.Row{"TOKEN", "ADDRESS", "PRICE FEED", "FEED ADDRESS"})
	for _, allowed := range result.AllowedTokens {
		t.AppendRow(table.Row{
			nameStyle.Sprint(allowed.Name),
			addressStyle.Sprint(allowed.Token.Address.Hex()),
			allowed.FeedName,
			addressStyle.Sprint(allowed.PriceFeed.Address.Hex()),
		})
	}
	fmt.Fprintln(r.out, t.Render())

	if result.FrontEndPath != "" {
		fmt.Fprintln(r.out)
		fmt.Fprintf(r.out, "📁 front end updated: %s\n", result.FrontEndPath)
	}
	return nil
}
