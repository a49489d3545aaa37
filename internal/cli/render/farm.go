package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/trebuchet-org/token-farm/internal/usecase"
)

// FarmRenderer renders farm operations
type FarmRenderer struct {
	out io.Writer
}

// NewFarmRenderer creates a new farm renderer
func NewFarmRenderer(out io.Writer) *FarmRenderer {
	return &FarmRenderer{
		out: out,
	}
}

// RenderStake renders a completed stake
func (r *FarmRenderer) RenderStake(result *usecase.StakeTokensResult) error {
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Staked %s %s", FormatEther(result.Amount), result.Token.Name)))
	fmt.Fprintf(r.out, "Account: %s\n", addressStyle.Sprint(result.Account.Address.Hex()))
	fmt.Fprintf(r.out, "Farm:    %s\n", addressStyle.Sprint(result.Farm.Address.Hex()))
	fmt.Fprintln(r.out, formatReceipt(result.Receipt))
	return nil
}

// RenderUnstake renders a completed unstake
func (r *FarmRenderer) RenderUnstake(result *usecase.UnstakeTokensResult) error {
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Unstaked %s %s", FormatEther(result.Amount), result.Token.Name)))
	fmt.Fprintf(r.out, "Account: %s\n", addressStyle.Sprint(result.Account.Address.Hex()))
	fmt.Fprintln(r.out, formatReceipt(result.Receipt))
	return nil
}

// RenderIssue renders a reward issuance
func (r *FarmRenderer) RenderIssue(result *usecase.IssueTokensResult) error {
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Issued rewards to %d stakers", result.Stakers)))
	fmt.Fprintln(r.out, formatReceipt(result.Receipt))
	return nil
}

// RenderStatus renders an account's position in the farm
func (r *FarmRenderer) RenderStatus(result *usecase.FarmStatusResult) error {
	fmt.Fprintf(r.out, "%s %s\n", sectionHeaderStyle.Sprint("🚜 Token Farm"), faintStyle.Sprintf("on %s", result.Network))
	fmt.Fprintf(r.out, "Farm:    %s\n", addressStyle.Sprint(result.Farm.Address.Hex()))
	fmt.Fprintf(r.out, "Account: %s\n\n", addressStyle.Sprint(result.Account.Hex()))

	if len(result.Stakes) == 0 {
		fmt.Fprintln(r.out, faintStyle.Sprint("No allowed tokens"))
	} else {
		t := newTable()
		t.AppendHeader(table.Row{"TOKEN", "ADDRESS", "STAKED", "VALUE (USD)"})
		t.SetColumnConfigs([]table.ColumnConfig{
			{Number: 3, Align: text.AlignRight},
			{Number: 4, Align: text.AlignRight},
		})
		for _, stake := range result.Stakes {
			t.AppendRow(table.Row{
				nameStyle.Sprint(stake.Symbol),
				addressStyle.Sprint(stake.Token.Hex()),
				FormatEther(stake.Balance),
				FormatEther(stake.Value),
			})
		}
		fmt.Fprintln(r.out, t.Render())
		fmt.Fprintln(r.out)
	}

	fmt.Fprintf(r.out, "Unique tokens staked: %s\n", result.UniqueTokens)
	fmt.Fprintf(r.out, "Total value:          %s USD\n", FormatEther(result.TotalValue))
	fmt.Fprintf(r.out, "DAPP balance:         %s\n", FormatEther(result.RewardBalance))
	return nil
}
