package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/token-farm/internal/domain/models"
	"github.com/trebuchet-org/token-farm/internal/usecase"
)

// AccountsRenderer renders accounts
type AccountsRenderer struct {
	out io.Writer
}

// NewAccountsRenderer creates a new accounts renderer
func NewAccountsRenderer(out io.Writer) *AccountsRenderer {
	return &AccountsRenderer{
		out: out,
	}
}

// RenderList renders development and stored accounts
func (r *AccountsRenderer) RenderList(result *usecase.ListAccountsResult) error {
	fmt.Fprintln(r.out, sectionHeaderStyle.Sprint("🔑 Development Accounts:"))
	t := newTable()
	t.AppendHeader(table.Row{"", "INDEX", "ADDRESS"})
	for _, account := range result.Dev {
		t.AppendRow(table.Row{r.marker(result.Default, account), account.Alias, addressStyle.Sprint(account.Address.Hex())})
	}
	fmt.Fprintln(r.out, t.Render())
	fmt.Fprintln(r.out)

	fmt.Fprintln(r.out, sectionHeaderStyle.Sprint("🔐 Stored Accounts:"))
	if len(result.Stored) == 0 {
		fmt.Fprintln(r.out, faintStyle.Sprint("  none, add one with `farm accounts import <id> <private-key>`"))
	} else {
		t = newTable()
		t.AppendHeader(table.Row{"ID", "ADDRESS", "PATH"})
		for _, entry := range result.Stored {
			t.AppendRow(table.Row{nameStyle.Sprint(entry.ID), addressStyle.Sprint(entry.Address), faintStyle.Sprint(entry.Path)})
		}
		fmt.Fprintln(r.out, t.Render())
	}
	fmt.Fprintln(r.out)

	switch {
	case result.Default != nil:
		fmt.Fprintf(r.out, "Default account: %s (%s)\n", addressStyle.Sprint(result.Default.Address.Hex()), Title(string(result.Default.Source)))
	case result.DefaultErr != nil:
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("No default account: %v", result.DefaultErr)))
	}

	return nil
}

// RenderImported renders the result of importing a key
func (r *AccountsRenderer) RenderImported(account *models.Account) error {
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Imported account %s", account.Alias)))
	fmt.Fprintf(r.out, "Address: %s\n", addressStyle.Sprint(account.Address.Hex()))
	return nil
}

func (r *AccountsRenderer) marker(def, account *models.Account) string {
	if def != nil && def.Source == account.Source && def.Address == account.Address {
		return okStyle.Sprint("*")
	}
	return " "
}
