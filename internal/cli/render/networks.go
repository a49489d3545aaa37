package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/token-farm/internal/usecase"
)

// NetworksRenderer renders network lists
type NetworksRenderer struct {
	out io.Writer
}

// NewNetworksRenderer creates a new networks renderer
func NewNetworksRenderer(out io.Writer) *NetworksRenderer {
	return &NetworksRenderer{
		out: out,
	}
}

// RenderNetworksList renders the list of networks with their chain ids
func (r *NetworksRenderer) RenderNetworksList(result *usecase.ListNetworksResult) error {
	if len(result.Networks) == 0 {
		fmt.Fprintln(r.out, "No networks configured")
		return nil
	}

	fmt.Fprintln(r.out, sectionHeaderStyle.Sprint("🌐 Available Networks:"))
	fmt.Fprintln(r.out)

	t := newTable()
	t.AppendHeader(table.Row{"", "NETWORK", "CHAIN ID", "KIND", "RPC"})
	for _, network := range result.Networks {
		marker := " "
		if network.Name == result.Active {
			marker = okStyle.Sprint("*")
		}

		chainID := "-"
		switch {
		case network.Error != nil:
			chainID = errStyle.Sprintf("error: %v", network.Error)
		case network.ChainID != 0:
			chainID = fmt.Sprintf("%d", network.ChainID)
		}

		rpc := network.RPCURL
		if rpc == "" {
			rpc = faintStyle.Sprint("in-process")
		}

		t.AppendRow(table.Row{marker, nameStyle.Sprint(network.Name), chainID, networkKind(network), rpc})
	}
	fmt.Fprintln(r.out, t.Render())

	return nil
}

func networkKind(network usecase.NetworkStatus) string {
	var kinds []string
	switch {
	case network.Forked:
		kinds = append(kinds, "fork")
	case network.Local:
		kinds = append(kinds, "local")
	default:
		kinds = append(kinds, "live")
	}
	if network.Managed {
		kinds = append(kinds, "managed")
	}
	return strings.Join(kinds, ", ")
}
