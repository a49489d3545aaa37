package render

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Color styles shared by the renderers
var (
	sectionHeaderStyle = color.New(color.Bold, color.FgHiWhite)
	addressStyle       = color.New(color.FgCyan)
	nameStyle          = color.New(color.Bold)
	faintStyle         = color.New(color.Faint)
	okStyle            = color.New(color.FgGreen)
	warnStyle          = color.New(color.FgYellow)
	errStyle           = color.New(color.FgRed)
)

var titleCaser = cases.Title(language.English)

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return warnStyle.Sprintf("⚠️  %s", message)
}

// FormatError formats an error message with the error icon
func FormatError(message string) string {
	// Only the innermost part of an error chain is shown
	parts := strings.Split(message, ": ")
	msg := parts[len(parts)-1]

	if len(msg) > 0 {
		msg = strings.ToUpper(msg[:1]) + msg[1:]
	}

	return errStyle.Sprintf("❌ %s", msg)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return okStyle.Sprintf("✅ %s", message)
}

// Title returns s in title case
func Title(s string) string {
	return titleCaser.String(s)
}

// FormatUnits formats an integer amount with the given number of decimals,
// trimming trailing zeros of the fraction
func FormatUnits(amount *big.Int, decimals int) string {
	if amount == nil {
		return "0"
	}
	if decimals <= 0 {
		return amount.String()
	}

	neg := amount.Sign() < 0
	digits := new(big.Int).Abs(amount).String()
	if len(digits) <= decimals {
		digits = strings.Repeat("0", decimals-len(digits)+1) + digits
	}
	whole := digits[:len(digits)-decimals]
	frac := strings.TrimRight(digits[len(digits)-decimals:], "0")

	out := whole
	if frac != "" {
		out += "." + frac
	}
	if neg {
		out = "-" + out
	}
	return out
}

// FormatEther formats an 18-decimal amount
func FormatEther(amount *big.Int) string {
	return FormatUnits(amount, 18)
}

// formatReceipt returns a one-line summary of a mined transaction
func formatReceipt(receipt *types.Receipt) string {
	if receipt == nil {
		return ""
	}
	return faintStyle.Sprintf("tx %s (block %s, gas %d)", receipt.TxHash.Hex(), receipt.BlockNumber, receipt.GasUsed)
}

// newTable creates a borderless table writer
func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.Style().Options.SeparateRows = false
	t.Style().Options.SeparateHeader = false
	t.Style().Box = table.BoxStyle{
		PaddingRight: "   ",
	}
	t.Style().Format.Header = text.FormatDefault
	return t
}
