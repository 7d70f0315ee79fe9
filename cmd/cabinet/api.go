package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	// Import namespaces to register them
	_ "github.com/vovakirdan/tui-cabinet/internal/api"
	"github.com/vovakirdan/tui-cabinet/internal/registry"
)

// namesPerLine wraps long function lists inside a table cell.
const namesPerLine = 5

var flagAPIConstants bool

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "List the script API namespaces",
	Long: `Shows every namespace a game script can use, with its functions.

Examples:
  cabinet api
  cabinet api --constants`,
	Args: cobra.NoArgs,
	Run:  runAPI,
}

func init() {
	apiCmd.Flags().BoolVar(&flagAPIConstants, "constants", false, "Also list constant names")
}

func runAPI(_ *cobra.Command, _ []string) {
	namespaces := registry.List()
	if len(namespaces) == 0 {
		fmt.Println("No namespaces registered.")
		return
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	headers := []string{"Namespace", "Functions", "Constants"}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		BorderRow(true).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for _, ns := range namespaces {
		consts := fmt.Sprintf("%d", len(ns.Constants))
		if flagAPIConstants && len(ns.Constants) > 0 {
			consts = wrapNames(ns.Constants)
		}
		t.Row(ns.Name, wrapNames(ns.Functions), consts)
	}

	fmt.Println(t.Render())
	fmt.Println()
	fmt.Println("Scripts call these as namespace.function(...), e.g. graphics.text(0, 0, \"hi\").")
}

// wrapNames joins names a few per line.
func wrapNames(names []string) string {
	var lines []string
	for i := 0; i < len(names); i += namesPerLine {
		end := min(i+namesPerLine, len(names))
		lines = append(lines, strings.Join(names[i:end], ", "))
	}
	return strings.Join(lines, "\n")
}
