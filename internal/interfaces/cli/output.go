package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"kilometers.ai/plistmerge/internal/application/commands"
	"kilometers.ai/plistmerge/internal/core/merge"
)

var (
	errorColor   = lipgloss.Color("#EF4444") // Red
	addedColor   = lipgloss.Color("#10B981") // Emerald
	changedColor = lipgloss.Color("#F59E0B") // Amber
	mutedColor   = lipgloss.Color("#6B7280") // Gray
)

// printError writes the diagnostic for a failed run. Styling only applies
// when w is a terminal.
func printError(w io.Writer, err error, withStack bool) {
	style := lipgloss.NewRenderer(w).NewStyle().Foreground(errorColor).Bold(true)
	fmt.Fprintf(w, "%s %v\n", style.Render("Error:"), err)
	if withStack {
		fmt.Fprintf(w, "%+v\n", err)
	}
}

// printChanges writes the dry-run report, one line per overlay key
func printChanges(w io.Writer, result *commands.MergePlistResult) {
	renderer := lipgloss.NewRenderer(w)
	styles := map[merge.ChangeKind]lipgloss.Style{
		merge.ChangeAdded:     renderer.NewStyle().Foreground(addedColor),
		merge.ChangeReplaced:  renderer.NewStyle().Foreground(changedColor),
		merge.ChangeUnchanged: renderer.NewStyle().Foreground(mutedColor),
	}

	for _, c := range result.Changes {
		kind := styles[c.Kind].Render(fmt.Sprintf("%-9s", c.Kind))
		switch c.Kind {
		case merge.ChangeReplaced:
			fmt.Fprintf(w, "%s %s: %v -> %v\n", kind, c.Key, c.Old, c.New)
		default:
			fmt.Fprintf(w, "%s %s: %v\n", kind, c.Key, c.New)
		}
	}
	fmt.Fprintf(w, "dry run: %d key(s) checked, %s not written (%s)\n",
		len(result.Changes), result.Document.Path, result.Format)
}
