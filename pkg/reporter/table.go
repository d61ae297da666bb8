package reporter

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/conventional-github-releaser/pkg/releaser"
)

type TableReporter struct{}

func (r *TableReporter) Report(w io.Writer, outcomes []releaser.Outcome) error {
	if len(outcomes) == 0 {
		_, err := fmt.Fprintln(w, "No releases attempted.")
		return err
	}

	// Colors are only emitted when w is a terminal.
	renderer := lipgloss.NewRenderer(w)
	ok := renderer.NewStyle().Foreground(lipgloss.Color("2"))
	failed := renderer.NewStyle().Foreground(lipgloss.Color("1"))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TAG\tKIND\tSTATE\tDETAIL")
	fmt.Fprintln(tw, "---\t----\t-----\t------")

	for _, o := range outcomes {
		kind := "release"
		detail := ""
		state := ok.Render(string(o.State))
		switch o.State {
		case releaser.Fulfilled:
			if o.Value != nil {
				if o.Value.Prerelease {
					kind = "prerelease"
				}
				detail = o.Value.HTMLURL
			}
		case releaser.Rejected:
			state = failed.Render(string(o.State))
			if o.Reason != nil {
				detail = o.Reason.Error()
			}
		}
		if detail == "" {
			detail = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", o.Tag, kind, state, detail)
	}
	return tw.Flush()
}
