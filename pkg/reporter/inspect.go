package reporter

import (
	"fmt"
	"io"

	"github.com/conventional-github-releaser/pkg/releaser"
)

// InspectReporter prints each outcome as a settled-promise style record,
// e.g. "{ state: 'fulfilled', value: { ... } }".
type InspectReporter struct{}

func (r *InspectReporter) Report(w io.Writer, outcomes []releaser.Outcome) error {
	for _, o := range outcomes {
		if _, err := fmt.Fprintln(w, o.String()); err != nil {
			return err
		}
	}
	return nil
}
