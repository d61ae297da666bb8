package reporter

import (
	"encoding/json"
	"io"

	"github.com/conventional-github-releaser/pkg/releaser"
)

type JSONReporter struct{}

func (r *JSONReporter) Report(w io.Writer, outcomes []releaser.Outcome) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	type output struct {
		Count    int                `json:"count"`
		Failed   bool               `json:"failed"`
		Outcomes []releaser.Outcome `json:"outcomes"`
	}

	return enc.Encode(output{
		Count:    len(outcomes),
		Failed:   releaser.Failed(outcomes),
		Outcomes: outcomes,
	})
}
