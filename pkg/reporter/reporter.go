package reporter

import (
	"io"

	"github.com/conventional-github-releaser/pkg/releaser"
)

type Reporter interface {
	Report(w io.Writer, outcomes []releaser.Outcome) error
}

func New(format string) Reporter {
	switch format {
	case "json":
		return &JSONReporter{}
	case "inspect":
		return &InspectReporter{}
	default:
		return &TableReporter{}
	}
}
