package releaser

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/conventional-github-releaser/pkg/vcs"
)

type Auth struct {
	// Type is "oauth" or "token"; both send the token as a bearer credential.
	Type  string
	Token string
}

type GitHubOptions struct {
	// Host overrides the API host, e.g. "https://github.example.com".
	Host string
}

type Config struct {
	Auth   *Auth
	GitHub *GitHubOptions
}

type PkgOptions struct {
	Path string
}

type Options struct {
	Pkg    *PkgOptions
	Preset string
	// ReleaseCount limits publishing to the newest N tags. Zero means all.
	ReleaseCount   int
	HeaderTemplate string
	Range          vcs.RangeOptions
	Owner          string
	Repo           string
	Draft          bool
}

type State string

const (
	Fulfilled State = "fulfilled"
	Rejected  State = "rejected"
)

// Outcome is the result of one release attempt.
type Outcome struct {
	Tag    string
	State  State
	Value  *vcs.Release
	Reason error
}

// Callback receives the result of a run exactly once.
type Callback func(err error, outcomes []Outcome)

func (o Outcome) String() string {
	if o.State == Rejected {
		reason := "<nil>"
		if o.Reason != nil {
			reason = o.Reason.Error()
		}
		return fmt.Sprintf("{ state: 'rejected', reason: %s }", reason)
	}
	if o.Value == nil {
		return "{ state: 'fulfilled', value: null }"
	}
	v := o.Value
	var b strings.Builder
	fmt.Fprintf(&b, "{ state: 'fulfilled', value: { id: %d, tag_name: '%s', name: '%s', prerelease: %t, draft: %t",
		v.ID, v.TagName, v.Name, v.Prerelease, v.Draft)
	if v.HTMLURL != "" {
		fmt.Fprintf(&b, ", html_url: '%s'", v.HTMLURL)
	}
	b.WriteString(" } }")
	return b.String()
}

func (o Outcome) MarshalJSON() ([]byte, error) {
	out := struct {
		Tag    string       `json:"tag"`
		State  State        `json:"state"`
		Value  *vcs.Release `json:"value,omitempty"`
		Reason string       `json:"reason,omitempty"`
	}{Tag: o.Tag, State: o.State, Value: o.Value}
	if o.Reason != nil {
		out.Reason = o.Reason.Error()
	}
	return json.Marshal(out)
}

// Failed reports whether any outcome was rejected.
func Failed(outcomes []Outcome) bool {
	for _, o := range outcomes {
		if o.State == Rejected {
			return true
		}
	}
	return false
}
