package changelog

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"text/template"

	"github.com/conventional-github-releaser/pkg/vcs"
)

var ErrUnknownPreset = errors.New("unknown changelog preset")

// Preset is a self-contained changelog style: how headers are parsed, which
// commit types are shown and under which titles, and how it all renders.
type Preset struct {
	Name string

	header *regexp.Regexp
	// sections maps a commit type to its section title. A nil map groups by
	// the raw type and keeps every commit.
	sections map[string]string
	order    []string

	headerTmpl *template.Template
	commitTmpl *template.Template
}

var conventionalHeader = regexp.MustCompile(`^(?P<type>\w*)(?:\((?P<scope>[^)]*)\))?(?P<breaking>!)?: (?P<subject>.*)$`)

var presets = map[string]*Preset{
	"angular": {
		Name:   "angular",
		header: conventionalHeader,
		sections: map[string]string{
			"feat":   "Features",
			"fix":    "Bug Fixes",
			"perf":   "Performance Improvements",
			"revert": "Reverts",
		},
		order:      []string{"Features", "Bug Fixes", "Performance Improvements", "Reverts"},
		headerTmpl: template.Must(template.New("angular_header").Parse(`## {{ if .CompareURL }}[{{ .Version }}]({{ .CompareURL }}){{ else }}{{ .Version }}{{ end }} ({{ .Date }})`)),
		commitTmpl: template.Must(template.New("angular_commit").Parse(`* {{ if .Scope }}**{{ .Scope }}:** {{ end }}{{ .Subject }} ({{ if .URL }}[{{ .Short }}]({{ .URL }}){{ else }}{{ .Short }}{{ end }}){{ range $i, $r := .Refs }}{{ if eq $i 0 }}, closes{{ end }} {{ if $r.URL }}[#{{ $r.Number }}]({{ $r.URL }}){{ else }}#{{ $r.Number }}{{ end }}{{ end }}`)),
	},
	"eslint": {
		Name:   "eslint",
		header: regexp.MustCompile(`^(?P<type>[A-Z]\w*): (?P<subject>.*)$`),
		sections: map[string]string{
			"Breaking": "Breaking Changes",
			"New":      "New Features",
			"Update":   "Updates",
			"Fix":      "Bug Fixes",
			"Docs":     "Documentation",
			"Build":    "Build Related",
			"Upgrade":  "Dependency Upgrades",
			"Chore":    "Chores",
		},
		order:      []string{"Breaking Changes", "New Features", "Updates", "Bug Fixes", "Documentation", "Build Related", "Dependency Upgrades", "Chores"},
		headerTmpl: template.Must(template.New("eslint_header").Parse(`## {{ .Version }} - {{ .Date }}`)),
		commitTmpl: template.Must(template.New("eslint_commit").Parse(`* {{ if .URL }}[{{ .Short }}]({{ .URL }}){{ else }}{{ .Short }}{{ end }} {{ .Type }}: {{ .Subject }}{{ range .Refs }} (#{{ .Number }}){{ end }}`)),
	},
	"jquery": {
		Name:       "jquery",
		header:     regexp.MustCompile(`^(?P<type>[^:\s]+): (?P<subject>.*)$`),
		headerTmpl: template.Must(template.New("jquery_header").Parse(`## {{ .Version }} ({{ .Date }})`)),
		commitTmpl: template.Must(template.New("jquery_commit").Parse(`* {{ .Subject }} ({{ if .URL }}[{{ .Short }}]({{ .URL }}){{ else }}{{ .Short }}{{ end }}){{ range .Refs }}, closes #{{ .Number }}{{ end }}`)),
	},
}

// defaultPreset is used when no preset is named. It keeps every commit, so
// non-conventional subjects still end up in the release body.
var defaultPreset = &Preset{
	Name:       "",
	header:     conventionalHeader,
	headerTmpl: template.Must(template.New("default_header").Parse(DefaultHeaderTemplate)),
	commitTmpl: template.Must(template.New("default_commit").Parse(`* {{ if .Scope }}**{{ .Scope }}:** {{ end }}{{ .Subject }} ({{ if .URL }}[{{ .Short }}]({{ .URL }}){{ else }}{{ .Short }}{{ end }})`)),
}

// DefaultHeaderTemplate is the header written when neither a preset nor a
// custom header template is configured.
const DefaultHeaderTemplate = `<a name="{{ .Version }}"></a>
## {{ if .CompareURL }}[{{ .Version }}]({{ .CompareURL }}){{ else }}{{ .Version }}{{ end }} ({{ .Date }})`

// LookupPreset returns the named preset. The empty name selects the default
// writer, which honors custom header templates.
func LookupPreset(name string) (*Preset, error) {
	if name == "" {
		return defaultPreset, nil
	}
	p, ok := presets[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownPreset, name, strings.Join(PresetNames(), ", "))
	}
	return p, nil
}

func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (p *Preset) Parse(c vcs.Commit) ParsedCommit {
	return parseWith(p.header, c)
}

// section returns the title a commit is listed under and whether it is shown.
// Untyped commits in the default writer get the empty title.
func (p *Preset) section(c ParsedCommit) (string, bool) {
	if p.sections == nil {
		return c.Type, true
	}
	title, ok := p.sections[c.Type]
	return title, ok
}

// sectionOrder sorts titles by the preset's order; unknown titles follow alphabetically.
func (p *Preset) sectionOrder(titles []string) []string {
	rank := make(map[string]int, len(p.order))
	for i, t := range p.order {
		rank[t] = i + 1
	}
	sort.SliceStable(titles, func(i, j int) bool {
		ri, rj := rank[titles[i]], rank[titles[j]]
		switch {
		case ri != 0 && rj != 0:
			return ri < rj
		case ri != 0:
			return true
		case rj != 0:
			return false
		}
		return titles[i] < titles[j]
	})
	return titles
}
