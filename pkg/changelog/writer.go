// Package changelog renders release notes for a tag range from conventional
// commit messages.
package changelog

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/conventional-github-releaser/pkg/vcs"
)

// Context describes where links in the rendered notes point.
type Context struct {
	Host  string // e.g. "https://github.com"; empty disables links
	Owner string
	Repo  string
}

func (c Context) repoURL() string {
	if c.Host == "" || c.Owner == "" || c.Repo == "" {
		return ""
	}
	return strings.TrimSuffix(c.Host, "/") + "/" + c.Owner + "/" + c.Repo
}

type Generator struct {
	history vcs.History
	preset  *Preset
	header  *template.Template
	context Context
	now     func() time.Time
}

// NewGenerator prepares a generator for the named preset. headerTemplate
// replaces the default header, but only when no preset is set: presets carry
// their own header and never compose with a custom one.
func NewGenerator(history vcs.History, preset, headerTemplate string, ctx Context) (*Generator, error) {
	p, err := LookupPreset(preset)
	if err != nil {
		return nil, err
	}

	header := p.headerTmpl
	if p == defaultPreset && headerTemplate != "" {
		header, err = template.New("custom_header").Parse(headerTemplate)
		if err != nil {
			return nil, fmt.Errorf("parse header template: %w", err)
		}
	}

	return &Generator{
		history: history,
		preset:  p,
		header:  header,
		context: ctx,
		now:     time.Now,
	}, nil
}

type headerData struct {
	Version     string
	Tag         string
	PreviousTag string
	Date        string
	CompareURL  string
	Prerelease  bool
}

type refData struct {
	Number int
	URL    string
}

type commitData struct {
	ParsedCommit
	Short string
	URL   string
	Refs  []refData
}

type section struct {
	title   string
	commits []commitData
}

// Generate returns the complete notes for r.
func (g *Generator) Generate(ctx context.Context, r vcs.Range, opts vcs.RangeOptions) (string, error) {
	var b strings.Builder
	if err := g.Write(ctx, &b, r, opts); err != nil {
		return "", err
	}
	return strings.TrimSpace(b.String()) + "\n", nil
}

// Write streams the notes for r to w: the header first, then one chunk per
// section, then breaking change notes.
func (g *Generator) Write(ctx context.Context, w io.Writer, r vcs.Range, opts vcs.RangeOptions) error {
	commits, err := g.history.Commits(ctx, r, opts)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	if err := g.header.Execute(bw, g.headerData(r, commits)); err != nil {
		return fmt.Errorf("render header for %s: %w", r.To.Name, err)
	}
	bw.WriteString("\n\n")

	sections, notes := g.group(commits)
	for _, s := range sections {
		if s.title != "" {
			fmt.Fprintf(bw, "### %s\n\n", s.title)
		}
		for _, c := range s.commits {
			if err := g.preset.commitTmpl.Execute(bw, c); err != nil {
				return fmt.Errorf("render commit %s: %w", c.Short, err)
			}
			bw.WriteString("\n")
		}
		bw.WriteString("\n")
		if err := bw.Flush(); err != nil {
			return err
		}
	}

	if len(notes) > 0 {
		bw.WriteString("### BREAKING CHANGES\n\n")
		for _, n := range notes {
			fmt.Fprintf(bw, "* %s\n", n)
		}
		bw.WriteString("\n")
	}
	return bw.Flush()
}

func (g *Generator) headerData(r vcs.Range, commits []vcs.Commit) headerData {
	date := r.To.Date
	if date.IsZero() && len(commits) > 0 {
		date = commits[0].Date
	}
	if date.IsZero() {
		date = g.now()
	}

	d := headerData{
		Version:    strings.TrimPrefix(r.To.Name, "v"),
		Tag:        r.To.Name,
		Date:       date.Format("2006-01-02"),
		Prerelease: vcs.IsPrerelease(r.To.Name),
	}
	if r.From != nil {
		d.PreviousTag = r.From.Name
		if base := g.context.repoURL(); base != "" {
			d.CompareURL = fmt.Sprintf("%s/compare/%s...%s", base, r.From.Name, r.To.Name)
		}
	}
	return d
}

func (g *Generator) group(commits []vcs.Commit) ([]section, []string) {
	base := g.context.repoURL()
	byTitle := make(map[string]*section)
	var titles []string
	var notes []string

	for _, c := range commits {
		pc := g.preset.Parse(c)
		notes = append(notes, pc.Breaking...)

		title, ok := g.preset.section(pc)
		if !ok {
			continue
		}
		s, exists := byTitle[title]
		if !exists {
			s = &section{title: title}
			byTitle[title] = s
			titles = append(titles, title)
		}

		cd := commitData{ParsedCommit: pc, Short: shortSHA(c.SHA)}
		if base != "" {
			cd.URL = base + "/commit/" + c.SHA
		}
		for _, n := range pc.References {
			ref := refData{Number: n}
			if base != "" {
				ref.URL = fmt.Sprintf("%s/issues/%d", base, n)
			}
			cd.Refs = append(cd.Refs, ref)
		}
		s.commits = append(s.commits, cd)
	}

	out := make([]section, 0, len(titles))
	for _, t := range g.preset.sectionOrder(titles) {
		out = append(out, *byTitle[t])
	}
	return out, notes
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
