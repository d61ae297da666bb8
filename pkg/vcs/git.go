package vcs

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const (
	fieldSep  = "\x1f"
	recordSep = "\x1e"
)

// Git reads tags and commits from a local clone by shelling out to git.
type Git struct {
	Dir string
}

func NewGit(dir string) *Git {
	if dir == "" {
		dir = "."
	}
	return &Git{Dir: dir}
}

func (g *Git) Tags(ctx context.Context) ([]Tag, error) {
	out, err := g.run(ctx, "for-each-ref", "--merged", "HEAD",
		"--format=%(refname:short)%1f%(*objectname)%1f%(objectname)%1f%(creatordate:iso-strict)",
		"refs/tags")
	if err != nil {
		return nil, fmt.Errorf("list tags in %s: %w", g.Dir, err)
	}

	var tags []Tag
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, fieldSep, 4)
		if len(parts) < 4 {
			continue
		}
		// Annotated tags point at a tag object; %(*objectname) is the peeled commit.
		commit := parts[1]
		if commit == "" {
			commit = parts[2]
		}
		date, _ := time.Parse(time.RFC3339, parts[3])
		tags = append(tags, Tag{
			Name:   parts[0],
			Commit: commit,
			Date:   date,
		})
	}
	return tags, nil
}

func (g *Git) Commits(ctx context.Context, r Range, opts RangeOptions) ([]Commit, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	args := []string{"log", "--format=%H%x1f%an%x1f%cI%x1f%s%x1f%b%x1e"}
	switch opts.Merges {
	case "exclude":
		args = append(args, "--no-merges")
	case "only":
		args = append(args, "--merges")
	}
	args = append(args, r.RevRange())
	if opts.Path != "" {
		args = append(args, "--", opts.Path)
	}

	out, err := g.run(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("git log %s: %w", r.RevRange(), err)
	}
	return parseLog(out), nil
}

func (g *Git) Remote(ctx context.Context) (string, error) {
	out, err := g.run(ctx, "remote", "get-url", "origin")
	if err != nil {
		// No origin is not an error; callers fall back to other sources.
		return "", nil
	}
	return strings.TrimSpace(out), nil
}

func (g *Git) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", append([]string{"-C", g.Dir}, args...)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%w: %s", err, msg)
		}
		return "", err
	}
	return string(out), nil
}

func parseLog(out string) []Commit {
	var commits []Commit
	for _, rec := range strings.Split(out, recordSep) {
		rec = strings.TrimLeft(rec, "\n")
		if strings.TrimSpace(rec) == "" {
			continue
		}
		parts := strings.SplitN(rec, fieldSep, 5)
		if len(parts) < 4 {
			continue
		}
		c := Commit{
			SHA:     strings.TrimSpace(parts[0]),
			Author:  strings.TrimSpace(parts[1]),
			Subject: strings.TrimSpace(parts[3]),
		}
		c.Date, _ = time.Parse(time.RFC3339, strings.TrimSpace(parts[2]))
		if len(parts) > 4 {
			c.Body = strings.TrimSpace(parts[4])
		}
		commits = append(commits, c)
	}
	return commits
}
