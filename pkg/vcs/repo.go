package vcs

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
)

var ErrInvalidRange = errors.New("invalid commit range options")

type Tag struct {
	Name    string
	Commit  string
	Date    time.Time
	Version *semver.Version
}

type Commit struct {
	SHA     string
	Subject string
	Body    string
	Author  string
	Date    time.Time
}

// Range bounds the commits of one release. A nil From means the repository root.
type Range struct {
	From *Tag
	To   Tag
}

// RevRange returns the git revision range, e.g. "v1.0.0..v1.1.0".
func (r Range) RevRange() string {
	if r.From == nil {
		return r.To.Name
	}
	return r.From.Name + ".." + r.To.Name
}

type RangeOptions struct {
	// Path restricts commits to those touching a subdirectory.
	Path string `yaml:"path"`
	// Merges is one of "", "include", "exclude" or "only".
	Merges string `yaml:"merges"`
}

func (o RangeOptions) Validate() error {
	switch o.Merges {
	case "", "include", "exclude", "only":
	default:
		return fmt.Errorf("%w: merges must be include, exclude or only, got %q", ErrInvalidRange, o.Merges)
	}
	if o.Path != "" {
		if path.IsAbs(o.Path) || strings.HasPrefix(o.Path, "/") {
			return fmt.Errorf("%w: path %q must be relative", ErrInvalidRange, o.Path)
		}
		clean := path.Clean(o.Path)
		if clean == ".." || strings.HasPrefix(clean, "../") {
			return fmt.Errorf("%w: path %q escapes the repository", ErrInvalidRange, o.Path)
		}
	}
	return nil
}

type History interface {
	// Tags returns every tag reachable from the current history, in no particular order.
	Tags(ctx context.Context) ([]Tag, error)

	// Commits returns the commits in r, newest first.
	Commits(ctx context.Context, r Range, opts RangeOptions) ([]Commit, error)

	// Remote returns the URL of the upstream repository, or "" if unknown.
	Remote(ctx context.Context) (string, error)
}

type ReleaseRequest struct {
	TagName    string
	Name       string
	Body       string
	Prerelease bool
	Draft      bool
}

type Release struct {
	ID         int64  `json:"id"`
	TagName    string `json:"tag_name"`
	Name       string `json:"name"`
	Body       string `json:"body"`
	HTMLURL    string `json:"html_url"`
	Prerelease bool   `json:"prerelease"`
	Draft      bool   `json:"draft"`
}

type ReleaseCreator interface {
	// CreateRelease publishes one release. It makes a single attempt.
	CreateRelease(ctx context.Context, owner, repo string, req ReleaseRequest) (*Release, error)
}
