// Package releaser turns version tags into GitHub releases: one release per
// tag, with notes generated from the commits since the previous tag.
package releaser

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/conventional-github-releaser/pkg/changelog"
	"github.com/conventional-github-releaser/pkg/logging"
	"github.com/conventional-github-releaser/pkg/manifest"
	"github.com/conventional-github-releaser/pkg/vcs"
)

var (
	ErrNoAuth       = errors.New("expected a config object with auth credentials")
	ErrNoCallback   = errors.New("expected a callback")
	ErrNoVersion    = errors.New("no version found")
	ErrNoRepository = errors.New("cannot determine the repository to release")
)

const defaultWebHost = "https://github.com"

type Releaser struct {
	config  Config
	history vcs.History
	creator vcs.ReleaseCreator
	log     *logging.Logger
}

// New checks the configuration and binds the collaborators. It fails with
// ErrNoAuth before any collaborator is used.
func New(cfg Config, history vcs.History, creator vcs.ReleaseCreator) (*Releaser, error) {
	if err := validateAuth(cfg.Auth); err != nil {
		return nil, err
	}
	if history == nil || creator == nil {
		return nil, fmt.Errorf("releaser needs a history and a release creator")
	}
	return &Releaser{
		config:  cfg,
		history: history,
		creator: creator,
	}, nil
}

// NewGitHub releases tags from the local clone in dir to GitHub, or to the
// host in cfg.GitHub when set.
func NewGitHub(cfg Config, dir string) (*Releaser, error) {
	if err := validateAuth(cfg.Auth); err != nil {
		return nil, err
	}
	client, err := vcs.NewClient(cfg.Auth.Token, cfg.host())
	if err != nil {
		return nil, err
	}
	return New(cfg, vcs.NewGit(dir), vcs.NewGitHubClient(client))
}

func validateAuth(auth *Auth) error {
	if auth == nil || auth.Token == "" {
		return ErrNoAuth
	}
	switch auth.Type {
	case "", "oauth", "token":
		return nil
	default:
		return fmt.Errorf("%w: unsupported auth type %q", ErrNoAuth, auth.Type)
	}
}

func (c Config) host() string {
	if c.GitHub == nil {
		return ""
	}
	return c.GitHub.Host
}

// WithLogger sets the logger used for progress messages.
func (r *Releaser) WithLogger(l *logging.Logger) *Releaser {
	r.log = l
	return r
}

// Release runs the batch and hands the result to done exactly once. A nil
// done is a usage error and nothing is run.
func (r *Releaser) Release(ctx context.Context, opts Options, done Callback) error {
	if done == nil {
		return ErrNoCallback
	}
	outcomes, err := r.Run(ctx, opts)
	done(err, outcomes)
	return nil
}

// Run publishes one release per retained tag, newest first. The error is
// non-nil only when nothing could be attempted; failures of individual
// releases are reported as rejected outcomes.
func (r *Releaser) Run(ctx context.Context, opts Options) ([]Outcome, error) {
	if err := opts.Range.Validate(); err != nil {
		return nil, err
	}

	tags, err := r.history.Tags(ctx)
	if err != nil {
		return nil, err
	}
	sorted := vcs.VersionTags(tags)
	if len(sorted) == 0 {
		return nil, ErrNoVersion
	}
	ranges := vcs.Ranges(sorted, opts.ReleaseCount)
	r.log.Debugf("found %d version tags, releasing %d", len(sorted), len(ranges))

	owner, repo, err := r.resolveRepo(ctx, opts)
	if err != nil {
		return nil, err
	}

	gen, err := changelog.NewGenerator(r.history, opts.Preset, opts.HeaderTemplate, changelog.Context{
		Host:  r.webHost(),
		Owner: owner,
		Repo:  repo,
	})
	if err != nil {
		return nil, err
	}

	reqs := make([]vcs.ReleaseRequest, 0, len(ranges))
	for _, rg := range ranges {
		body, err := gen.Generate(ctx, rg, opts.Range)
		if err != nil {
			return nil, fmt.Errorf("generate changelog for %s: %w", rg.To.Name, err)
		}
		reqs = append(reqs, vcs.ReleaseRequest{
			TagName:    rg.To.Name,
			Name:       rg.To.Name,
			Body:       body,
			Prerelease: vcs.IsPrerelease(rg.To.Name),
			Draft:      opts.Draft,
		})
	}

	return r.publish(ctx, owner, repo, reqs), nil
}

// publish issues every request at once and returns the outcomes in request
// order, whatever order the responses arrive in.
func (r *Releaser) publish(ctx context.Context, owner, repo string, reqs []vcs.ReleaseRequest) []Outcome {
	outcomes := make([]Outcome, len(reqs))

	var g errgroup.Group
	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			rel, err := r.creator.CreateRelease(ctx, owner, repo, req)
			if err != nil {
				r.log.Debugf("release %s rejected: %v", req.TagName, err)
				outcomes[i] = Outcome{Tag: req.TagName, State: Rejected, Reason: err}
				return nil
			}
			r.log.Debugf("release %s created (prerelease=%t)", req.TagName, req.Prerelease)
			outcomes[i] = Outcome{Tag: req.TagName, State: Fulfilled, Value: rel}
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

// resolveRepo picks the target repository from explicit options, then the
// manifest, then the history's upstream remote.
func (r *Releaser) resolveRepo(ctx context.Context, opts Options) (string, string, error) {
	if opts.Owner != "" && opts.Repo != "" {
		return opts.Owner, opts.Repo, nil
	}

	if opts.Pkg != nil && opts.Pkg.Path != "" {
		m, err := manifest.Load(opts.Pkg.Path)
		if err != nil {
			return "", "", err
		}
		if m.Repository != "" {
			return m.OwnerRepo()
		}
		r.log.Debugf("manifest %s has no repository, falling back to git remote", opts.Pkg.Path)
	}

	remote, err := r.history.Remote(ctx)
	if err != nil {
		return "", "", err
	}
	if remote == "" {
		return "", "", ErrNoRepository
	}
	owner, repo, err := vcs.ParseGitHubRepo(remote)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrNoRepository, err)
	}
	return owner, repo, nil
}

func (r *Releaser) webHost() string {
	host := r.config.host()
	if host == "" {
		return defaultWebHost
	}
	if !strings.Contains(host, "://") {
		host = "https://" + host
	}
	return strings.TrimSuffix(host, "/")
}
