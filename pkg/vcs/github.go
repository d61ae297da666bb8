package vcs

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v60/github"
)

// GitHubClient talks to github.com or a GitHub Enterprise host. It creates
// releases and can also serve as a History when no local clone is available.
type GitHubClient struct {
	client *github.Client
	owner  string
	repo   string
}

// NewClient builds an authenticated client. A non-empty host points it at a
// GitHub Enterprise installation instead of api.github.com.
func NewClient(token, host string) (*github.Client, error) {
	client := github.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	if host == "" {
		return client, nil
	}
	if !strings.Contains(host, "://") {
		host = "https://" + host
	}
	client, err := client.WithEnterpriseURLs(host, host)
	if err != nil {
		return nil, fmt.Errorf("configure host %s: %w", host, err)
	}
	return client, nil
}

func NewGitHubClient(client *github.Client) *GitHubClient {
	return &GitHubClient{client: client}
}

// ForRepo returns a copy bound to owner/repo, which the History methods need.
func (g *GitHubClient) ForRepo(owner, repo string) *GitHubClient {
	return &GitHubClient{client: g.client, owner: owner, repo: repo}
}

func (g *GitHubClient) CreateRelease(ctx context.Context, owner, repo string, req ReleaseRequest) (*Release, error) {
	rel, _, err := g.client.Repositories.CreateRelease(ctx, owner, repo, &github.RepositoryRelease{
		TagName:    github.String(req.TagName),
		Name:       github.String(req.Name),
		Body:       github.String(req.Body),
		Prerelease: github.Bool(req.Prerelease),
		Draft:      github.Bool(req.Draft),
	})
	if err != nil {
		return nil, fmt.Errorf("create release %s for %s/%s: %w", req.TagName, owner, repo, err)
	}
	return toRelease(rel), nil
}

func (g *GitHubClient) ListTags(ctx context.Context, owner, repo string) ([]Tag, error) {
	var allTags []Tag
	opts := &github.ListOptions{PerPage: 100}

	for {
		tags, resp, err := g.client.Repositories.ListTags(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("list tags for %s/%s: %w", owner, repo, err)
		}
		for _, t := range tags {
			allTags = append(allTags, Tag{
				Name:   t.GetName(),
				Commit: t.GetCommit().GetSHA(),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return allTags, nil
}

func (g *GitHubClient) Tags(ctx context.Context) ([]Tag, error) {
	if err := g.requireRepo(); err != nil {
		return nil, err
	}
	return g.ListTags(ctx, g.owner, g.repo)
}

// Commits reads the range through the compare API, or the commit list for a
// range that starts at the repository root. Merges filtering uses parent counts.
func (g *GitHubClient) Commits(ctx context.Context, r Range, opts RangeOptions) ([]Commit, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := g.requireRepo(); err != nil {
		return nil, err
	}

	var raw []*github.RepositoryCommit
	if r.From == nil {
		listOpts := &github.CommitsListOptions{
			SHA:         r.To.Name,
			Path:        opts.Path,
			ListOptions: github.ListOptions{PerPage: 100},
		}
		for {
			page, resp, err := g.client.Repositories.ListCommits(ctx, g.owner, g.repo, listOpts)
			if err != nil {
				return nil, fmt.Errorf("list commits %s in %s/%s: %w", r.RevRange(), g.owner, g.repo, err)
			}
			raw = append(raw, page...)
			if resp.NextPage == 0 {
				break
			}
			listOpts.Page = resp.NextPage
		}
	} else {
		listOpts := &github.ListOptions{PerPage: 100}
		for {
			comparison, resp, err := g.client.Repositories.CompareCommits(ctx, g.owner, g.repo, r.From.Name, r.To.Name, listOpts)
			if err != nil {
				return nil, fmt.Errorf("compare %s in %s/%s: %w", r.RevRange(), g.owner, g.repo, err)
			}
			// The compare API lists oldest first.
			for i := len(comparison.Commits) - 1; i >= 0; i-- {
				raw = append(raw, comparison.Commits[i])
			}
			if resp.NextPage == 0 {
				break
			}
			listOpts.Page = resp.NextPage
		}
	}

	commits := make([]Commit, 0, len(raw))
	for _, rc := range raw {
		merge := len(rc.Parents) > 1
		if (opts.Merges == "exclude" && merge) || (opts.Merges == "only" && !merge) {
			continue
		}
		commits = append(commits, fromRepositoryCommit(rc))
	}
	return commits, nil
}

func (g *GitHubClient) Remote(ctx context.Context) (string, error) {
	if g.owner == "" || g.repo == "" {
		return "", nil
	}
	return fmt.Sprintf("github.com/%s/%s", g.owner, g.repo), nil
}

func (g *GitHubClient) requireRepo() error {
	if g.owner == "" || g.repo == "" {
		return fmt.Errorf("github history needs an owner and repo")
	}
	return nil
}

func fromRepositoryCommit(rc *github.RepositoryCommit) Commit {
	msg := rc.GetCommit().GetMessage()
	subject, body, _ := strings.Cut(msg, "\n")
	c := Commit{
		SHA:     rc.GetSHA(),
		Subject: strings.TrimSpace(subject),
		Body:    strings.TrimSpace(body),
		Author:  rc.GetCommit().GetAuthor().GetName(),
	}
	if d := rc.GetCommit().GetCommitter().GetDate(); !d.IsZero() {
		c.Date = d.Time
	}
	return c
}

func toRelease(rel *github.RepositoryRelease) *Release {
	return &Release{
		ID:         rel.GetID(),
		TagName:    rel.GetTagName(),
		Name:       rel.GetName(),
		Body:       rel.GetBody(),
		HTMLURL:    rel.GetHTMLURL(),
		Prerelease: rel.GetPrerelease(),
		Draft:      rel.GetDraft(),
	}
}

func ParseGitHubRepo(repoURL string) (owner, repo string, err error) {
	raw := repoURL
	repoURL = strings.TrimPrefix(repoURL, "git+")
	repoURL = strings.TrimPrefix(repoURL, "https://")
	repoURL = strings.TrimPrefix(repoURL, "http://")
	repoURL = strings.TrimPrefix(repoURL, "git://")
	repoURL = strings.TrimPrefix(repoURL, "ssh://")
	repoURL = strings.TrimPrefix(repoURL, "git@")
	repoURL = strings.TrimPrefix(repoURL, "github:")
	// Drop the host, which may use "host:owner/repo" scp syntax.
	if i := strings.IndexAny(repoURL, ":/"); i >= 0 && strings.Contains(repoURL[:i], ".") {
		repoURL = repoURL[i+1:]
	}
	repoURL = strings.TrimSuffix(repoURL, "/")
	repoURL = strings.TrimSuffix(repoURL, ".git")

	parts := strings.SplitN(repoURL, "/", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("cannot parse GitHub repo from %q", raw)
	}
	return parts[0], parts[1], nil
}
