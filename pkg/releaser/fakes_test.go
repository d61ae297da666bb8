package releaser

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/conventional-github-releaser/pkg/vcs"
)

type fakeHistory struct {
	tags    []vcs.Tag
	commits map[string][]vcs.Commit // keyed by the range's upper tag
	remote  string
	tagsErr error

	mu    sync.Mutex
	calls int
}

func (h *fakeHistory) Tags(ctx context.Context) ([]vcs.Tag, error) {
	h.mu.Lock()
	h.calls++
	h.mu.Unlock()
	return h.tags, h.tagsErr
}

func (h *fakeHistory) Commits(ctx context.Context, r vcs.Range, opts vcs.RangeOptions) ([]vcs.Commit, error) {
	h.mu.Lock()
	h.calls++
	h.mu.Unlock()
	return h.commits[r.To.Name], nil
}

func (h *fakeHistory) Remote(ctx context.Context) (string, error) {
	return h.remote, nil
}

func (h *fakeHistory) callCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.calls
}

// historyWithTags builds a history where every tag has one commit whose
// subject names the tag.
func historyWithTags(names ...string) *fakeHistory {
	h := &fakeHistory{commits: make(map[string][]vcs.Commit), remote: "https://github.com/octo/demo.git"}
	for i, n := range names {
		h.tags = append(h.tags, vcs.Tag{Name: n, Date: time.Date(2024, 1, i+1, 0, 0, 0, 0, time.UTC)})
		h.commits[n] = []vcs.Commit{{SHA: fmt.Sprintf("%040d", i+1), Subject: "feat: work for " + n}}
	}
	return h
}

// fakeHost mimics the release endpoint of a hosting API. It remembers
// created tags and rejects duplicates the way GitHub does.
type fakeHost struct {
	mu       sync.Mutex
	releases map[string]*vcs.Release
	requests []vcs.ReleaseRequest
	nextID   int64

	// hook, when set, runs before each request is handled.
	hook func(req vcs.ReleaseRequest) error
}

func newFakeHost() *fakeHost {
	return &fakeHost{releases: make(map[string]*vcs.Release)}
}

func (f *fakeHost) CreateRelease(ctx context.Context, owner, repo string, req vcs.ReleaseRequest) (*vcs.Release, error) {
	if f.hook != nil {
		if err := f.hook(req); err != nil {
			return nil, err
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if _, ok := f.releases[req.TagName]; ok {
		return nil, fmt.Errorf("create release %s for %s/%s: POST https://api.github.com/repos/%s/%s/releases: 422 Validation Failed [{Resource:Release Field:tag_name Code:already_exists Message:}]",
			req.TagName, owner, repo, owner, repo)
	}
	f.nextID++
	rel := &vcs.Release{
		ID:         f.nextID,
		TagName:    req.TagName,
		Name:       req.Name,
		Body:       req.Body,
		Prerelease: req.Prerelease,
		Draft:      req.Draft,
		HTMLURL:    fmt.Sprintf("https://github.com/%s/%s/releases/tag/%s", owner, repo, req.TagName),
	}
	f.releases[req.TagName] = rel
	return rel, nil
}

func (f *fakeHost) release(tag string) *vcs.Release {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.releases[tag]
}

func (f *fakeHost) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func outcomeTags(outcomes []Outcome) string {
	tags := make([]string, len(outcomes))
	for i, o := range outcomes {
		tags[i] = o.Tag
	}
	return strings.Join(tags, ",")
}

var testConfig = Config{Auth: &Auth{Type: "oauth", Token: "secret"}}
