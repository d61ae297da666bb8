// Package manifest reads the parts of a package.json that matter for
// publishing releases: the package name, its version and its repository.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/conventional-github-releaser/pkg/vcs"
)

type Manifest struct {
	Name       string
	Version    string
	Repository string // normalized, e.g. "github.com/owner/repo"
}

func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var pkg struct {
		Name       string          `json:"name"`
		Version    string          `json:"version"`
		Repository json.RawMessage `json:"repository"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}

	m := &Manifest{Name: pkg.Name, Version: pkg.Version}
	if len(pkg.Repository) > 0 {
		repo, err := repositoryURL(pkg.Repository)
		if err != nil {
			return nil, fmt.Errorf("parse manifest %s: %w", path, err)
		}
		m.Repository = normalizeGitURL(repo)
	}
	return m, nil
}

// OwnerRepo splits the repository into GitHub coordinates.
func (m *Manifest) OwnerRepo() (string, string, error) {
	if m.Repository == "" {
		return "", "", fmt.Errorf("manifest for %q has no repository", m.Name)
	}
	return vcs.ParseGitHubRepo(m.Repository)
}

// repositoryURL accepts both forms npm allows: a plain string or {type, url}.
func repositoryURL(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var obj struct {
		Type string `json:"type"`
		URL  string `json:"url"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", fmt.Errorf("repository must be a string or an object with a url")
	}
	return obj.URL, nil
}

func normalizeGitURL(raw string) string {
	raw = strings.TrimSpace(raw)
	// npm shorthand: "github:owner/repo" or bare "owner/repo".
	if rest, ok := strings.CutPrefix(raw, "github:"); ok {
		return "github.com/" + rest
	}
	if !strings.Contains(raw, ":") && strings.Count(raw, "/") == 1 {
		return "github.com/" + raw
	}
	raw = strings.TrimPrefix(raw, "git+")
	raw = strings.TrimPrefix(raw, "git://")
	raw = strings.TrimPrefix(raw, "ssh://")
	raw = strings.TrimPrefix(raw, "git@")
	raw = strings.TrimSuffix(raw, ".git")
	raw = strings.TrimPrefix(raw, "https://")
	raw = strings.TrimPrefix(raw, "http://")
	// scp-like "github.com:owner/repo"
	if host, path, ok := strings.Cut(raw, ":"); ok && strings.Contains(host, ".") && !strings.Contains(host, "/") {
		raw = host + "/" + path
	}
	return raw
}
