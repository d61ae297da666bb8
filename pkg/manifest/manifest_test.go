package manifest

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "package.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestLoadRepositoryForms(t *testing.T) {
	tests := []struct {
		name     string
		json     string
		wantRepo string
	}{
		{"object form", `{"name": "demo", "version": "1.0.0", "repository": {"type": "git", "url": "git+https://github.com/octo/demo.git"}}`, "github.com/octo/demo"},
		{"string url", `{"name": "demo", "repository": "https://github.com/octo/demo"}`, "github.com/octo/demo"},
		{"shorthand", `{"name": "demo", "repository": "octo/demo"}`, "github.com/octo/demo"},
		{"github shorthand", `{"name": "demo", "repository": "github:octo/demo"}`, "github.com/octo/demo"},
		{"scp style", `{"name": "demo", "repository": "git@github.com:octo/demo.git"}`, "github.com/octo/demo"},
		{"missing", `{"name": "demo", "version": "0.0.1"}`, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m, err := Load(writeManifest(t, tc.json))
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if m.Repository != tc.wantRepo {
				t.Fatalf("Repository = %q, want %q", m.Repository, tc.wantRepo)
			}
		})
	}
}

func TestOwnerRepo(t *testing.T) {
	m, err := Load(writeManifest(t, `{"name": "demo", "version": "1.2.3", "repository": {"url": "https://github.com/octo/demo.git"}}`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Name != "demo" || m.Version != "1.2.3" {
		t.Fatalf("unexpected manifest: %+v", m)
	}
	owner, repo, err := m.OwnerRepo()
	if err != nil || owner != "octo" || repo != "demo" {
		t.Fatalf("OwnerRepo() = %q, %q, %v", owner, repo, err)
	}

	empty := &Manifest{Name: "demo"}
	if _, _, err := empty.OwnerRepo(); err == nil {
		t.Fatalf("expected error for a manifest without repository")
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for a missing file")
	}
	if _, err := Load(writeManifest(t, `{not json`)); err == nil {
		t.Fatalf("expected error for invalid JSON")
	}
	if _, err := Load(writeManifest(t, `{"repository": 42}`)); err == nil {
		t.Fatalf("expected error for a numeric repository")
	}
}
