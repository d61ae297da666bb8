package vcs

import (
	"reflect"
	"testing"
)

func TestIsPrerelease(t *testing.T) {
	tests := []struct {
		tag  string
		want bool
	}{
		{"v2.0.0-beta", true},
		{"2.0.0-rc.1", true},
		{"v1.0.0-alpha+build.5", true},
		{"v2.0.0", false},
		{"1.2.3+build.7", false},
		{"release-1", false},
		{"v1.2", false},
	}

	for _, tc := range tests {
		if got := IsPrerelease(tc.tag); got != tc.want {
			t.Errorf("IsPrerelease(%q) = %v, want %v", tc.tag, got, tc.want)
		}
	}
}

func TestParseVersionRejectsPartialVersions(t *testing.T) {
	for _, tag := range []string{"v1", "1.2", "latest", "vv1.0.0", ""} {
		if _, ok := ParseVersion(tag); ok {
			t.Errorf("ParseVersion(%q) accepted a non-semver tag", tag)
		}
	}
	if _, ok := ParseVersion("v10.20.30"); !ok {
		t.Errorf("ParseVersion rejected v10.20.30")
	}
}

func tagNames(tags []Tag) []string {
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.Name
	}
	return names
}

func TestVersionTagsSortsBySemverPrecedence(t *testing.T) {
	in := []Tag{
		{Name: "v10.0.0"},
		{Name: "v2.0.0"},
		{Name: "not-a-version"},
		{Name: "v2.0.0-beta"},
		{Name: "v2.0.0-alpha"},
		{Name: "v1.0.0"},
		{Name: "v1.10.0"},
		{Name: "v1.9.0"},
	}

	got := tagNames(VersionTags(in))
	want := []string{"v1.0.0", "v1.9.0", "v1.10.0", "v2.0.0-alpha", "v2.0.0-beta", "v2.0.0", "v10.0.0"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("VersionTags order = %v, want %v", got, want)
	}
}

func TestVersionTagsSetsVersion(t *testing.T) {
	tags := VersionTags([]Tag{{Name: "v1.2.3"}})
	if len(tags) != 1 || tags[0].Version == nil {
		t.Fatalf("expected parsed version, got %+v", tags)
	}
	if tags[0].Version.String() != "1.2.3" {
		t.Fatalf("Version = %s, want 1.2.3", tags[0].Version)
	}
}

func TestRanges(t *testing.T) {
	sorted := VersionTags([]Tag{{Name: "v1.0.0"}, {Name: "v2.0.0"}, {Name: "v3.0.0"}, {Name: "v4.0.0"}})

	t.Run("count limits to newest tags", func(t *testing.T) {
		ranges := Ranges(sorted, 2)
		if len(ranges) != 2 {
			t.Fatalf("expected 2 ranges, got %d", len(ranges))
		}
		if ranges[0].RevRange() != "v3.0.0..v4.0.0" || ranges[1].RevRange() != "v2.0.0..v3.0.0" {
			t.Fatalf("unexpected ranges: %s, %s", ranges[0].RevRange(), ranges[1].RevRange())
		}
	})

	t.Run("zero keeps all tags", func(t *testing.T) {
		ranges := Ranges(sorted, 0)
		if len(ranges) != 4 {
			t.Fatalf("expected 4 ranges, got %d", len(ranges))
		}
		oldest := ranges[len(ranges)-1]
		if oldest.From != nil || oldest.RevRange() != "v1.0.0" {
			t.Fatalf("oldest tag should start at the root, got %q", oldest.RevRange())
		}
	})

	t.Run("count above tag total keeps all", func(t *testing.T) {
		if n := len(Ranges(sorted, 10)); n != 4 {
			t.Fatalf("expected 4 ranges, got %d", n)
		}
	})

	t.Run("predecessor comes from the full list", func(t *testing.T) {
		ranges := Ranges(sorted, 1)
		if ranges[0].From == nil || ranges[0].From.Name != "v3.0.0" {
			t.Fatalf("expected v3.0.0 as predecessor, got %+v", ranges[0].From)
		}
	})

	t.Run("no tags", func(t *testing.T) {
		if n := len(Ranges(nil, 0)); n != 0 {
			t.Fatalf("expected no ranges, got %d", n)
		}
	})
}
