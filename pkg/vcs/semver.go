package vcs

import (
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ParseVersion parses a version tag such as "v1.2.3" or "1.2.3-beta.1".
// Only full major.minor.patch versions are accepted; "v1" or "release-1" are not.
func ParseVersion(tag string) (*semver.Version, bool) {
	v, err := semver.StrictNewVersion(strings.TrimPrefix(tag, "v"))
	if err != nil {
		return nil, false
	}
	return v, true
}

// IsPrerelease reports whether tag carries a pre-release qualifier, e.g. "v2.0.0-beta".
func IsPrerelease(tag string) bool {
	v, ok := ParseVersion(tag)
	if !ok {
		return false
	}
	return v.Prerelease() != ""
}

// VersionTags drops tags that are not semantic versions and sorts the rest
// oldest to newest by version precedence. Equal versions are ordered by name.
func VersionTags(tags []Tag) []Tag {
	out := make([]Tag, 0, len(tags))
	for _, t := range tags {
		v, ok := ParseVersion(t.Name)
		if !ok {
			continue
		}
		t.Version = v
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].Version.Compare(out[j].Version); c != 0 {
			return c < 0
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Ranges pairs each of the newest count tags with its predecessor in the full
// ordering, newest first. sorted must come from VersionTags. count <= 0 keeps all.
func Ranges(sorted []Tag, count int) []Range {
	start := 0
	if count > 0 && count < len(sorted) {
		start = len(sorted) - count
	}

	ranges := make([]Range, 0, len(sorted)-start)
	for i := len(sorted) - 1; i >= start; i-- {
		r := Range{To: sorted[i]}
		if i > 0 {
			prev := sorted[i-1]
			r.From = &prev
		}
		ranges = append(ranges, r)
	}
	return ranges
}
