package changelog

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/conventional-github-releaser/pkg/vcs"
)

// ParsedCommit is a commit split into its conventional-commit parts.
type ParsedCommit struct {
	vcs.Commit
	Type       string
	Scope      string
	Subject    string
	Breaking   []string
	References []int
}

var (
	referencePattern = regexp.MustCompile(`#(\d+)\b`)
	breakingPrefixes = []string{"BREAKING CHANGE:", "BREAKING-CHANGE:", "BREAKING CHANGES:"}
)

// parseWith splits c using a header pattern with named groups type, scope,
// breaking and subject. Commits that do not match keep their whole subject.
func parseWith(header *regexp.Regexp, c vcs.Commit) ParsedCommit {
	p := ParsedCommit{Commit: c, Subject: c.Subject}

	if m := header.FindStringSubmatch(c.Subject); m != nil {
		p.Type = group(header, m, "type")
		p.Scope = group(header, m, "scope")
		p.Subject = group(header, m, "subject")
		if group(header, m, "breaking") == "!" {
			p.Breaking = append(p.Breaking, p.Subject)
		}
	}

	p.Breaking = append(p.Breaking, breakingNotes(c.Body)...)
	p.References = references(c.Subject + "\n" + c.Body)
	return p
}

func group(re *regexp.Regexp, m []string, name string) string {
	i := re.SubexpIndex(name)
	if i < 0 || i >= len(m) {
		return ""
	}
	return strings.TrimSpace(m[i])
}

// breakingNotes collects the paragraph that follows each BREAKING CHANGE footer.
func breakingNotes(body string) []string {
	var notes []string
	lines := strings.Split(body, "\n")
	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		for _, prefix := range breakingPrefixes {
			if !strings.HasPrefix(line, prefix) {
				continue
			}
			note := []string{strings.TrimSpace(strings.TrimPrefix(line, prefix))}
			for i+1 < len(lines) && strings.TrimSpace(lines[i+1]) != "" {
				i++
				note = append(note, strings.TrimSpace(lines[i]))
			}
			if text := strings.TrimSpace(strings.Join(note, " ")); text != "" {
				notes = append(notes, text)
			}
			break
		}
	}
	return notes
}

func references(text string) []int {
	seen := make(map[int]bool)
	var refs []int
	for _, m := range referencePattern.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil || seen[n] {
			continue
		}
		seen[n] = true
		refs = append(refs, n)
	}
	return refs
}
