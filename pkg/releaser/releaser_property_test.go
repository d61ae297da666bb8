package releaser

import (
	"context"
	"fmt"
	"testing"

	"pgregory.net/rapid"

	"github.com/conventional-github-releaser/pkg/vcs"
)

// genTagNames generates distinct version tags in ascending order.
func genTagNames(t *rapid.T) []string {
	n := rapid.IntRange(1, 8).Draw(t, "n")
	names := make([]string, 0, n)
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("v%d.0.0", i+1)
		if rapid.Bool().Draw(t, fmt.Sprintf("beta_%d", i)) {
			name = fmt.Sprintf("v%d.0.0-beta.%d", i+1, i)
		}
		names = append(names, name)
	}
	return names
}

func TestRun_Property_OutcomesMatchRetainedTags(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		names := genTagNames(rt)
		count := rapid.IntRange(0, 10).Draw(rt, "count")

		// Feed the tags in a shuffled order; the releaser must sort them.
		shuffled := rapid.Permutation(names).Draw(rt, "shuffled")
		host := newFakeHost()
		r, err := New(testConfig, historyWithTags(shuffled...), host)
		if err != nil {
			rt.Fatalf("New: %v", err)
		}

		outcomes, err := r.Run(context.Background(), Options{ReleaseCount: count})
		if err != nil {
			rt.Fatalf("Run: %v", err)
		}

		want := len(names)
		if count > 0 && count < want {
			want = count
		}
		if len(outcomes) != want {
			rt.Fatalf("got %d outcomes, want %d", len(outcomes), want)
		}
		for i, o := range outcomes {
			tag := names[len(names)-1-i]
			if o.Tag != tag {
				rt.Fatalf("outcome %d is %s, want %s", i, o.Tag, tag)
			}
			if o.State != Fulfilled {
				rt.Fatalf("outcome %d rejected: %v", i, o.Reason)
			}
			if o.Value.Prerelease != vcs.IsPrerelease(tag) {
				rt.Fatalf("%s prerelease = %v", tag, o.Value.Prerelease)
			}
		}
	})
}
