package search

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMemory() *Memory {
	return NewMemory(zerolog.Nop())
}

func TestAdd_RejectsExactURLDuplicate(t *testing.T) {
	m := newTestMemory()
	r := NewResult("https://example.com/tool", "Tool", "A tool", "CLI", "q1", time.Now())

	require.True(t, m.Add(r))
	require.False(t, m.Add(r))
	assert.Equal(t, 1, m.Len())
}

func TestAdd_RejectsCanonicalURLDuplicate(t *testing.T) {
	m := newTestMemory()
	a := NewResult("https://www.example.com/tool/", "Tool", "A tool", "CLI", "q1", time.Now())
	b := NewResult("https://example.com/tool", "Tool (mirror)", "A tool, mirrored", "CLI", "q2", time.Now())

	require.True(t, m.Add(a))
	require.False(t, m.Add(b), "same canonical URL must be rejected even with different title/query")
	assert.Equal(t, 1, m.Len())
}

func TestAdd_RejectsContentHashDuplicate(t *testing.T) {
	m := newTestMemory()
	a := NewResult("https://example.com/a", "Great Tool", "Does things", "CLI", "q1", time.Now())
	b := NewResult("https://mirror.example.net/a", "Great Tool", "Does things", "CLI", "q2", time.Now())

	require.True(t, m.Add(a))
	require.False(t, m.Add(b), "identical title+description from a different URL must be rejected")
	assert.Equal(t, 1, m.Len())
}

func TestAdd_AcceptsDistinctResults(t *testing.T) {
	m := newTestMemory()
	a := NewResult("https://example.com/a", "Tool A", "Does A", "CLI", "q1", time.Now())
	b := NewResult("https://example.com/b", "Tool B", "Does B", "CLI", "q1", time.Now())

	require.True(t, m.Add(a))
	require.True(t, m.Add(b))
	assert.Equal(t, 2, m.Len())
}

func TestIsDuplicate_MatchesAddPredicateWithoutCommitting(t *testing.T) {
	m := newTestMemory()
	a := NewResult("https://example.com/a", "Tool A", "Does A", "CLI", "q1", time.Now())
	require.True(t, m.Add(a))

	assert.True(t, m.IsDuplicate("https://example.com/a", "Tool A", "Does A"))
	assert.True(t, m.IsDuplicate("https://www.example.com/a/", "anything", "anything else"))
	assert.False(t, m.IsDuplicate("https://example.com/z", "Tool Z", "Does Z"))
	assert.Equal(t, 1, m.Len(), "IsDuplicate must not mutate memory")
}

func TestCanonicalize_IsIdempotent(t *testing.T) {
	inputs := []string{
		"https://WWW.Example.com/Path/",
		"http://example.com/path?x=1#frag",
		"https://example.com",
	}
	for _, in := range inputs {
		once := Canonicalize(in)
		twice := Canonicalize(once)
		assert.Equal(t, once, twice, "canonicalization must be idempotent for %q", in)
	}
}

func TestLen_IsNonDecreasing(t *testing.T) {
	m := newTestMemory()
	prev := m.Len()
	urls := []string{"https://example.com/a", "https://example.com/a", "https://example.com/b"}
	for _, u := range urls {
		m.Add(NewResult(u, "t", "d", "CLI", "q", time.Now()))
		cur := m.Len()
		assert.GreaterOrEqual(t, cur, prev)
		prev = cur
	}
}

func TestGaps_ReflectsCurrentCategoryState(t *testing.T) {
	m := newTestMemory()
	m.Add(NewResult("https://a.com/1", "Logging Tool One", "does logging", "Observability", "q1", time.Now()))
	m.Add(NewResult("https://b.com/1", "Logging Tool Two", "does logging also", "Observability", "q2", time.Now()))

	gap := m.Gaps("Observability", 5)
	assert.Equal(t, 2, gap.CurrentCount)
	assert.Equal(t, 3, gap.Needed)
	assert.ElementsMatch(t, []string{"a.com", "b.com"}, gap.CoveredDomains)
	assert.Contains(t, gap.CoveredTopics, "logging")

	full := m.Gaps("Observability", 2)
	assert.Equal(t, 0, full.Needed, "needed floors at zero once target is met")
}

func TestRefinementHints_FlagsOverrepresentedDomains(t *testing.T) {
	m := newTestMemory()
	for i := 0; i < 4; i++ {
		m.Add(NewResult(
			"https://heavy.example.com/"+string(rune('a'+i)),
			"Dup-ish Tool "+string(rune('a'+i)),
			"description "+string(rune('a'+i)),
			"CLI",
			"q1",
			time.Now(),
		))
	}

	hints := m.RefinementHints("CLI", 3)
	found := false
	for _, h := range hints {
		if h == "avoid domain: heavy.example.com" {
			found = true
		}
	}
	assert.True(t, found, "a domain with more than threshold entries should be flagged")
}

func TestSeedKnownURLs_RejectsRediscoveryUnderAnyQuery(t *testing.T) {
	m := newTestMemory()
	m.SeedKnownURLs([]string{Canonicalize("https://www.example.com/existing/")})

	rediscovered := NewResult("https://example.com/existing", "Existing (found again)", "a fresh writeup", "CLI", "q-new", time.Now())
	assert.False(t, m.Add(rediscovered), "a seeded canonical URL must be rejected even from a new query with new title/description")
	assert.Equal(t, 0, m.Len(), "seeding must not itself count as a result")

	fresh := NewResult("https://example.com/new-tool", "New Tool", "not seen before", "CLI", "q-new", time.Now())
	assert.True(t, m.Add(fresh))
	assert.Equal(t, 1, m.Len())
}

func TestExport_DoesNotDeadlock(t *testing.T) {
	m := newTestMemory()
	m.Add(NewResult("https://a.com/1", "T1", "D1", "CLI", "q1", time.Now()))

	done := make(chan struct{})
	go func() {
		m.Export()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Export deadlocked")
	}
}

func TestExport_PatternsTrackDomainToCategoryMembership(t *testing.T) {
	m := newTestMemory()
	m.Add(NewResult("https://a.com/1", "T1", "D1", "CLI", "q1", time.Now()))
	m.Add(NewResult("https://a.com/2", "T2", "D2", "Observability", "q1", time.Now()))

	view := m.Export()
	assert.ElementsMatch(t, []string{"CLI", "Observability"}, view.Patterns["a.com"])
	assert.Equal(t, 2, view.Summary.TotalResults)
	assert.Equal(t, 1, view.Summary.ByCategory["CLI"])
}
