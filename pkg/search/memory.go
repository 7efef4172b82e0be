// Package search implements the Search Memory: a process-lifetime,
// in-memory, append-only index of discovered results that prevents
// duplicates and drives query refinement.
package search

import (
	"sync"

	"github.com/rs/zerolog"
)

const topTermsPerCategory = 8

// Memory is the append-only set of discovered results plus the covering
// indexes over that sequence. All mutation goes through Add, which updates
// every index atomically — no caller ever observes a partially indexed
// entry.
type Memory struct {
	mu      sync.Mutex
	logger  zerolog.Logger
	results []Result

	byURL          map[string]int // exact URL -> index into results
	byCanonicalURL map[string]int // canonical URL -> index into results
	byContentHash  map[string]int // content hash -> index into results
	byDomain       map[string][]int
	byCategory     map[string][]int
	bySourceQuery  map[string][]int

	// Learned statistics, updated only on successful Add.
	queryHits    map[string]int             // source query -> acceptance count
	domainCounts map[string]int             // domain -> acceptance count
	domainCats   map[string]map[string]bool // domain -> set of categories seen in
}

// NewMemory creates an empty Search Memory. logger receives one debug
// record per rejected insertion, naming the winning dedup dimension.
func NewMemory(logger zerolog.Logger) *Memory {
	return &Memory{
		logger:         logger,
		byURL:          make(map[string]int),
		byCanonicalURL: make(map[string]int),
		byContentHash:  make(map[string]int),
		byDomain:       make(map[string][]int),
		byCategory:     make(map[string][]int),
		bySourceQuery:  make(map[string][]int),
		queryHits:      make(map[string]int),
		domainCounts:   make(map[string]int),
		domainCats:     make(map[string]map[string]bool),
	}
}

// SeedKnownURLs marks canonical URLs as already known, so that Add and
// IsDuplicate reject their rediscovery exactly as they would an in-memory
// duplicate. Seeded entries carry no Result and never appear in All,
// ByCategory, Summarize, or Export — they exist only in the canonical-URL
// dedup index. Intended for the caller to pre-populate with the canonical
// URLs already present in a list before any search begins.
func (m *Memory) SeedKnownURLs(canonicalURLs []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range canonicalURLs {
		if c == "" {
			continue
		}
		if _, ok := m.byCanonicalURL[c]; !ok {
			m.byCanonicalURL[c] = -1
		}
	}
}

// Add inserts result if it is not a duplicate, updating every index
// atomically. Returns true iff the result was accepted. Dedup is layered:
// exact URL, then canonical URL, then content hash.
func (m *Memory) Add(r Result) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if dim, dup := m.duplicateDimensionLocked(r.URL, r.CanonicalURL, r.ContentHash); dup {
		m.logger.Debug().
			Str("url", r.URL).
			Str("dimension", dim).
			Msg("rejected duplicate")
		return false
	}

	idx := len(m.results)
	m.results = append(m.results, r)

	m.byURL[r.URL] = idx
	m.byCanonicalURL[r.CanonicalURL] = idx
	m.byContentHash[r.ContentHash] = idx
	m.byDomain[r.Domain] = append(m.byDomain[r.Domain], idx)
	m.byCategory[r.Category] = append(m.byCategory[r.Category], idx)
	m.bySourceQuery[r.SourceQuery] = append(m.bySourceQuery[r.SourceQuery], idx)

	m.queryHits[r.SourceQuery]++
	m.domainCounts[r.Domain]++
	if m.domainCats[r.Domain] == nil {
		m.domainCats[r.Domain] = make(map[string]bool)
	}
	m.domainCats[r.Domain][r.Category] = true

	return true
}

// IsDuplicate is the pure-query form of the predicate Add uses internally.
// Computing the same derived fields Add would compute, without committing.
func (m *Memory) IsDuplicate(rawURL, title, description string) bool {
	canon := Canonicalize(rawURL)
	hash := ContentHash(title, description)

	m.mu.Lock()
	defer m.mu.Unlock()
	_, dup := m.duplicateDimensionLocked(rawURL, canon, hash)
	return dup
}

// duplicateDimensionLocked returns the name of the dimension that matched
// (for logging) and whether any dimension matched. Caller holds m.mu.
func (m *Memory) duplicateDimensionLocked(rawURL, canonicalURL, contentHash string) (string, bool) {
	if _, ok := m.byURL[rawURL]; ok {
		return "url", true
	}
	if _, ok := m.byCanonicalURL[canonicalURL]; ok {
		return "canonical_url", true
	}
	if _, ok := m.byContentHash[contentHash]; ok {
		return "content_hash", true
	}
	return "", false
}

// Len returns the number of accepted results. Non-decreasing over the
// lifetime of a Memory.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.results)
}

// All returns a copy of the accepted results in insertion order.
func (m *Memory) All() []Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Result, len(m.results))
	copy(out, m.results)
	return out
}

// ByCategory returns the accepted results for category, in insertion order.
func (m *Memory) ByCategory(category string) []Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	idxs := m.byCategory[category]
	out := make([]Result, len(idxs))
	for i, idx := range idxs {
		out[i] = m.results[idx]
	}
	return out
}

// Gaps computes the current shortfall for category against target, plus
// the domains, topics, and queries already covered.
func (m *Memory) Gaps(category string, target int) Gap {
	m.mu.Lock()
	defer m.mu.Unlock()

	idxs := m.byCategory[category]
	current := len(idxs)
	needed := target - current
	if needed < 0 {
		needed = 0
	}

	domainSet := make(map[string]bool)
	titles := make([]string, 0, len(idxs))
	queries := make([]string, 0)
	seenQuery := make(map[string]bool)
	for _, idx := range idxs {
		r := m.results[idx]
		domainSet[r.Domain] = true
		titles = append(titles, r.Title)
		if !seenQuery[r.SourceQuery] {
			seenQuery[r.SourceQuery] = true
			queries = append(queries, r.SourceQuery)
		}
	}

	domains := make([]string, 0, len(domainSet))
	for d := range domainSet {
		domains = append(domains, d)
	}

	return Gap{
		Category:          category,
		CurrentCount:      current,
		Needed:            needed,
		CoveredDomains:    domains,
		CoveredTopics:     topTerms(titles, topTermsPerCategory),
		SuccessfulQueries: queries,
	}
}

// RefinementHints derives query-avoidance hints for category: domains that
// are overrepresented (more than overrepThreshold entries) and topics
// already covered, so the next round's queries steer away from both.
func (m *Memory) RefinementHints(category string, overrepThreshold int) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	idxs := m.byCategory[category]
	domainCounts := make(map[string]int)
	titles := make([]string, 0, len(idxs))
	for _, idx := range idxs {
		r := m.results[idx]
		domainCounts[r.Domain]++
		titles = append(titles, r.Title)
	}

	hints := make([]string, 0)
	for domain, count := range domainCounts {
		if count > overrepThreshold {
			hints = append(hints, "avoid domain: "+domain)
		}
	}
	for _, topic := range topTerms(titles, topTermsPerCategory) {
		hints = append(hints, "already covered: "+topic)
	}
	return hints
}

// Summary is the reporting view returned by Summarize().
type Summary struct {
	TotalResults int            `json:"total_results"`
	ByCategory   map[string]int `json:"by_category"`
	ByDomain     map[string]int `json:"by_domain"`
	QueryHits    map[string]int `json:"query_hits"`
}

// Summarize returns read-only aggregate counts over the current memory.
func (m *Memory) Summarize() Summary {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.summarizeLocked()
}

// summarizeLocked is Summarize's body for callers that already hold m.mu.
func (m *Memory) summarizeLocked() Summary {
	byCategory := make(map[string]int, len(m.byCategory))
	for cat, idxs := range m.byCategory {
		byCategory[cat] = len(idxs)
	}
	byDomain := make(map[string]int, len(m.domainCounts))
	for d, c := range m.domainCounts {
		byDomain[d] = c
	}
	queryHits := make(map[string]int, len(m.queryHits))
	for q, c := range m.queryHits {
		queryHits[q] = c
	}

	return Summary{
		TotalResults: len(m.results),
		ByCategory:   byCategory,
		ByDomain:     byDomain,
		QueryHits:    queryHits,
	}
}

// ExportView is the on-disk shape of search_memory.json:
// summary, the full result set, and the learned patterns, with all set
// types rendered as arrays/maps for JSON serializability.
type ExportView struct {
	Summary  Summary             `json:"summary"`
	Results  []Result            `json:"results"`
	Patterns map[string][]string `json:"patterns"` // domain -> categories seen in
}

// Export builds the serializable view written to search_memory.json.
func (m *Memory) Export() ExportView {
	m.mu.Lock()
	defer m.mu.Unlock()

	patterns := make(map[string][]string, len(m.domainCats))
	for domain, cats := range m.domainCats {
		list := make([]string, 0, len(cats))
		for cat := range cats {
			list = append(list, cat)
		}
		patterns[domain] = list
	}

	results := make([]Result, len(m.results))
	copy(results, m.results)

	return ExportView{
		Summary:  m.summarizeLocked(),
		Results:  results,
		Patterns: patterns,
	}
}
