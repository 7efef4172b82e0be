package llmprovider

import "context"

// FakeSearcher is a scripted Searcher for tests, keyed by query string.
type FakeSearcher struct {
	Responses map[string]SearchOutput
	Calls     []string
}

func (f *FakeSearcher) Search(_ context.Context, _ string, query string, _ int) (SearchOutput, error) {
	f.Calls = append(f.Calls, query)
	return f.Responses[query], nil
}
