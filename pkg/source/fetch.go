// Package source fetches the Awesome list README a run starts from.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// repoPattern matches a bare GitHub repository URL: https://github.com/{owner}/{repo}.
var repoPattern = regexp.MustCompile(`^/([^/]+)/([^/]+?)(?:\.git)?/?$`)

var candidateBranches = []string{"main", "master"}
var candidateFilenames = []string{"README.md", "readme.md", "Readme.md"}

// Fetcher downloads the README content for a GitHub repository URL.
type Fetcher struct {
	httpClient *http.Client
	token      string
}

// NewFetcher builds a Fetcher. token may be empty for unauthenticated,
// public-repo-only, lower-rate-limit access.
func NewFetcher(token string) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		token:      token,
	}
}

// FetchReadme downloads the repository's README from raw.githubusercontent.com,
// trying main then master, and a small set of conventional filenames.
func (f *Fetcher) FetchReadme(ctx context.Context, repoURL string) ([]byte, error) {
	owner, repo, err := parseOwnerRepo(repoURL)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for _, branch := range candidateBranches {
		for _, name := range candidateFilenames {
			rawURL := fmt.Sprintf("https://raw.githubusercontent.com/%s/%s/%s/%s", owner, repo, branch, name)
			body, err := f.get(ctx, rawURL)
			if err == nil {
				return body, nil
			}
			lastErr = err
		}
	}
	return nil, fmt.Errorf("source: no README found for %s/%s: %w", owner, repo, lastErr)
}

func (f *Fetcher) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if f.token != "" {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GitHub returned HTTP %d for %s", resp.StatusCode, rawURL)
	}

	return io.ReadAll(resp.Body)
}

func parseOwnerRepo(repoURL string) (owner, repo string, err error) {
	parsed, err := url.Parse(strings.TrimSpace(repoURL))
	if err != nil {
		return "", "", fmt.Errorf("source: malformed repo URL %q: %w", repoURL, err)
	}

	host := strings.ToLower(parsed.Host)
	if host != "github.com" && host != "www.github.com" {
		return "", "", fmt.Errorf("source: %q is not a github.com URL", repoURL)
	}

	matches := repoPattern.FindStringSubmatch(parsed.Path)
	if matches == nil {
		return "", "", fmt.Errorf("source: %q is not a bare GitHub repository URL", repoURL)
	}
	return matches[1], matches[2], nil
}
