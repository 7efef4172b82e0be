package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOwnerRepo(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantOwner string
		wantRepo  string
		wantErr   bool
	}{
		{
			name:      "bare repo URL",
			input:     "https://github.com/sindresorhus/awesome",
			wantOwner: "sindresorhus",
			wantRepo:  "awesome",
		},
		{
			name:      "trailing slash is tolerated",
			input:     "https://github.com/sindresorhus/awesome/",
			wantOwner: "sindresorhus",
			wantRepo:  "awesome",
		},
		{
			name:      "dot-git suffix is stripped",
			input:     "https://github.com/sindresorhus/awesome.git",
			wantOwner: "sindresorhus",
			wantRepo:  "awesome",
		},
		{
			name:    "blob URL with a path is rejected",
			input:   "https://github.com/sindresorhus/awesome/blob/main/readme.md",
			wantErr: true,
		},
		{
			name:    "non-GitHub host is rejected",
			input:   "https://example.com/owner/repo",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, repo, err := parseOwnerRepo(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOwner, owner)
			assert.Equal(t, tt.wantRepo, repo)
		})
	}
}
