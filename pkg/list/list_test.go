package list

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleList = `# Awesome Go Logging

## Structured Logging

- [zerolog](https://github.com/rs/zerolog) - Zero-allocation JSON logger.
- [zap](https://github.com/uber-go/zap) - Blazing fast, structured logging.

## Testing

- [testify](https://github.com/stretchr/testify) - Toolkit with assertions and mocks.
`

func TestParse_ExtractsCategoriesAndEntries(t *testing.T) {
	l, err := Parse([]byte(sampleList))
	require.NoError(t, err)

	assert.Equal(t, "Awesome Go Logging", l.Title)
	require.Len(t, l.Categories, 2)

	assert.Equal(t, "Structured Logging", l.Categories[0].Name)
	require.Len(t, l.Categories[0].Entries, 2)
	assert.Equal(t, "zerolog", l.Categories[0].Entries[0].Title)
	assert.Equal(t, "https://github.com/rs/zerolog", l.Categories[0].Entries[0].URL)
	assert.Contains(t, l.Categories[0].Entries[0].Description, "Zero-allocation")
}

func TestParse_FailsOnZeroCategories(t *testing.T) {
	_, err := Parse([]byte("# Just A Title\n\nSome prose with no sections.\n"))
	require.ErrorIs(t, err, ErrNoCategories)
}
