package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	dir := t.TempDir()

	type payload struct {
		Name string `json:"name"`
	}
	require.NoError(t, writeJSON(dir, "out.json", payload{Name: "awesome"}))

	data, err := os.ReadFile(filepath.Join(dir, "out.json"))
	require.NoError(t, err)

	var got payload
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "awesome", got.Name)
}

func TestWriteText(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, writeText(dir, "report.md", "# hello\n"))

	data, err := os.ReadFile(filepath.Join(dir, "report.md"))
	require.NoError(t, err)
	assert.Equal(t, "# hello\n", string(data))
}

func TestWriteFileFailsOnMissingDir(t *testing.T) {
	err := writeText(filepath.Join(t.TempDir(), "does-not-exist"), "x.txt", "data")
	assert.Error(t, err)
}

func TestWriteJSONFailsOnUnmarshalableValue(t *testing.T) {
	err := writeJSON(t.TempDir(), "bad.json", make(chan int))
	assert.Error(t, err)
}
