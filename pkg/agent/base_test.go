package agent

import (
	"context"
	"testing"

	"github.com/kcurator/awesome-discover/pkg/config"
	"github.com/kcurator/awesome-discover/pkg/costing"
	"github.com/kcurator/awesome-discover/pkg/llmprovider"
	"github.com/kcurator/awesome-discover/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBase(t *testing.T, provider llmprovider.Provider, ceiling float64) (*Base, *logging.Set) {
	t.Helper()
	logs, err := logging.NewSet(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(logs.Close)

	tracker := costing.NewTracker(config.NewPricingTable(), ceiling)
	return NewBase("test_agent", "claude-haiku-4-5", provider, tracker, logs), logs
}

type out struct {
	Value string `json:"value"`
}

func TestCall_ParsesJSONResponse(t *testing.T) {
	provider := &llmprovider.FakeProvider{Responses: []llmprovider.GenerateOutput{
		{Text: `{"value":"hello"}`},
	}}
	base, _ := newTestBase(t, provider, 10.0)

	var o out
	err := base.Call(context.Background(), "system", "user", 0, &o)
	require.NoError(t, err)
	assert.Equal(t, "hello", o.Value)
}

func TestCall_StripsCodeFence(t *testing.T) {
	provider := &llmprovider.FakeProvider{Responses: []llmprovider.GenerateOutput{
		{Text: "```json\n{\"value\":\"fenced\"}\n```"},
	}}
	base, _ := newTestBase(t, provider, 10.0)

	var o out
	err := base.Call(context.Background(), "system", "user", 0, &o)
	require.NoError(t, err)
	assert.Equal(t, "fenced", o.Value)
}

func TestCall_RepairsInvalidJSONOnRetry(t *testing.T) {
	provider := &llmprovider.FakeProvider{Responses: []llmprovider.GenerateOutput{
		{Text: "not json at all"},
		{Text: `{"value":"repaired"}`},
	}}
	base, _ := newTestBase(t, provider, 10.0)

	var o out
	err := base.Call(context.Background(), "system", "user", 0, &o)
	require.NoError(t, err)
	assert.Equal(t, "repaired", o.Value)
}

func TestCall_GivesUpAfterFailedRepair(t *testing.T) {
	provider := &llmprovider.FakeProvider{Responses: []llmprovider.GenerateOutput{
		{Text: "not json"},
		{Text: "still not json"},
	}}
	base, _ := newTestBase(t, provider, 10.0)

	var o out
	err := base.Call(context.Background(), "system", "user", 0, &o)
	require.ErrorIs(t, err, ErrJSONParse)
}

func TestCall_DeniesOverCeiling(t *testing.T) {
	provider := &llmprovider.FakeProvider{Responses: []llmprovider.GenerateOutput{
		{Text: `{"value":"hello"}`},
	}}
	base, _ := newTestBase(t, provider, 0)

	var o out
	err := base.Call(context.Background(), "system", "user", 0, &o)
	require.Error(t, err)
	assert.Empty(t, provider.Calls, "ceiling check must short-circuit before any provider call")
}

func TestCall_RetriesOnProviderErrorThenFails(t *testing.T) {
	provider := &llmprovider.FakeProvider{Err: assert.AnError}
	base, _ := newTestBase(t, provider, 10.0)

	var o out
	err := base.Call(context.Background(), "system", "user", 0, &o)
	require.Error(t, err)
	assert.Equal(t, maxProviderRetries, len(provider.Calls))
}
