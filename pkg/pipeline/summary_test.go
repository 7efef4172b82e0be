package pipeline

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSummaryExitCode(t *testing.T) {
	tests := []struct {
		name    string
		summary Summary
		want    int
	}{
		{
			name:    "success",
			summary: Summary{TerminatedAt: StateDone},
			want:    0,
		},
		{
			name:    "wall time exceeded",
			summary: Summary{TerminatedAt: StateAborted, Err: ErrWallTimeExceeded},
			want:    124,
		},
		{
			name:    "interrupted",
			summary: Summary{TerminatedAt: StateAborted, Err: ErrInterrupted},
			want:    130,
		},
		{
			name:    "aborted with partial yield is not a failure",
			summary: Summary{TerminatedAt: StateAborted, Err: errors.New("validation: boom"), ValidatedLinks: 3},
			want:    0,
		},
		{
			name:    "aborted with nothing validated is a failure",
			summary: Summary{TerminatedAt: StateAborted, Err: errors.New("parse: boom"), ValidatedLinks: 0},
			want:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.summary.ExitCode())
		})
	}
}

func TestSummaryString(t *testing.T) {
	s := Summary{
		RunDir:         "/tmp/run-1",
		TerminatedAt:   StateDone,
		ValidatedLinks: 5,
		TotalCostUSD:   1.2345,
		Duration:       2500 * time.Millisecond,
	}
	out := s.String()
	assert.Contains(t, out, "phase=done")
	assert.Contains(t, out, "validated_links=5")
	assert.Contains(t, out, "cost_usd=1.2345")
	assert.Contains(t, out, "status=ok")

	failed := Summary{TerminatedAt: StateAborted, Err: errors.New("boom")}
	assert.Contains(t, failed.String(), "status=boom")
}
