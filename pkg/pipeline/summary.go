package pipeline

import (
	"fmt"
	"time"
)

// Summary is the one-screen termination report for a run: callers can
// extract a verdict from it without parsing logs.
type Summary struct {
	RunDir         string
	TerminatedAt   State
	ValidatedLinks int
	TotalCostUSD   float64
	Duration       time.Duration
	Err            error
}

func (s Summary) String() string {
	status := "ok"
	if s.Err != nil {
		status = s.Err.Error()
	}
	return fmt.Sprintf(
		"phase=%s validated_links=%d cost_usd=%.4f duration=%s run_dir=%s status=%s",
		s.TerminatedAt, s.ValidatedLinks, s.TotalCostUSD, s.Duration.Round(time.Millisecond), s.RunDir, status,
	)
}

// ExitCode maps a Summary to the process exit code the CLI returns.
func (s Summary) ExitCode() int {
	switch {
	case s.Err == nil:
		return 0
	case isWallTime(s.Err):
		return 124
	case isInterrupted(s.Err):
		return 130
	case s.TerminatedAt == StateAborted && s.ValidatedLinks > 0:
		// aborted is not failure if at least one validated link survived
		// and artifacts through the last completed phase are on disk
		return 0
	default:
		return 1
	}
}
