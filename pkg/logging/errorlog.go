package logging

import "github.com/rs/zerolog"

// LogError writes one record to logs/errors.jsonl. Every error, recovered
// or fatal, appears here with its originating component and phase.
func LogError(logger zerolog.Logger, component, phase string, err error) {
	logger.Error().
		Str("component", component).
		Str("phase", phase).
		Err(err).
		Msg("error")
}

// LogErrorWithCall is LogError plus the callID of the LLM call that
// produced err.
func LogErrorWithCall(logger zerolog.Logger, component, phase, callID string, err error) {
	logger.Error().
		Str("component", component).
		Str("phase", phase).
		Str("call_id", callID).
		Err(err).
		Msg("error")
}
