package agent

import "errors"

// ErrJSONParse is returned when an LLM completion cannot be parsed as JSON
// after the one allowed repair retry.
var ErrJSONParse = errors.New("agent: could not parse JSON completion")
