package config

import "errors"

// ErrConfig wraps any configuration-time failure: missing API key, invalid
// CLI argument. Fatal before the pipeline state machine starts.
var ErrConfig = errors.New("config error")
