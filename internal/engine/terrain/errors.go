package terrain

import (
	"errors"
	"fmt"
)

// Heightfield invariant violations. Each is wrapped in a ConfigurationError.
var (
	ErrDivisor     = errors.New("height divisor must be positive")
	ErrChunkWidth  = errors.New("chunk width minus one must be a power of two")
	ErrNotSquare   = errors.New("height image must be square")
	ErrTooSmall    = errors.New("height image must be at least one chunk wide")
	ErrMisaligned  = errors.New("height image size must be 1 + k*(chunk width - 1)")
	ErrTextureSize = errors.New("texture dimensions must be 2^n+1")
	ErrThresholds  = errors.New("detail thresholds must be strictly ascending")
)

// ConfigurationError reports a malformed terrain setup. It is returned once at
// construction (or when thresholds are replaced) and is never retried.
type ConfigurationError struct {
	Invariant error
	Detail    string
}

func (e *ConfigurationError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("terrain configuration: %v", e.Invariant)
	}
	return fmt.Sprintf("terrain configuration: %v (%s)", e.Invariant, e.Detail)
}

// Unwrap exposes the violated invariant to errors.Is.
func (e *ConfigurationError) Unwrap() error {
	return e.Invariant
}

func configErrorf(invariant error, format string, args ...any) error {
	return &ConfigurationError{Invariant: invariant, Detail: fmt.Sprintf(format, args...)}
}
