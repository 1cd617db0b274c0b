// Package retry implements exponential-backoff retry for the external
// subprocess invocations wic shells out to (cwltool validation, dot
// rendering). The backoff shape and config.DebugLog logging convention
// follow an existing retry helper originally written for LLM provider
// API calls; the rate-limit-specific error sniffing is replaced with a
// predicate over exec errors, since wic's external interfaces are
// subprocess invocations rather than rate-limited HTTP APIs.
package retry

import (
	"errors"
	"fmt"
	"log"
	"math"
	"os/exec"
	"time"

	"github.com/foldedcode/wic/utils/config"
)

// Config holds configuration for retry operations.
type Config struct {
	MaxRetries  int           // Maximum number of retry attempts
	InitialWait time.Duration // Initial wait time before first retry
	MaxWait     time.Duration // Maximum wait time between retries
	Factor      float64       // Exponential backoff factor
}

// DefaultConfig provides sensible defaults for retrying a transient
// subprocess failure (e.g. cwltool or dot briefly unavailable under a
// busy build).
var DefaultConfig = Config{
	MaxRetries:  2,
	InitialWait: 500 * time.Millisecond,
	MaxWait:     5 * time.Second,
	Factor:      2.0,
}

// WithRetry executes operation, retrying while shouldRetry(err) is true,
// with exponential backoff between attempts.
func WithRetry(operation func() (interface{}, error), shouldRetry func(error) bool, cfg Config) (interface{}, error) {
	var result interface{}
	var err error
	wait := cfg.InitialWait

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		result, err = operation()

		if err == nil || !shouldRetry(err) {
			return result, err
		}

		if attempt == cfg.MaxRetries {
			return nil, fmt.Errorf("operation failed after %d retries: %w", cfg.MaxRetries, err)
		}

		retryWait := time.Duration(math.Min(float64(wait), float64(cfg.MaxWait)))

		config.DebugLog("retry: %v, retrying in %v (attempt %d/%d)", err, retryWait, attempt+1, cfg.MaxRetries)
		log.Printf("[WARN] retrying external command in %v (attempt %d/%d): %v\n", retryWait, attempt+1, cfg.MaxRetries, err)

		time.Sleep(retryWait)
		wait = time.Duration(float64(wait) * cfg.Factor)
	}

	return nil, fmt.Errorf("unexpected error in retry logic")
}

// IsTransientExecError reports whether err looks like a transient
// subprocess failure worth retrying: the binary could not be started at
// all (e.g. momentarily missing from PATH during a parallel build), as
// opposed to the external tool running and rejecting the input, which
// should surface immediately. Callers wrap the underlying *exec.Error
// with fmt.Errorf("%w: ...", ...) to attach command output, so this
// checks with errors.As rather than a direct type assertion.
func IsTransientExecError(err error) bool {
	var execErr *exec.Error
	return errors.As(err, &execErr)
}
