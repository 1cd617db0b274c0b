package retry

import (
	"errors"
	"fmt"
	"os/exec"
	"testing"
	"time"
)

func TestWithRetrySucceedsFirstTry(t *testing.T) {
	calls := 0
	result, err := WithRetry(func() (interface{}, error) {
		calls++
		return "ok", nil
	}, func(error) bool { return true }, DefaultConfig)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "ok" {
		t.Errorf("result = %v", result)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestWithRetryRetriesThenSucceeds(t *testing.T) {
	calls := 0
	cfg := Config{MaxRetries: 2, InitialWait: time.Millisecond, MaxWait: 5 * time.Millisecond, Factor: 2}

	result, err := WithRetry(func() (interface{}, error) {
		calls++
		if calls < 2 {
			return nil, errors.New("transient")
		}
		return "ok", nil
	}, func(error) bool { return true }, cfg)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "ok" {
		t.Errorf("result = %v", result)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestWithRetryStopsWhenShouldRetryIsFalse(t *testing.T) {
	calls := 0
	permanent := errors.New("permanent failure")
	_, err := WithRetry(func() (interface{}, error) {
		calls++
		return nil, permanent
	}, func(error) bool { return false }, DefaultConfig)

	if !errors.Is(err, permanent) {
		t.Errorf("err = %v, want it to wrap the permanent error", err)
	}
	if calls != 1 {
		t.Errorf("expected no retries when shouldRetry is false, got %d calls", calls)
	}
}

func TestWithRetryExhaustsRetries(t *testing.T) {
	calls := 0
	cfg := Config{MaxRetries: 2, InitialWait: time.Millisecond, MaxWait: time.Millisecond, Factor: 1}
	transient := errors.New("always fails")

	_, err := WithRetry(func() (interface{}, error) {
		calls++
		return nil, transient
	}, func(error) bool { return true }, cfg)

	if err == nil {
		t.Fatal("expected an error after exhausting retries")
	}
	if calls != cfg.MaxRetries+1 {
		t.Errorf("calls = %d, want %d (initial + MaxRetries retries)", calls, cfg.MaxRetries+1)
	}
}

func TestIsTransientExecErrorMatchesWrappedExecError(t *testing.T) {
	execErr := &exec.Error{Name: "cwltool", Err: errors.New("executable file not found in $PATH")}
	wrapped := fmt.Errorf("%w: %s", execErr, "some output")

	if !IsTransientExecError(wrapped) {
		t.Error("expected a wrapped *exec.Error to be detected as transient")
	}
}

func TestIsTransientExecErrorRejectsOtherErrors(t *testing.T) {
	if IsTransientExecError(errors.New("validation failed: schema mismatch")) {
		t.Error("expected a non-exec error to not be treated as transient")
	}
	if IsTransientExecError(nil) {
		t.Error("expected nil to not be transient")
	}
}
