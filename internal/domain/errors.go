package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for cross-provider error classification.
// Providers should wrap these so the CLI can handle error categories
// uniformly without importing provider-specific SDKs.
//
//	return fmt.Errorf("failed to terminate instances: %w", errors.Join(domain.ErrProvider, err))
var (
	// ErrConfiguration indicates malformed or inconsistent input, such as
	// a missing root volume or a root device mismatch.
	ErrConfiguration = errors.New("configuration error")

	// ErrProvider indicates the remote API call itself failed.
	ErrProvider = errors.New("provider error")

	// ErrLaunch indicates the creation request was rejected or produced
	// no instances.
	ErrLaunch = errors.New("launch failure")

	// ErrTerminationTimeout indicates instances were still not terminated
	// after the last polling attempt.
	ErrTerminationTimeout = errors.New("termination timeout")

	// ErrAborted indicates the operator declined to continue.
	ErrAborted = errors.New("aborted by operator")

	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrUnauthorized indicates the request was rejected due to
	// invalid, expired, or missing credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRateLimited indicates the provider throttled the request.
	ErrRateLimited = errors.New("rate limited")
)

// ConfigError returns an error matching ErrConfiguration with the given message.
func ConfigError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}

// TerminationTimeoutError carries the instances still pending when the
// termination wait gave up.
type TerminationTimeoutError struct {
	Pending  []string
	Attempts int
}

func (e *TerminationTimeoutError) Error() string {
	return fmt.Sprintf("instances not terminated after %d attempts: %s",
		e.Attempts, strings.Join(e.Pending, ", "))
}

// Is reports a match against ErrTerminationTimeout.
func (e *TerminationTimeoutError) Is(target error) bool {
	return target == ErrTerminationTimeout
}

// StepError identifies the provisioning step that failed.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
