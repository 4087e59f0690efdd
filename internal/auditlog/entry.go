package auditlog

import (
	"errors"
	"strings"
	"time"

	"nathanbeddoewebdev/reseed/internal/domain"
)

// NewEntry builds the entry for a finished command from its metadata and
// returned error.
func NewEntry(command string, args []string, meta Metadata, err error, start time.Time) *AuditEntry {
	entry := &AuditEntry{
		Timestamp:  start.UTC(),
		Command:    command,
		Args:       strings.Join(SanitizeArgs(args), " "),
		Provider:   meta.Provider,
		Region:     meta.Region,
		Image:      meta.Image,
		Terminated: meta.Terminated,
		Launched:   meta.Launched,
		FailedStep: meta.FailedStep,
		DurationMs: time.Since(start).Milliseconds(),
	}

	switch {
	case errors.Is(err, domain.ErrAborted):
		entry.Outcome = OutcomeAborted
	case err != nil:
		entry.Outcome = OutcomeError
		entry.Detail = err.Error()
	case meta.Outcome != "":
		entry.Outcome = meta.Outcome
	default:
		entry.Outcome = OutcomeSuccess
	}
	return entry
}
