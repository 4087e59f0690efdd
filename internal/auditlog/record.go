package auditlog

import "time"

const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	OutcomeAborted = "aborted"
	OutcomeDryRun  = "dry-run"
)

// AuditEntry is one recorded command invocation. For provision runs it
// carries the instances that were replaced.
type AuditEntry struct {
	ID         int64     `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Command    string    `json:"command"`
	Args       string    `json:"args,omitempty"`
	Provider   string    `json:"provider,omitempty"`
	Region     string    `json:"region,omitempty"`
	Image      string    `json:"image,omitempty"`
	Terminated []string  `json:"terminated,omitempty"`
	Launched   []string  `json:"launched,omitempty"`
	Outcome    string    `json:"outcome"`
	FailedStep string    `json:"failed_step,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	DurationMs int64     `json:"duration_ms"`
}
