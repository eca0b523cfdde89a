package deleter

import "time"

// Status is the terminal state of one deletion request.
type Status string

const (
	StatusSimulated  Status = "simulated"
	StatusDeleted    Status = "deleted"
	StatusNotFound   Status = "warned-not-found"
	StatusNotRegular Status = "warned-not-regular-file"
	StatusOutOfScope Status = "refused-out-of-scope"
	StatusSymlink    Status = "refused-symlink"
	StatusPermission Status = "error-permission"
	StatusError      Status = "error-other"
)

// IsError reports whether the status counts against the exit status.
// Warnings do not.
func (s Status) IsError() bool {
	switch s {
	case StatusOutOfScope, StatusSymlink, StatusPermission, StatusError:
		return true
	}
	return false
}

// IsWarning reports whether the status is a warning.
func (s Status) IsWarning() bool {
	return s == StatusNotFound || s == StatusNotRegular
}

// Tag is the audit log marker for the status.
func (s Status) Tag() string {
	switch s {
	case StatusSimulated:
		return "DRY"
	case StatusDeleted:
		return "OK"
	case StatusNotFound, StatusNotRegular:
		return "WARN"
	case StatusOutOfScope, StatusSymlink:
		return "REFUSED"
	default:
		return "ERR"
	}
}

// Outcome is the result of one request.
type Outcome struct {
	// Raw is the path as the operator selected it.
	Raw string
	// Path is the representation that was acted on, or the first candidate
	// when none matched.
	Path    string
	Status  Status
	Message string
	Err     error
}

// Report summarizes a batch.
type Report struct {
	Started time.Time
	DryRun  bool
	// Outcomes are in request order.
	Outcomes []Outcome
	// NotAttempted counts requests never started because the batch was
	// cancelled.
	NotAttempted int
	Errors       int
	Warnings     int
}

// Count returns how many outcomes ended with status s.
func (r *Report) Count(s Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == s {
			n++
		}
	}
	return n
}

// ExitCode is 0 for a batch without errors and 2 otherwise.
func (r *Report) ExitCode() int {
	if r.Errors > 0 {
		return 2
	}
	return 0
}
