package hue

import (
	"fmt"
	"strings"
)

// maxErrorBody limits how much of an unexpected response body is kept.
const maxErrorBody = 256

// StatusError is returned when the bridge answers with a non-2xx status.
type StatusError struct {
	Op         string
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Status, e.Body)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Status)
}

// MutationError is returned when the bridge accepted a request but reported
// failures for one or more attributes. Attributes that succeeded in the same
// request are not reported separately.
type MutationError struct {
	Failures []Failure
}

func (e *MutationError) Error() string {
	parts := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		parts[i] = f.String()
	}
	return "hue api error: " + strings.Join(parts, "; ")
}

func (f Failure) String() string {
	if f.Address == "" {
		return fmt.Sprintf("%s (type %d)", f.Description, f.Type)
	}
	return fmt.Sprintf("%s (type %d, %s)", f.Description, f.Type, f.Address)
}

// checkAcks returns a MutationError carrying every error entry, or nil when
// all entries succeeded.
func checkAcks(acks []ack) error {
	var failures []Failure
	for _, a := range acks {
		if a.Error != nil {
			failures = append(failures, *a.Error)
		}
	}
	if len(failures) == 0 {
		return nil
	}
	return &MutationError{Failures: failures}
}

func truncate(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxErrorBody {
		return s
	}
	return s[:maxErrorBody] + "..."
}
