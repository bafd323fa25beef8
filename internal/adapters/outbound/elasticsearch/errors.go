package elasticsearch

import "fmt"

// UpstreamError is a failed call against a cluster. Kind is one of the
// domain sentinels (ErrTimeout, ErrTransport, ErrUpstreamStatus,
// ErrBadResponse) and matches with errors.Is.
type UpstreamError struct {
	Op      string
	Address string
	Status  int
	Kind    error
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s on %s: %v (HTTP %d): %v", e.Op, e.Address, e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("%s on %s: %v: %v", e.Op, e.Address, e.Kind, e.Err)
}

func (e *UpstreamError) Unwrap() []error { return []error{e.Kind, e.Err} }
