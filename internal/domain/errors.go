package domain

import (
	"errors"
	"fmt"
)

// Sentinel causes for failed calls against a cluster.
var (
	ErrTimeout        = errors.New("request timed out")
	ErrTransport      = errors.New("host unreachable or transport failure")
	ErrUpstreamStatus = errors.New("upstream returned an error status")
	ErrBadResponse    = errors.New("invalid response format or malformed data")
)

// ConfigError reports a malformed configuration, date template or date
// override. It is the only error that aborts a run.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("config: %v", e.Err)
	}
	return fmt.Sprintf("config: %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// NewConfigError builds a ConfigError from a formatted message.
func NewConfigError(field, format string, args ...any) *ConfigError {
	return &ConfigError{Field: field, Err: fmt.Errorf(format, args...)}
}

// IsConfigError reports whether err carries a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// ReachabilityError reports a cluster that failed its health check.
type ReachabilityError struct {
	Cluster string
	Err     error
}

func (e *ReachabilityError) Error() string {
	return fmt.Sprintf("cluster %s: health check failed: %v", e.Cluster, e.Err)
}

func (e *ReachabilityError) Unwrap() error { return e.Err }

// FetchError reports a failed inventory fetch for one repository.
type FetchError struct {
	Cluster    string
	Repository string
	Err        error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("cluster %s: repository %s: listing snapshots: %v", e.Cluster, e.Repository, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// SinkError reports a failed notification dispatch.
type SinkError struct {
	Sink string
	Err  error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("sink %s: %v", e.Sink, e.Err)
}

func (e *SinkError) Unwrap() error { return e.Err }
