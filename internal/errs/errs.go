// Package errs defines the error kinds the report engine distinguishes:
// usage errors abort before any fetch, config errors are scoped to one
// section, fetch errors are scoped to one stat.
package errs

import (
	"errors"
	"fmt"
)

// ErrNotImplemented marks a leaf stat without a fetch function.
// Always fatal; it indicates a programming error in a source.
var ErrNotImplemented = errors.New("stat does not implement fetch")

// UsageError reports invalid command-line input: unknown positional
// keywords, malformed flag values, or an impossible date range.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string { return e.Msg }

// Usagef builds a UsageError from a format string.
func Usagef(format string, args ...any) error {
	return &UsageError{Msg: fmt.Sprintf(format, args...)}
}

// ConfigFileError reports a config file that is missing, unparseable,
// or lacks the [general] section.
type ConfigFileError struct {
	Path string
	Msg  string
	Err  error
}

func (e *ConfigFileError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("config file %s: %s: %v", e.Path, e.Msg, e.Err)
	}
	return fmt.Sprintf("config file %s: %s", e.Path, e.Msg)
}

func (e *ConfigFileError) Unwrap() error { return e.Err }

// ConfigError reports a problem scoped to a single config section:
// a missing required key, an unknown type, or an invalid value.
type ConfigError struct {
	Section string
	Msg     string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("[%s]: %s", e.Section, e.Msg)
}

// Configf builds a ConfigError for the given section.
func Configf(section, format string, args ...any) error {
	return &ConfigError{Section: section, Msg: fmt.Sprintf(format, args...)}
}

// FetchError reports a failure surfacing from a source fetch. It is
// confined to the owning stat unless debug mode re-raises it.
type FetchError struct {
	Stat string
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stat, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsUsage reports whether err is (or wraps) a UsageError.
func IsUsage(err error) bool {
	var ue *UsageError
	return errors.As(err, &ue)
}

// IsConfig reports whether err is (or wraps) a ConfigError.
func IsConfig(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
