// Package errors defines the error taxonomy of the export pipeline.
//
// Every failure is terminal: the first error raised anywhere aborts the run
// and surfaces here unchanged. Errors fall into two categories that map to
// distinct process exit codes, so callers can tell operator misconfiguration
// apart from data or access problems without parsing messages:
//
//   - usage errors (exit 2): MissingConfigError, ConfigFileError, AuthError,
//     ForbiddenError
//   - data errors (exit 1): MalformedReferenceError, KeyNotFoundError,
//     ResolutionError
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Category groups error kinds by who has to fix them.
type Category int

const (
	// CategoryData covers malformed references, missing keys and read
	// failures: the requested data or the request itself is wrong.
	CategoryData Category = iota

	// CategoryUsage covers misconfiguration: missing environment
	// variables, failed logins and insufficient store permissions.
	CategoryUsage
)

// Exit codes per category. Zero is reserved for success.
const (
	ExitData  = 1
	ExitUsage = 2
)

// Grammar is the reference grammar quoted in malformed-reference messages.
const Grammar = "<mount_point>/<path>/<key>"

// MissingConfigError reports every required environment variable that is
// absent. The pre-flight check collects all of them before failing, so the
// operator fixes the environment once instead of once per variable.
type MissingConfigError struct {
	Missing []string
}

func (e MissingConfigError) Error() string {
	return fmt.Sprintf("missing required environment variables: %s",
		strings.Join(e.Missing, ", "))
}

// ConfigFileError reports a vaultenv.yaml file that exists but cannot be
// used: unreadable, invalid YAML, or rejected by the schema.
type ConfigFileError struct {
	Path    string
	Message string
	Err     error
}

func (e ConfigFileError) Error() string {
	msg := fmt.Sprintf("config file %s: %s", e.Path, e.Message)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e ConfigFileError) Unwrap() error {
	return e.Err
}

// MalformedReferenceError reports an indirection variable whose value does
// not match the reference grammar.
type MalformedReferenceError struct {
	Variable string
	Value    string
}

func (e MalformedReferenceError) Error() string {
	return fmt.Sprintf("variable %s has malformed secret reference %q (expected %s)",
		e.Variable, e.Value, Grammar)
}

// AuthError reports a role login that did not yield an authenticated
// session. Distinct from ForbiddenError, which is raised when an
// authenticated session is denied a specific read.
type AuthError struct {
	Message string
	Err     error
}

func (e AuthError) Error() string {
	msg := "vault authentication failed"
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e AuthError) Unwrap() error {
	return e.Err
}

// KeyNotFoundError reports a key absent from an otherwise readable secret.
type KeyNotFoundError struct {
	Variable  string
	Reference string
	Key       string
	Available []string
}

func (e KeyNotFoundError) Error() string {
	msg := fmt.Sprintf("variable %s: key %q not found in secret %q",
		e.Variable, e.Key, e.Reference)
	if len(e.Available) > 0 {
		msg += fmt.Sprintf(" (available keys: %s)", strings.Join(e.Available, ", "))
	}
	return msg
}

// ForbiddenError reports a read the store refused to an authenticated
// session.
type ForbiddenError struct {
	Variable  string
	Reference string
}

func (e ForbiddenError) Error() string {
	return fmt.Sprintf("variable %s: access to secret %q forbidden, check the role's policy",
		e.Variable, e.Reference)
}

// ResolutionError wraps any other read-time failure with the variable it
// interrupted.
type ResolutionError struct {
	Variable  string
	Reference string
	Err       error
}

func (e ResolutionError) Error() string {
	return fmt.Sprintf("variable %s: failed to resolve secret %q: %v",
		e.Variable, e.Reference, e.Err)
}

func (e ResolutionError) Unwrap() error {
	return e.Err
}

// CategoryOf classifies an error into usage or data. Unknown errors count as
// data errors: they originate from the store or the network, not from how
// the tool was invoked.
func CategoryOf(err error) Category {
	var (
		missing   MissingConfigError
		file      ConfigFileError
		auth      AuthError
		forbidden ForbiddenError
	)
	switch {
	case errors.As(err, &missing), errors.As(err, &file),
		errors.As(err, &auth), errors.As(err, &forbidden):
		return CategoryUsage
	default:
		return CategoryData
	}
}

// ExitCode maps an error to the process exit status for its category.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if CategoryOf(err) == CategoryUsage {
		return ExitUsage
	}
	return ExitData
}
