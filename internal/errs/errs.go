// Package errs distinguishes the error kinds spec.md §7 assigns distinct
// exit codes: Configuration, Setup, Transient, and Fatal. Callers wrap an
// underlying error in one of these and use errors.As at the CLI boundary to
// pick an exit code, mirroring the teacher's fmt.Errorf-%w style rather than
// introducing a third-party errors package.
package errs

import "fmt"

// Kind discriminates the closed error-kind set of spec.md §7.
type Kind int

const (
	// KindConfiguration is an invalid combination of options, exit 1.
	KindConfiguration Kind = iota
	// KindSetup is a target the core cannot parse/instrument, exit 2.
	KindSetup
	// KindTransient is a per-test failure (raise/timeout/OOM) that the GA
	// loop recovers from; it never reaches the CLI boundary as an error
	// return, only as a recorded tracer.Trace outcome.
	KindTransient
	// KindFatal is an unrecoverable worker crash or missing consent flag,
	// exit 4.
	KindFatal
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindSetup:
		return "setup"
	case KindTransient:
		return "transient"
	case KindFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// ExitCode maps a Kind to the process exit code spec.md §7 assigns it.
// KindTransient has no standalone exit code since it never escapes the run
// loop as a top-level error.
func (k Kind) ExitCode() int {
	switch k {
	case KindConfiguration:
		return 1
	case KindSetup:
		return 2
	case KindFatal:
		return 4
	default:
		return 1
	}
}

// Error wraps an underlying error with its Kind, so a caller can recover
// both the exit code and a %w-unwrappable cause.
type Error struct {
	Kind Kind
	Op   string // the operation that failed, for log context
	Err  error
}

func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Wrap constructs a Kind-tagged Error.
func Wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// Configuration wraps err as a Configuration-kind error.
func Configuration(op string, err error) error { return Wrap(KindConfiguration, op, err) }

// Setup wraps err as a Setup-kind error.
func Setup(op string, err error) error { return Wrap(KindSetup, op, err) }

// Fatal wraps err as a Fatal-kind error.
func Fatal(op string, err error) error { return Wrap(KindFatal, op, err) }
