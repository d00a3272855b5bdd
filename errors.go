package gpujob

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind distinguishes the categories of failure the job system can report.
// Driver-level VkResult codes are wrapped rather than surfaced directly, so
// callers can branch on Kind without depending on Vulkan error values.
type Kind int

const (
	DeviceInit Kind = iota
	Allocation
	ShaderLoad
	ShaderReflect
	Recording
	Submission
	Wait
	IllegalState
	LayoutMismatch
	UnsupportedSync
	UnsupportedResourceType
	UnsupportedLayoutTransition
	SizeMismatch
)

func (k Kind) String() string {
	switch k {
	case DeviceInit:
		return "DeviceInit"
	case Allocation:
		return "Allocation"
	case ShaderLoad:
		return "ShaderLoad"
	case ShaderReflect:
		return "ShaderReflect"
	case Recording:
		return "Recording"
	case Submission:
		return "Submission"
	case Wait:
		return "Wait"
	case IllegalState:
		return "IllegalState"
	case LayoutMismatch:
		return "LayoutMismatch"
	case UnsupportedSync:
		return "UnsupportedSync"
	case UnsupportedResourceType:
		return "UnsupportedResourceType"
	case UnsupportedLayoutTransition:
		return "UnsupportedLayoutTransition"
	case SizeMismatch:
		return "SizeMismatch"
	default:
		return "Unknown"
	}
}

// Error is the error type returned by every fallible operation in this
// package. It carries a Kind so callers can use errors.As to branch on the
// failure category, and wraps its cause (when there is one) with
// github.com/pkg/errors so a stack trace is captured at the point of
// failure, with one layer of caller-supplied context on top of every driver
// failure it reports.
type Error struct {
	kind    Kind
	message string
	cause   error
}

func newError(kind Kind, format string, args ...interface{}) *Error {
	message := fmt.Sprintf(format, args...)
	return &Error{kind: kind, message: message, cause: errors.New(message)}
}

func wrapError(kind Kind, cause error, format string, args ...interface{}) *Error {
	message := fmt.Sprintf(format, args...)
	return &Error{kind: kind, message: message, cause: errors.Wrap(cause, message)}
}

func (e *Error) Error() string {
	return e.message
}

func (e *Error) Unwrap() error {
	return e.cause
}

func (e *Error) Kind() Kind {
	return e.kind
}

// StackTrace exposes the capture point github.com/pkg/errors attached when
// this error was constructed, for diagnostic logging.
func (e *Error) StackTrace() errors.StackTrace {
	type stackTracer interface {
		StackTrace() errors.StackTrace
	}
	if st, ok := e.cause.(stackTracer); ok {
		return st.StackTrace()
	}
	return nil
}
