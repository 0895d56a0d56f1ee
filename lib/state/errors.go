package state

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// Kind identifies the category of a state error.
type Kind uint8

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown Kind = iota
	// KindConfig indicates an invalid descriptor, rule or component config.
	KindConfig
	// KindMerge indicates malformed merge operands.
	KindMerge
	// KindType indicates a value of the wrong type or arity for an action.
	KindType
	// KindHandler indicates a user transform or handler failed.
	KindHandler
	// KindUpdate indicates the host gave up on an update cycle.
	KindUpdate
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindMerge:
		return "merge"
	case KindType:
		return "type"
	case KindHandler:
		return "handler"
	case KindUpdate:
		return "update"
	default:
		return "unknown"
	}
}

// Sentinel errors wrapped by *Error.
var (
	ErrMissingRender  = errors.New("state: render function is required")
	ErrMissingState   = errors.New("state: state is required")
	ErrMissingHost    = errors.New("state: host is required")
	ErrEmptyName      = errors.New("state: name is empty")
	ErrDuplicateName  = errors.New("state: duplicate name")
	ErrMergeToggle    = errors.New("state: mergeable and toggleable are mutually exclusive")
	ErrMergeableType  = errors.New("state: mergeable initial state must be an object or array")
	ErrMergeMismatch  = errors.New("state: merge operand type mismatch")
	ErrShapeMismatch  = errors.New("state: value does not match mergeable shape")
	ErrNotBool        = errors.New("state: toggle on non-boolean value")
	ErrArgCount       = errors.New("state: wrong number of action arguments")
	ErrInvalidRule    = errors.New("state: invalid derive rule")
	ErrInvalidHandler = errors.New("state: invalid handler")
	ErrUnknownAction  = errors.New("state: unknown action")
	ErrNotMounted     = errors.New("state: component is not mounted")
	ErrUpdateDepth    = errors.New("state: maximum update depth exceeded")
)

// Error is a structured error raised by the state core.
type Error struct {
	// Op is the operation that failed (e.g. "state.Store.Mount", "setCount").
	Op string
	// Kind categorizes the error.
	Kind Kind
	// Field is the state key involved, if any.
	Field string
	// Err is the underlying error.
	Err error
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s [%s] field=%s: %v", e.Op, e.Kind, e.Field, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// ErrorHandler receives every error the state core reports. The returned
// error is what the failing call returns; returning nil swallows the error
// and the call is abandoned without touching state.
type ErrorHandler func(err error) error

// Raise is the default ErrorHandler. It hands the error back unchanged.
func Raise(err error) error {
	return err
}

// LogErrors returns an ErrorHandler that logs errors at warn level and
// swallows them.
func LogErrors(logger *slog.Logger) ErrorHandler {
	if logger == nil {
		logger = discardLogger()
	}
	return func(err error) error {
		logger.Warn("state error", "kind", KindOf(err).String(), "err", err)
		return nil
	}
}

// Options configure error reporting and diagnostics for a component.
type Options struct {
	// OnError receives configuration and action errors. Nil means Raise.
	OnError ErrorHandler
	// Logger receives debug records for actions and derived patches.
	// Nil discards them.
	Logger *slog.Logger
	// StrictToggle makes toggle actions report ErrNotBool when the current
	// value is not a bool instead of negating its truthiness.
	StrictToggle bool
}

func (o Options) report(err error) error {
	if o.OnError == nil {
		return err
	}
	return o.OnError(err)
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return discardLogger()
	}
	return o.Logger
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
