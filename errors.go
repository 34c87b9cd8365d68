package protomap

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// Sentinel errors for conversion failures.
// These errors can be used with errors.Is() for error checking.
var (
	// ErrNilMessage indicates a nil message or message type was passed in.
	ErrNilMessage = errors.New("proto message is nil")

	// ErrUnrecognizedType indicates a field kind has no entry in the forward type map.
	ErrUnrecognizedType = errors.New("unrecognised field type")

	// ErrUnknownField indicates a mapping key does not name a field of the target message.
	ErrUnknownField = errors.New("no such field")

	// ErrUnknownExtension indicates an extension number is not registered for the target message.
	ErrUnknownExtension = errors.New("no such extension")

	// ErrMalformedExtensionKey indicates an extension container key is not a decimal integer.
	ErrMalformedExtensionKey = errors.New("extension keys must be integers")

	// ErrInvalidEnumName indicates a symbolic enum value is not declared by the enum.
	ErrInvalidEnumName = errors.New("invalid enum name")

	// ErrInvalidEnumValue indicates an enum number has no declared name.
	ErrInvalidEnumValue = errors.New("invalid enum value")

	// ErrInvalidValue indicates an input value cannot be written to a field of the given kind.
	ErrInvalidValue = errors.New("invalid value")

	// ErrMaxDepth indicates the message or mapping tree is nested deeper than allowed.
	ErrMaxDepth = errors.New("maximum nesting depth exceeded")
)

// Error kinds categorize conversion errors.
const (
	KindInvalidInput          = "invalid_input"
	KindUnrecognizedType      = "unrecognized_type"
	KindUnknownField          = "unknown_field"
	KindUnknownExtension      = "unknown_extension"
	KindMalformedExtensionKey = "malformed_extension_key"
	KindInvalidEnum           = "invalid_enum"
	KindInvalidValue          = "invalid_value"
	KindMaxDepth              = "max_depth"
)

// ConvertError is a structured error describing a failed conversion.
//
// ConvertError supports error unwrapping, so the sentinel errors above can be
// matched with errors.Is() and the error itself extracted with errors.As().
//
// Example usage:
//
//	_, err := protomap.FromMap(msg, values)
//	var cerr *protomap.ConvertError
//	if errors.As(err, &cerr) && cerr.Kind == protomap.KindUnknownField {
//		// ...
//	}
type ConvertError struct {
	// Op is the operation that failed ("ToMap" or "FromMap").
	Op string

	// Kind categorizes the error (e.g., KindUnknownField).
	Kind string

	// Message is the full name of the message being converted.
	Message string

	// Field is the path of the offending field, relative to the top-level message.
	Field string

	// Err is the underlying error.
	Err error

	// Context carries additional debugging information (optional).
	Context map[string]any
}

// Error implements the error interface.
func (e *ConvertError) Error() string {
	msg := fmt.Sprintf("protomap: %s (%s)", e.Op, e.Kind)
	if e.Message != "" {
		msg += " " + e.Message
	}
	if e.Field != "" {
		msg += fmt.Sprintf(" field %q", e.Field)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if len(e.Context) > 0 {
		msg += fmt.Sprintf(" [context: %+v]", e.Context)
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *ConvertError) Unwrap() error {
	return e.Err
}

// Is matches a target *ConvertError by Kind (and Op, when the target sets
// one), and otherwise delegates to the underlying error.
func (e *ConvertError) Is(target error) bool {
	if target == nil {
		return false
	}

	if t, ok := target.(*ConvertError); ok {
		if t.Kind != "" && e.Kind == t.Kind {
			if t.Op == "" || e.Op == t.Op {
				return true
			}
		}
	}

	return errors.Is(e.Err, target)
}

// WithContext returns a copy of the error with ctx merged into its context.
func (e *ConvertError) WithContext(ctx map[string]any) *ConvertError {
	newErr := *e
	newErr.Context = make(map[string]any, len(e.Context)+len(ctx))
	for k, v := range e.Context {
		newErr.Context[k] = v
	}
	for k, v := range ctx {
		newErr.Context[k] = v
	}
	return &newErr
}

func newError(op, kind, message, field string, err error) *ConvertError {
	return &ConvertError{
		Op:      op,
		Kind:    kind,
		Message: message,
		Field:   field,
		Err:     err,
	}
}

// CloseWithLog closes closer and logs any error at warning level.
// If logger is nil, slog.Default() is used.
//
//	defer protomap.CloseWithLog(file, logger, "descriptor set")
func CloseWithLog(closer io.Closer, logger *slog.Logger, name string) {
	if closer == nil {
		return
	}

	if logger == nil {
		logger = slog.Default()
	}

	if err := closer.Close(); err != nil {
		logger.Warn("failed to close resource",
			"resource", name,
			"error", err)
	}
}
