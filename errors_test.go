package protomap

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSentinelErrors verifies that all sentinel errors are defined correctly.
func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "ErrNilMessage", err: ErrNilMessage, want: "proto message is nil"},
		{name: "ErrUnrecognizedType", err: ErrUnrecognizedType, want: "unrecognised field type"},
		{name: "ErrUnknownField", err: ErrUnknownField, want: "no such field"},
		{name: "ErrUnknownExtension", err: ErrUnknownExtension, want: "no such extension"},
		{name: "ErrMalformedExtensionKey", err: ErrMalformedExtensionKey, want: "extension keys must be integers"},
		{name: "ErrInvalidEnumName", err: ErrInvalidEnumName, want: "invalid enum name"},
		{name: "ErrInvalidEnumValue", err: ErrInvalidEnumValue, want: "invalid enum value"},
		{name: "ErrInvalidValue", err: ErrInvalidValue, want: "invalid value"},
		{name: "ErrMaxDepth", err: ErrMaxDepth, want: "maximum nesting depth exceeded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotNil(t, tt.err)
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

// TestConvertErrorError verifies the Error() method formatting.
func TestConvertErrorError(t *testing.T) {
	tests := []struct {
		name string
		err  *ConvertError
		want string
	}{
		{
			name: "message and field",
			err: &ConvertError{
				Op:      opFromMap,
				Kind:    KindUnknownField,
				Message: "protomap.test.Sample",
				Field:   "inner.nope",
				Err:     ErrUnknownField,
			},
			want: `protomap: FromMap (unknown_field) protomap.test.Sample field "inner.nope": no such field`,
		},
		{
			name: "no field",
			err: &ConvertError{
				Op:   opToMap,
				Kind: KindInvalidInput,
				Err:  ErrNilMessage,
			},
			want: "protomap: ToMap (invalid_input): proto message is nil",
		},
		{
			name: "no underlying error",
			err: &ConvertError{
				Op:   opToMap,
				Kind: KindMaxDepth,
			},
			want: "protomap: ToMap (max_depth)",
		},
		{
			name: "with context",
			err: &ConvertError{
				Op:      opToMap,
				Kind:    KindInvalidEnum,
				Err:     ErrInvalidEnumValue,
				Context: map[string]any{"value": 99},
			},
			want: "protomap: ToMap (invalid_enum): invalid enum value [context: map[value:99]]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

// TestConvertErrorIs verifies the Is() method and errors.Is() compatibility.
func TestConvertErrorIs(t *testing.T) {
	base := &ConvertError{Op: opFromMap, Kind: KindUnknownField, Err: ErrUnknownField}

	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{name: "matches underlying sentinel", err: base, target: ErrUnknownField, want: true},
		{
			name:   "matches wrapped sentinel",
			err:    &ConvertError{Op: opFromMap, Kind: KindInvalidValue, Err: fmt.Errorf("wrapped: %w", ErrInvalidValue)},
			target: ErrInvalidValue,
			want:   true,
		},
		{name: "matches by kind", err: base, target: &ConvertError{Kind: KindUnknownField}, want: true},
		{name: "matches by kind and op", err: base, target: &ConvertError{Op: opFromMap, Kind: KindUnknownField}, want: true},
		{name: "different op", err: base, target: &ConvertError{Op: opToMap, Kind: KindUnknownField}, want: false},
		{name: "different kind", err: base, target: &ConvertError{Kind: KindInvalidEnum}, want: false},
		{name: "different sentinel", err: base, target: ErrUnknownExtension, want: false},
		{name: "nil target", err: base, target: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errors.Is(tt.err, tt.target))
		})
	}
}

// TestConvertErrorAs verifies errors.As() compatibility.
func TestConvertErrorAs(t *testing.T) {
	original := newError(opToMap, KindUnrecognizedType, "protomap.test.Sample", "f_string", ErrUnrecognizedType)
	wrapped := fmt.Errorf("outer: %w", original)

	var cerr *ConvertError
	require.True(t, errors.As(wrapped, &cerr))
	assert.Equal(t, opToMap, cerr.Op)
	assert.Equal(t, KindUnrecognizedType, cerr.Kind)
	assert.Equal(t, "f_string", cerr.Field)
	assert.Same(t, original, cerr)
}

// TestConvertErrorWithContext verifies the WithContext() method.
func TestConvertErrorWithContext(t *testing.T) {
	original := newError(opFromMap, KindInvalidValue, "protomap.test.Sample", "f_int32", ErrInvalidValue)

	withCtx := original.WithContext(map[string]any{"input": "abc"})
	assert.Equal(t, "abc", withCtx.Context["input"])
	assert.Nil(t, original.Context, "original error Context was modified")

	withMore := withCtx.WithContext(map[string]any{"line": 3})
	assert.Equal(t, "abc", withMore.Context["input"])
	assert.Equal(t, 3, withMore.Context["line"])
	assert.Len(t, withCtx.Context, 1, "WithContext must not share the context map")
}

func TestConvertErrorUnwrap(t *testing.T) {
	err := newError(opToMap, KindInvalidEnum, "", "", ErrInvalidEnumValue)
	assert.Equal(t, ErrInvalidEnumValue, err.Unwrap())

	assert.Nil(t, (&ConvertError{Op: opToMap, Kind: KindMaxDepth}).Unwrap())
}
