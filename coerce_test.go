package protomap

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/zero-day-ai/protomap/internal/testschema"
)

func TestCoerce(t *testing.T) {
	s := testschema.New()
	m := s.NewSample()

	tests := []struct {
		name  string
		field string
		in    any
		want  any
	}{
		{name: "int from float64", field: "f_int32", in: float64(42), want: int32(42)},
		{name: "int from json number", field: "f_int64", in: json.Number("-9007199254740993"), want: int64(-9007199254740993)},
		{name: "int from string", field: "f_int64", in: "123", want: int64(123)},
		{name: "zero padded string is decimal", field: "f_int32", in: "010", want: int32(10)},
		{name: "uint from zero padded string", field: "f_uint64", in: "007", want: uint64(7)},
		{name: "int from uint", field: "f_int64", in: uint(12), want: int64(12)},
		{name: "int from enum number", field: "f_int32", in: protoreflect.EnumNumber(4), want: int32(4)},
		{name: "int32 min", field: "f_sint32", in: int64(math.MinInt32), want: int32(math.MinInt32)},
		{name: "uint64 max", field: "f_uint64", in: uint64(math.MaxUint64), want: uint64(math.MaxUint64)},
		{name: "uint64 from json number", field: "f_fixed64", in: json.Number("18446744073709551615"), want: uint64(math.MaxUint64)},
		{name: "uint32 from int", field: "f_fixed32", in: 7, want: uint32(7)},
		{name: "float from int", field: "f_float", in: 3, want: float32(3)},
		{name: "float infinity", field: "f_float", in: math.Inf(1), want: float32(math.Inf(1))},
		{name: "double from string", field: "f_double", in: "0.5", want: 0.5},
		{name: "bool from string", field: "f_bool", in: "true", want: true},
		{name: "bool from one", field: "f_bool", in: 1, want: true},
		{name: "bool from json zero", field: "f_bool", in: json.Number("0"), want: false},
		{name: "string from bytes", field: "f_string", in: []byte("b"), want: "b"},
		{name: "bytes from string", field: "f_bytes", in: "s", want: []byte("s")},
		{name: "enum from float64", field: "color", in: float64(2), want: protoreflect.EnumNumber(2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := coerce(testschema.Field(m, tt.field), tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.Interface())
		})
	}
}

func TestCoerce_Errors(t *testing.T) {
	s := testschema.New()
	m := s.NewSample()

	tests := []struct {
		name  string
		field string
		in    any
	}{
		{name: "null", field: "f_int32", in: nil},
		{name: "fraction", field: "f_int32", in: 0.5},
		{name: "nan", field: "f_int64", in: math.NaN()},
		{name: "int32 overflow", field: "f_int32", in: int64(math.MaxInt32) + 1},
		{name: "int64 overflow", field: "f_int64", in: uint64(math.MaxUint64)},
		{name: "int64 overflow from uint", field: "f_int64", in: uint(math.MaxUint64)},
		{name: "int32 overflow from uint", field: "f_int32", in: uint(math.MaxUint64)},
		{name: "hex string", field: "f_int64", in: "0x10"},
		{name: "hex string for uint", field: "f_uint32", in: "0x10"},
		{name: "uint32 overflow", field: "f_uint32", in: uint64(math.MaxUint32) + 1},
		{name: "negative uint", field: "f_uint64", in: -5},
		{name: "negative float uint", field: "f_uint64", in: float64(-5)},
		{name: "float32 overflow", field: "f_float", in: math.MaxFloat64},
		{name: "bool for number", field: "f_double", in: false},
		{name: "text for bool", field: "f_bool", in: "maybe"},
		{name: "large number for bool", field: "f_bool", in: 5},
		{name: "fraction for bool", field: "f_bool", in: 2.5},
		{name: "sequence for bool", field: "f_bool", in: []any{true}},
		{name: "number for bytes", field: "f_bytes", in: 5},
		{name: "map for string", field: "f_string", in: map[string]any{}},
		{name: "enum overflow", field: "color", in: int64(math.MaxInt32) + 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := coerce(testschema.Field(m, tt.field), tt.in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidValue))
		})
	}
}

func TestAsMapping(t *testing.T) {
	got, ok := asMapping(map[string]int{"a": 1})
	require.True(t, ok)
	assert.Equal(t, map[string]any{"a": 1}, got)

	got, ok = asMapping(map[any]any{"b": 2})
	require.True(t, ok)
	assert.Equal(t, map[string]any{"b": 2}, got)

	_, ok = asMapping(map[int]any{1: 2})
	assert.False(t, ok)

	_, ok = asMapping("{}")
	assert.False(t, ok, "text must not be parsed as a mapping")
}

func TestAsSequence(t *testing.T) {
	got, ok := asSequence([]string{"a", "b"})
	require.True(t, ok)
	assert.Equal(t, []any{"a", "b"}, got)

	got, ok = asSequence([2]int{1, 2})
	require.True(t, ok)
	assert.Equal(t, []any{1, 2}, got)

	_, ok = asSequence([]byte("ab"))
	assert.False(t, ok)

	_, ok = asSequence("ab")
	assert.False(t, ok)
}

func TestForwardTypeFuncs(t *testing.T) {
	out, err := bytesToString([]byte("ok"))
	require.NoError(t, err)
	assert.Equal(t, "ok", out)

	_, err = bytesToString("not bytes")
	assert.Error(t, err)

	out, err = enumToInt32(protoreflect.EnumNumber(3))
	require.NoError(t, err)
	assert.Equal(t, int32(3), out)

	out, err = toFloat32(float64(1.5))
	require.NoError(t, err)
	assert.Equal(t, float32(1.5), out)

	_, err = toBool("true")
	assert.Error(t, err, "forward funcs do not coerce")
}

func TestTypeMapClone(t *testing.T) {
	clone := TypeCallableMap.Clone()
	delete(clone, protoreflect.BoolKind)

	assert.Len(t, TypeCallableMap, 16)
	assert.Len(t, clone, 15)
}
