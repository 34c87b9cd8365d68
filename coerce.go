package protomap

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/spf13/cast"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// coerce converts a loosely typed mapping value into the protoreflect.Value
// expected by a field of the kind of fd. Integers of any width, integral
// floats, json.Number and base-10 numeric strings are accepted for numeric
// kinds.
func coerce(fd protoreflect.FieldDescriptor, v any) (protoreflect.Value, error) {
	if v == nil {
		return protoreflect.Value{}, fmt.Errorf("%w: null is not a valid %s", ErrInvalidValue, fd.Kind())
	}

	switch fd.Kind() {
	case protoreflect.BoolKind:
		b, err := parseBool(v)
		if err != nil {
			return protoreflect.Value{}, invalidValue(fd, v, err)
		}
		return protoreflect.ValueOfBool(b), nil

	case protoreflect.StringKind:
		switch s := v.(type) {
		case string:
			return protoreflect.ValueOfString(s), nil
		case []byte:
			return protoreflect.ValueOfString(string(s)), nil
		}
		return protoreflect.Value{}, invalidValue(fd, v, nil)

	case protoreflect.BytesKind:
		switch b := v.(type) {
		case []byte:
			return protoreflect.ValueOfBytes(b), nil
		case string:
			return protoreflect.ValueOfBytes([]byte(b)), nil
		}
		return protoreflect.Value{}, invalidValue(fd, v, nil)

	case protoreflect.Int32Kind, protoreflect.Sint32Kind, protoreflect.Sfixed32Kind:
		i, err := toInteger(v)
		if err != nil {
			return protoreflect.Value{}, invalidValue(fd, v, err)
		}
		if i < math.MinInt32 || i > math.MaxInt32 {
			return protoreflect.Value{}, invalidValue(fd, v, errOutOfRange)
		}
		return protoreflect.ValueOfInt32(int32(i)), nil

	case protoreflect.Int64Kind, protoreflect.Sint64Kind, protoreflect.Sfixed64Kind:
		i, err := toInteger(v)
		if err != nil {
			return protoreflect.Value{}, invalidValue(fd, v, err)
		}
		return protoreflect.ValueOfInt64(i), nil

	case protoreflect.Uint32Kind, protoreflect.Fixed32Kind:
		u, err := toUnsigned(v)
		if err != nil {
			return protoreflect.Value{}, invalidValue(fd, v, err)
		}
		if u > math.MaxUint32 {
			return protoreflect.Value{}, invalidValue(fd, v, errOutOfRange)
		}
		return protoreflect.ValueOfUint32(uint32(u)), nil

	case protoreflect.Uint64Kind, protoreflect.Fixed64Kind:
		u, err := toUnsigned(v)
		if err != nil {
			return protoreflect.Value{}, invalidValue(fd, v, err)
		}
		return protoreflect.ValueOfUint64(u), nil

	case protoreflect.FloatKind:
		f, err := toFloat(v)
		if err != nil {
			return protoreflect.Value{}, invalidValue(fd, v, err)
		}
		if !math.IsInf(f, 0) && !math.IsNaN(f) && math.Abs(f) > math.MaxFloat32 {
			return protoreflect.Value{}, invalidValue(fd, v, errOutOfRange)
		}
		return protoreflect.ValueOfFloat32(float32(f)), nil

	case protoreflect.DoubleKind:
		f, err := toFloat(v)
		if err != nil {
			return protoreflect.Value{}, invalidValue(fd, v, err)
		}
		return protoreflect.ValueOfFloat64(f), nil

	case protoreflect.EnumKind:
		i, err := toInteger(v)
		if err != nil {
			return protoreflect.Value{}, invalidValue(fd, v, err)
		}
		if i < math.MinInt32 || i > math.MaxInt32 {
			return protoreflect.Value{}, invalidValue(fd, v, errOutOfRange)
		}
		return protoreflect.ValueOfEnum(protoreflect.EnumNumber(i)), nil
	}

	return protoreflect.Value{}, fmt.Errorf("%w: cannot write to a %s field", ErrInvalidValue, fd.Kind())
}

var (
	errOutOfRange  = errors.New("value out of range")
	errNotIntegral = errors.New("value is not an integer")
	errNotNumeric  = errors.New("value is not a number")
)

func invalidValue(fd protoreflect.FieldDescriptor, v any, cause error) error {
	if cause == nil {
		return fmt.Errorf("%w: %v (%T) for %s field", ErrInvalidValue, v, v, fd.Kind())
	}
	return fmt.Errorf("%w: %v (%T) for %s field: %v", ErrInvalidValue, v, v, fd.Kind(), cause)
}

func toInteger(v any) (int64, error) {
	switch n := v.(type) {
	case bool:
		return 0, errNotNumeric
	case protoreflect.EnumNumber:
		return int64(n), nil
	case float32:
		return floatToInteger(float64(n))
	case float64:
		return floatToInteger(n)
	case uint:
		if uint64(n) > math.MaxInt64 {
			return 0, errOutOfRange
		}
		return int64(n), nil
	case uintptr:
		if uint64(n) > math.MaxInt64 {
			return 0, errOutOfRange
		}
		return int64(n), nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, errOutOfRange
		}
		return int64(n), nil
	case json.Number:
		return n.Int64()
	case string:
		return strconv.ParseInt(strings.TrimSpace(n), 10, 64)
	}
	return cast.ToInt64E(v)
}

func floatToInteger(f float64) (int64, error) {
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, errNotIntegral
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, errOutOfRange
	}
	return int64(f), nil
}

func toUnsigned(v any) (uint64, error) {
	switch n := v.(type) {
	case bool:
		return 0, errNotNumeric
	case float32:
		return floatToUnsigned(float64(n))
	case float64:
		return floatToUnsigned(n)
	case json.Number:
		return strconv.ParseUint(string(n), 10, 64)
	case string:
		return strconv.ParseUint(strings.TrimSpace(n), 10, 64)
	}
	return cast.ToUint64E(v)
}

func floatToUnsigned(f float64) (uint64, error) {
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, errNotIntegral
	}
	if f < 0 || f >= math.MaxUint64 {
		return 0, errOutOfRange
	}
	return uint64(f), nil
}

// parseBool accepts booleans, boolean text ("true", "1", "f", ...) and the
// integers 0 and 1.
func parseBool(v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		return cast.ToBoolE(strings.TrimSpace(b))
	case json.Number, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		i, err := toInteger(b)
		if err != nil {
			return false, err
		}
		if i != 0 && i != 1 {
			return false, errOutOfRange
		}
		return i == 1, nil
	}
	return false, fmt.Errorf("cannot read %T as a boolean", v)
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case bool:
		return 0, errNotNumeric
	case json.Number:
		return n.Float64()
	}
	return cast.ToFloat64E(v)
}

// asMapping returns v as a string-keyed mapping. It accepts map[string]any,
// map[any]any as produced by some YAML decoders, and any other map type whose
// key is a string.
func asMapping(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out, err := cast.ToStringMapE(m)
		return out, err == nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

// asSequence returns the elements of any slice or array other than []byte.
func asSequence(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case []byte, string:
		return nil, false
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
