package protomap

import (
	"fmt"
	"unicode/utf8"

	"google.golang.org/protobuf/reflect/protoreflect"
)

// ExtensionContainer is the reserved mapping key holding extension values.
// Its value is a map from the extension's field number, as decimal text, to
// the converted extension value. It is never resolved as a field name.
const ExtensionContainer = "___X"

// TypeFunc converts a single scalar value.
//
// In a forward table the input is the Go value held by the field
// (protoreflect.Value.Interface(), with enum numbers as
// protoreflect.EnumNumber) and the output goes into the mapping. In a reverse
// table the input comes from the mapping and the output is handed to the
// field writer.
type TypeFunc func(v any) (any, error)

// TypeMap dispatches scalar conversions by field kind.
type TypeMap map[protoreflect.Kind]TypeFunc

// Clone returns a shallow copy of the table that can be modified freely.
func (tm TypeMap) Clone() TypeMap {
	out := make(TypeMap, len(tm))
	for k, fn := range tm {
		out[k] = fn
	}
	return out
}

// TypeCallableMap is the default forward table. It covers every scalar kind;
// message and group kinds are handled by recursion and never looked up.
var TypeCallableMap = TypeMap{
	protoreflect.DoubleKind:   toFloat64,
	protoreflect.FloatKind:    toFloat32,
	protoreflect.Int32Kind:    toInt32,
	protoreflect.Sint32Kind:   toInt32,
	protoreflect.Sfixed32Kind: toInt32,
	protoreflect.Int64Kind:    toInt64,
	protoreflect.Sint64Kind:   toInt64,
	protoreflect.Sfixed64Kind: toInt64,
	protoreflect.Uint32Kind:   toUint32,
	protoreflect.Fixed32Kind:  toUint32,
	protoreflect.Uint64Kind:   toUint64,
	protoreflect.Fixed64Kind:  toUint64,
	protoreflect.BoolKind:     toBool,
	protoreflect.StringKind:   toString,
	protoreflect.BytesKind:    bytesToString,
	protoreflect.EnumKind:     enumToInt32,
}

// ReverseTypeCallableMap is the default reverse table. Kinds without an entry
// are passed through unchanged.
var ReverseTypeCallableMap = TypeMap{
	protoreflect.BytesKind: stringToBytes,
}

// lookupReverse returns the reverse conversion for kind, or identity.
func (tm TypeMap) lookupReverse(kind protoreflect.Kind) TypeFunc {
	if fn, ok := tm[kind]; ok && fn != nil {
		return fn
	}
	return identity
}

func identity(v any) (any, error) {
	return v, nil
}

func toFloat64(v any) (any, error) {
	switch f := v.(type) {
	case float64:
		return f, nil
	case float32:
		return float64(f), nil
	}
	return nil, fmt.Errorf("expected float, got %T", v)
}

func toFloat32(v any) (any, error) {
	switch f := v.(type) {
	case float32:
		return f, nil
	case float64:
		return float32(f), nil
	}
	return nil, fmt.Errorf("expected float, got %T", v)
}

func toInt32(v any) (any, error) {
	switch i := v.(type) {
	case int32:
		return i, nil
	case int64:
		return int32(i), nil
	}
	return nil, fmt.Errorf("expected int32, got %T", v)
}

func toInt64(v any) (any, error) {
	switch i := v.(type) {
	case int64:
		return i, nil
	case int32:
		return int64(i), nil
	}
	return nil, fmt.Errorf("expected int64, got %T", v)
}

func toUint32(v any) (any, error) {
	switch i := v.(type) {
	case uint32:
		return i, nil
	case uint64:
		return uint32(i), nil
	}
	return nil, fmt.Errorf("expected uint32, got %T", v)
}

func toUint64(v any) (any, error) {
	switch i := v.(type) {
	case uint64:
		return i, nil
	case uint32:
		return uint64(i), nil
	}
	return nil, fmt.Errorf("expected uint64, got %T", v)
}

func toBool(v any) (any, error) {
	if b, ok := v.(bool); ok {
		return b, nil
	}
	return nil, fmt.Errorf("expected bool, got %T", v)
}

func toString(v any) (any, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	return nil, fmt.Errorf("expected string, got %T", v)
}

func bytesToString(v any) (any, error) {
	b, ok := v.([]byte)
	if !ok {
		return nil, fmt.Errorf("expected bytes, got %T", v)
	}
	if !utf8.Valid(b) {
		return nil, fmt.Errorf("bytes are not valid UTF-8")
	}
	return string(b), nil
}

func enumToInt32(v any) (any, error) {
	switch n := v.(type) {
	case protoreflect.EnumNumber:
		return int32(n), nil
	case int32:
		return n, nil
	}
	return nil, fmt.Errorf("expected enum number, got %T", v)
}

func stringToBytes(v any) (any, error) {
	switch b := v.(type) {
	case string:
		return []byte(b), nil
	case []byte:
		return b, nil
	}
	return v, nil
}
