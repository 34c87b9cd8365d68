package protomap

import (
	"fmt"
	"strconv"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// ToMap converts a proto message to a map[string]any representation.
//
// By default only populated fields are included; WithDefaults includes every
// declared field. Message fields become nested maps, repeated fields become
// []any in element order, map fields become map[string]any keyed by the
// textual map key, and scalars go through the forward TypeMap
// (TypeCallableMap unless overridden). Extensions are collected under
// ExtensionContainer, keyed by their field number.
//
// The message is never modified.
func ToMap(m proto.Message, opts ...EncodeOption) (result map[string]any, err error) {
	if m == nil {
		return nil, newError(opToMap, KindInvalidInput, "", "", ErrNilMessage)
	}

	cfg := newEncodeConfig(opts)
	refl := m.ProtoReflect()

	tel, err := newTelemetry("encode", cfg.tracer, cfg.meter)
	if err != nil {
		return nil, err
	}
	tel.start("protomap.ToMap", string(refl.Descriptor().FullName()))
	defer func() { tel.end(err) }()

	enc := &encoder{cfg: cfg}
	return enc.message(refl, "", 0)
}

const (
	opToMap   = "ToMap"
	opFromMap = "FromMap"
)

// encoder walks a message tree for a single ToMap call.
type encoder struct {
	cfg *encodeConfig
}

// valueAdaptor converts one field value, or one element of a list or map field.
type valueAdaptor func(v protoreflect.Value, path string) (any, error)

type fieldValue struct {
	fd protoreflect.FieldDescriptor
	v  protoreflect.Value
}

// fields returns the fields of m that are to be converted.
func (e *encoder) fields(m protoreflect.Message) []fieldValue {
	var out []fieldValue

	if !e.cfg.includeDefaults {
		m.Range(func(fd protoreflect.FieldDescriptor, v protoreflect.Value) bool {
			out = append(out, fieldValue{fd: fd, v: v})
			return true
		})
		return out
	}

	fields := m.Descriptor().Fields()
	for i := 0; i < fields.Len(); i++ {
		fd := fields.Get(i)
		out = append(out, fieldValue{fd: fd, v: m.Get(fd)})
	}

	// Extensions are not declared on the message, so only populated ones are visited.
	m.Range(func(fd protoreflect.FieldDescriptor, v protoreflect.Value) bool {
		if fd.IsExtension() {
			out = append(out, fieldValue{fd: fd, v: v})
		}
		return true
	})
	return out
}

func (e *encoder) message(m protoreflect.Message, path string, depth int) (map[string]any, error) {
	md := m.Descriptor()
	if depth > e.cfg.maxDepth {
		return nil, newError(opToMap, KindMaxDepth, string(md.FullName()), path,
			fmt.Errorf("%w (%d)", ErrMaxDepth, e.cfg.maxDepth))
	}

	result := make(map[string]any)
	var extensions map[string]any

	for _, f := range e.fields(m) {
		converted, err := e.field(md, f.fd, f.v, fieldPath(path, f.fd), depth)
		if err != nil {
			return nil, err
		}

		if f.fd.IsExtension() {
			if extensions == nil {
				extensions = make(map[string]any)
			}
			extensions[strconv.Itoa(int(f.fd.Number()))] = converted
			continue
		}

		result[string(f.fd.Name())] = converted
	}

	if extensions != nil {
		result[ExtensionContainer] = extensions
	}

	e.cfg.logger.Debug("converted message to map",
		"message", md.FullName(),
		"path", path,
		"fields", len(result))

	return result, nil
}

func (e *encoder) field(owner protoreflect.MessageDescriptor, fd protoreflect.FieldDescriptor, v protoreflect.Value, path string, depth int) (any, error) {
	switch {
	case fd.IsList():
		adapt, err := e.adaptor(owner, fd, path, depth)
		if err != nil {
			return nil, err
		}
		list := v.List()
		out := make([]any, 0, list.Len())
		for i := 0; i < list.Len(); i++ {
			item, err := adapt(list.Get(i), fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			out = append(out, item)
		}
		return out, nil

	case fd.IsMap():
		adapt, err := e.adaptor(owner, fd.MapValue(), path, depth)
		if err != nil {
			return nil, err
		}
		mp := v.Map()
		out := make(map[string]any, mp.Len())
		var rangeErr error
		mp.Range(func(k protoreflect.MapKey, val protoreflect.Value) bool {
			key := k.String()
			item, err := adapt(val, fmt.Sprintf("%s[%q]", path, key))
			if err != nil {
				rangeErr = err
				return false
			}
			out[key] = item
			return true
		})
		if rangeErr != nil {
			return nil, rangeErr
		}
		return out, nil
	}

	adapt, err := e.adaptor(owner, fd, path, depth)
	if err != nil {
		return nil, err
	}
	return adapt(v, path)
}

// adaptor resolves the conversion for values of fd: recursion for messages,
// label lookup for enums in label mode, and the type map for everything else.
func (e *encoder) adaptor(owner protoreflect.MessageDescriptor, fd protoreflect.FieldDescriptor, path string, depth int) (valueAdaptor, error) {
	if isMessage(fd) {
		return func(v protoreflect.Value, path string) (any, error) {
			return e.message(v.Message(), path, depth+1)
		}, nil
	}

	if e.cfg.enumLabels && fd.Kind() == protoreflect.EnumKind {
		return func(v protoreflect.Value, path string) (any, error) {
			name, err := enumLabel(fd, v.Enum())
			if err != nil {
				return nil, newError(opToMap, KindInvalidEnum, string(owner.FullName()), path, err)
			}
			return name, nil
		}, nil
	}

	fn, ok := e.cfg.typeMap[fd.Kind()]
	if !ok || fn == nil {
		return nil, newError(opToMap, KindUnrecognizedType, string(owner.FullName()), path,
			fmt.Errorf("%w %s", ErrUnrecognizedType, fd.Kind()))
	}

	return func(v protoreflect.Value, path string) (any, error) {
		out, err := fn(v.Interface())
		if err != nil {
			return nil, newError(opToMap, KindInvalidValue, string(owner.FullName()), path,
				fmt.Errorf("%w: %v", ErrInvalidValue, err))
		}
		return out, nil
	}, nil
}

func isMessage(fd protoreflect.FieldDescriptor) bool {
	return fd.Kind() == protoreflect.MessageKind || fd.Kind() == protoreflect.GroupKind
}

// fieldPath appends fd to a dotted field path. Extensions are written as
// [full.name].
func fieldPath(path string, fd protoreflect.FieldDescriptor) string {
	name := string(fd.Name())
	if fd.IsExtension() {
		name = "[" + string(fd.FullName()) + "]"
	}
	if path == "" {
		return name
	}
	return path + "." + name
}
