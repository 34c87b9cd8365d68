package protomap

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
)

// FromMap populates dst from a generic mapping and returns dst.
//
// Keys are resolved to fields by name; entries of ExtensionContainer are
// resolved to extensions by number through the configured extension
// resolver. In strict mode (the default) unknown keys and extension numbers
// are errors, otherwise they are skipped.
//
// Singular scalars pass through the reverse TypeMap (ReverseTypeCallableMap
// unless overridden; kinds without an entry are unchanged) before being
// written. Items of repeated and map fields are written as given, without the
// reverse TypeMap. Enum fields accept either numbers or declared names.
// Repeated fields are appended to; singular message fields are merged into
// in place. Null values leave the field untouched.
//
// On error dst may be partially populated and should be discarded.
func FromMap(dst proto.Message, values map[string]any, opts ...DecodeOption) (result proto.Message, err error) {
	if dst == nil {
		return nil, newError(opFromMap, KindInvalidInput, "", "", ErrNilMessage)
	}
	refl := dst.ProtoReflect()
	if !refl.IsValid() {
		return nil, newError(opFromMap, KindInvalidInput, string(refl.Descriptor().FullName()), "", ErrNilMessage)
	}

	cfg := newDecodeConfig(opts)

	tel, err := newTelemetry("decode", cfg.tracer, cfg.meter)
	if err != nil {
		return nil, err
	}
	tel.start("protomap.FromMap", string(refl.Descriptor().FullName()))
	defer func() { tel.end(err) }()

	dec := &decoder{cfg: cfg, tel: tel}
	if err := dec.message(refl, values, "", 0); err != nil {
		return nil, err
	}
	return dst, nil
}

// NewFromMap creates a new message of type mt and populates it from values.
// See FromMap.
func NewFromMap(mt protoreflect.MessageType, values map[string]any, opts ...DecodeOption) (proto.Message, error) {
	if mt == nil {
		return nil, newError(opFromMap, KindInvalidInput, "", "", ErrNilMessage)
	}
	return FromMap(mt.New().Interface(), values, opts...)
}

// decoder writes a mapping tree onto a message tree for a single FromMap call.
type decoder struct {
	cfg *decodeConfig
	tel *telemetry
}

type fieldInput struct {
	fd    protoreflect.FieldDescriptor
	value any
	path  string
}

// resolve pairs the keys of values with field descriptors of md.
func (d *decoder) resolve(md protoreflect.MessageDescriptor, values map[string]any, path string) ([]fieldInput, error) {
	var inputs []fieldInput

	for _, key := range slices.Sorted(maps.Keys(values)) {
		if key == ExtensionContainer {
			continue
		}
		fd := md.Fields().ByName(protoreflect.Name(key))
		if fd == nil {
			keyPath := joinKey(path, key)
			if d.cfg.strict {
				return nil, newError(opFromMap, KindUnknownField, string(md.FullName()), keyPath,
					fmt.Errorf("%w: %s does not have a field called %s", ErrUnknownField, md.FullName(), key)).
					WithContext(map[string]any{"key": key})
			}
			d.skip(md, "key", key, keyPath)
			continue
		}
		inputs = append(inputs, fieldInput{fd: fd, value: values[key], path: fieldPath(path, fd)})
	}

	raw, ok := values[ExtensionContainer]
	if !ok || raw == nil {
		return inputs, nil
	}
	extensions, ok := asMapping(raw)
	if !ok {
		return nil, newError(opFromMap, KindInvalidValue, string(md.FullName()), joinKey(path, ExtensionContainer),
			fmt.Errorf("%w: extension container must be a mapping, got %T", ErrInvalidValue, raw))
	}

	for _, key := range slices.Sorted(maps.Keys(extensions)) {
		keyPath := joinKey(path, "["+key+"]")
		number, err := strconv.ParseInt(key, 10, 32)
		if err != nil {
			return nil, newError(opFromMap, KindMalformedExtensionKey, string(md.FullName()), keyPath,
				fmt.Errorf("%w: %q", ErrMalformedExtensionKey, key))
		}

		xt, err := d.cfg.resolver.FindExtensionByNumber(md.FullName(), protoreflect.FieldNumber(number))
		if err != nil {
			if !errors.Is(err, protoregistry.NotFound) {
				return nil, newError(opFromMap, KindUnknownExtension, string(md.FullName()), keyPath, err)
			}
			if d.cfg.strict {
				return nil, newError(opFromMap, KindUnknownExtension, string(md.FullName()), keyPath,
					fmt.Errorf("%w: %s does not have an extension with number %d, perhaps its definition was not registered",
						ErrUnknownExtension, md.FullName(), number)).
					WithContext(map[string]any{"number": protoreflect.FieldNumber(number)})
			}
			d.skip(md, "extension", key, keyPath)
			continue
		}

		xd := xt.TypeDescriptor()
		inputs = append(inputs, fieldInput{fd: xd, value: extensions[key], path: fieldPath(path, xd)})
	}

	return inputs, nil
}

func (d *decoder) message(m protoreflect.Message, values map[string]any, path string, depth int) error {
	md := m.Descriptor()
	if depth > d.cfg.maxDepth {
		return newError(opFromMap, KindMaxDepth, string(md.FullName()), path,
			fmt.Errorf("%w (%d)", ErrMaxDepth, d.cfg.maxDepth))
	}

	inputs, err := d.resolve(md, values, path)
	if err != nil {
		return err
	}

	for _, in := range inputs {
		if in.value == nil {
			continue
		}
		if err := d.field(m, in.fd, in.value, in.path, depth); err != nil {
			return err
		}
	}
	return nil
}

func (d *decoder) field(m protoreflect.Message, fd protoreflect.FieldDescriptor, value any, path string, depth int) error {
	md := m.Descriptor()

	switch {
	case fd.IsList():
		items, ok := asSequence(value)
		if !ok {
			return d.invalid(md, path, fmt.Errorf("%w: expected a sequence, got %T", ErrInvalidValue, value))
		}
		list := m.Mutable(fd).List()
		for i, item := range items {
			itemPath := fmt.Sprintf("%s[%d]", path, i)
			if isMessage(fd) {
				elem := list.NewElement()
				if err := d.nested(elem.Message(), item, itemPath, depth); err != nil {
					return err
				}
				list.Append(elem)
				continue
			}
			v, err := d.scalar(md, fd, item, itemPath)
			if err != nil {
				return err
			}
			list.Append(v)
		}
		return nil

	case fd.IsMap():
		entries, ok := asMapping(value)
		if !ok {
			return d.invalid(md, path, fmt.Errorf("%w: expected a mapping, got %T", ErrInvalidValue, value))
		}
		mp := m.Mutable(fd).Map()
		keyFd, valueFd := fd.MapKey(), fd.MapValue()
		for _, key := range slices.Sorted(maps.Keys(entries)) {
			entryPath := fmt.Sprintf("%s[%q]", path, key)
			k, err := coerce(keyFd, key)
			if err != nil {
				return d.invalid(md, entryPath, err)
			}
			if isMessage(valueFd) {
				v := mp.NewValue()
				if err := d.nested(v.Message(), entries[key], entryPath, depth); err != nil {
					return err
				}
				mp.Set(k.MapKey(), v)
				continue
			}
			v, err := d.scalar(md, valueFd, entries[key], entryPath)
			if err != nil {
				return err
			}
			mp.Set(k.MapKey(), v)
		}
		return nil

	case isMessage(fd):
		return d.nested(m.Mutable(fd).Message(), value, path, depth)
	}

	converted, err := d.cfg.typeMap.lookupReverse(fd.Kind())(value)
	if err != nil {
		return d.invalid(md, path, fmt.Errorf("%w: %v", ErrInvalidValue, err))
	}
	v, err := d.scalar(md, fd, converted, path)
	if err != nil {
		return err
	}
	m.Set(fd, v)
	return nil
}

// nested decodes value, which must be a mapping, into the sub-message m.
func (d *decoder) nested(m protoreflect.Message, value any, path string, depth int) error {
	sub, ok := asMapping(value)
	if !ok {
		return d.invalid(m.Descriptor(), path, fmt.Errorf("%w: expected a mapping, got %T", ErrInvalidValue, value))
	}
	return d.message(m, sub, path, depth+1)
}

// scalar converts value for writing to fd, resolving enum names and aliases
// to numbers.
func (d *decoder) scalar(owner protoreflect.MessageDescriptor, fd protoreflect.FieldDescriptor, value any, path string) (protoreflect.Value, error) {
	if name, ok := value.(string); ok && fd.Kind() == protoreflect.EnumKind {
		number, err := enumNumber(fd, name)
		if err != nil {
			alias, found := d.cfg.aliases.Resolve(fd.Enum().FullName(), name)
			if !found {
				return protoreflect.Value{}, newError(opFromMap, KindInvalidEnum, string(owner.FullName()), path, err)
			}
			if number, err = enumNumber(fd, alias); err != nil {
				return protoreflect.Value{}, newError(opFromMap, KindInvalidEnum, string(owner.FullName()), path,
					fmt.Errorf("alias %q: %w", name, err))
			}
		}
		return protoreflect.ValueOfEnum(number), nil
	}

	v, err := coerce(fd, value)
	if err != nil {
		return protoreflect.Value{}, d.invalid(owner, path, err)
	}
	return v, nil
}

func (d *decoder) invalid(md protoreflect.MessageDescriptor, path string, err error) error {
	return newError(opFromMap, KindInvalidValue, string(md.FullName()), path, err)
}

func (d *decoder) skip(md protoreflect.MessageDescriptor, what, key, path string) {
	d.cfg.logger.Debug("skipping unknown "+what,
		"message", md.FullName(),
		what, key,
		"path", path)
	d.tel.skip(1)
}

func joinKey(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
