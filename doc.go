// Package protomap converts protocol buffer messages to generic
// map[string]any mappings and back.
//
// The mappings are meant as an intermediate form for formats such as JSON or
// YAML: they hold only maps, slices and scalars, and they are built and
// consumed entirely through protoreflect, so generated and dynamic messages
// are handled alike.
//
// # Core Functions
//
// ToMap converts a message to a mapping. Message fields become nested
// mappings, repeated fields become slices in element order, and scalar
// values are converted by a TypeMap keyed by field kind.
//
// FromMap writes a mapping onto an existing message; NewFromMap builds a new
// message of a given type. Keys are resolved to fields by name. In strict
// mode (the default) a key that names no field is an error; otherwise it is
// skipped.
//
// # Type Maps
//
// Each direction has its own TypeMap. TypeCallableMap, the forward default,
// has an entry for every scalar kind and turns bytes into UTF-8 text.
// ReverseTypeCallableMap only turns text back into bytes; a kind without an
// entry in a reverse table is written unchanged. The reverse table applies to
// singular fields only: items of repeated fields are written as given.
//
//	tm := protomap.TypeCallableMap.Clone()
//	tm[protoreflect.BytesKind] = func(v any) (any, error) {
//		return base64.StdEncoding.EncodeToString(v.([]byte)), nil
//	}
//	m, err := protomap.ToMap(msg, protomap.WithTypeMap(tm))
//
// # Enums
//
// Enum values are written as numbers unless WithEnumLabels is set, in which
// case they are written as their declared names. FromMap accepts either form.
// A number with no declared name in label mode, or an undeclared name, is an
// error, unless WithEnumAliases supplies an alias table (package enum) that
// maps the name to a declared one.
//
// # Extensions
//
// Extension fields are kept out of the ordinary key space. ToMap stores them
// under the reserved key ExtensionContainer, in a mapping keyed by the
// extension's field number:
//
//	{"name": "a", "___X": {"100": "x"}}
//
// FromMap looks extension numbers up with WithExtensionResolver
// (protoregistry.GlobalTypes by default).
//
// # Concurrency
//
// Calls share no state. Converting distinct messages concurrently is safe;
// FromMap mutates its target without synchronization.
package protomap
