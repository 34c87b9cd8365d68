package protomap_test

import (
	"encoding/json"
	"errors"
	"fmt"

	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/zero-day-ai/protomap"
	"github.com/zero-day-ai/protomap/internal/testschema"
)

func ExampleToMap() {
	s := testschema.New()
	m := s.NewSample()
	testschema.Set(m, "f_string", protoreflect.ValueOfString("hello"))
	testschema.Set(m, "color", protoreflect.ValueOfEnum(2))
	m.Set(s.ExtNote.TypeDescriptor(), protoreflect.ValueOfString("note"))

	values, err := protomap.ToMap(m.Interface(), protomap.WithEnumLabels(true))
	if err != nil {
		panic(err)
	}

	out, _ := json.Marshal(values)
	fmt.Println(string(out))
	// Output: {"___X":{"100":"note"},"color":"BLUE","f_string":"hello"}
}

func ExampleNewFromMap() {
	s := testschema.New()

	msg, err := protomap.NewFromMap(s.Sample, map[string]any{
		"f_bytes": "raw",
		"color":   "RED",
		"numbers": []any{1, 2, 3},
	})
	if err != nil {
		panic(err)
	}

	m := msg.ProtoReflect()
	fmt.Println(string(testschema.Get(m, "f_bytes").Bytes()))
	fmt.Println(testschema.Get(m, "color").Enum())
	fmt.Println(testschema.Get(m, "numbers").List().Len())
	// Output:
	// raw
	// 1
	// 3
}

func ExampleFromMap_strict() {
	s := testschema.New()

	_, err := protomap.NewFromMap(s.Sample, map[string]any{"colour": "RED"})
	fmt.Println(errors.Is(err, protomap.ErrUnknownField))

	_, err = protomap.NewFromMap(s.Sample, map[string]any{"colour": "RED"}, protomap.WithStrict(false))
	fmt.Println(err)
	// Output:
	// true
	// <nil>
}
