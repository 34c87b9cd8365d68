// Package testschema builds a small proto2 schema at runtime for tests.
//
// The schema is declared with descriptorpb and instantiated with dynamicpb,
// so no generated code is needed. Its contents are equivalent to:
//
//	syntax = "proto2";
//	package protomap.test;
//
//	enum Color { COLOR_UNSPECIFIED = 0; RED = 1; BLUE = 2; }
//
//	message Inner {
//	  optional string label = 1;
//	  optional int32 count = 2;
//	}
//
//	message Sample {
//	  optional double f_double = 1;
//	  ... one optional field per scalar kind ...
//	  optional bytes f_bytes = 15;
//	  optional Color color = 16;
//	  optional Inner inner = 17;
//	  repeated int32 numbers = 18;
//	  repeated Inner items = 19;
//	  repeated Color colors = 20;
//	  repeated bytes blobs = 21;
//	  repeated string tags = 22;
//	  map<string, int32> counts = 23;
//	  map<int32, Inner> by_id = 24;
//	  map<string, Color> palette = 25;
//	  extensions 100 to 199;
//	}
//
//	message Node {
//	  optional string name = 1;
//	  optional Node child = 2;
//	}
//
//	extend Sample {
//	  optional string ext_note = 100;
//	  optional Inner ext_inner = 101;
//	  repeated int32 ext_numbers = 102;
//	  optional Color ext_color = 103;
//	}
package testschema

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/dynamicpb"
)

// Package is the proto package of the test schema.
const Package = "protomap.test"

// Full names of the test messages.
const (
	SampleName protoreflect.FullName = Package + ".Sample"
	InnerName  protoreflect.FullName = Package + ".Inner"
	NodeName   protoreflect.FullName = Package + ".Node"
)

// Schema holds the descriptors and dynamic types of the test schema.
type Schema struct {
	File  protoreflect.FileDescriptor
	Types *protoregistry.Types

	Sample protoreflect.MessageType
	Inner  protoreflect.MessageType
	Node   protoreflect.MessageType

	ExtNote    protoreflect.ExtensionType
	ExtInner   protoreflect.ExtensionType
	ExtNumbers protoreflect.ExtensionType
	ExtColor   protoreflect.ExtensionType
}

// New builds the schema. It panics if the descriptors are invalid.
func New() *Schema {
	fd, err := protodesc.NewFile(FileDescriptorProto(), new(protoregistry.Files))
	if err != nil {
		panic(fmt.Sprintf("testschema: %v", err))
	}

	s := &Schema{
		File:   fd,
		Types:  new(protoregistry.Types),
		Sample: dynamicpb.NewMessageType(fd.Messages().ByName("Sample")),
		Inner:  dynamicpb.NewMessageType(fd.Messages().ByName("Inner")),
		Node:   dynamicpb.NewMessageType(fd.Messages().ByName("Node")),
	}

	exts := fd.Extensions()
	s.ExtNote = dynamicpb.NewExtensionType(exts.ByName("ext_note"))
	s.ExtInner = dynamicpb.NewExtensionType(exts.ByName("ext_inner"))
	s.ExtNumbers = dynamicpb.NewExtensionType(exts.ByName("ext_numbers"))
	s.ExtColor = dynamicpb.NewExtensionType(exts.ByName("ext_color"))

	for _, mt := range []protoreflect.MessageType{s.Sample, s.Inner, s.Node} {
		must(s.Types.RegisterMessage(mt))
	}
	must(s.Types.RegisterEnum(dynamicpb.NewEnumType(fd.Enums().ByName("Color"))))
	for _, xt := range []protoreflect.ExtensionType{s.ExtNote, s.ExtInner, s.ExtNumbers, s.ExtColor} {
		must(s.Types.RegisterExtension(xt))
	}

	return s
}

// NewSample returns an empty Sample message.
func (s *Schema) NewSample() protoreflect.Message {
	return s.Sample.New()
}

// Field returns the field called name of m. It panics if there is none.
func Field(m protoreflect.Message, name string) protoreflect.FieldDescriptor {
	fd := m.Descriptor().Fields().ByName(protoreflect.Name(name))
	if fd == nil {
		panic(fmt.Sprintf("testschema: %s has no field %s", m.Descriptor().FullName(), name))
	}
	return fd
}

// Set assigns v to the field called name of m.
func Set(m protoreflect.Message, name string, v protoreflect.Value) {
	m.Set(Field(m, name), v)
}

// Get returns the value of the field called name of m.
func Get(m protoreflect.Message, name string) protoreflect.Value {
	return m.Get(Field(m, name))
}

// FileDescriptorSet returns the schema as a descriptor set, as written by
// protoc --descriptor_set_out.
func FileDescriptorSet() *descriptorpb.FileDescriptorSet {
	return &descriptorpb.FileDescriptorSet{
		File: []*descriptorpb.FileDescriptorProto{FileDescriptorProto()},
	}
}

// FileDescriptorProto returns the descriptor of the schema file.
func FileDescriptorProto() *descriptorpb.FileDescriptorProto {
	return &descriptorpb.FileDescriptorProto{
		Name:    proto.String("protomap/test.proto"),
		Package: proto.String(Package),
		Syntax:  proto.String("proto2"),
		EnumType: []*descriptorpb.EnumDescriptorProto{{
			Name: proto.String("Color"),
			Value: []*descriptorpb.EnumValueDescriptorProto{
				{Name: proto.String("COLOR_UNSPECIFIED"), Number: proto.Int32(0)},
				{Name: proto.String("RED"), Number: proto.Int32(1)},
				{Name: proto.String("BLUE"), Number: proto.Int32(2)},
			},
		}},
		MessageType: []*descriptorpb.DescriptorProto{
			{
				Name: proto.String("Inner"),
				Field: []*descriptorpb.FieldDescriptorProto{
					optional("label", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING, ""),
					optional("count", 2, descriptorpb.FieldDescriptorProto_TYPE_INT32, ""),
				},
			},
			sampleDescriptor(),
			{
				Name: proto.String("Node"),
				Field: []*descriptorpb.FieldDescriptorProto{
					optional("name", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING, ""),
					optional("child", 2, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, ".protomap.test.Node"),
				},
			},
		},
		Extension: []*descriptorpb.FieldDescriptorProto{
			extension(optional("ext_note", 100, descriptorpb.FieldDescriptorProto_TYPE_STRING, "")),
			extension(optional("ext_inner", 101, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, ".protomap.test.Inner")),
			extension(repeated("ext_numbers", 102, descriptorpb.FieldDescriptorProto_TYPE_INT32, "")),
			extension(optional("ext_color", 103, descriptorpb.FieldDescriptorProto_TYPE_ENUM, ".protomap.test.Color")),
		},
	}
}

func sampleDescriptor() *descriptorpb.DescriptorProto {
	type scalar struct {
		name string
		typ  descriptorpb.FieldDescriptorProto_Type
	}
	scalars := []scalar{
		{"f_double", descriptorpb.FieldDescriptorProto_TYPE_DOUBLE},
		{"f_float", descriptorpb.FieldDescriptorProto_TYPE_FLOAT},
		{"f_int32", descriptorpb.FieldDescriptorProto_TYPE_INT32},
		{"f_int64", descriptorpb.FieldDescriptorProto_TYPE_INT64},
		{"f_uint32", descriptorpb.FieldDescriptorProto_TYPE_UINT32},
		{"f_uint64", descriptorpb.FieldDescriptorProto_TYPE_UINT64},
		{"f_sint32", descriptorpb.FieldDescriptorProto_TYPE_SINT32},
		{"f_sint64", descriptorpb.FieldDescriptorProto_TYPE_SINT64},
		{"f_fixed32", descriptorpb.FieldDescriptorProto_TYPE_FIXED32},
		{"f_fixed64", descriptorpb.FieldDescriptorProto_TYPE_FIXED64},
		{"f_sfixed32", descriptorpb.FieldDescriptorProto_TYPE_SFIXED32},
		{"f_sfixed64", descriptorpb.FieldDescriptorProto_TYPE_SFIXED64},
		{"f_bool", descriptorpb.FieldDescriptorProto_TYPE_BOOL},
		{"f_string", descriptorpb.FieldDescriptorProto_TYPE_STRING},
		{"f_bytes", descriptorpb.FieldDescriptorProto_TYPE_BYTES},
	}

	var fields []*descriptorpb.FieldDescriptorProto
	for i, s := range scalars {
		fields = append(fields, optional(s.name, int32(i+1), s.typ, ""))
	}
	fields = append(fields,
		optional("color", 16, descriptorpb.FieldDescriptorProto_TYPE_ENUM, ".protomap.test.Color"),
		optional("inner", 17, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, ".protomap.test.Inner"),
		repeated("numbers", 18, descriptorpb.FieldDescriptorProto_TYPE_INT32, ""),
		repeated("items", 19, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, ".protomap.test.Inner"),
		repeated("colors", 20, descriptorpb.FieldDescriptorProto_TYPE_ENUM, ".protomap.test.Color"),
		repeated("blobs", 21, descriptorpb.FieldDescriptorProto_TYPE_BYTES, ""),
		repeated("tags", 22, descriptorpb.FieldDescriptorProto_TYPE_STRING, ""),
		repeated("counts", 23, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, ".protomap.test.Sample.CountsEntry"),
		repeated("by_id", 24, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, ".protomap.test.Sample.ByIdEntry"),
		repeated("palette", 25, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, ".protomap.test.Sample.PaletteEntry"),
	)

	return &descriptorpb.DescriptorProto{
		Name:  proto.String("Sample"),
		Field: fields,
		NestedType: []*descriptorpb.DescriptorProto{
			mapEntry("CountsEntry",
				optional("key", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING, ""),
				optional("value", 2, descriptorpb.FieldDescriptorProto_TYPE_INT32, "")),
			mapEntry("ByIdEntry",
				optional("key", 1, descriptorpb.FieldDescriptorProto_TYPE_INT32, ""),
				optional("value", 2, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, ".protomap.test.Inner")),
			mapEntry("PaletteEntry",
				optional("key", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING, ""),
				optional("value", 2, descriptorpb.FieldDescriptorProto_TYPE_ENUM, ".protomap.test.Color")),
		},
		ExtensionRange: []*descriptorpb.DescriptorProto_ExtensionRange{
			{Start: proto.Int32(100), End: proto.Int32(200)},
		},
	}
}

func optional(name string, number int32, typ descriptorpb.FieldDescriptorProto_Type, typeName string) *descriptorpb.FieldDescriptorProto {
	return field(name, number, descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL, typ, typeName)
}

func repeated(name string, number int32, typ descriptorpb.FieldDescriptorProto_Type, typeName string) *descriptorpb.FieldDescriptorProto {
	return field(name, number, descriptorpb.FieldDescriptorProto_LABEL_REPEATED, typ, typeName)
}

func field(name string, number int32, label descriptorpb.FieldDescriptorProto_Label, typ descriptorpb.FieldDescriptorProto_Type, typeName string) *descriptorpb.FieldDescriptorProto {
	f := &descriptorpb.FieldDescriptorProto{
		Name:   proto.String(name),
		Number: proto.Int32(number),
		Label:  label.Enum(),
		Type:   typ.Enum(),
	}
	if typeName != "" {
		f.TypeName = proto.String(typeName)
	}
	return f
}

func extension(f *descriptorpb.FieldDescriptorProto) *descriptorpb.FieldDescriptorProto {
	f.Extendee = proto.String(".protomap.test.Sample")
	return f
}

func mapEntry(name string, key, value *descriptorpb.FieldDescriptorProto) *descriptorpb.DescriptorProto {
	return &descriptorpb.DescriptorProto{
		Name:    proto.String(name),
		Field:   []*descriptorpb.FieldDescriptorProto{key, value},
		Options: &descriptorpb.MessageOptions{MapEntry: proto.Bool(true)},
	}
}

func must(err error) {
	if err != nil {
		panic(fmt.Sprintf("testschema: %v", err))
	}
}
