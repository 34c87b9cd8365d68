// Package registry loads protobuf descriptor sets and resolves the message and
// extension types they declare.
//
// Descriptor sets are the FileDescriptorSet files written by
//
//	protoc --include_imports --descriptor_set_out=schema.pb ...
//
// Every file a set depends on must be present in one of the loaded sets; the
// global registry of compiled-in types is not consulted. Messages created
// from a Registry are dynamicpb messages, so no generated code is needed to
// convert them.
package registry

import (
	"errors"
	"fmt"
	"os"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/dynamicpb"
)

// ErrMessageNotFound is returned when a message name is not declared by any
// loaded file.
var ErrMessageNotFound = errors.New("message type not found")

// Registry holds the files of one or more descriptor sets.
// It is safe for concurrent use once built.
type Registry struct {
	files *protoregistry.Files
	types *dynamicpb.Types
}

// Load reads the descriptor set files at paths and builds a Registry from
// their union. A file that appears in more than one set is kept once.
func Load(paths ...string) (*Registry, error) {
	merged := &descriptorpb.FileDescriptorSet{}
	seen := make(map[string]bool)

	for _, path := range paths {
		set, err := readSet(path)
		if err != nil {
			return nil, err
		}
		for _, fd := range set.GetFile() {
			if seen[fd.GetName()] {
				continue
			}
			seen[fd.GetName()] = true
			merged.File = append(merged.File, fd)
		}
	}

	return New(merged)
}

// New builds a Registry from an in-memory descriptor set.
func New(set *descriptorpb.FileDescriptorSet) (*Registry, error) {
	files, err := protodesc.NewFiles(set)
	if err != nil {
		return nil, fmt.Errorf("failed to build file registry: %w", err)
	}
	return &Registry{
		files: files,
		types: dynamicpb.NewTypes(files),
	}, nil
}

func readSet(path string) (*descriptorpb.FileDescriptorSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read descriptor set: %w", err)
	}
	set := &descriptorpb.FileDescriptorSet{}
	if err := proto.Unmarshal(data, set); err != nil {
		return nil, fmt.Errorf("failed to parse descriptor set %s: %w", path, err)
	}
	return set, nil
}

// Files returns the file registry.
func (r *Registry) Files() *protoregistry.Files {
	return r.files
}

// Types returns a resolver for the messages, enums and extensions declared
// by the loaded files. It can be passed to protomap.WithExtensionResolver.
func (r *Registry) Types() *dynamicpb.Types {
	return r.types
}

// FindMessage returns the type of the message with the given full name.
func (r *Registry) FindMessage(name string) (protoreflect.MessageType, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: no message name given", ErrMessageNotFound)
	}
	mt, err := r.types.FindMessageByName(protoreflect.FullName(name))
	if err != nil {
		if errors.Is(err, protoregistry.NotFound) {
			return nil, fmt.Errorf("%w: %s", ErrMessageNotFound, name)
		}
		return nil, err
	}
	return mt, nil
}

// Messages returns the full names of every top-level and nested message
// declared by the loaded files, in file registration order.
func (r *Registry) Messages() []protoreflect.FullName {
	var names []protoreflect.FullName
	r.files.RangeFiles(func(fd protoreflect.FileDescriptor) bool {
		names = appendMessages(names, fd.Messages())
		return true
	})
	return names
}

func appendMessages(names []protoreflect.FullName, msgs protoreflect.MessageDescriptors) []protoreflect.FullName {
	for i := 0; i < msgs.Len(); i++ {
		md := msgs.Get(i)
		if md.IsMapEntry() {
			continue
		}
		names = append(names, md.FullName())
		names = appendMessages(names, md.Messages())
	}
	return names
}
