package registry

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/zero-day-ai/protomap/internal/testschema"
)

func writeSet(t *testing.T, set *descriptorpb.FileDescriptorSet) string {
	t.Helper()
	data, err := proto.Marshal(set)
	require.NoError(t, err)

	p := filepath.Join(t.TempDir(), "schema.pb")
	require.NoError(t, os.WriteFile(p, data, 0o644))
	return p
}

func TestLoad(t *testing.T) {
	p := writeSet(t, testschema.FileDescriptorSet())

	reg, err := Load(p)
	require.NoError(t, err)

	mt, err := reg.FindMessage(string(testschema.SampleName))
	require.NoError(t, err)
	assert.Equal(t, testschema.SampleName, mt.Descriptor().FullName())

	// Messages are dynamic and writable.
	m := mt.New()
	m.Set(mt.Descriptor().Fields().ByName("f_string"), protoreflect.ValueOfString("x"))
	assert.Equal(t, "x", m.Get(mt.Descriptor().Fields().ByName("f_string")).String())
}

func TestLoad_DuplicateFiles(t *testing.T) {
	p1 := writeSet(t, testschema.FileDescriptorSet())
	p2 := writeSet(t, testschema.FileDescriptorSet())

	reg, err := Load(p1, p2)
	require.NoError(t, err)
	assert.Equal(t, 1, reg.Files().NumFiles())
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.pb"))
		assert.ErrorContains(t, err, "failed to read descriptor set")
	})

	t.Run("not a descriptor set", func(t *testing.T) {
		p := filepath.Join(t.TempDir(), "junk.pb")
		require.NoError(t, os.WriteFile(p, []byte{0xff, 0xff, 0xff}, 0o644))
		_, err := Load(p)
		assert.ErrorContains(t, err, "failed to parse descriptor set")
	})

	t.Run("unresolved import", func(t *testing.T) {
		fd := testschema.FileDescriptorProto()
		fd.Dependency = append(fd.Dependency, "missing/dep.proto")
		_, err := New(&descriptorpb.FileDescriptorSet{File: []*descriptorpb.FileDescriptorProto{fd}})
		assert.ErrorContains(t, err, "failed to build file registry")
	})
}

func TestFindMessage_NotFound(t *testing.T) {
	reg, err := New(testschema.FileDescriptorSet())
	require.NoError(t, err)

	tests := []string{"", "protomap.test.Nope", "Sample"}
	for _, name := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := reg.FindMessage(name)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMessageNotFound))
		})
	}
}

func TestTypes_ResolvesExtensions(t *testing.T) {
	reg, err := New(testschema.FileDescriptorSet())
	require.NoError(t, err)

	xt, err := reg.Types().FindExtensionByNumber(testschema.SampleName, 100)
	require.NoError(t, err)
	assert.Equal(t, protoreflect.Name("ext_note"), xt.TypeDescriptor().Name())
}

func TestMessages(t *testing.T) {
	reg, err := New(testschema.FileDescriptorSet())
	require.NoError(t, err)

	names := reg.Messages()
	assert.Contains(t, names, testschema.SampleName)
	assert.Contains(t, names, testschema.InnerName)
	assert.Contains(t, names, testschema.NodeName)
	for _, n := range names {
		assert.NotContains(t, string(n), "Entry", "map entries are not listed")
	}
}
