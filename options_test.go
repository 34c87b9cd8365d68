package protomap

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
)

func TestEncodeOptions(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := newEncodeConfig(nil)
		assert.Equal(t, DefaultMaxDepth, cfg.maxDepth)
		assert.False(t, cfg.enumLabels)
		assert.False(t, cfg.includeDefaults)
		assert.Len(t, cfg.typeMap, len(TypeCallableMap))
		assert.NotNil(t, cfg.logger)
		assert.Nil(t, cfg.tracer)
		assert.Nil(t, cfg.meter)
	})

	t.Run("WithTypeMap", func(t *testing.T) {
		tm := TypeMap{protoreflect.BoolKind: toBool}
		cfg := newEncodeConfig([]EncodeOption{WithTypeMap(tm)})
		assert.Len(t, cfg.typeMap, 1)

		cfg = newEncodeConfig([]EncodeOption{WithTypeMap(nil)})
		assert.Len(t, cfg.typeMap, len(TypeCallableMap), "nil table keeps the default")
	})

	t.Run("flags", func(t *testing.T) {
		cfg := newEncodeConfig([]EncodeOption{WithEnumLabels(true), WithDefaults(true)})
		assert.True(t, cfg.enumLabels)
		assert.True(t, cfg.includeDefaults)
	})

	t.Run("WithMaxDepth", func(t *testing.T) {
		assert.Equal(t, 5, newEncodeConfig([]EncodeOption{WithMaxDepth(5)}).maxDepth)
		assert.Equal(t, DefaultMaxDepth, newEncodeConfig([]EncodeOption{WithMaxDepth(0)}).maxDepth)
		assert.Equal(t, DefaultMaxDepth, newEncodeConfig([]EncodeOption{WithMaxDepth(-1)}).maxDepth)
	})

	t.Run("observability", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		tracer := tracenoop.NewTracerProvider().Tracer("test")
		meter := noop.NewMeterProvider().Meter("test")

		cfg := newEncodeConfig([]EncodeOption{
			WithEncodeLogger(logger),
			WithEncodeTracer(tracer),
			WithEncodeMeter(meter),
		})
		assert.Same(t, logger, cfg.logger)
		assert.Equal(t, tracer, cfg.tracer)
		assert.Equal(t, meter, cfg.meter)
	})
}

func TestDecodeOptions(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := newDecodeConfig(nil)
		assert.True(t, cfg.strict)
		assert.Equal(t, DefaultMaxDepth, cfg.maxDepth)
		assert.Len(t, cfg.typeMap, len(ReverseTypeCallableMap))
		assert.Equal(t, protoregistry.ExtensionTypeResolver(protoregistry.GlobalTypes), cfg.resolver)
		assert.NotNil(t, cfg.logger)
	})

	t.Run("WithStrict", func(t *testing.T) {
		assert.False(t, newDecodeConfig([]DecodeOption{WithStrict(false)}).strict)
	})

	t.Run("WithExtensionResolver", func(t *testing.T) {
		types := new(protoregistry.Types)
		cfg := newDecodeConfig([]DecodeOption{WithExtensionResolver(types)})
		assert.Same(t, types, cfg.resolver)

		cfg = newDecodeConfig([]DecodeOption{WithExtensionResolver(nil)})
		assert.NotNil(t, cfg.resolver)
	})

	t.Run("WithReverseTypeMap", func(t *testing.T) {
		cfg := newDecodeConfig([]DecodeOption{WithReverseTypeMap(TypeMap{})})
		assert.Empty(t, cfg.typeMap)

		cfg = newDecodeConfig([]DecodeOption{WithReverseTypeMap(nil)})
		require.Contains(t, cfg.typeMap, protoreflect.BytesKind)
	})

	t.Run("WithDecodeMaxDepth", func(t *testing.T) {
		assert.Equal(t, 2, newDecodeConfig([]DecodeOption{WithDecodeMaxDepth(2)}).maxDepth)
		assert.Equal(t, DefaultMaxDepth, newDecodeConfig([]DecodeOption{WithDecodeMaxDepth(0)}).maxDepth)
	})

	t.Run("observability", func(t *testing.T) {
		logger := slog.New(slog.DiscardHandler)
		tracer := tracenoop.NewTracerProvider().Tracer("test")
		meter := noop.NewMeterProvider().Meter("test")

		cfg := newDecodeConfig([]DecodeOption{
			WithDecodeLogger(logger),
			WithDecodeTracer(tracer),
			WithDecodeMeter(meter),
		})
		assert.Same(t, logger, cfg.logger)
		assert.Equal(t, tracer, cfg.tracer)
		assert.Equal(t, meter, cfg.meter)
	})
}
