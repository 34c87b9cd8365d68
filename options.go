package protomap

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/protobuf/reflect/protoregistry"

	"github.com/zero-day-ai/protomap/enum"
)

// DefaultMaxDepth is the default limit on message nesting in both directions.
const DefaultMaxDepth = 100

// EncodeOption configures ToMap.
type EncodeOption func(*encodeConfig)

// encodeConfig holds the settings of a single ToMap call.
type encodeConfig struct {
	typeMap         TypeMap
	enumLabels      bool
	includeDefaults bool
	maxDepth        int
	logger          *slog.Logger
	tracer          trace.Tracer
	meter           metric.Meter
}

func newEncodeConfig(opts []EncodeOption) *encodeConfig {
	cfg := &encodeConfig{
		typeMap:  TypeCallableMap,
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}
	return cfg
}

// WithTypeMap replaces the forward type table.
// The table must cover every scalar kind the message uses; a missing kind
// fails with ErrUnrecognizedType.
func WithTypeMap(tm TypeMap) EncodeOption {
	return func(c *encodeConfig) {
		if tm != nil {
			c.typeMap = tm
		}
	}
}

// WithEnumLabels emits enum values as their declared names instead of numbers.
func WithEnumLabels(enabled bool) EncodeOption {
	return func(c *encodeConfig) {
		c.enumLabels = enabled
	}
}

// WithDefaults visits every declared field, emitting zero values for unset ones.
// Without it only populated fields are emitted.
func WithDefaults(enabled bool) EncodeOption {
	return func(c *encodeConfig) {
		c.includeDefaults = enabled
	}
}

// WithMaxDepth limits message nesting. Values <= 0 keep the default.
func WithMaxDepth(depth int) EncodeOption {
	return func(c *encodeConfig) {
		if depth > 0 {
			c.maxDepth = depth
		}
	}
}

// WithEncodeLogger sets the logger used by ToMap.
func WithEncodeLogger(logger *slog.Logger) EncodeOption {
	return func(c *encodeConfig) {
		c.logger = logger
	}
}

// WithEncodeTracer records a span for every ToMap call.
func WithEncodeTracer(tracer trace.Tracer) EncodeOption {
	return func(c *encodeConfig) {
		c.tracer = tracer
	}
}

// WithEncodeMeter records conversion metrics for every ToMap call.
func WithEncodeMeter(meter metric.Meter) EncodeOption {
	return func(c *encodeConfig) {
		c.meter = meter
	}
}

// DecodeOption configures FromMap and NewFromMap.
type DecodeOption func(*decodeConfig)

// decodeConfig holds the settings of a single FromMap call.
type decodeConfig struct {
	typeMap  TypeMap
	strict   bool
	resolver protoregistry.ExtensionTypeResolver
	aliases  *enum.Aliases
	maxDepth int
	logger   *slog.Logger
	tracer   trace.Tracer
	meter    metric.Meter
}

func newDecodeConfig(opts []DecodeOption) *decodeConfig {
	cfg := &decodeConfig{
		typeMap:  ReverseTypeCallableMap,
		strict:   true,
		resolver: protoregistry.GlobalTypes,
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}
	return cfg
}

// WithReverseTypeMap replaces the reverse type table.
// Kinds without an entry are written unchanged.
func WithReverseTypeMap(tm TypeMap) DecodeOption {
	return func(c *decodeConfig) {
		if tm != nil {
			c.typeMap = tm
		}
	}
}

// WithStrict controls whether unknown keys and extension numbers are errors
// (the default) or silently skipped.
func WithStrict(strict bool) DecodeOption {
	return func(c *decodeConfig) {
		c.strict = strict
	}
}

// WithExtensionResolver sets where extension numbers are looked up.
// The default is protoregistry.GlobalTypes.
func WithExtensionResolver(r protoregistry.ExtensionTypeResolver) DecodeOption {
	return func(c *decodeConfig) {
		if r != nil {
			c.resolver = r
		}
	}
}

// WithEnumAliases lets enum fields accept the aliases registered in a, in
// addition to declared names. Declared names take precedence.
func WithEnumAliases(a *enum.Aliases) DecodeOption {
	return func(c *decodeConfig) {
		c.aliases = a
	}
}

// WithDecodeMaxDepth limits mapping nesting. Values <= 0 keep the default.
func WithDecodeMaxDepth(depth int) DecodeOption {
	return func(c *decodeConfig) {
		if depth > 0 {
			c.maxDepth = depth
		}
	}
}

// WithDecodeLogger sets the logger used by FromMap.
// Keys skipped in non-strict mode are logged at debug level.
func WithDecodeLogger(logger *slog.Logger) DecodeOption {
	return func(c *decodeConfig) {
		c.logger = logger
	}
}

// WithDecodeTracer records a span for every FromMap call.
func WithDecodeTracer(tracer trace.Tracer) DecodeOption {
	return func(c *decodeConfig) {
		c.tracer = tracer
	}
}

// WithDecodeMeter records conversion metrics for every FromMap call.
func WithDecodeMeter(meter metric.Meter) DecodeOption {
	return func(c *decodeConfig) {
		c.meter = meter
	}
}
