// Package config provides loading and parsing of protomap.yaml configuration files.
// A configuration names the descriptor sets to load, the message type to convert
// and the settings of both conversion directions.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zero-day-ai/protomap"
	"github.com/zero-day-ai/protomap/enum"
)

// File names searched for when Load is given a directory.
const (
	FileName    = "protomap.yaml"
	AltFileName = "protomap.yml"
)

// Output formats for mappings and messages.
const (
	FormatJSON   = "json"
	FormatYAML   = "yaml"
	FormatBinary = "binary"
	FormatText   = "text"
)

// Config represents a protomap.yaml configuration file.
type Config struct {
	// Descriptors lists FileDescriptorSet files, as written by
	// protoc --descriptor_set_out --include_imports.
	Descriptors []string `yaml:"descriptors,omitempty"`

	// Message is the full name of the message type to convert
	// (e.g., "acme.v1.Order").
	Message string `yaml:"message,omitempty"`

	Encode *EncodeConfig `yaml:"encode,omitempty"`
	Decode *DecodeConfig `yaml:"decode,omitempty"`
	Output *OutputConfig `yaml:"output,omitempty"`
}

// EncodeConfig holds settings for message to mapping conversion.
type EncodeConfig struct {
	EnumLabels      bool `yaml:"enum_labels,omitempty"`
	IncludeDefaults bool `yaml:"include_defaults,omitempty"`
	// MaxDepth limits message nesting. Default: protomap.DefaultMaxDepth
	MaxDepth int `yaml:"max_depth,omitempty"`
}

// DecodeConfig holds settings for mapping to message conversion.
type DecodeConfig struct {
	// Strict rejects unknown keys. Default: true
	Strict   *bool `yaml:"strict,omitempty"`
	MaxDepth int   `yaml:"max_depth,omitempty"`

	// EnumAliases maps enum full names to alias -> declared name tables.
	EnumAliases map[string]map[string]string `yaml:"enum_aliases,omitempty"`
}

// OutputConfig controls how results are written.
type OutputConfig struct {
	// MappingFormat is the format encode writes: json or yaml.
	// Default: json
	MappingFormat string `yaml:"mapping_format,omitempty"`
	// MessageFormat is the format decode writes: binary, json or text.
	// Default: binary
	MessageFormat string `yaml:"message_format,omitempty"`
	// Indent is the number of spaces used for JSON, YAML and text output.
	// Default: 2
	Indent int `yaml:"indent,omitempty"`
}

// Formats accepted by each output setting.
var (
	MappingFormats = []string{FormatJSON, FormatYAML}
	MessageFormats = []string{FormatBinary, FormatJSON, FormatText}
)

// GetEnumLabels reports whether enums are written as names.
func (e *EncodeConfig) GetEnumLabels() bool {
	return e != nil && e.EnumLabels
}

// GetIncludeDefaults reports whether unset fields are written.
func (e *EncodeConfig) GetIncludeDefaults() bool {
	return e != nil && e.IncludeDefaults
}

// GetMaxDepth returns the configured depth limit or the default value.
func (e *EncodeConfig) GetMaxDepth() int {
	if e == nil || e.MaxDepth <= 0 {
		return protomap.DefaultMaxDepth
	}
	return e.MaxDepth
}

// GetStrict returns the configured strictness or the default value.
func (d *DecodeConfig) GetStrict() bool {
	if d == nil || d.Strict == nil {
		return true
	}
	return *d.Strict
}

// GetMaxDepth returns the configured depth limit or the default value.
func (d *DecodeConfig) GetMaxDepth() int {
	if d == nil || d.MaxDepth <= 0 {
		return protomap.DefaultMaxDepth
	}
	return d.MaxDepth
}

// GetMappingFormat returns the configured mapping format or the default value.
func (o *OutputConfig) GetMappingFormat() string {
	if o == nil || o.MappingFormat == "" {
		return FormatJSON
	}
	return o.MappingFormat
}

// GetMessageFormat returns the configured message format or the default value.
func (o *OutputConfig) GetMessageFormat() string {
	if o == nil || o.MessageFormat == "" {
		return FormatBinary
	}
	return o.MessageFormat
}

// GetIndent returns the configured indent or the default value.
func (o *OutputConfig) GetIndent() int {
	if o == nil || o.Indent <= 0 {
		return 2
	}
	return o.Indent
}

// EncodeOptions translates the encode section to ToMap options.
func (c *Config) EncodeOptions() []protomap.EncodeOption {
	return []protomap.EncodeOption{
		protomap.WithEnumLabels(c.Encode.GetEnumLabels()),
		protomap.WithDefaults(c.Encode.GetIncludeDefaults()),
		protomap.WithMaxDepth(c.Encode.GetMaxDepth()),
	}
}

// GetEnumAliases builds the alias table, or returns nil when none are configured.
func (d *DecodeConfig) GetEnumAliases() *enum.Aliases {
	if d == nil || len(d.EnumAliases) == 0 {
		return nil
	}
	aliases := enum.New()
	aliases.RegisterBatch(d.EnumAliases)
	return aliases
}

// DecodeOptions translates the decode section to FromMap options.
func (c *Config) DecodeOptions() []protomap.DecodeOption {
	opts := []protomap.DecodeOption{
		protomap.WithStrict(c.Decode.GetStrict()),
		protomap.WithDecodeMaxDepth(c.Decode.GetMaxDepth()),
	}
	if aliases := c.Decode.GetEnumAliases(); aliases != nil {
		opts = append(opts, protomap.WithEnumAliases(aliases))
	}
	return opts
}

// Validate checks the configuration for values no command can use.
func (c *Config) Validate() error {
	for i, d := range c.Descriptors {
		if d == "" {
			return fmt.Errorf("descriptors[%d]: empty path", i)
		}
	}
	if c.Encode != nil && c.Encode.MaxDepth < 0 {
		return fmt.Errorf("encode.max_depth must not be negative, got %d", c.Encode.MaxDepth)
	}
	if c.Decode != nil && c.Decode.MaxDepth < 0 {
		return fmt.Errorf("decode.max_depth must not be negative, got %d", c.Decode.MaxDepth)
	}
	if c.Decode != nil {
		for name, mappings := range c.Decode.EnumAliases {
			for alias, declared := range mappings {
				if alias == "" || declared == "" {
					return fmt.Errorf("decode.enum_aliases[%s]: empty alias or name", name)
				}
			}
		}
	}
	if c.Output != nil {
		if f := c.Output.MappingFormat; f != "" && !slices.Contains(MappingFormats, f) {
			return fmt.Errorf("output.mapping_format %q is not one of %s", f, strings.Join(MappingFormats, ", "))
		}
		if f := c.Output.MessageFormat; f != "" && !slices.Contains(MessageFormats, f) {
			return fmt.Errorf("output.message_format %q is not one of %s", f, strings.Join(MessageFormats, ", "))
		}
		if c.Output.Indent < 0 {
			return fmt.Errorf("output.indent must not be negative, got %d", c.Output.Indent)
		}
	}
	return nil
}

// Load reads and parses a protomap.yaml file from the given path.
// If the path is a directory, it looks for protomap.yaml or protomap.yml in that directory.
// Relative descriptor paths are resolved against the directory of the file.
func Load(path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat path: %w", err)
	}

	configPath := path
	if info.IsDir() {
		configPath, err = find(path)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	base := filepath.Dir(configPath)
	for i, d := range cfg.Descriptors {
		if d != "" && !filepath.IsAbs(d) {
			cfg.Descriptors[i] = filepath.Join(base, d)
		}
	}
	return cfg, nil
}

// Parse decodes and validates configuration data.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func find(dir string) (string, error) {
	for _, name := range []string{FileName, AltFileName} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("no %s or %s found in %s", FileName, AltFileName, dir)
}
