package util

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"google.golang.org/protobuf/reflect/protoreflect"
	"gopkg.in/yaml.v3"

	"github.com/zero-day-ai/protomap"
	"github.com/zero-day-ai/protomap/config"
	"github.com/zero-day-ai/protomap/registry"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+len(word) > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}
		currentLine.WriteString(word)
		lineWidth += len(word)
	}

	// Add any remaining text
	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}
	return strings.Join(wrappedLines, "\n")
}

// InitConfig loads .env files and makes v read PROTOMAP_* environment variables
func InitConfig(v *viper.Viper) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	v.SetEnvPrefix("protomap")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

// BindCommandFlags binds the flags of cmd, inherited ones included, to v
func BindCommandFlags(v *viper.Viper, cmd *cobra.Command) error {
	return v.BindPFlags(cmd.Flags())
}

// Settings keys the --output flag of a command is bound to. Each has its own
// environment variable (PROTOMAP_MAPPING_FORMAT, PROTOMAP_MESSAGE_FORMAT).
const (
	MappingFormatKey = "mapping-format"
	MessageFormatKey = "message-format"
)

// BindOutputFlag binds the --output flag of cmd to the settings key
func BindOutputFlag(v *viper.Viper, cmd *cobra.Command, key string) error {
	return v.BindPFlag(key, cmd.Flags().Lookup("output"))
}

// LoadConfig reads the --config file, if any, and applies every flag or
// environment variable that was set on top of it
func LoadConfig(v *viper.Viper) (*config.Config, error) {
	cfg := &config.Config{}
	if path := v.GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if v.IsSet("descriptors") {
		cfg.Descriptors = v.GetStringSlice("descriptors")
	}
	if v.IsSet("message") {
		cfg.Message = v.GetString("message")
	}

	if cfg.Encode == nil {
		cfg.Encode = &config.EncodeConfig{}
	}
	if v.IsSet("enum-labels") {
		cfg.Encode.EnumLabels = v.GetBool("enum-labels")
	}
	if v.IsSet("defaults") {
		cfg.Encode.IncludeDefaults = v.GetBool("defaults")
	}

	if cfg.Decode == nil {
		cfg.Decode = &config.DecodeConfig{}
	}
	if v.IsSet("strict") {
		strict := v.GetBool("strict")
		cfg.Decode.Strict = &strict
	}

	if v.IsSet("max-depth") {
		cfg.Encode.MaxDepth = v.GetInt("max-depth")
		cfg.Decode.MaxDepth = v.GetInt("max-depth")
	}

	if cfg.Output == nil {
		cfg.Output = &config.OutputConfig{}
	}
	if v.IsSet(MappingFormatKey) {
		cfg.Output.MappingFormat = v.GetString(MappingFormatKey)
	}
	if v.IsSet(MessageFormatKey) {
		cfg.Output.MessageFormat = v.GetString(MessageFormatKey)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return cfg, nil
}

// NewLogger returns a text logger writing to w, at debug level with --verbose
func NewLogger(v *viper.Viper, w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if v.GetBool("verbose") {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// LoadMessageType loads the configured descriptor sets and resolves the
// configured message
func LoadMessageType(cfg *config.Config) (*registry.Registry, protoreflect.MessageType, error) {
	if len(cfg.Descriptors) == 0 {
		return nil, nil, fmt.Errorf("no descriptor sets given (use --descriptors or the config file)")
	}
	if cfg.Message == "" {
		return nil, nil, fmt.Errorf("no message type given (use --message or the config file)")
	}

	reg, err := registry.Load(cfg.Descriptors...)
	if err != nil {
		return nil, nil, err
	}
	mt, err := reg.FindMessage(cfg.Message)
	if err != nil {
		return nil, nil, err
	}
	return reg, mt, nil
}

// ReadInput reads the file named by args, or stdin when there is none or it is "-"
func ReadInput(cmd *cobra.Command, args []string, logger *slog.Logger) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}

	f, err := os.Open(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer protomap.CloseWithLog(f, logger, args[0])

	return io.ReadAll(f)
}

// WriteMapping writes values to w as JSON or YAML
func WriteMapping(w io.Writer, values map[string]any, format string, indent int) error {
	switch format {
	case config.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", strings.Repeat(" ", indent))
		return enc.Encode(values)
	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(indent)
		if err := enc.Encode(values); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unsupported mapping format %q (json, yaml)", format)
}

// ParseMapping parses JSON or YAML input into a mapping. JSON numbers are
// kept as json.Number so that 64-bit integers are not rounded.
func ParseMapping(data []byte, format string) (map[string]any, error) {
	var values map[string]any
	switch format {
	case config.FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&values); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse JSON input: %w", err)
		}
	case config.FormatYAML:
		if err := yaml.Unmarshal(data, &values); err != nil {
			return nil, fmt.Errorf("failed to parse YAML input: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported mapping format %q (json, yaml)", format)
	}
	return values, nil
}
