package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/proto"

	"github.com/zero-day-ai/protomap"
	"github.com/zero-day-ai/protomap/cmd/util"
	"github.com/zero-day-ai/protomap/config"
)

func newDecodeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode [file]",
		Short: "Convert a JSON or YAML mapping to a protobuf message",
		Long: `Reads a mapping from file, or stdin, and writes the message it describes.

Enum fields accept names or numbers. Bytes fields are read from text.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(cmd, v, args)
		},
	}

	key := "input-format"
	cmd.Flags().String(key, config.FormatJSON, util.WrapString("format of the input mapping (json, yaml)"))
	key = "strict"
	cmd.Flags().Bool(key, true, util.WrapString("fail on keys that name no field; --strict=false skips them"))
	key = "max-depth"
	cmd.Flags().Int(key, protomap.DefaultMaxDepth, util.WrapString("maximum mapping nesting depth"))
	key = "output"
	cmd.Flags().StringP(key, "o", config.FormatBinary, util.WrapString("output format (binary, json, text)"))

	return cmd
}

func runDecode(cmd *cobra.Command, v *viper.Viper, args []string) error {
	if err := util.BindOutputFlag(v, cmd, util.MessageFormatKey); err != nil {
		return err
	}
	cfg, err := util.LoadConfig(v)
	if err != nil {
		return err
	}
	logger := util.NewLogger(v, cmd.ErrOrStderr())

	reg, mt, err := util.LoadMessageType(cfg)
	if err != nil {
		return err
	}

	data, err := util.ReadInput(cmd, args, logger)
	if err != nil {
		return err
	}

	values, err := util.ParseMapping(data, v.GetString("input-format"))
	if err != nil {
		return err
	}

	opts := append(cfg.DecodeOptions(),
		protomap.WithExtensionResolver(reg.Types()),
		protomap.WithDecodeLogger(logger))
	msg, err := protomap.NewFromMap(mt, values, opts...)
	if err != nil {
		return err
	}

	indent := strings.Repeat(" ", cfg.Output.GetIndent())
	var out []byte
	switch format := cfg.Output.GetMessageFormat(); format {
	case config.FormatBinary:
		out, err = proto.MarshalOptions{Deterministic: true}.Marshal(msg)
	case config.FormatJSON:
		out, err = protojson.MarshalOptions{Multiline: true, Indent: indent, Resolver: reg.Types()}.Marshal(msg)
	case config.FormatText:
		out, err = prototext.MarshalOptions{Multiline: true, Indent: indent, Resolver: reg.Types()}.Marshal(msg)
	default:
		return fmt.Errorf("unsupported output format %q (binary, json, text)", format)
	}
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", cfg.Message, err)
	}

	if _, err := cmd.OutOrStdout().Write(out); err != nil {
		return err
	}
	if cfg.Output.GetMessageFormat() != config.FormatBinary {
		fmt.Fprintln(cmd.OutOrStdout())
	}
	return nil
}
