package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/proto"

	"github.com/zero-day-ai/protomap"
	"github.com/zero-day-ai/protomap/cmd/util"
	"github.com/zero-day-ai/protomap/config"
)

func newEncodeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode [file]",
		Short: "Convert a protobuf message to a JSON or YAML mapping",
		Long: `Reads a message from file, or stdin, and writes it as a mapping.

Extension fields are written under the "___X" key, keyed by field number.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEncode(cmd, v, args)
		},
	}

	key := "input-format"
	cmd.Flags().String(key, config.FormatBinary, util.WrapString("format of the input message (binary, json, text)"))
	key = "enum-labels"
	cmd.Flags().Bool(key, false, util.WrapString("write enum values as names instead of numbers"))
	key = "defaults"
	cmd.Flags().Bool(key, false, util.WrapString("write every declared field, including unset ones"))
	key = "max-depth"
	cmd.Flags().Int(key, protomap.DefaultMaxDepth, util.WrapString("maximum message nesting depth"))
	key = "output"
	cmd.Flags().StringP(key, "o", config.FormatJSON, util.WrapString("output format (json, yaml)"))

	return cmd
}

func runEncode(cmd *cobra.Command, v *viper.Viper, args []string) error {
	if err := util.BindOutputFlag(v, cmd, util.MappingFormatKey); err != nil {
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

	msg := mt.New().Interface()
	switch format := v.GetString("input-format"); format {
	case config.FormatBinary:
		err = proto.UnmarshalOptions{Resolver: reg.Types()}.Unmarshal(data, msg)
	case config.FormatJSON:
		err = protojson.UnmarshalOptions{Resolver: reg.Types()}.Unmarshal(data, msg)
	case config.FormatText:
		err = prototext.UnmarshalOptions{Resolver: reg.Types()}.Unmarshal(data, msg)
	default:
		return fmt.Errorf("unsupported input format %q (binary, json, text)", format)
	}
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", cfg.Message, err)
	}

	opts := append(cfg.EncodeOptions(), protomap.WithEncodeLogger(logger))
	values, err := protomap.ToMap(msg, opts...)
	if err != nil {
		return err
	}

	logger.Debug("encoded message", "message", cfg.Message, "keys", len(values))
	return util.WriteMapping(cmd.OutOrStdout(), values, cfg.Output.GetMappingFormat(), cfg.Output.GetIndent())
}
